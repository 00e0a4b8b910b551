package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tabbridge/pkg/errors"
	"github.com/matzehuels/tabbridge/pkg/layout"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf returns the format implied by the extension of path. Anything
// other than .toml is read as JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

func decode(r io.Reader, f Format, v any) error {
	switch f {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
	}
	return nil
}

// ReadAttrs decodes a layout attribute bag. The values are not validated;
// pass the result to layout.Encode or layout.Normalize.
func ReadAttrs(r io.Reader, f Format) (layout.Attrs, error) {
	var attrs map[string]any
	if err := decode(r, f, &attrs); err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = map[string]any{}
	}
	return layout.Attrs(attrs), nil
}

// ParseAttrs decodes a layout attribute bag from a JSON string, as given
// on the command line.
func ParseAttrs(s string) (layout.Attrs, error) {
	return ReadAttrs(bytes.NewReader([]byte(s)), FormatJSON)
}

// ImportAttrs reads the attribute bag stored at path.
func ImportAttrs(path string) (layout.Attrs, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAttrs(f, FormatOf(path))
}

// ImportScene reads the scene stored at path.
func ImportScene(path string) (*Scene, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadScene(f, FormatOf(path))
}

func open(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
