package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tabbridge/pkg/layout"
)

// Canonical returns data in its JSON wire shape. Widget references are
// written as their ids.
func Canonical(data layout.Data) map[string]any {
	out := make(map[string]any, len(data))
	for attr, v := range data {
		switch v := v.(type) {
		case layout.Number:
			out[string(attr)] = float64(v)
		case layout.PercentOffset:
			out[string(attr)] = []any{v.Percent, v.Offset}
		case layout.AnchorOffset:
			out[string(attr)] = []any{reference(v.Anchor), v.Offset}
		case layout.Anchor:
			out[string(attr)] = reference(v)
		}
	}
	return out
}

func reference(a layout.Anchor) any {
	if a.Widget != nil {
		return a.Widget.CID()
	}
	return a.Selector
}

// Display returns decoded layout attributes with widget handles replaced
// by their ids, ready for JSON.
func Display(attrs layout.Attrs) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		switch v := v.(type) {
		case layout.Widget:
			out[k] = v.CID()
		case []any:
			list := make([]any, len(v))
			for i, e := range v {
				if w, ok := e.(layout.Widget); ok {
					e = w.CID()
				}
				list[i] = e
			}
			out[k] = list
		default:
			out[k] = v
		}
	}
	return out
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes v to a JSON file at path.
func ExportJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, v)
}
