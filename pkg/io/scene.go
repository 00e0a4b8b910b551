package io

import (
	"fmt"
	"io"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/errors"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

// Scene is a widget tree read from a document.
type Scene struct {
	Widgets []Node `json:"widgets" toml:"widgets"`
}

// Node is one widget of a scene.
type Node struct {
	Type       string         `json:"type" toml:"type"`
	ID         string         `json:"id,omitempty" toml:"id"`
	Props      map[string]any `json:"props,omitempty" toml:"props"`
	LayoutData map[string]any `json:"layoutData,omitempty" toml:"layoutData"`
	Children   []Node         `json:"children,omitempty" toml:"children"`
}

// ReadScene decodes a scene.
func ReadScene(r io.Reader, f Format) (*Scene, error) {
	var s Scene
	if err := decode(r, f, &s); err != nil {
		return nil, err
	}
	if len(s.Widgets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scene has no widgets")
	}
	return &s, nil
}

// Build creates the scene's widgets on c in document order and returns
// them indexed by their ids. Widgets without an id are created but not
// indexed.
func (s *Scene) Build(c *widget.Client) (map[string]*widget.Widget, error) {
	byID := make(map[string]*widget.Widget)
	for _, n := range s.Widgets {
		if err := n.build(c, nil, byID); err != nil {
			return nil, err
		}
	}
	return byID, nil
}

func (n Node) build(c *widget.Client, parent *widget.Widget, byID map[string]*widget.Widget) error {
	props := make(bridge.Properties, len(n.Props)+3)
	for k, v := range n.Props {
		props[k] = v
	}
	if n.ID != "" {
		if _, dup := byID[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate widget id %q", n.ID)
		}
		props["id"] = n.ID
	}
	if n.LayoutData != nil {
		props["layoutData"] = n.LayoutData
	}
	if parent != nil {
		props["parent"] = parent
	}

	w, err := c.Create(n.Type, props)
	if err != nil {
		return fmt.Errorf("create %s: %w", n.label(), err)
	}
	if n.ID != "" {
		byID[n.ID] = w
	}
	for _, child := range n.Children {
		if err := child.build(c, w, byID); err != nil {
			return err
		}
	}
	return nil
}

func (n Node) label() string {
	if n.ID != "" {
		return n.Type + "#" + n.ID
	}
	return n.Type
}
