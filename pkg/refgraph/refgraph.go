// Package refgraph draws the widget tree and its layout references as a
// Graphviz graph.
//
// Nodes are widgets. Solid grey edges lead from a parent to its children;
// dashed blue edges lead from a widget to the sibling its layout refers
// to, labelled with the attribute. Selectors that resolve to no sibling
// are drawn as red dashed edges into a shared "unresolved" node.
package refgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tabbridge/pkg/layout"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

// Options configures graph output.
type Options struct {
	// Detailed adds the decoded layout data to node labels.
	Detailed bool

	// HideTree omits parent/child edges, leaving only layout references.
	HideTree bool
}

const unresolvedNode = "unresolved"

// Edge is a layout reference from one widget to another.
type Edge struct {
	From     int64
	To       int64 // 0 when the reference did not resolve
	Attr     layout.Attr
	Selector string
}

// References returns the layout references of every widget in reg, in
// creation order and canonical attribute order.
func References(reg *widget.Registry) []Edge {
	var edges []Edge
	reg.Walk(func(w *widget.Widget) bool {
		data := w.Layout()
		resolved := w.ResolvedLayout()
		for _, attr := range data.Keys() {
			var anchor layout.Anchor
			switch v := data[attr].(type) {
			case layout.AnchorOffset:
				anchor = v.Anchor
			case layout.Anchor:
				anchor = v
			default:
				continue
			}
			edges = append(edges, Edge{
				From:     w.CID(),
				To:       int64(resolved[attr].First),
				Attr:     attr,
				Selector: anchor.String(),
			})
		}
		return true
	})
	return edges
}

// ToDOT converts the widgets in reg to Graphviz DOT format.
func ToDOT(reg *widget.Registry, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph widgets {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	reg.Walk(func(w *widget.Widget) bool {
		fmt.Fprintf(&buf, "  %s [label=%q];\n", nodeID(w.CID()), fmtLabel(w, opts.Detailed))
		return true
	})

	if !opts.HideTree {
		buf.WriteString("\n")
		reg.Walk(func(w *widget.Widget) bool {
			for _, c := range w.Children() {
				fmt.Fprintf(&buf, "  %s -> %s [color=grey];\n", nodeID(w.CID()), nodeID(c.CID()))
			}
			return true
		})
	}

	edges := References(reg)
	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	unresolved := false
	for _, e := range edges {
		if e.To == 0 {
			unresolved = true
			fmt.Fprintf(&buf, "  %s -> %s [style=dashed, color=red, label=%q];\n",
				nodeID(e.From), unresolvedNode, string(e.Attr)+" "+e.Selector)
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s [style=dashed, color=blue, constraint=false, label=%q];\n",
			nodeID(e.From), nodeID(e.To), string(e.Attr))
	}
	if unresolved {
		fmt.Fprintf(&buf, "  %s [shape=ellipse, style=dashed, fontcolor=red];\n", unresolvedNode)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int64) string {
	return "w" + strconv.FormatInt(id, 10)
}

func fmtLabel(w *widget.Widget, detailed bool) string {
	label := w.String()
	if id := w.ID(); id != "" {
		label += "\n#" + id
	}
	if !detailed {
		return label
	}
	decoded := layout.Decode(w.Layout())
	var parts []string
	for _, attr := range w.Layout().Keys() {
		parts = append(parts, fmt.Sprintf("%s: %v", attr, decoded[string(attr)]))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales to its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
