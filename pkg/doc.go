// Package pkg provides the libraries of the tabbridge widget toolkit.
//
// # Overview
//
// Tabbridge drives native UI widgets from Go or JavaScript. Widgets live as
// lightweight proxies on the Go side; every change is sent to the native
// side as a bridge operation (create, set, call, listen, destroy). Layout
// is declared per widget as layoutData: edges pinned to percentages of the
// parent or to sibling widgets, sizes, centers and a baseline. The pkg
// directory is organized into four areas:
//
//  1. [layout] - The layout engine (check, encode, decode, resolve, flush)
//  2. [widget] and [bridge] - The widget object model and its transport
//  3. [script] - JavaScript applications on a goja runtime
//  4. [config], [io], [devtools], [refgraph] - Configuration, documents and
//     introspection
//
// # Architecture
//
// The typical data flow of a layout change:
//
//	widget.Set("layoutData", {left: "#title 8", top: 0})
//	         ↓
//	    [layout] CheckConsistency + Encode (canonical form, stored on the proxy)
//	         ↓
//	    [layout] Queue (deduplicated until the host's next flush point)
//	         ↓
//	    [layout] Resolve (selectors → sibling ids, against current siblings)
//	         ↓
//	    [bridge] set(id, {layoutData: {left: [2, 8], top: 0}})
//
// # Quick Start
//
// Create widgets on a recording bridge and flush their layout:
//
//	import (
//	    "github.com/matzehuels/tabbridge/pkg/bridge"
//	    "github.com/matzehuels/tabbridge/pkg/widget"
//	)
//
//	rec := bridge.NewRecorder()
//	c := widget.NewClient(widget.Options{})
//	c.Init(rec)
//
//	parent, _ := c.Create("Composite", nil)
//	parent.Append("Label", bridge.Properties{"id": "title"})
//	parent.Append("Button", bridge.Properties{
//	    "layoutData": map[string]any{"left": "#title 8", "top": 0},
//	})
//	c.Flush()
//
// # Main Packages
//
// [layout] - Layout data values, the string grammar ("30% +5", "#id -8",
// "prev()"), the consistency checker, the encoder and decoder, the reference
// resolver and the flush queue.
//
// [widget] - Client, Widget, Registry and Page: the proxy object model that
// translates property changes into bridge operations.
//
// [bridge] - The Bridge interface with Recorder (in memory), Stream (JSON
// lines) and Multi (fan-out) implementations.
//
// [script] - A goja runtime exposing the global tabris object to scripts.
//
// [config] - TOML configuration for the client, logging and devtools.
//
// [io] - Layout attribute and scene documents in JSON or TOML.
//
// [devtools] - Read-only HTTP view of a client (chi).
//
// [refgraph] - Layout reference graphs as Graphviz DOT and SVG.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for layout and bridge events.
//
// [buildinfo] - Build-time version information.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/layout/...       # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/layout
// [widget]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/widget
// [bridge]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/bridge
// [script]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/script
// [config]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/io
// [devtools]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/devtools
// [refgraph]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/refgraph
// [errors]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/tabbridge/pkg/buildinfo
package pkg
