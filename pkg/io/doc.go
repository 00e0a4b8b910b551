// Package io reads layout documents and writes layout data as JSON.
//
// # Documents
//
// A document is either a bare attribute bag or a scene. Both can be
// written as JSON or TOML; the format is chosen by file extension.
//
// An attribute bag is the layoutData object an application would pass to a
// widget:
//
//	{"left": "30%", "top": ["#title", 8], "right": "prev() -4"}
//
// A scene describes a widget tree so that layout references have siblings
// to resolve against:
//
//	{
//	  "widgets": [
//	    {"type": "Composite", "children": [
//	      {"type": "Label", "id": "title"},
//	      {"type": "Button", "id": "ok", "layoutData": {"left": "#title 8"}}
//	    ]}
//	  ]
//	}
//
// The same scene in TOML:
//
//	[[widgets]]
//	type = "Composite"
//
//	  [[widgets.children]]
//	  type = "Label"
//	  id = "title"
//
//	  [[widgets.children]]
//	  type = "Button"
//	  id = "ok"
//	  layoutData = { left = "#title 8" }
//
// # Output
//
// [Canonical] gives encoded layout data its wire shape: numbers,
// [percent, offset] and [reference, offset] pairs, and bare references,
// with widget references written as ids. [WriteJSON] writes any value as
// indented JSON.
package io
