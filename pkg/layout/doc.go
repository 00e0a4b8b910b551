// Package layout normalizes, encodes and resolves widget layout data before
// it crosses the native bridge.
//
// # Overview
//
// Widgets are positioned by a small constraint language: each side of a
// widget (left, right, top, bottom), its center lines (centerX, centerY),
// its size (width, height) and its text baseline can be attached to the
// parent or to a sibling. Application code writes these constraints in a
// human-friendly form:
//
//	{left: 10, top: "#title 8", right: "30% -5", baseline: "prev()"}
//
// The native side understands only numbers and (reference, offset) pairs in
// which the reference is a percentage or a numeric widget id. This package
// performs that translation in three steps:
//
//  1. [CheckConsistency] removes attributes that are overridden by other
//     attributes (for example width when both left and right are set) and
//     reports each conflict as a warning.
//  2. [Encode] validates every attribute and converts it to the canonical
//     [Data] form, a map of [Value] variants. Malformed input aborts the
//     whole operation with a *errors.ValidationError.
//  3. [Resolve] replaces symbolic anchors with sibling ids, looked up at the
//     moment the layout is flushed, and yields [Resolved] primitives.
//
// [Decode] is the inverse of [Encode] for display and debugging.
//
// # Values
//
// [Value] is a closed set of variants:
//
//   - [Number]: an absolute offset in pixels
//   - [PercentOffset]: a percentage of the parent plus an offset
//   - [AnchorOffset]: a sibling reference plus an offset
//   - [Anchor]: a bare sibling reference (baseline)
//
// A bare number on the wire always means pixels, so edge attributes keep
// percentages and anchors in pair form even when the offset is zero. A zero
// percentage collapses to its offset.
//
// # String Grammar
//
// [ParseString] implements the string forms accepted for edge attributes:
//
//	"30%"        percentage
//	"30% -5"     percentage with offset
//	"#title"     selector
//	"#title 8"   selector with offset
//	"prev()"     the previous sibling
//
// A string is a percentage only if it matches the numeric pattern exactly;
// "#23%" and "Foo%" are selectors.
//
// # Flushing
//
// Layout changes are applied in two phases. Setting layout data stores the
// encoded form and adds the widget to a [Queue]; the queue asks its
// [Scheduler] for a single flush per cycle, during which every queued
// widget is resolved and dispatched once. Hosts plug in their own frame or
// microtask boundary by implementing [Scheduler]; tests use
// [ManualScheduler].
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. Layout work happens on
// the UI thread that owns the widget tree.
package layout
