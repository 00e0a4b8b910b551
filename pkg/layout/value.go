package layout

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
)

// Attr is a layout attribute name.
type Attr string

// Recognized layout attributes.
const (
	Left     Attr = "left"
	Right    Attr = "right"
	Top      Attr = "top"
	Bottom   Attr = "bottom"
	Width    Attr = "width"
	Height   Attr = "height"
	CenterX  Attr = "centerX"
	CenterY  Attr = "centerY"
	Baseline Attr = "baseline"
)

// AllAttrs lists every recognized attribute in canonical order.
var AllAttrs = []Attr{Left, Right, Top, Bottom, Width, Height, CenterX, CenterY, Baseline}

// Valid reports whether a is a recognized attribute.
func (a Attr) Valid() bool {
	return slices.Contains(AllAttrs, a)
}

// edge reports whether a accepts numbers, percentages and anchors.
func (a Attr) edge() bool {
	return a == Left || a == Right || a == Top || a == Bottom
}

// Widget is the view of a widget that the layout engine needs.
type Widget interface {
	// CID returns the numeric id used on the wire. Zero means "none".
	CID() int64
	// Type returns the widget type name matched by type selectors.
	Type() string
	// ID returns the user assigned id matched by "#id" selectors.
	ID() string
	// Siblings returns the children of the widget's parent in document
	// order, including the widget itself, or nil without a parent.
	Siblings() []Widget
}

// Value is a canonical layout value. It is one of [Number],
// [PercentOffset], [AnchorOffset] or [Anchor].
type Value interface {
	isValue()
}

// Number is an absolute offset in pixels.
type Number float64

// PercentOffset is a percentage of the parent's extent plus an offset.
type PercentOffset struct {
	Percent float64
	Offset  float64
}

// AnchorOffset attaches to a sibling with an offset.
type AnchorOffset struct {
	Anchor Anchor
	Offset float64
}

// Anchor references a sibling, either symbolically through Selector or
// directly through Widget. Exactly one of them is set.
type Anchor struct {
	Selector string
	Widget   Widget
}

func (Number) isValue()        {}
func (PercentOffset) isValue() {}
func (AnchorOffset) isValue()  {}
func (Anchor) isValue()        {}

// Prev is the selector for the previous sibling in document order.
const Prev = "prev()"

// IsWidget reports whether the anchor is a direct widget reference.
func (a Anchor) IsWidget() bool {
	return a.Widget != nil
}

// String returns the selector, or "#<id>" / "<type>" for widget references.
func (a Anchor) String() string {
	if a.Widget == nil {
		return a.Selector
	}
	if id := a.Widget.ID(); id != "" {
		return "#" + id
	}
	return a.Widget.Type()
}

// Data is canonical layout data as produced by [Encode].
type Data map[Attr]Value

// Clone returns a copy of d. Values are immutable, so the copy is deep.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// Keys returns the attributes present in d in canonical order.
func (d Data) Keys() []Attr {
	keys := make([]Attr, 0, len(d))
	for _, a := range AllAttrs {
		if _, ok := d[a]; ok {
			keys = append(keys, a)
		}
	}
	return keys
}

// Attrs is a layout attribute bag as written by application code. Values
// may be numbers, strings, two element lists, widget handles or nil.
type Attrs map[string]any

// Clone returns a copy of a with list values copied as well.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		if list, ok := asList(v); ok {
			v = list
		}
		out[k] = v
	}
	return out
}

// set reports whether key is present with a non-nil value.
func (a Attrs) set(key Attr) bool {
	v, ok := a[string(key)]
	return ok && !isNil(v)
}

// toNumber converts any Go numeric value (and json.Number) to float64.
// NaN and infinities are not numbers here: they cannot go on the wire.
func toNumber(v any) (float64, bool) {
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case Number:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// asList returns the elements of a slice or array value.
func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return slices.Clone(list), true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

// asWidget returns v as a non-nil widget handle.
func asWidget(v any) (Widget, bool) {
	w, ok := v.(Widget)
	if !ok || isNil(w) {
		return nil, false
	}
	return w, true
}

// isNil reports whether v is nil or a typed nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// formatNumber prints f without trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatOffset prints f with an explicit sign.
func formatOffset(f float64) string {
	if f < 0 {
		return formatNumber(f)
	}
	return "+" + formatNumber(f)
}

// String implements fmt.Stringer for debugging output.
func (n Number) String() string { return formatNumber(float64(n)) }

// String implements fmt.Stringer for debugging output.
func (p PercentOffset) String() string {
	return fmt.Sprintf("[%s%%, %s]", formatNumber(p.Percent), formatNumber(p.Offset))
}

// String implements fmt.Stringer for debugging output.
func (a AnchorOffset) String() string {
	return fmt.Sprintf("[%s, %s]", a.Anchor, formatNumber(a.Offset))
}
