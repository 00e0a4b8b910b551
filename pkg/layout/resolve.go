package layout

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/tabbridge/pkg/observability"
)

// Primitive is a resolved layout value: a bare number, or a pair whose
// first element is a percentage or a widget id.
type Primitive struct {
	First  float64
	Offset float64
	Pair   bool
}

// Scalar returns a bare primitive.
func Scalar(n float64) Primitive {
	return Primitive{First: n}
}

// Pair returns a (first, offset) primitive.
func Pair(first, offset float64) Primitive {
	return Primitive{First: first, Offset: offset, Pair: true}
}

// Interface returns p as float64 or []any{float64, float64}, the shapes
// the bridge accepts.
func (p Primitive) Interface() any {
	if p.Pair {
		return []any{p.First, p.Offset}
	}
	return p.First
}

// MarshalJSON encodes p as a number or a two element array.
func (p Primitive) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Interface())
}

// String implements fmt.Stringer.
func (p Primitive) String() string {
	if p.Pair {
		return fmt.Sprintf("[%s, %s]", formatNumber(p.First), formatNumber(p.Offset))
	}
	return formatNumber(p.First)
}

// Resolved is layout data ready for the wire.
type Resolved map[Attr]Primitive

// Properties returns r as a plain map for bridge properties.
func (r Resolved) Properties() map[string]any {
	out := make(map[string]any, len(r))
	for attr, p := range r {
		out[string(attr)] = p.Interface()
	}
	return out
}

// MarshalJSON encodes r as an object keyed by attribute name.
func (r Resolved) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Properties())
}

// Resolve replaces every anchor in data with the id of the widget it
// refers to, looked up among the siblings of w:
//
//   - a widget reference resolves to its own id
//   - "prev()" resolves to the sibling before w
//   - "#id" resolves to the first sibling whose id matches
//   - any other selector resolves to the first sibling of that type
//
// References that cannot be resolved (w has no parent, or nothing matches)
// become 0. Numbers and percentages pass through; pair and bare shapes are
// retained. Nothing is cached between calls since siblings change.
func Resolve(data Data, w Widget) Resolved {
	out := make(Resolved, len(data))
	for attr, v := range data {
		switch v := v.(type) {
		case Number:
			out[attr] = Scalar(float64(v))
		case PercentOffset:
			out[attr] = Pair(v.Percent, v.Offset)
		case AnchorOffset:
			out[attr] = Pair(float64(resolveAnchor(attr, v.Anchor, w)), v.Offset)
		case Anchor:
			out[attr] = Scalar(float64(resolveAnchor(attr, v, w)))
		default:
			panic(fmt.Sprintf("layout: unexpected value %T", v))
		}
	}
	return out
}

func resolveAnchor(attr Attr, a Anchor, w Widget) int64 {
	if a.Widget != nil {
		return a.Widget.CID()
	}
	id := findSibling(a.Selector, w)
	if id == 0 {
		observability.Layout().OnUnresolved(string(attr), a.Selector)
	}
	return id
}

func findSibling(selector string, w Widget) int64 {
	if w == nil || isNil(w) {
		return 0
	}
	siblings := w.Siblings()
	if selector == Prev {
		for i, s := range siblings {
			if s.CID() == w.CID() {
				if i > 0 {
					return siblings[i-1].CID()
				}
				break
			}
		}
		return 0
	}
	for _, s := range siblings {
		if Matches(s, selector) {
			return s.CID()
		}
	}
	return 0
}

// Matches reports whether w is selected by selector: "#id" compares the
// widget id, anything else the widget type.
func Matches(w Widget, selector string) bool {
	if id, ok := strings.CutPrefix(selector, "#"); ok {
		return id != "" && w.ID() == id
	}
	return w.Type() == selector
}
