package layout

import "fmt"

// Decode converts canonical data back to the human-friendly form accepted
// by [Encode]:
//
//	Number(23)                       -> 23
//	PercentOffset{30, 0}             -> "30%"
//	PercentOffset{30, 10}            -> "30% +10"
//	AnchorOffset{"#foo", 0}          -> "#foo"
//	AnchorOffset{"#foo", -7}         -> "#foo -7"
//	AnchorOffset{widget, 5}          -> []any{widget, 5}
//	Anchor{"#foo"}                   -> "#foo"
//
// A zero percentage renders as its bare offset. The result is a fresh map;
// data is not modified. Encoding the result yields data again.
func Decode(data Data) Attrs {
	out := make(Attrs, len(data))
	for attr, v := range data {
		out[string(attr)] = decodeValue(v)
	}
	return out
}

func decodeValue(v Value) any {
	switch v := v.(type) {
	case Number:
		return float64(v)
	case PercentOffset:
		switch {
		case v.Percent == 0:
			return v.Offset
		case v.Offset == 0:
			return formatNumber(v.Percent) + "%"
		default:
			return formatNumber(v.Percent) + "% " + formatOffset(v.Offset)
		}
	case AnchorOffset:
		ref := decodeAnchor(v.Anchor)
		if v.Offset == 0 {
			return ref
		}
		if sel, ok := ref.(string); ok {
			return sel + " " + formatOffset(v.Offset)
		}
		return []any{ref, v.Offset}
	case Anchor:
		return decodeAnchor(v)
	default:
		panic(fmt.Sprintf("layout: unexpected value %T", v))
	}
}

func decodeAnchor(a Anchor) any {
	if a.Widget != nil {
		return a.Widget
	}
	return a.Selector
}
