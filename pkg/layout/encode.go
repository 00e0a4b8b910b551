package layout

import (
	errs "github.com/matzehuels/tabbridge/pkg/errors"
)

// Encode validates attrs and converts it to canonical form.
//
// Nil entries are dropped. The first invalid attribute aborts encoding with
// a *errors.ValidationError naming the attribute; no partial result is
// returned. Keys are checked before values, so an unknown key is reported
// even when another attribute also has an invalid value.
func Encode(attrs Attrs) (Data, error) {
	for key := range attrs {
		if !Attr(key).Valid() {
			return nil, errs.Invalid(key, "Invalid key '%s' in layoutData", key)
		}
	}

	data := make(Data, len(attrs))
	for _, attr := range AllAttrs {
		raw, ok := attrs[string(attr)]
		if !ok || isNil(raw) {
			continue
		}
		v, err := encodeValue(attr, raw)
		if err != nil {
			return nil, err
		}
		data[attr] = v
	}
	return data, nil
}

// Normalize runs [CheckConsistency] followed by [Encode].
func Normalize(attrs Attrs, warn func(string)) (Data, error) {
	return Encode(CheckConsistency(attrs, warn))
}

// Convert turns an attribute bag that is already canonical into Data
// without validating attribute shapes, for callers that only need
// references resolved. Any attribute may hold a widget handle or selector:
// bare ones become an [Anchor] and [anchor, offset] lists an [AnchorOffset].
// Strings with an offset or a percentage are parsed as by [Encode]. Numbers
// and [percent, offset] lists are kept as they are. Unknown keys and values
// of no recognizable shape are dropped.
func Convert(attrs Attrs) Data {
	data := make(Data, len(attrs))
	for key, raw := range attrs {
		attr := Attr(key)
		if !attr.Valid() || isNil(raw) {
			continue
		}
		if v, ok := convertValue(raw); ok {
			data[attr] = v
		}
	}
	return data
}

func convertValue(raw any) (Value, bool) {
	if n, ok := toNumber(raw); ok {
		return Number(n), true
	}
	if str, ok := raw.(string); ok {
		if tok, err := ParseString(str); err == nil && (tok.Offset != 0 || tok.Kind == TokenPercent) {
			return fromToken(tok), true
		}
	}
	if a, ok := convertAnchor(raw); ok {
		return a, true
	}
	list, ok := asList(raw)
	if !ok || len(list) != 2 {
		return nil, false
	}
	offset, ok := toNumber(list[1])
	if !ok {
		return nil, false
	}
	if p, ok := toNumber(list[0]); ok {
		return PercentOffset{Percent: p, Offset: offset}, true
	}
	if a, ok := convertAnchor(list[0]); ok {
		return AnchorOffset{Anchor: a, Offset: offset}, true
	}
	return nil, false
}

func convertAnchor(raw any) (Anchor, bool) {
	if w, ok := asWidget(raw); ok {
		return Anchor{Widget: w}, true
	}
	if s, ok := raw.(string); ok && s != "" {
		return Anchor{Selector: s}, true
	}
	return Anchor{}, false
}

func encodeValue(attr Attr, raw any) (Value, error) {
	switch {
	case attr == Baseline:
		return encodeReference(attr, raw)
	case attr.edge():
		return encodeEdge(attr, raw)
	default:
		n, ok := toNumber(raw)
		if !ok {
			return nil, errs.Invalid(string(attr), "Invalid value for '%s': must be a number", attr)
		}
		return Number(n), nil
	}
}

// encodeReference accepts a bare selector or a widget handle.
func encodeReference(attr Attr, raw any) (Value, error) {
	if w, ok := asWidget(raw); ok {
		return Anchor{Widget: w}, nil
	}
	if s, ok := raw.(string); ok {
		tok, err := ParseString(s)
		if err == nil && tok.Kind == TokenSelector && tok.Offset == 0 {
			return tok.Anchor(), nil
		}
	}
	return nil, errs.Invalid(string(attr), "Invalid value for '%s': must be a widget reference", attr)
}

// encodeEdge accepts numbers, strings, [anchor, offset] lists and widget
// handles.
func encodeEdge(attr Attr, raw any) (Value, error) {
	if n, ok := toNumber(raw); ok {
		return Number(n), nil
	}
	if w, ok := asWidget(raw); ok {
		return AnchorOffset{Anchor: Anchor{Widget: w}}, nil
	}
	if s, ok := raw.(string); ok {
		tok, err := ParseString(s)
		if err != nil {
			return nil, errs.Invalid(string(attr), "Invalid value for '%s': %v", attr, err)
		}
		return fromToken(tok), nil
	}
	if list, ok := asList(raw); ok {
		return encodeList(attr, list)
	}
	return nil, invalidType(attr)
}

func encodeList(attr Attr, list []any) (Value, error) {
	if len(list) != 2 {
		return nil, errs.Invalid(string(attr), "Invalid value for '%s': list length must be 2", attr)
	}
	offset, ok := toNumber(list[1])
	if !ok {
		return nil, invalidType(attr)
	}

	head := list[0]
	if p, ok := toNumber(head); ok {
		return percent(p, offset), nil
	}
	if w, ok := asWidget(head); ok {
		return AnchorOffset{Anchor: Anchor{Widget: w}, Offset: offset}, nil
	}
	if s, ok := head.(string); ok {
		tok, err := ParseString(s)
		if err != nil || tok.Offset != 0 {
			return nil, invalidType(attr)
		}
		tok.Offset = offset
		return fromToken(tok), nil
	}
	return nil, invalidType(attr)
}

func fromToken(tok Token) Value {
	if tok.Kind == TokenPercent {
		return percent(tok.Percent, tok.Offset)
	}
	return AnchorOffset{Anchor: tok.Anchor(), Offset: tok.Offset}
}

// percent collapses a zero percentage to its offset.
func percent(p, offset float64) Value {
	if p == 0 {
		return Number(offset)
	}
	return PercentOffset{Percent: p, Offset: offset}
}

func invalidType(attr Attr) error {
	return errs.Invalid(string(attr), "Invalid value for '%s': invalid type", attr)
}
