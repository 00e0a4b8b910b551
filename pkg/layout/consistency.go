package layout

import "github.com/matzehuels/tabbridge/pkg/observability"

// Warnings emitted by CheckConsistency.
const (
	WarnWidth    = "Inconsistent layoutData: left and right are set, ignore width"
	WarnHeight   = "Inconsistent layoutData: top and bottom are set, ignore height"
	WarnCenterX  = "Inconsistent layoutData: centerX overrides left and right"
	WarnCenterY  = "Inconsistent layoutData: centerY overrides top and bottom"
	WarnBaseline = "Inconsistent layoutData: baseline overrides top, bottom, and centerY"
)

type consistencyRule struct {
	applies func(a Attrs) bool
	drop    []Attr
	warning string
}

// Rules are applied in this order; each runs against the output of the
// previous one.
var consistencyRules = []consistencyRule{
	{
		applies: func(a Attrs) bool { return a.set(Left) && a.set(Right) && a.set(Width) },
		drop:    []Attr{Width},
		warning: WarnWidth,
	},
	{
		applies: func(a Attrs) bool { return a.set(Top) && a.set(Bottom) && a.set(Height) },
		drop:    []Attr{Height},
		warning: WarnHeight,
	},
	{
		applies: func(a Attrs) bool { return a.set(CenterX) && (a.set(Left) || a.set(Right)) },
		drop:    []Attr{Left, Right},
		warning: WarnCenterX,
	},
	{
		applies: func(a Attrs) bool { return a.set(CenterY) && (a.set(Top) || a.set(Bottom)) },
		drop:    []Attr{Top, Bottom},
		warning: WarnCenterY,
	},
	{
		applies: func(a Attrs) bool { return a.set(Baseline) && (a.set(Top) || a.set(Bottom) || a.set(CenterY)) },
		drop:    []Attr{Top, Bottom, CenterY},
		warning: WarnBaseline,
	},
}

// CheckConsistency returns a copy of attrs without the attributes that are
// overridden by others. Each violated rule calls warn once with its message;
// warn may be nil.
//
// The input is never modified. Values are not validated; that is left to
// [Encode]. CheckConsistency is idempotent.
func CheckConsistency(attrs Attrs, warn func(string)) Attrs {
	out := attrs.Clone()
	if out == nil {
		out = Attrs{}
	}
	for _, rule := range consistencyRules {
		if !rule.applies(out) {
			continue
		}
		for _, a := range rule.drop {
			delete(out, string(a))
		}
		observability.Layout().OnConflict(rule.warning)
		if warn != nil {
			warn(rule.warning)
		}
	}
	return out
}
