package layout

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/matzehuels/tabbridge/pkg/observability"
)

func TestResolve(t *testing.T) {
	var p testParent
	first := p.add("Composite", "")
	label := p.add("Label", "label")
	foo := p.add("Button", "foo")
	pct := p.add("Foo%", "23%")
	w := p.add("Composite", "self")

	tests := []struct {
		name string
		data Data
		want Resolved
	}{
		{
			name: "numbers and percentages pass through",
			data: Data{Left: Number(23), Top: PercentOffset{Percent: 30, Offset: 5}},
			want: Resolved{Left: Scalar(23), Top: Pair(30, 5)},
		},
		{
			name: "widget reference",
			data: Data{Left: AnchorOffset{Anchor: Anchor{Widget: label}, Offset: 8}},
			want: Resolved{Left: Pair(float64(label.CID()), 8)},
		},
		{
			name: "id selector",
			data: Data{Left: AnchorOffset{Anchor: Anchor{Selector: "#foo"}, Offset: 5}},
			want: Resolved{Left: Pair(float64(foo.CID()), 5)},
		},
		{
			name: "type selector takes first match",
			data: Data{Top: AnchorOffset{Anchor: Anchor{Selector: "Composite"}}},
			want: Resolved{Top: Pair(float64(first.CID()), 0)},
		},
		{
			name: "prev",
			data: Data{Top: AnchorOffset{Anchor: Anchor{Selector: Prev}, Offset: 10}},
			want: Resolved{Top: Pair(float64(pct.CID()), 10)},
		},
		{
			name: "percent-like selectors",
			data: Data{
				Left:  AnchorOffset{Anchor: Anchor{Selector: "Foo%"}},
				Right: AnchorOffset{Anchor: Anchor{Selector: "#23%"}},
			},
			want: Resolved{Left: Pair(float64(pct.CID()), 0), Right: Pair(float64(pct.CID()), 0)},
		},
		{
			name: "unresolved selector",
			data: Data{Left: AnchorOffset{Anchor: Anchor{Selector: "#missing"}, Offset: 3}},
			want: Resolved{Left: Pair(0, 3)},
		},
		{
			name: "baseline keeps bare shape",
			data: Data{Baseline: Anchor{Selector: "#label"}},
			want: Resolved{Baseline: Scalar(float64(label.CID()))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.data, w)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolvePrevOfFirstChild(t *testing.T) {
	var p testParent
	first := p.add("Composite", "")
	p.add("Label", "")

	got := Resolve(Data{Top: AnchorOffset{Anchor: Anchor{Selector: Prev}}}, first)
	if want := (Resolved{Top: Pair(0, 0)}); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveWithoutParent(t *testing.T) {
	orphan := &testWidget{cid: 7, typ: "Composite"}
	data := Data{
		Left:  AnchorOffset{Anchor: Anchor{Selector: "#foo"}, Offset: 5},
		Top:   AnchorOffset{Anchor: Anchor{Selector: Prev}},
		Right: Number(4),
	}

	got := Resolve(data, orphan)
	want := Resolved{Left: Pair(0, 5), Top: Pair(0, 0), Right: Scalar(4)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}

	if got := Resolve(data, nil); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(nil widget) = %v, want %v", got, want)
	}
}

func TestResolveSeesCurrentSiblings(t *testing.T) {
	var p testParent
	w := p.add("Composite", "")
	data := Data{Left: AnchorOffset{Anchor: Anchor{Selector: "#late"}}}

	if got := Resolve(data, w)[Left]; got != Pair(0, 0) {
		t.Errorf("before append: %v, want [0, 0]", got)
	}

	late := p.add("Label", "late")
	if got := Resolve(data, w)[Left]; got != Pair(float64(late.CID()), 0) {
		t.Errorf("after append: %v, want [%d, 0]", got, late.CID())
	}
}

type unresolvedHooks struct {
	observability.NoopLayoutHooks
	selectors []string
}

func (h *unresolvedHooks) OnUnresolved(attr, selector string) {
	h.selectors = append(h.selectors, attr+"="+selector)
}

func TestResolveReportsUnresolved(t *testing.T) {
	hooks := &unresolvedHooks{}
	observability.SetLayoutHooks(hooks)
	defer observability.Reset()

	var p testParent
	w := p.add("Composite", "")
	Resolve(Data{Left: AnchorOffset{Anchor: Anchor{Selector: "#nope"}}}, w)

	if want := []string{"left=#nope"}; !reflect.DeepEqual(hooks.selectors, want) {
		t.Errorf("unresolved = %q, want %q", hooks.selectors, want)
	}
}

func TestResolvedJSON(t *testing.T) {
	r := Resolved{Left: Pair(3, 5), Width: Scalar(100)}

	got, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"left":[3,5],"width":100}`; string(got) != want {
		t.Errorf("json = %s, want %s", got, want)
	}
}

func TestMatches(t *testing.T) {
	w := &testWidget{typ: "Button", id: "ok"}

	tests := []struct {
		selector string
		want     bool
	}{
		{"#ok", true},
		{"#other", false},
		{"Button", true},
		{"Label", false},
		{"#", false},
		{"ok", false},
	}

	for _, tt := range tests {
		if got := Matches(w, tt.selector); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.selector, got, tt.want)
		}
	}
}

func TestResolveConverted(t *testing.T) {
	var p testParent
	other := p.add("Button", "other")
	w := p.add("Composite", "self")

	data := Convert(Attrs{
		"centerY":  other,
		"left":     []any{other, 42},
		"baseline": "#other",
		"right":    []any{"prev()", -4},
		"top":      []any{30, 5},
		"width":    10,
		"height":   "#other 8",
		"centerX":  "30%",
		"bottom":   map[string]any{"x": 1},
		"foo":      1,
	})
	got := Resolve(data, w)

	cid := float64(other.CID())
	want := Resolved{
		CenterY:  Scalar(cid),
		Left:     Pair(cid, 42),
		Baseline: Scalar(cid),
		Right:    Pair(cid, -4),
		Top:      Pair(30, 5),
		Width:    Scalar(10),
		Height:   Pair(cid, 8),
		CenterX:  Pair(30, 0),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(Convert()) = %v, want %v", got, want)
	}
}
