package widget

import (
	"reflect"
	"testing"
)

func ids(ws []*Widget) []int64 {
	out := make([]int64, len(ws))
	for i, w := range ws {
		out[i] = w.cid
	}
	return out
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	w := func(id int64) *Widget { return &Widget{cid: id} }

	for id := int64(1); id <= 4; id++ {
		r.Add(w(id))
	}
	r.SetParent(2, 1)
	r.SetParent(3, 1)
	r.SetParent(4, 1)

	if got := ids(r.Children(1)); !reflect.DeepEqual(got, []int64{2, 3, 4}) {
		t.Errorf("Children(1) = %v", got)
	}
	if p := r.Parent(3); p == nil || p.cid != 1 {
		t.Errorf("Parent(3) = %v", p)
	}

	r.SetParent(2, 1)
	if got := ids(r.Children(1)); !reflect.DeepEqual(got, []int64{3, 4, 2}) {
		t.Errorf("Children(1) after re-append = %v", got)
	}

	r.SetParent(3, 0)
	if got := ids(r.Roots()); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Errorf("Roots() = %v", got)
	}

	r.Remove(1)
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if r.Parent(4) != nil {
		t.Error("child of removed widget still has a parent")
	}
	if _, ok := r.Lookup(1); ok {
		t.Error("removed widget still registered")
	}

	var walked []int64
	r.Walk(func(w *Widget) bool {
		walked = append(walked, w.cid)
		return w.cid != 3
	})
	if !reflect.DeepEqual(walked, []int64{2, 3}) {
		t.Errorf("Walk visited %v, want [2 3]", walked)
	}

	r.Reset()
	if r.Len() != 0 || len(r.Roots()) != 0 {
		t.Error("Reset left widgets behind")
	}
}
