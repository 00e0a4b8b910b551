package layout

// testWidget is a minimal widget living in a testParent's child list.
type testWidget struct {
	cid    int64
	typ    string
	id     string
	parent *testParent
}

func (w *testWidget) CID() int64   { return w.cid }
func (w *testWidget) Type() string { return w.typ }
func (w *testWidget) ID() string   { return w.id }

func (w *testWidget) Siblings() []Widget {
	if w.parent == nil {
		return nil
	}
	out := make([]Widget, len(w.parent.children))
	for i, c := range w.parent.children {
		out[i] = c
	}
	return out
}

type testParent struct {
	children []*testWidget
	next     int64
}

// add appends a child with the given type and id and returns it.
func (p *testParent) add(typ, id string) *testWidget {
	p.next++
	w := &testWidget{cid: p.next, typ: typ, id: id, parent: p}
	p.children = append(p.children, w)
	return w
}
