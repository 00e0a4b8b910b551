package widget

import "slices"

// Registry maps widget ids to widgets and records the widget tree.
//
// Children are kept in document order: the order in which they were
// attached to their parent.
type Registry struct {
	widgets  map[int64]*Widget
	order    []int64
	parent   map[int64]int64
	children map[int64][]int64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Add registers w as a root widget.
func (r *Registry) Add(w *Widget) {
	if _, ok := r.widgets[w.cid]; ok {
		return
	}
	r.widgets[w.cid] = w
	r.order = append(r.order, w.cid)
}

// Lookup returns the widget with the given id.
func (r *Registry) Lookup(id int64) (*Widget, bool) {
	w, ok := r.widgets[id]
	return w, ok
}

// SetParent moves the widget with id under parent, appending it after the
// parent's existing children. A zero parent detaches the widget.
func (r *Registry) SetParent(id, parent int64) {
	r.detach(id)
	if parent == 0 {
		return
	}
	r.parent[id] = parent
	r.children[parent] = append(r.children[parent], id)
}

func (r *Registry) detach(id int64) {
	p, ok := r.parent[id]
	if !ok {
		return
	}
	delete(r.parent, id)
	r.children[p] = slices.DeleteFunc(r.children[p], func(c int64) bool { return c == id })
	if len(r.children[p]) == 0 {
		delete(r.children, p)
	}
}

// Parent returns the parent of the widget with id, or nil.
func (r *Registry) Parent(id int64) *Widget {
	p, ok := r.parent[id]
	if !ok {
		return nil
	}
	return r.widgets[p]
}

// Children returns the children of the widget with id in document order.
func (r *Registry) Children(id int64) []*Widget {
	ids := r.children[id]
	out := make([]*Widget, 0, len(ids))
	for _, c := range ids {
		if w, ok := r.widgets[c]; ok {
			out = append(out, w)
		}
	}
	return out
}

// Roots returns the widgets without a parent in creation order.
func (r *Registry) Roots() []*Widget {
	var out []*Widget
	for _, id := range r.order {
		if _, ok := r.parent[id]; !ok {
			out = append(out, r.widgets[id])
		}
	}
	return out
}

// Remove unregisters the widget with id and detaches it from its parent.
// Its children keep their own registration.
func (r *Registry) Remove(id int64) {
	if _, ok := r.widgets[id]; !ok {
		return
	}
	r.detach(id)
	for _, c := range r.children[id] {
		delete(r.parent, c)
	}
	delete(r.children, id)
	delete(r.widgets, id)
	r.order = slices.DeleteFunc(r.order, func(o int64) bool { return o == id })
}

// Len returns the number of registered widgets.
func (r *Registry) Len() int {
	return len(r.widgets)
}

// Walk calls fn for every widget in creation order until fn returns false.
func (r *Registry) Walk(fn func(*Widget) bool) {
	for _, id := range slices.Clone(r.order) {
		w, ok := r.widgets[id]
		if !ok {
			continue
		}
		if !fn(w) {
			return
		}
	}
}

// Reset forgets every widget.
func (r *Registry) Reset() {
	r.widgets = make(map[int64]*Widget)
	r.order = nil
	r.parent = make(map[int64]int64)
	r.children = make(map[int64][]int64)
}
