package widget

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/errors"
	"github.com/matzehuels/tabbridge/pkg/layout"
)

const (
	propLayoutData = "layoutData"
	propParent     = "parent"
	propID         = "id"
)

// Listener receives the properties of a native event.
type Listener func(props bridge.Properties)

// Widget is a proxy for one native widget.
//
// Widget implements layout.Widget, so layout references can name it
// directly, and layout.Flusher, so it can sit in the client's flush queue.
type Widget struct {
	client    *Client
	cid       int64
	typ       string
	id        string
	layout    layout.Data
	listeners map[string][]Listener
	disposed  bool
}

// CID returns the widget's numeric id.
func (w *Widget) CID() int64 { return w.cid }

// ID returns the id assigned through the "id" property.
func (w *Widget) ID() string { return w.id }

// FullType returns the namespaced type sent to the native side,
// e.g. "rwt.widgets.Button".
func (w *Widget) FullType() string { return w.typ }

// Type returns the type name without its namespace, e.g. "Button". Type
// selectors in layout data are matched against it.
func (w *Widget) Type() string {
	if i := strings.LastIndexByte(w.typ, '.'); i >= 0 {
		return w.typ[i+1:]
	}
	return w.typ
}

// Siblings returns the children of the widget's parent, the widget
// included, or nil for a root widget.
func (w *Widget) Siblings() []layout.Widget {
	p := w.client.registry.Parent(w.cid)
	if p == nil {
		return nil
	}
	children := w.client.registry.Children(p.cid)
	out := make([]layout.Widget, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out
}

// Parent returns the widget's parent, or nil.
func (w *Widget) Parent() *Widget {
	return w.client.registry.Parent(w.cid)
}

// Children returns the widget's children in document order.
func (w *Widget) Children() []*Widget {
	return w.client.registry.Children(w.cid)
}

// Disposed reports whether Dispose has been called.
func (w *Widget) Disposed() bool { return w.disposed }

// Layout returns a copy of the widget's canonical layout data, or nil if
// none was set.
func (w *Widget) Layout() layout.Data {
	return w.layout.Clone()
}

// ResolvedLayout resolves the widget's layout against its current
// siblings.
func (w *Widget) ResolvedLayout() layout.Resolved {
	return layout.Resolve(w.layout, w)
}

// String returns "Type#cid" for log output.
func (w *Widget) String() string {
	return fmt.Sprintf("%s#%d", w.Type(), w.cid)
}

func (w *Widget) checkLive() error {
	if w.disposed {
		return errors.New(errors.ErrCodeDisposed, "widget %s is disposed", w)
	}
	return nil
}

// FlushLayout resolves the widget's layout and sends it with a set
// operation. Disposed widgets are skipped.
func (w *Widget) FlushLayout() error {
	if w.disposed || w.layout == nil {
		return nil
	}
	props := bridge.Properties{propLayoutData: w.ResolvedLayout().Properties()}
	if err := w.client.bridge.Set(w.cid, props); err != nil {
		return fmt.Errorf("flush layout of %s: %w", w, err)
	}
	return nil
}

// Set sets a single property. See SetProps.
func (w *Widget) Set(name string, value any) error {
	return w.SetProps(bridge.Properties{name: value})
}

// SetProps sets several properties at once.
//
// layoutData is checked for conflicting attributes, encoded and queued;
// it reaches the native side with the next layout flush. All other
// properties are sent immediately in one set operation, with widget
// handles replaced by their ids. Invalid layout data leaves the widget
// unchanged.
func (w *Widget) SetProps(props bridge.Properties) error {
	if err := w.checkLive(); err != nil {
		return err
	}
	wire, u, err := w.translate(props)
	if err != nil {
		return err
	}

	if u.setID {
		w.id = u.id
	}
	if u.setParent {
		w.reparent(u.parent)
	}
	if u.setLayout {
		w.layout = u.layout
		w.client.queue.Add(w)
	}
	if len(wire) == 0 {
		return nil
	}
	return w.client.bridge.Set(w.cid, wire)
}

// reparent moves w under parent and queues every widget whose sibling set
// changed.
func (w *Widget) reparent(parent int64) {
	reg := w.client.registry
	if old := reg.Parent(w.cid); old != nil {
		defer w.client.queueChildren(old.cid)
	}
	reg.SetParent(w.cid, parent)
	w.client.queueChildren(parent)
}

// isAncestor reports whether id is an ancestor of the widget cid.
func (c *Client) isAncestor(id, cid int64) bool {
	for p := c.registry.Parent(cid); p != nil; p = c.registry.Parent(p.cid) {
		if p.cid == id {
			return true
		}
	}
	return false
}

func (c *Client) queueChildren(parent int64) {
	for _, child := range c.registry.Children(parent) {
		if child.layout != nil {
			c.queue.Add(child)
		}
	}
}

// Get returns a property value. layoutData is answered locally in its
// decoded form; everything else is read from the native side.
func (w *Widget) Get(name string) (any, error) {
	if err := w.checkLive(); err != nil {
		return nil, err
	}
	if name == propLayoutData {
		if w.layout == nil {
			return nil, nil
		}
		return layout.Decode(w.layout), nil
	}
	return w.client.bridge.Get(w.cid, name)
}

// Call invokes a native method on the widget.
func (w *Widget) Call(method string, params bridge.Properties) (any, error) {
	if err := w.checkLive(); err != nil {
		return nil, err
	}
	wire := make(bridge.Properties, len(params))
	for k, v := range params {
		wire[k] = toWire(v)
	}
	return w.client.bridge.Call(w.cid, method, wire)
}

// On adds a listener for event. The first listener of an event enables it
// on the native side.
func (w *Widget) On(event string, fn Listener) error {
	if err := w.checkLive(); err != nil {
		return err
	}
	if def, ok := w.client.types[w.typ]; ok && def.Events != nil && !slices.Contains(def.Events, event) {
		return errors.New(errors.ErrCodeUnsupported, "%s does not support event %q", w.Type(), event)
	}
	first := len(w.listeners[event]) == 0
	w.listeners[event] = append(w.listeners[event], fn)
	if !first {
		return nil
	}
	return w.client.bridge.Listen(w.cid, event, true)
}

// Off removes every listener for event and disables it on the native side.
func (w *Widget) Off(event string) error {
	if err := w.checkLive(); err != nil {
		return err
	}
	if len(w.listeners[event]) == 0 {
		return nil
	}
	delete(w.listeners, event)
	return w.client.bridge.Listen(w.cid, event, false)
}

// Listening reports whether the widget has listeners for event.
func (w *Widget) Listening(event string) bool {
	return len(w.listeners[event]) > 0
}

// Trigger calls the listeners for event in registration order and returns
// how many ran.
func (w *Widget) Trigger(event string, props bridge.Properties) int {
	if w.disposed {
		return 0
	}
	listeners := slices.Clone(w.listeners[event])
	for _, fn := range listeners {
		fn(props)
	}
	return len(listeners)
}

// Append creates a widget of the given type as the last child of w.
func (w *Widget) Append(typ string, props bridge.Properties) (*Widget, error) {
	if err := w.checkLive(); err != nil {
		return nil, err
	}
	merged := props.Clone()
	if merged == nil {
		merged = bridge.Properties{}
	}
	merged[propParent] = w
	return w.client.Create(typ, merged)
}

// AppendTo moves w to the end of parent's children.
func (w *Widget) AppendTo(parent *Widget) error {
	return w.Set(propParent, parent)
}

// Dispose destroys the widget and its children. Children are disposed
// first. Further operations on a disposed widget fail with
// errors.ErrCodeDisposed; disposing twice is a no-op.
func (w *Widget) Dispose() error {
	if w.disposed {
		return nil
	}
	var errs []error
	for _, child := range w.Children() {
		if err := child.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}

	c := w.client
	parent := c.registry.Parent(w.cid)
	c.queue.Remove(w)
	if err := c.bridge.Destroy(w.cid); err != nil {
		errs = append(errs, err)
	}
	c.registry.Remove(w.cid)
	w.disposed = true
	w.listeners = make(map[string][]Listener)
	if parent != nil {
		c.queueChildren(parent.cid)
	}
	return stderrors.Join(errs...)
}

// update is the widget state change carried by a property bag.
type update struct {
	layout    layout.Data
	setLayout bool
	parent    int64
	setParent bool
	id        string
	setID     bool
}

// translate validates props and splits them into the properties sent on
// the wire and the local state they change. It does not modify w.
func (w *Widget) translate(props bridge.Properties) (bridge.Properties, update, error) {
	var u update
	wire := make(bridge.Properties, len(props))

	for name, value := range props {
		if err := errors.ValidatePropertyName(name); err != nil {
			return nil, u, err
		}
		switch name {
		case propLayoutData:
			attrs, err := toAttrs(value)
			if err != nil {
				return nil, u, err
			}
			data, err := layout.Normalize(attrs, w.warn)
			if err != nil {
				return nil, u, err
			}
			u.layout, u.setLayout = data, true
		case propParent:
			parent, err := w.client.parentID(value)
			if err != nil {
				return nil, u, err
			}
			if parent == w.cid {
				return nil, u, errors.New(errors.ErrCodeInvalidProperty, "widget %s cannot be its own parent", w)
			}
			if w.client.isAncestor(w.cid, parent) {
				return nil, u, errors.New(errors.ErrCodeInvalidProperty, "widget %s cannot be appended to its own descendant", w)
			}
			u.parent, u.setParent = parent, true
			wire[name] = parent
		case propID:
			id, ok := value.(string)
			if !ok && value != nil {
				return nil, u, errors.New(errors.ErrCodeInvalidProperty, "id must be a string, got %T", value)
			}
			u.id, u.setID = id, true
			wire[name] = value
		default:
			wire[name] = toWire(value)
		}
	}
	return wire, u, nil
}

func (w *Widget) warn(msg string) {
	w.client.logger.Warn(msg, "widget", w.cid)
}

// parentID converts a parent property value to a live widget id.
func (c *Client) parentID(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case *Widget:
		if v == nil {
			return 0, nil
		}
		if v.disposed {
			return 0, errors.New(errors.ErrCodeDisposed, "parent %s is disposed", v)
		}
		return v.cid, nil
	}
	id, ok := toID(value)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidProperty, "parent must be a widget, got %T", value)
	}
	if _, found := c.registry.Lookup(id); !found {
		return 0, errors.New(errors.ErrCodeWidgetNotFound, "parent widget %d not found", id)
	}
	return id, nil
}

// toAttrs accepts the map shapes layoutData arrives in.
func toAttrs(value any) (layout.Attrs, error) {
	switch v := value.(type) {
	case nil:
		return layout.Attrs{}, nil
	case layout.Attrs:
		return v, nil
	case map[string]any:
		return layout.Attrs(v), nil
	case bridge.Properties:
		return layout.Attrs(v), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidProperty, "layoutData must be an object, got %T", value)
}

// toWire replaces widget handles with their ids, descending into lists
// and maps.
func toWire(value any) any {
	switch v := value.(type) {
	case *Widget:
		if v == nil {
			return nil
		}
		return v.cid
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = toWire(e)
		}
		return out
	case []*Widget:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = toWire(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = toWire(e)
		}
		return out
	case bridge.Properties:
		out := make(bridge.Properties, len(v))
		for k, e := range v {
			out[k] = toWire(e)
		}
		return out
	}
	return value
}

// toID converts a numeric value to a widget id.
func toID(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}
