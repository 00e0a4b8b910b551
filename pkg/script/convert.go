package script

import (
	"strconv"

	"github.com/dop251/goja"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/layout"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

// fromJS converts a JavaScript value to Go. Proxies become *widget.Widget,
// arrays []any and plain objects map[string]any.
func (r *Runtime) fromJS(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export()
	}
	if w, ok := r.unwrap(obj); ok {
		return w
	}
	switch obj.ClassName() {
	case "Array":
		n := int(obj.Get("length").ToInteger())
		out := make([]any, n)
		for i := range n {
			out[i] = r.fromJS(obj.Get(strconv.Itoa(i)))
		}
		return out
	case "Object":
		out := make(map[string]any)
		for _, k := range obj.Keys() {
			out[k] = r.fromJS(obj.Get(k))
		}
		return out
	}
	return obj.Export()
}

// props converts a JavaScript object to bridge properties.
func (r *Runtime) props(v goja.Value) bridge.Properties {
	m, _ := r.fromJS(v).(map[string]any)
	if m == nil {
		return nil
	}
	return bridge.Properties(m)
}

// attrs converts a JavaScript object to layout attributes.
func (r *Runtime) attrs(v goja.Value) layout.Attrs {
	m, _ := r.fromJS(v).(map[string]any)
	if m == nil {
		return layout.Attrs{}
	}
	return layout.Attrs(m)
}

// toJS converts a Go value to JavaScript, replacing widgets with proxies.
func (r *Runtime) toJS(v any) goja.Value {
	switch v := v.(type) {
	case nil:
		return goja.Null()
	case *widget.Widget:
		return r.proxy(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = r.toJS(e)
		}
		return r.vm.NewArray(out...)
	case map[string]any:
		return r.object(v)
	case layout.Attrs:
		return r.object(v)
	case bridge.Properties:
		return r.object(v)
	case layout.Resolved:
		return r.object(v.Properties())
	}
	return r.vm.ToValue(v)
}

func (r *Runtime) object(m map[string]any) *goja.Object {
	obj := r.vm.NewObject()
	for k, e := range m {
		obj.Set(k, r.toJS(e))
	}
	return obj
}

// canonical converts encoded layout data to its JavaScript form: numbers,
// [percent, offset] and [reference, offset] arrays, and bare references
// for baseline.
func (r *Runtime) canonical(data layout.Data) *goja.Object {
	obj := r.vm.NewObject()
	for _, attr := range data.Keys() {
		var v any
		switch val := data[attr].(type) {
		case layout.Number:
			v = float64(val)
		case layout.PercentOffset:
			v = []any{val.Percent, val.Offset}
		case layout.AnchorOffset:
			v = []any{anchorValue(val.Anchor), val.Offset}
		case layout.Anchor:
			v = anchorValue(val)
		}
		obj.Set(string(attr), r.toJS(v))
	}
	return obj
}

func anchorValue(a layout.Anchor) any {
	if w, ok := a.Widget.(*widget.Widget); ok {
		return w
	}
	return a.Selector
}
