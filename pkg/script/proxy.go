package script

import (
	"github.com/dop251/goja"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

// proxy returns the cached proxy object for w, creating it on first use.
func (r *Runtime) proxy(w *widget.Widget) *goja.Object {
	if obj, ok := r.proxies[w]; ok {
		return obj
	}
	obj := r.vm.NewObject()
	obj.DefineDataProperty("cid", r.vm.ToValue(w.CID()), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineDataProperty("type", r.vm.ToValue(w.FullType()), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("set", func(call goja.FunctionCall) goja.Value {
		var err error
		if name, ok := call.Argument(0).Export().(string); ok {
			err = w.Set(name, r.fromJS(call.Argument(1)))
		} else {
			err = w.SetProps(r.props(call.Argument(0)))
		}
		if err != nil {
			r.throw(err)
		}
		return call.This
	})
	obj.Set("get", func(call goja.FunctionCall) goja.Value {
		v, err := w.Get(r.argString(call, 0, "get"))
		if err != nil {
			r.throw(err)
		}
		return r.toJS(v)
	})
	obj.Set("call", func(call goja.FunctionCall) goja.Value {
		v, err := w.Call(r.argString(call, 0, "call"), r.props(call.Argument(1)))
		if err != nil {
			r.throw(err)
		}
		return r.toJS(v)
	})
	obj.Set("on", func(call goja.FunctionCall) goja.Value {
		event := r.argString(call, 0, "on")
		fn, ok := goja.AssertFunction(call.Argument(1))
		if !ok {
			panic(r.vm.NewTypeError("on: listener must be a function"))
		}
		err := w.On(event, func(props bridge.Properties) {
			if _, err := fn(obj, r.toJS(props)); err != nil {
				r.logger.Error("listener failed", "widget", w, "event", event, "error", err)
			}
		})
		if err != nil {
			r.throw(err)
		}
		return call.This
	})
	obj.Set("off", func(call goja.FunctionCall) goja.Value {
		if err := w.Off(r.argString(call, 0, "off")); err != nil {
			r.throw(err)
		}
		return call.This
	})
	obj.Set("append", func(call goja.FunctionCall) goja.Value {
		child, err := w.Append(r.argString(call, 0, "append"), r.props(call.Argument(1)))
		if err != nil {
			r.throw(err)
		}
		return r.proxy(child)
	})
	obj.Set("appendTo", func(call goja.FunctionCall) goja.Value {
		parent, ok := r.widgetArg(call.Argument(0))
		if !ok {
			panic(r.vm.NewTypeError("appendTo: argument must be a widget"))
		}
		if err := w.AppendTo(parent); err != nil {
			r.throw(err)
		}
		return call.This
	})
	dispose := func(call goja.FunctionCall) goja.Value {
		if err := w.Dispose(); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	}
	obj.Set("dispose", dispose)
	obj.Set("destroy", dispose)

	r.proxies[w] = obj
	r.widgets[obj] = w
	return obj
}

// unwrap returns the widget behind a proxy object.
func (r *Runtime) unwrap(obj *goja.Object) (*widget.Widget, bool) {
	if w, ok := r.widgets[obj]; ok {
		return w, true
	}
	for o, w := range r.widgets {
		if o.SameAs(obj) {
			return w, true
		}
	}
	return nil, false
}

// widgetArg returns the widget behind v, accepting proxies and numeric ids.
func (r *Runtime) widgetArg(v goja.Value) (*widget.Widget, bool) {
	switch x := r.fromJS(v).(type) {
	case *widget.Widget:
		return x, true
	case int64:
		return r.client.Lookup(x)
	case float64:
		return r.client.Lookup(int64(x))
	}
	return nil, false
}
