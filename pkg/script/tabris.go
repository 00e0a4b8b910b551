package script

import (
	"github.com/dop251/goja"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/layout"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

func (r *Runtime) registerTabris() {
	tabris := r.vm.NewObject()

	tabris.Set("create", func(call goja.FunctionCall) goja.Value {
		w, err := r.client.Create(r.argString(call, 0, "create"), r.props(call.Argument(1)))
		if err != nil {
			r.throw(err)
		}
		return r.proxy(w)
	})
	tabris.Set("createPage", func(call goja.FunctionCall) goja.Value {
		title := call.Argument(0).String()
		page, err := r.client.CreatePage(title, call.Argument(1).ToBoolean())
		if err != nil {
			r.throw(err)
		}
		return r.pageProxy(page)
	})
	tabris.Set("registerWidget", func(call goja.FunctionCall) goja.Value {
		name := r.argString(call, 0, "registerWidget")
		if err := r.client.RegisterType(name, r.typeDef(call.Argument(1))); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	tabris.Set("flush", func(call goja.FunctionCall) goja.Value {
		if err := r.client.Flush(); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	tabris.Set("Layout", r.layoutObject())

	r.vm.Set("tabris", tabris)
}

// pageProxy returns the proxy of the page's composite with open and close
// methods attached.
func (r *Runtime) pageProxy(page *widget.Page) *goja.Object {
	obj := r.proxy(page.Composite())
	obj.Set("open", func(call goja.FunctionCall) goja.Value {
		if err := page.Open(); err != nil {
			r.throw(err)
		}
		return call.This
	})
	obj.Set("close", func(call goja.FunctionCall) goja.Value {
		if err := page.Close(); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	return obj
}

// typeDef reads {defaults: {...}, events: [...]}.
func (r *Runtime) typeDef(v goja.Value) widget.TypeDef {
	var def widget.TypeDef
	m, _ := r.fromJS(v).(map[string]any)
	if d, ok := m["defaults"].(map[string]any); ok {
		def.Defaults = bridge.Properties(d)
	}
	if events, ok := m["events"].([]any); ok {
		def.Events = make([]string, 0, len(events))
		for _, e := range events {
			if s, ok := e.(string); ok {
				def.Events = append(def.Events, s)
			}
		}
	}
	return def
}

// layoutObject exposes the layout engine as tabris.Layout.
func (r *Runtime) layoutObject() *goja.Object {
	obj := r.vm.NewObject()

	obj.Set("checkConsistency", func(call goja.FunctionCall) goja.Value {
		attrs := layout.CheckConsistency(r.attrs(call.Argument(0)), func(msg string) {
			r.logger.Warn(msg)
		})
		return r.toJS(attrs)
	})
	obj.Set("encodeLayoutData", func(call goja.FunctionCall) goja.Value {
		return r.canonical(r.encode(call.Argument(0)))
	})
	obj.Set("decodeLayoutData", func(call goja.FunctionCall) goja.Value {
		return r.toJS(layout.Decode(r.encode(call.Argument(0))))
	})
	obj.Set("resolveReferences", func(call goja.FunctionCall) goja.Value {
		data := layout.Convert(r.attrs(call.Argument(0)))
		var target layout.Widget
		if w, ok := r.widgetArg(call.Argument(1)); ok {
			target = w
		}
		return r.toJS(layout.Resolve(data, target))
	})
	obj.Set("addToQueue", func(call goja.FunctionCall) goja.Value {
		w, ok := r.widgetArg(call.Argument(0))
		if !ok {
			panic(r.vm.NewTypeError("addToQueue: argument must be a widget"))
		}
		return r.vm.ToValue(r.client.Queue().Add(w))
	})
	obj.Set("flushQueue", func(call goja.FunctionCall) goja.Value {
		if err := r.client.Flush(); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	return obj
}

// encode encodes a layout attribute object, throwing on invalid input.
// Canonical data encodes to itself, so it is accepted as well.
func (r *Runtime) encode(v goja.Value) layout.Data {
	data, err := layout.Encode(r.attrs(v))
	if err != nil {
		r.throw(err)
	}
	return data
}
