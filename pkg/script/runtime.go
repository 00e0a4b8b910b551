// Package script runs JavaScript applications against a widget client.
//
// Scripts see a global `tabris` object:
//
//	var page = tabris.createPage("Home", true);
//	var label = page.append("Label", {id: "title", text: "Hello"});
//	page.append("Button", {layoutData: {left: "#title 8", top: 0}});
//	page.open();
//
// Widgets are returned as proxy objects. The same widget always yields the
// same proxy, so proxies can be compared with ===. Go errors surface as
// thrown JavaScript errors whose message is the Go error text.
package script

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"github.com/matzehuels/tabbridge/pkg/errors"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

// Runtime is a JavaScript VM bound to one widget client. It is not safe
// for concurrent use.
type Runtime struct {
	vm      *goja.Runtime
	client  *widget.Client
	logger  *log.Logger
	proxies map[*widget.Widget]*goja.Object
	widgets map[*goja.Object]*widget.Widget
}

// New creates a runtime whose scripts drive client. Console output goes to
// logger; a nil logger uses the client's.
func New(client *widget.Client, logger *log.Logger) *Runtime {
	if logger == nil {
		logger = client.Logger()
	}
	r := &Runtime{
		vm:      goja.New(),
		client:  client,
		logger:  logger,
		proxies: make(map[*widget.Widget]*goja.Object),
		widgets: make(map[*goja.Object]*widget.Widget),
	}
	r.registerConsole()
	r.registerTabris()
	return r
}

// Run executes src. name is used in stack traces.
func (r *Runtime) Run(name, src string) error {
	prog, err := goja.Compile(name, src, false)
	if err != nil {
		return errors.Wrap(errors.ErrCodeScript, err, "compile %s", name)
	}
	if _, err := r.vm.RunProgram(prog); err != nil {
		return errors.Wrap(errors.ErrCodeScript, err, "run %s", name)
	}
	return nil
}

// Eval runs src and returns its completion value converted to Go.
func (r *Runtime) Eval(src string) (any, error) {
	v, err := r.vm.RunString(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeScript, err, "eval")
	}
	return r.fromJS(v), nil
}

// Proxy returns the JavaScript proxy for w.
func (r *Runtime) Proxy(w *widget.Widget) goja.Value {
	return r.proxy(w)
}

// throw raises err as a JavaScript error.
func (r *Runtime) throw(err error) {
	panic(r.vm.NewGoError(err))
}

func (r *Runtime) registerConsole() {
	console := r.vm.NewObject()
	console.Set("log", func(call goja.FunctionCall) goja.Value {
		r.logger.Info(formatArgs(call.Arguments))
		return goja.Undefined()
	})
	console.Set("info", func(call goja.FunctionCall) goja.Value {
		r.logger.Info(formatArgs(call.Arguments))
		return goja.Undefined()
	})
	console.Set("warn", func(call goja.FunctionCall) goja.Value {
		r.logger.Warn(formatArgs(call.Arguments))
		return goja.Undefined()
	})
	console.Set("error", func(call goja.FunctionCall) goja.Value {
		r.logger.Error(formatArgs(call.Arguments))
		return goja.Undefined()
	})
	r.vm.Set("console", console)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}

// argString returns argument i as a string, throwing a TypeError if it is
// missing.
func (r *Runtime) argString(call goja.FunctionCall, i int, fn string) string {
	v := call.Argument(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		panic(r.vm.NewTypeError(fmt.Sprintf("%s: argument %d is required", fn, i+1)))
	}
	return v.String()
}
