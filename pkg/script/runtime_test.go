package script

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/errors"
	"github.com/matzehuels/tabbridge/pkg/layout"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

func newTestRuntime(t *testing.T) (*Runtime, *widget.Client, *bridge.Recorder) {
	t.Helper()
	rec := bridge.NewRecorder()
	c := widget.NewClient(widget.Options{Logger: log.New(io.Discard)})
	c.Init(rec)
	return New(c, nil), c, rec
}

func run(t *testing.T, r *Runtime, src string) {
	t.Helper()
	if err := r.Run("test.js", src); err != nil {
		t.Fatal(err)
	}
}

func TestCreateAndSet(t *testing.T) {
	r, c, rec := newTestRuntime(t)
	run(t, r, `
		var parent = tabris.create("Composite");
		var label = parent.append("Label", {id: "title", text: "Hello"});
		var button = parent.append("Button", {layoutData: {left: "#title 8", top: 0}});
		if (button.cid !== 3) throw new Error("cid " + button.cid);
		if (button.type !== "rwt.widgets.Button") throw new Error("type " + button.type);
		button.set("text", "Go").set({enabled: false});
		tabris.flush();
	`)

	if c.Registry().Len() != 3 {
		t.Errorf("registry has %d widgets, want 3", c.Registry().Len())
	}
	sets := rec.Filter(bridge.OpSet)
	if len(sets) != 3 {
		t.Fatalf("got %d set ops, want 3: %+v", len(sets), sets)
	}
	if sets[0].Props["text"] != "Go" || sets[1].Props["enabled"] != false {
		t.Errorf("set ops = %+v", sets[:2])
	}
	want := map[string]any{"left": []any{2.0, 8.0}, "top": 0.0}
	if got := sets[2].Props["layoutData"]; !reflect.DeepEqual(got, want) {
		t.Errorf("flushed layoutData = %v, want %v", got, want)
	}
}

func TestProxyIdentity(t *testing.T) {
	r, _, _ := newTestRuntime(t)
	run(t, r, `
		var parent = tabris.create("Composite");
		var child = parent.append("Label", {});
		var layout = child.get("layoutData");
		if (layout !== null) throw new Error("layout " + layout);
		child.set("layoutData", {left: [parent, 5]});
		var again = child.get("layoutData").left[0];
		if (again !== parent) throw new Error("proxy identity lost");
	`)
}

func TestLayoutErrorsAreThrown(t *testing.T) {
	r, _, _ := newTestRuntime(t)
	run(t, r, `
		var w = tabris.create("Button");
		var msg = "";
		try {
			w.set("layoutData", {left: 0, baseline: 23});
		} catch (e) {
			msg = e.message;
		}
		if (msg !== "Invalid value for 'baseline': must be a widget reference") throw new Error("got: " + msg);
	`)
}

func TestRunError(t *testing.T) {
	r, _, _ := newTestRuntime(t)

	err := r.Run("broken.js", `throw new Error("boom")`)
	if !errors.Is(err, errors.ErrCodeScript) {
		t.Fatalf("Run() error = %v, want %s", err, errors.ErrCodeScript)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not mention the script error", err)
	}

	if err := r.Run("syntax.js", `var = ;`); !errors.Is(err, errors.ErrCodeScript) {
		t.Errorf("syntax error = %v", err)
	}
}

func TestEval(t *testing.T) {
	r, _, _ := newTestRuntime(t)

	got, err := r.Eval(`tabris.create("Button", {id: "ok"})`)
	if err != nil {
		t.Fatal(err)
	}
	w, ok := got.(*widget.Widget)
	if !ok || w.ID() != "ok" {
		t.Errorf("Eval() = %#v, want the created widget", got)
	}

	got, err = r.Eval(`({left: "30%", items: [1, "a"]})`)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"left": "30%", "items": []any{int64(1), "a"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Eval() = %#v, want %#v", got, want)
	}

	if _, err := r.Eval(`undefinedName.x`); !errors.Is(err, errors.ErrCodeScript) {
		t.Errorf("Eval() error = %v, want %s", err, errors.ErrCodeScript)
	}
}

func TestResolveReferencesWidgets(t *testing.T) {
	r, _, _ := newTestRuntime(t)

	got, err := r.Eval(`
		var parent = tabris.create("Composite");
		var other = parent.append("Label", {id: "other"});
		var widget = parent.append("Button");
		var out = tabris.Layout.resolveReferences({centerY: other, left: [other, 42]}, widget);
		(out.centerY === other.cid && out.left.length === 2 &&
			out.left[0] === other.cid && out.left[1] === 42) || JSON.stringify(out);
	`)
	if err != nil {
		t.Fatal(err)
	}
	if got != true {
		t.Errorf("resolveReferences() = %v", got)
	}
}

func TestEvents(t *testing.T) {
	r, c, rec := newTestRuntime(t)
	run(t, r, `
		var clicks = 0;
		var button = tabris.create("Button");
		button.on("Selection", function(props) {
			clicks += props.count;
			if (this !== button) throw new Error("wrong this");
		});
	`)

	if n := len(rec.Filter(bridge.OpListen)); n != 1 {
		t.Errorf("listen ops = %d, want 1", n)
	}
	if _, err := c.Dispatch(1, "Selection", bridge.Properties{"count": 2}); err != nil {
		t.Fatal(err)
	}
	got, err := r.Eval("clicks")
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(2) {
		t.Errorf("clicks = %v (%T), want 2", got, got)
	}
}

func TestCreatePage(t *testing.T) {
	r, c, rec := newTestRuntime(t)
	run(t, r, `
		var page = tabris.createPage("Home", true);
		page.append("Label", {text: "hi"});
		page.open();
	`)

	if c.ActivePage() == nil {
		t.Error("page not active")
	}
	if len(rec.Filter(bridge.OpHead)) != 1 {
		t.Error("application not initialized")
	}
}

func TestRegisterWidget(t *testing.T) {
	r, _, rec := newTestRuntime(t)
	run(t, r, `
		tabris.registerWidget("Slider", {defaults: {maximum: 100}, events: ["Selection"]});
		var s = tabris.create("Slider", {});
		var failed = false;
		try { s.on("Resize", function() {}); } catch (e) { failed = true; }
		if (!failed) throw new Error("unsupported event accepted");
	`)

	props := rec.Filter(bridge.OpCreate)[0].Props
	if props["maximum"] != int64(100) {
		t.Errorf("maximum = %v (%T)", props["maximum"], props["maximum"])
	}
}

func TestLayoutFunctions(t *testing.T) {
	var buf bytes.Buffer
	rec := bridge.NewRecorder()
	c := widget.NewClient(widget.Options{Logger: log.New(io.Discard)})
	c.Init(rec)
	r := New(c, log.New(&buf))

	run(t, r, `
		var checked = tabris.Layout.checkConsistency({left: 0, right: 0, width: 100});
		if ("width" in checked) throw new Error("width kept");

		var enc = tabris.Layout.encodeLayoutData({left: "30%", top: ["#foo", 5], right: "0% 16", baseline: "#bar"});
		if (JSON.stringify(enc) !== '{"left":[30,0],"right":16,"top":["#foo",5],"baseline":"#bar"}') throw new Error(JSON.stringify(enc));

		var dec = tabris.Layout.decodeLayoutData(enc);
		if (dec.left !== "30%" || dec.top !== "#foo +5" || dec.right !== 16) throw new Error(JSON.stringify(dec));

		var parent = tabris.create("Composite");
		var a = parent.append("Label", {id: "foo"});
		var b = parent.append("Label", {});
		var res = tabris.Layout.resolveReferences({left: "#foo 5", top: "prev()", right: "#none"}, b);
		if (JSON.stringify([res.left, res.top, res.right]) !== "[[2,5],2,0]") throw new Error(JSON.stringify(res));

		b.set("layoutData", {left: 1});
		tabris.Layout.addToQueue(b);
		tabris.Layout.flushQueue();
	`)

	if !strings.Contains(buf.String(), layout.WarnWidth) {
		t.Errorf("consistency warning not logged: %q", buf.String())
	}
	if n := len(rec.Filter(bridge.OpSet)); n != 1 {
		t.Errorf("set ops = %d, want 1", n)
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := widget.NewClient(widget.Options{})
	c.Init(bridge.NewRecorder())
	r := New(c, log.New(&buf))

	run(t, r, `console.log("hello", 42); console.warn("careful");`)

	out := buf.String()
	if !strings.Contains(out, "hello 42") || !strings.Contains(out, "careful") {
		t.Errorf("console output = %q", out)
	}
}
