package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/errors"
)

// execute runs the root command with args and returns what it wrote to its
// output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(configEnv, "")
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodeJSON(t *testing.T, s string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), v); err != nil {
		t.Fatalf("invalid JSON output %q: %v", s, err)
	}
}

const testScene = `
[[widgets]]
type = "Composite"

  [[widgets.children]]
  type = "Label"
  id = "title"
  props = { text = "Hello" }

  [[widgets.children]]
  type = "Button"
  id = "ok"
  layoutData = { left = "#title 8", top = 0 }

  [[widgets.children]]
  type = "Button"
  id = "cancel"
  layoutData = { left = "#missing", top = 0 }
`

const testScript = `
var parent = tabris.create("Composite");
parent.append("Label", {id: "title", text: "Hello"});
parent.append("Button", {id: "ok", layoutData: {left: "#title 8", top: 0}});
console.log("built", parent.cid);
`

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"check", "completion", "decode", "encode", "graph", "inspect", "resolve", "run", "serve", "version"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		found := false
		for _, g := range got {
			if g == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered (have %v)", name, got)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestEncodeCommand(t *testing.T) {
	out, err := execute(t, "encode", "--data", `{"left":"30%","right":16,"top":["#foo",5],"baseline":null}`)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	decodeJSON(t, out, &got)
	want := map[string]any{
		"left":  []any{30.0, 0.0},
		"right": 16.0,
		"top":   []any{"#foo", 5.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encode = %v, want %v", got, want)
	}
}

func TestEncodeCommandInvalid(t *testing.T) {
	_, err := execute(t, "encode", "--data", `{"left":true}`)
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Fatalf("error = %v, want %s", err, errors.ErrCodeInvalidLayout)
	}
	if !strings.Contains(err.Error(), "Invalid value for 'left': invalid type") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestEncodeCommandFromFile(t *testing.T) {
	path := writeFile(t, "layout.toml", "left = \"#title 8\"\ntop = 0\n")
	out, err := execute(t, "encode", path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	decodeJSON(t, out, &got)
	want := map[string]any{"left": []any{"#title", 8.0}, "top": 0.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encode = %v, want %v", got, want)
	}
}

func TestDecodeCommand(t *testing.T) {
	out, err := execute(t, "decode", "--data", `{"left":[30,0],"top":["#foo",8],"right":[0,16]}`)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	decodeJSON(t, out, &got)
	want := map[string]any{"left": "30%", "top": "#foo +8", "right": 16.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decode = %v, want %v", got, want)
	}
}

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "consistent",
			args: []string{"check", "--data", `{"left":0,"width":10}`},
			want: []string{"left", "width"},
		},
		{
			name: "conflict removed",
			args: []string{"check", "--data", `{"left":0,"right":0,"width":10}`},
			want: []string{"left", "right"},
		},
		{
			name:    "strict",
			args:    []string{"check", "--strict", "--data", `{"left":0,"right":0,"width":10}`},
			want:    []string{"left", "right"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			var got map[string]any
			decodeJSON(t, out, &got)
			var keys []string
			for _, k := range tt.want {
				if _, ok := got[k]; ok {
					keys = append(keys, k)
				}
			}
			if len(got) != len(tt.want) || len(keys) != len(tt.want) {
				t.Errorf("check output = %v, want keys %v", got, tt.want)
			}
		})
	}
}

func TestAttrsSourceErrors(t *testing.T) {
	path := writeFile(t, "layout.json", `{"left":0}`)
	if _, err := execute(t, "encode", "--data", `{}`, path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("file and --data: error = %v", err)
	}
	if _, err := execute(t, "encode"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("no input: error = %v", err)
	}
	if _, err := execute(t, "encode", filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: error = %v", err)
	}
}

func TestResolveCommand(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)

	out, err := execute(t, "resolve", path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []map[string]any
	decodeJSON(t, out, &entries)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %s", len(entries), out)
	}
	ok := entries[0]
	if ok["id"] != "ok" || ok["type"] != "Button" {
		t.Errorf("first entry = %v", ok)
	}
	want := map[string]any{"left": []any{2.0, 8.0}, "top": 0.0}
	if !reflect.DeepEqual(ok["layoutData"], want) {
		t.Errorf("ok layoutData = %v, want %v", ok["layoutData"], want)
	}
	cancel := entries[1]["layoutData"].(map[string]any)
	if !reflect.DeepEqual(cancel["left"], []any{0.0, 0.0}) {
		t.Errorf("unresolved left = %v, want [0 0]", cancel["left"])
	}
}

func TestResolveCommandWidget(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)

	for _, ref := range []string{"ok", "#3"} {
		out, err := execute(t, "resolve", "--widget", ref, path)
		if err != nil {
			t.Fatalf("resolve --widget %s: %v", ref, err)
		}
		var entry map[string]any
		decodeJSON(t, out, &entry)
		if entry["cid"] != 3.0 {
			t.Errorf("resolve --widget %s: cid = %v, want 3", ref, entry["cid"])
		}
	}

	if _, err := execute(t, "resolve", "--widget", "nope", path); !errors.Is(err, errors.ErrCodeWidgetNotFound) {
		t.Errorf("unknown widget: error = %v", err)
	}
}

func TestResolveCommandOutput(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)
	output := filepath.Join(t.TempDir(), "resolved.json")

	out, err := execute(t, "resolve", "--widget", "ok", "--output", output, path)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing with --output", out)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	decodeJSON(t, string(data), &entry)
	if entry["id"] != "ok" {
		t.Errorf("written entry = %v", entry)
	}
}

func TestRunCommandTrace(t *testing.T) {
	path := writeFile(t, "app.js", testScript)

	out, err := execute(t, "run", "--trace", path)
	if err != nil {
		t.Fatal(err)
	}

	var ops []string
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var req bridge.Request
		decodeJSON(t, sc.Text(), &req)
		if req.RequestID == "" {
			t.Errorf("request without id: %s", sc.Text())
		}
		ops = append(ops, req.Op)
	}
	want := []string{bridge.OpCreate, bridge.OpCreate, bridge.OpCreate, bridge.OpSet}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("traced ops = %v, want %v", ops, want)
	}
}

func TestRunCommandErrors(t *testing.T) {
	scene := writeFile(t, "scene.toml", testScene)
	if _, err := execute(t, "run", scene); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("run scene: error = %v", err)
	}

	bad := writeFile(t, "bad.js", `tabris.create("Button", {layoutData: {left: true}});`)
	if _, err := execute(t, "run", bad); !errors.Is(err, errors.ErrCodeScript) {
		t.Errorf("run bad.js: error = %v", err)
	}
}

func TestGraphCommand(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)

	out, err := execute(t, "graph", "--detailed", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"digraph widgets", "w3 -> w2", "unresolved"} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "graph", "--format", "png", path); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("png format: error = %v", err)
	}
}

func TestConfigFlag(t *testing.T) {
	scene := writeFile(t, "scene.toml", testScene)
	cfg := writeFile(t, "tabbridge.toml", "[client]\nid_start = 100\n")

	out, err := execute(t, "--config", cfg, "resolve", "--widget", "ok", scene)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	decodeJSON(t, out, &entry)
	if entry["cid"] != 102.0 {
		t.Errorf("cid = %v, want 102", entry["cid"])
	}

	bad := writeFile(t, "bad.toml", "[client]\nid_start = 0\n")
	if _, err := execute(t, "--config", bad, "resolve", scene); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("invalid config: error = %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, appName+" version:") {
		t.Errorf("version output = %q", out)
	}
}

func TestParseCID(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"#3", 3, true},
		{"#0", 0, false},
		{"3", 0, false},
		{"#x", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseCID(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseCID(%q) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRenderOperations(t *testing.T) {
	enabled := true
	out := renderOperations([]bridge.Operation{
		{Op: bridge.OpHead, Type: "tabris.UI", Enabled: &enabled},
		{Op: bridge.OpCreate, ID: 1, Type: "rwt.widgets.Label", Props: bridge.Properties{"text": "Hi"}},
	})
	for _, want := range []string{"head", "tabris.UI true", "create", `{"text":"Hi"}`} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestCount(t *testing.T) {
	if got := count(0, "widgets"); got != "" {
		t.Errorf("count(0) = %q, want empty", got)
	}
	if got := count(3, "widgets"); got != "3 widgets" {
		t.Errorf("count(3) = %q", got)
	}
}
