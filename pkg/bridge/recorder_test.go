package bridge

import (
	"reflect"
	"testing"
)

func TestRecorderRecordsOperations(t *testing.T) {
	r := NewRecorder()

	_ = r.Head("tabris.UI", true)
	_ = r.Create(1, "rwt.widgets.Button", Properties{"text": "ok"})
	_ = r.Set(1, Properties{"layoutData": map[string]any{"left": 0.0}})
	_, _ = r.Call(1, "focus", nil)
	_ = r.Listen(1, "Selection", true)
	_ = r.Destroy(1)

	var ops []string
	for _, op := range r.Operations() {
		ops = append(ops, op.Op)
	}
	want := []string{OpHead, OpCreate, OpSet, OpCall, OpListen, OpDestroy}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("ops = %v, want %v", ops, want)
	}

	listen := r.Filter(OpListen)
	if len(listen) != 1 || listen[0].Name != "Selection" || listen[0].Enabled == nil || !*listen[0].Enabled {
		t.Errorf("listen op = %+v", listen)
	}
}

func TestRecorderGetAnswersStoredValues(t *testing.T) {
	r := NewRecorder()
	_ = r.Create(3, "rwt.widgets.Label", Properties{"text": "hello"})
	_ = r.Set(3, Properties{"visible": false})
	r.SetValue(3, "bounds", []any{0, 0, 10, 10})

	tests := []struct {
		name string
		want any
	}{
		{"text", "hello"},
		{"visible", false},
		{"bounds", []any{0, 0, 10, 10}},
		{"missing", nil},
	}
	for _, tt := range tests {
		got, err := r.Get(3, tt.name)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Get(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	_ = r.Destroy(3)
	if got, _ := r.Get(3, "text"); got != nil {
		t.Errorf("Get after Destroy = %v, want nil", got)
	}
}

func TestRecorderCopiesProperties(t *testing.T) {
	r := NewRecorder()
	props := Properties{"text": "a"}
	_ = r.Set(1, props)
	props["text"] = "b"

	if got := r.Operations()[0].Props["text"]; got != "a" {
		t.Errorf("recorded text = %v, want a", got)
	}
}

func TestRecorderCallResult(t *testing.T) {
	r := NewRecorder()
	r.SetResult("measure", 42)

	got, err := r.Call(1, "measure", Properties{"axis": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("Call() = %v, want 42", got)
	}
}

func TestRecorderClear(t *testing.T) {
	r := NewRecorder()
	_ = r.Create(1, "Composite", Properties{"a": 1})
	r.Clear()

	if r.Len() != 0 {
		t.Errorf("Len() = %d after Clear", r.Len())
	}
	if got, _ := r.Get(1, "a"); got != 1 {
		t.Errorf("Clear dropped stored values: Get = %v", got)
	}
}
