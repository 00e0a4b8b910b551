package bridge

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/tabbridge/pkg/observability"
)

type failingBridge struct {
	*Recorder
	err error
}

func (b failingBridge) Set(id int64, props Properties) error {
	_ = b.Recorder.Set(id, props)
	return b.err
}

func (b failingBridge) Get(id int64, name string) (any, error) {
	_, _ = b.Recorder.Get(id, name)
	return nil, b.err
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.SetValue(1, "text", "from a")
	b.SetValue(1, "text", "from b")
	m := Multi{a, b}

	if err := m.Create(1, "Label", Properties{"x": 1}); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("Create reached a=%d b=%d", a.Len(), b.Len())
	}

	got, err := m.Get(1, "text")
	if err != nil {
		t.Fatal(err)
	}
	if got != "from a" {
		t.Errorf("Get() = %v, want the first bridge's value", got)
	}
}

func TestMultiErrors(t *testing.T) {
	boom := stderrors.New("boom")
	ok := NewRecorder()
	bad := failingBridge{Recorder: NewRecorder(), err: boom}
	m := Multi{bad, ok}

	if err := m.Set(1, Properties{"a": 1}); !stderrors.Is(err, boom) {
		t.Errorf("Set() error = %v, want %v", err, boom)
	}
	if ok.Len() != 1 {
		t.Error("Set did not reach the healthy bridge")
	}

	if _, err := m.Get(1, "a"); !stderrors.Is(err, boom) {
		t.Errorf("Get() error = %v, want %v", err, boom)
	}
}

type opHooks struct {
	mu  sync.Mutex
	ops []string
}

func (h *opHooks) OnOperation(op string, id int64, d time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ops = append(h.ops, op)
}

func TestInstrument(t *testing.T) {
	hooks := &opHooks{}
	observability.SetBridgeHooks(hooks)
	defer observability.Reset()

	b := Instrument(NewRecorder())
	_ = b.Create(1, "Button", nil)
	_ = b.Set(1, Properties{"text": "x"})
	_, _ = b.Get(1, "text")
	_ = b.Destroy(1)

	want := []string{OpCreate, OpSet, OpGet, OpDestroy}
	if !reflect.DeepEqual(hooks.ops, want) {
		t.Errorf("reported %v, want %v", hooks.ops, want)
	}
}

func TestMultiSkipsWriteOnlyStream(t *testing.T) {
	rec := NewRecorder()
	rec.SetValue(1, "text", "hello")
	var buf bytes.Buffer
	m := Multi{rec, NewStream(&buf, nil)}

	got, err := m.Get(1, "text")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("Get() = %v, want hello", got)
	}

	if err := m.Set(1, Properties{"text": "bye"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"op":"set"`) {
		t.Errorf("stream missed the set request: %s", buf.String())
	}
}
