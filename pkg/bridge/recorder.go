package bridge

import (
	"slices"
	"sync"
)

// Recorder is an in-memory Bridge that records every operation.
//
// It keeps the last value of each property sent with create or set, so Get
// answers what the application wrote. Values can also be seeded with
// SetValue to simulate native state. Recorder is safe for concurrent use.
type Recorder struct {
	mu      sync.RWMutex
	ops     []Operation
	values  map[int64]Properties
	results map[string]any
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		values:  make(map[int64]Properties),
		results: make(map[string]any),
	}
}

func (r *Recorder) record(op Operation) {
	r.ops = append(r.ops, op)
}

func (r *Recorder) store(id int64, props Properties) {
	if len(props) == 0 {
		return
	}
	vals := r.values[id]
	if vals == nil {
		vals = make(Properties, len(props))
		r.values[id] = vals
	}
	for k, v := range props {
		vals[k] = v
	}
}

// Head records a head operation.
func (r *Recorder) Head(typ string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Operation{Op: OpHead, Type: typ, Enabled: boolPtr(enabled)})
	return nil
}

// Create records a create operation and stores its properties.
func (r *Recorder) Create(id int64, typ string, props Properties) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Operation{Op: OpCreate, ID: id, Type: typ, Props: props.Clone()})
	r.store(id, props)
	return nil
}

// Set records a set operation and stores its properties.
func (r *Recorder) Set(id int64, props Properties) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Operation{Op: OpSet, ID: id, Props: props.Clone()})
	r.store(id, props)
	return nil
}

// Get records a get operation and returns the stored value, or nil.
func (r *Recorder) Get(id int64, name string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Operation{Op: OpGet, ID: id, Name: name})
	return r.values[id][name], nil
}

// Call records a call operation and returns the result seeded with
// SetResult, or nil.
func (r *Recorder) Call(id int64, method string, params Properties) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Operation{Op: OpCall, ID: id, Name: method, Props: params.Clone()})
	return r.results[method], nil
}

// Listen records a listen operation.
func (r *Recorder) Listen(id int64, event string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Operation{Op: OpListen, ID: id, Name: event, Enabled: boolPtr(enabled)})
	return nil
}

// Destroy records a destroy operation and forgets the widget's values.
func (r *Recorder) Destroy(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Operation{Op: OpDestroy, ID: id})
	delete(r.values, id)
	return nil
}

// SetValue seeds the value returned by Get(id, name).
func (r *Recorder) SetValue(id int64, name string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store(id, Properties{name: v})
}

// SetResult seeds the value returned by Call for method.
func (r *Recorder) SetResult(method string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[method] = v
}

// Operations returns a copy of the recorded operations.
func (r *Recorder) Operations() []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.ops)
}

// Filter returns the recorded operations with the given name.
func (r *Recorder) Filter(op string) []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Operation
	for _, o := range r.ops {
		if o.Op == op {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of recorded operations.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}

// Clear forgets recorded operations but keeps stored values.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}
