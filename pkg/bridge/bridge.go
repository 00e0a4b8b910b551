// Package bridge defines the channel between widget proxies and the native
// UI side, plus a few implementations of it.
//
// Every proxy operation becomes exactly one bridge call. Ids are the
// numeric widget ids allocated by the client; zero never names a widget.
//
// Implementations:
//   - [Recorder] keeps operations in memory and answers Get from the
//     properties it has seen. Tests, the CLI and the devtools server use it.
//   - [Stream] writes one JSON request per line and reads replies for Get
//     and Call.
//   - [Multi] fans every operation out to several bridges.
//   - [Instrument] wraps a bridge and reports each operation to the
//     observability hooks.
package bridge

import (
	"maps"
	"time"

	"github.com/matzehuels/tabbridge/pkg/observability"
)

// Properties is a property bag sent with create, set and call operations.
type Properties map[string]any

// Clone returns a shallow copy of p.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Bridge is the native side of the widget toolkit.
type Bridge interface {
	// Head announces a type whose events are enabled before any instance
	// exists.
	Head(typ string, enabled bool) error
	Create(id int64, typ string, props Properties) error
	Set(id int64, props Properties) error
	Get(id int64, name string) (any, error)
	Call(id int64, method string, params Properties) (any, error)
	Listen(id int64, event string, enabled bool) error
	Destroy(id int64) error
}

// Operation names.
const (
	OpHead    = "head"
	OpCreate  = "create"
	OpSet     = "set"
	OpGet     = "get"
	OpCall    = "call"
	OpListen  = "listen"
	OpDestroy = "destroy"
)

// Operation is one recorded or transmitted bridge call.
type Operation struct {
	Op      string     `json:"op"`
	ID      int64      `json:"id,omitempty"`
	Type    string     `json:"type,omitempty"`
	Name    string     `json:"name,omitempty"`
	Props   Properties `json:"props,omitempty"`
	Enabled *bool      `json:"enabled,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

// Instrument wraps b so that every operation is reported to
// observability.Bridge().
func Instrument(b Bridge) Bridge {
	return &instrumented{next: b}
}

type instrumented struct {
	next Bridge
}

func report(op string, id int64, start time.Time, err error) {
	observability.Bridge().OnOperation(op, id, time.Since(start), err)
}

func (b *instrumented) Head(typ string, enabled bool) error {
	start := time.Now()
	err := b.next.Head(typ, enabled)
	report(OpHead, 0, start, err)
	return err
}

func (b *instrumented) Create(id int64, typ string, props Properties) error {
	start := time.Now()
	err := b.next.Create(id, typ, props)
	report(OpCreate, id, start, err)
	return err
}

func (b *instrumented) Set(id int64, props Properties) error {
	start := time.Now()
	err := b.next.Set(id, props)
	report(OpSet, id, start, err)
	return err
}

func (b *instrumented) Get(id int64, name string) (any, error) {
	start := time.Now()
	v, err := b.next.Get(id, name)
	report(OpGet, id, start, err)
	return v, err
}

func (b *instrumented) Call(id int64, method string, params Properties) (any, error) {
	start := time.Now()
	v, err := b.next.Call(id, method, params)
	report(OpCall, id, start, err)
	return v, err
}

func (b *instrumented) Listen(id int64, event string, enabled bool) error {
	start := time.Now()
	err := b.next.Listen(id, event, enabled)
	report(OpListen, id, start, err)
	return err
}

func (b *instrumented) Destroy(id int64) error {
	start := time.Now()
	err := b.next.Destroy(id)
	report(OpDestroy, id, start, err)
	return err
}
