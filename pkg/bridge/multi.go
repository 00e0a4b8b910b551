package bridge

import (
	stderrors "errors"

	"github.com/matzehuels/tabbridge/pkg/errors"
)

// Multi sends every operation to all of its bridges in order.
//
// Mutations reach every bridge even when one fails; the failures are
// joined. Get and Call return the first bridge's answer, or the first
// error in order. Later bridges that cannot answer queries at all
// (ErrCodeUnsupported, such as a write-only Stream) are skipped.
type Multi []Bridge

func (m Multi) each(fn func(Bridge) error) error {
	var errs []error
	for _, b := range m {
		if err := fn(b); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func (m Multi) query(fn func(Bridge) (any, error)) (any, error) {
	var (
		result   any
		firstErr error
	)
	for i, b := range m {
		v, err := fn(b)
		if i > 0 && errors.Is(err, errors.ErrCodeUnsupported) {
			continue
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if i == 0 {
			result = v
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return result, nil
}

func (m Multi) Head(typ string, enabled bool) error {
	return m.each(func(b Bridge) error { return b.Head(typ, enabled) })
}

func (m Multi) Create(id int64, typ string, props Properties) error {
	return m.each(func(b Bridge) error { return b.Create(id, typ, props) })
}

func (m Multi) Set(id int64, props Properties) error {
	return m.each(func(b Bridge) error { return b.Set(id, props) })
}

func (m Multi) Get(id int64, name string) (any, error) {
	return m.query(func(b Bridge) (any, error) { return b.Get(id, name) })
}

func (m Multi) Call(id int64, method string, params Properties) (any, error) {
	return m.query(func(b Bridge) (any, error) { return b.Call(id, method, params) })
}

func (m Multi) Listen(id int64, event string, enabled bool) error {
	return m.each(func(b Bridge) error { return b.Listen(id, event, enabled) })
}

func (m Multi) Destroy(id int64) error {
	return m.each(func(b Bridge) error { return b.Destroy(id) })
}
