package layout

import (
	"errors"
	"time"

	"github.com/matzehuels/tabbridge/pkg/observability"
)

// Flusher is implemented by widgets whose layout can be recomputed and
// dispatched. Implementations must be comparable (typically pointers).
type Flusher interface {
	FlushLayout() error
}

// Scheduler runs a callback at the host's next flush point, such as the end
// of the current event loop task or the next animation frame.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func())

// Schedule calls f(fn).
func (f SchedulerFunc) Schedule(fn func()) { f(fn) }

// ManualScheduler collects scheduled callbacks until RunPending is called.
// It stands in for a frame loop in tests and batch tools.
type ManualScheduler struct {
	pending []func()
}

// Schedule queues fn.
func (s *ManualScheduler) Schedule(fn func()) {
	s.pending = append(s.pending, fn)
}

// Pending returns the number of callbacks waiting to run.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// RunPending runs queued callbacks, including any scheduled while running,
// and returns how many ran.
func (s *ManualScheduler) RunPending() int {
	n := 0
	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		for _, fn := range batch {
			fn()
			n++
		}
	}
	return n
}

// Queue is a deduplicating, insertion-ordered set of widgets waiting for a
// layout flush.
//
// Adding a widget that is already queued is a no-op. The first Add of a
// cycle asks the scheduler for a flush; Flush dispatches every queued
// widget once and leaves the queue empty. Widgets added while a flush is
// running are kept for the next cycle.
type Queue struct {
	items     []Flusher
	queued    map[Flusher]struct{}
	scheduler Scheduler
	scheduled bool
	onError   func(error)
}

// NewQueue creates a queue that requests flushes from s. With a nil
// scheduler the queue is only flushed by explicit Flush calls.
func NewQueue(s Scheduler) *Queue {
	return &Queue{
		queued:    make(map[Flusher]struct{}),
		scheduler: s,
	}
}

// SetErrorHandler sets the function receiving errors from scheduled
// flushes. Explicit Flush calls return their error instead.
func (q *Queue) SetErrorHandler(fn func(error)) {
	q.onError = fn
}

// Add marks f dirty. It reports whether f was newly queued.
func (q *Queue) Add(f Flusher) bool {
	if _, ok := q.queued[f]; ok {
		return false
	}
	q.queued[f] = struct{}{}
	q.items = append(q.items, f)

	if q.scheduler != nil && !q.scheduled {
		q.scheduled = true
		q.scheduler.Schedule(q.scheduledFlush)
	}
	return true
}

// Contains reports whether f is waiting for a flush.
func (q *Queue) Contains(f Flusher) bool {
	_, ok := q.queued[f]
	return ok
}

// Remove drops f from the queue, for widgets disposed before the flush.
func (q *Queue) Remove(f Flusher) {
	if _, ok := q.queued[f]; !ok {
		return
	}
	delete(q.queued, f)
	for i, item := range q.items {
		if item == f {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
}

// Len returns the number of queued widgets.
func (q *Queue) Len() int {
	return len(q.items)
}

// Flush calls FlushLayout on every queued widget in insertion order and
// clears the queue. All widgets are flushed even if some fail; the errors
// are joined.
func (q *Queue) Flush() error {
	items := q.items
	q.items = nil
	q.queued = make(map[Flusher]struct{})
	q.scheduled = false

	if len(items) == 0 {
		return nil
	}

	start := time.Now()
	var errs []error
	for _, f := range items {
		if err := f.FlushLayout(); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	observability.Layout().OnFlush(len(items), time.Since(start), err)
	return err
}

// Reset drops all queued widgets without flushing them.
func (q *Queue) Reset() {
	q.items = nil
	q.queued = make(map[Flusher]struct{})
	q.scheduled = false
}

func (q *Queue) scheduledFlush() {
	if !q.scheduled && len(q.items) == 0 {
		return
	}
	if err := q.Flush(); err != nil && q.onError != nil {
		q.onError(err)
	}
}
