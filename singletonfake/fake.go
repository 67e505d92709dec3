package singletonfake

import (
	"sync"
	"testing"
	"time"

	"github.com/goforj/singleton"
)

// Fake wraps a build function and records how many times it ran.
// Use Constructor to hand it to a holder under test.
type Fake[T any] struct {
	build func() T
	delay time.Duration
	err   error

	mu    sync.Mutex
	calls int
}

// Option configures a Fake.
type Option[T any] func(*Fake[T])

// WithDelay sleeps for d inside every construction.
func WithDelay[T any](d time.Duration) Option[T] {
	return func(f *Fake[T]) { f.delay = d }
}

// WithError makes every construction fail with err.
func WithError[T any](err error) Option[T] {
	return func(f *Fake[T]) { f.err = err }
}

// New creates a Fake around build.
func New[T any](build func() T, opts ...Option[T]) *Fake[T] {
	f := &Fake[T]{build: build}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Constructor returns a counting constructor to inject into a holder.
func (f *Fake[T]) Constructor() singleton.Constructor[T] {
	return func() (T, error) {
		f.record()
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		if f.err != nil {
			var zero T
			return zero, f.err
		}
		return f.build(), nil
	}
}

// Calls returns the number of constructions so far.
func (f *Fake[T]) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Reset clears recorded calls.
func (f *Fake[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = 0
}

// AssertCalled verifies the constructor ran the expected number of times.
func (f *Fake[T]) AssertCalled(t *testing.T, times int) {
	t.Helper()
	if got := f.Calls(); got != times {
		t.Fatalf("expected %d constructions, got %d", times, got)
	}
}

// AssertNotCalled ensures the constructor never ran.
func (f *Fake[T]) AssertNotCalled(t *testing.T) {
	t.Helper()
	if got := f.Calls(); got != 0 {
		t.Fatalf("expected no constructions, got %d", got)
	}
}

func (f *Fake[T]) record() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}
