package singleton

import (
	"sync"
	"sync/atomic"
	"time"
)

// NewChecked returns a Holder that uses double-checked locking.
//
// Behavior:
//   - Get first loads the published outcome without a lock and returns it when set.
//   - Otherwise it takes the holder's mutex, loads again, and only then runs ctor.
//   - The outcome is published with an atomic store, so the unlocked load never
//     sees a value whose constructor has not returned.
//   - A failure is published like a value: every later Get returns the same
//     *InitializationError and ctor is never retried.
//
// @group Constructors
//
// Example: double-checked holder with a guard
//
//	guard := singleton.NewGuard("pool")
//	holder := singleton.NewChecked(newPool, singleton.WithGuard(guard))
//	pool := holder.MustGet()
//	_ = pool
func NewChecked[T any](ctor Constructor[T], opts ...Option) Holder[T] {
	cfg := buildConfig[T](opts)
	if ctor == nil {
		return newErrorHolder[T](cfg, VariantChecked, ErrNilConstructor)
	}
	if cfg.Guard != nil {
		ctor = Guarded(cfg.Guard, ctor)
	}
	return &checkedHolder[T]{cfg: cfg, ctor: ctor}
}

type outcome[T any] struct {
	value T
	err   error
}

type checkedHolder[T any] struct {
	cfg  Config
	ctor Constructor[T]

	mu      sync.Mutex
	current atomic.Pointer[outcome[T]]
}

func (h *checkedHolder[T]) Get() (T, error) {
	start := time.Now()
	result := h.current.Load()
	if result == nil {
		result = h.slow()
	}
	observe(h.cfg.Observer, OpGet, h.cfg.Name, result.err, start, VariantChecked)
	return result.value, result.err
}

// slow holds mu only across check, construct and publish.
func (h *checkedHolder[T]) slow() *outcome[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	if result := h.current.Load(); result != nil {
		return result
	}

	start := time.Now()
	value, err := construct(h.cfg.Name, h.ctor)
	result := &outcome[T]{value: value, err: err}
	h.ctor = nil
	h.current.Store(result)
	observe(h.cfg.Observer, OpConstruct, h.cfg.Name, err, start, VariantChecked)
	return result
}

func (h *checkedHolder[T]) MustGet() T {
	value, err := h.Get()
	if err != nil {
		panic(err)
	}
	return value
}

func (h *checkedHolder[T]) Initialized() bool {
	return h.current.Load() != nil
}

func (h *checkedHolder[T]) Name() string {
	return h.cfg.Name
}

func (h *checkedHolder[T]) Variant() Variant {
	return VariantChecked
}
