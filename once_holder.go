package singleton

import (
	"sync"
	"sync/atomic"
	"time"
)

// NewOnce returns a Holder that constructs its value behind a run-once guard.
//
// Behavior:
//   - The first Get runs ctor; concurrent first callers block until it returns.
//   - Every later Get returns the published value without locking.
//   - A failing or panicking ctor is reported as *InitializationError, and the
//     same error is returned forever after. ctor is never retried.
//
// @group Constructors
//
// Example: lazily built shared value
//
//	holder := singleton.NewOnce(func() (*Config, error) {
//		return loadConfig()
//	})
//	cfg, err := holder.Get()
//	fmt.Println(err == nil, cfg != nil) // true true
func NewOnce[T any](ctor Constructor[T], opts ...Option) Holder[T] {
	cfg := buildConfig[T](opts)
	if ctor == nil {
		return newErrorHolder[T](cfg, VariantOnce, ErrNilConstructor)
	}
	if cfg.Guard != nil {
		ctor = Guarded(cfg.Guard, ctor)
	}
	return &onceHolder[T]{cfg: cfg, ctor: ctor}
}

// NewValue is NewOnce for constructors that cannot fail.
// @group Constructors
//
// Example: infallible constructor
//
//	holder := singleton.NewValue(func() *sync.Map { return &sync.Map{} })
//	fmt.Println(holder.MustGet() == holder.MustGet()) // true
func NewValue[T any](ctor func() T, opts ...Option) Holder[T] {
	if ctor == nil {
		return NewOnce[T](nil, opts...)
	}
	return NewOnce(func() (T, error) { return ctor(), nil }, opts...)
}

type onceHolder[T any] struct {
	cfg  Config
	ctor Constructor[T]

	once  sync.Once
	done  atomic.Bool
	value T
	err   error
}

func (h *onceHolder[T]) Get() (T, error) {
	start := time.Now()
	h.once.Do(h.init)
	observe(h.cfg.Observer, OpGet, h.cfg.Name, h.err, start, VariantOnce)
	return h.value, h.err
}

func (h *onceHolder[T]) init() {
	start := time.Now()
	h.value, h.err = construct(h.cfg.Name, h.ctor)
	h.ctor = nil
	h.done.Store(true)
	observe(h.cfg.Observer, OpConstruct, h.cfg.Name, h.err, start, VariantOnce)
}

func (h *onceHolder[T]) MustGet() T {
	value, err := h.Get()
	if err != nil {
		panic(err)
	}
	return value
}

func (h *onceHolder[T]) Initialized() bool {
	return h.done.Load()
}

func (h *onceHolder[T]) Name() string {
	return h.cfg.Name
}

func (h *onceHolder[T]) Variant() Variant {
	return VariantOnce
}
