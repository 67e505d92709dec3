package singleton

import "time"

// errorHolder is returned when a holder cannot be built; it preserves the
// holder identity while surfacing the failure on every call.
type errorHolder[T any] struct {
	cfg     Config
	variant Variant
	err     error
}

func newErrorHolder[T any](cfg Config, variant Variant, cause error) Holder[T] {
	return &errorHolder[T]{
		cfg:     cfg,
		variant: variant,
		err:     &InitializationError{Name: cfg.Name, Err: cause},
	}
}

func (e *errorHolder[T]) Get() (T, error) {
	var zero T
	observe(e.cfg.Observer, OpGet, e.cfg.Name, e.err, time.Now(), e.variant)
	return zero, e.err
}

func (e *errorHolder[T]) MustGet() T {
	_, err := e.Get()
	panic(err)
}

func (e *errorHolder[T]) Initialized() bool { return true }
func (e *errorHolder[T]) Name() string      { return e.cfg.Name }
func (e *errorHolder[T]) Variant() Variant  { return e.variant }
