package singleton

import "sync/atomic"

// Guard rejects every construction of a type after the first one.
//
// A guarded type claims its Guard at the top of its constructor. The first
// claim succeeds; later claims, including concurrent ones, fail with
// *DuplicateConstructionError. A Guard is never released.
// @group Guards
//
// Example: guard a constructor
//
//	var registryGuard = singleton.NewGuard("registry")
//	newRegistry := singleton.Guarded(registryGuard, func() (*Registry, error) {
//		return &Registry{}, nil
//	})
//	_, err := newRegistry()
//	_, err = newRegistry()
//	fmt.Println(errors.Is(err, singleton.ErrDuplicateConstruction)) // true
type Guard struct {
	name    string
	claimed atomic.Bool
}

// NewGuard returns an unclaimed guard labelled name.
// @group Guards
func NewGuard(name string) *Guard {
	return &Guard{name: name}
}

// Claim marks the guarded type as constructed.
// @group Guards
func (g *Guard) Claim() error {
	if g.claimed.CompareAndSwap(false, true) {
		return nil
	}
	return &DuplicateConstructionError{Name: g.name}
}

// Claimed reports whether a construction has already claimed the guard.
// @group Guards
func (g *Guard) Claimed() bool {
	return g.claimed.Load()
}

// Guarded wraps ctor so that it claims g before building the value.
// @group Guards
func Guarded[T any](g *Guard, ctor Constructor[T]) Constructor[T] {
	return func() (T, error) {
		if err := g.Claim(); err != nil {
			var zero T
			return zero, err
		}
		return ctor()
	}
}
