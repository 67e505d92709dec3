package singleton

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrDuplicateConstruction signals that a guarded type was constructed more than once.
	ErrDuplicateConstruction = errors.New("singleton: already initialized")
	// ErrInitialization matches every *InitializationError.
	ErrInitialization = errors.New("singleton: initialization failed")
	// ErrNilConstructor is reported by holders built without a constructor.
	ErrNilConstructor = errors.New("singleton: nil constructor")
)

// DuplicateConstructionError is returned when code bypasses a holder and
// constructs a guarded type a second time.
type DuplicateConstructionError struct {
	Name string
}

func (e *DuplicateConstructionError) Error() string {
	return fmt.Sprintf("singleton: %s already initialized", e.Name)
}

func (e *DuplicateConstructionError) Is(target error) bool {
	return target == ErrDuplicateConstruction
}

// InitializationError records the failure of a holder's one-time constructor.
// Holders keep returning the same InitializationError after the first failure.
type InitializationError struct {
	Name string
	Err  error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("singleton: initialize %s: %v", e.Name, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

func (e *InitializationError) Is(target error) bool {
	return target == ErrInitialization
}

// PanicError carries a value recovered from a panicking constructor.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("constructor panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// construct runs ctor, turning a panic or returned error into an *InitializationError.
func construct[T any](name string, ctor Constructor[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = &InitializationError{Name: name, Err: &PanicError{Value: r, Stack: debug.Stack()}}
		}
	}()
	value, err = ctor()
	if err != nil {
		var zero T
		return zero, &InitializationError{Name: name, Err: err}
	}
	return value, nil
}
