package singleton

// Variant identifies the lazy-initialization algorithm behind a Holder.
type Variant string

const (
	// VariantOnce defers construction behind a run-once guard.
	VariantOnce Variant = "once"
	// VariantChecked uses double-checked locking over an atomically published slot.
	VariantChecked Variant = "checked"
)

// Holder lazily constructs and hands out a single shared instance of T.
//
// Implementations guarantee that the constructor runs at most once, that every
// caller receives the same instance, and that no caller observes a value whose
// constructor has not returned.
type Holder[T any] interface {
	// Get returns the shared instance, constructing it on the first call.
	// A construction failure is returned as *InitializationError on this and
	// every later call.
	Get() (T, error)
	// MustGet is Get that panics on an initialization failure.
	MustGet() T
	// Initialized reports whether construction has finished, successfully or not.
	Initialized() bool
	// Name is the diagnostic name of the held value.
	Name() string
	// Variant reports the algorithm used by the holder.
	Variant() Variant
}

// Constructor builds the value held by a Holder.
type Constructor[T any] func() (T, error)
