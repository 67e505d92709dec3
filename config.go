package singleton

import "fmt"

// Config controls how a Holder is constructed.
type Config struct {
	// Name labels the held value in errors and observer events.
	// Defaults to the Go type of the value.
	Name string

	// Observer receives get/construct events. Optional.
	Observer Observer

	// Guard, when set, is claimed before the constructor runs so that any other
	// construction path for the same type fails with ErrDuplicateConstruction.
	Guard *Guard
}

func (c Config) withDefaults(typeName string) Config {
	if c.Name == "" {
		c.Name = typeName
	}
	return c
}

func typeName[T any]() string {
	var zero T
	name := fmt.Sprintf("%T", zero)
	if name == "<nil>" {
		// interface type parameters format as <nil>
		name = fmt.Sprintf("%T", (*T)(nil))[1:]
	}
	return name
}
