package singleton

import "time"

// Op identifies a holder event.
type Op string

const (
	// OpGet is reported for every accessor call.
	OpGet Op = "get"
	// OpConstruct is reported once, when the constructor returns.
	OpConstruct Op = "construct"
)

// Observer receives events for holder operations.
// It is called synchronously after each operation completes.
type Observer interface {
	OnSingletonOp(op Op, name string, err error, dur time.Duration, variant Variant)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(op Op, name string, err error, dur time.Duration, variant Variant)

// OnSingletonOp implements Observer.
func (f ObserverFunc) OnSingletonOp(op Op, name string, err error, dur time.Duration, variant Variant) {
	if f == nil {
		return
	}
	f(op, name, err, dur, variant)
}

func observe(o Observer, op Op, name string, err error, start time.Time, variant Variant) {
	if o == nil {
		return
	}
	o.OnSingletonOp(op, name, err, time.Since(start), variant)
}
