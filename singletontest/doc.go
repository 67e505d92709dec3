// Package singletontest provides a reusable contract suite for singleton.Holder
// implementations.
//
// Example pattern:
//
//	func TestOnceHolderContract(t *testing.T) {
//		singletontest.RunHolderContract(t, func(ctor singleton.Constructor[*singletontest.Probe], opts ...singleton.Option) singleton.Holder[*singletontest.Probe] {
//			return singleton.NewOnce(ctor, opts...)
//		}, singletontest.Options{Goroutines: 100})
//	}
package singletontest
