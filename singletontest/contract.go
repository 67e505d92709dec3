package singletontest

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goforj/singleton"
	"github.com/goforj/singleton/singletonfake"
)

// Options configures the holder contract checks.
type Options struct {
	// Goroutines is the number of concurrent first callers. Defaults to 100.
	Goroutines int
	// FieldDelay is slept between field writes of the probe constructor.
	// Defaults to 2ms.
	FieldDelay time.Duration
}

// Probe is the value built by the contract suite. Its constructor writes the
// three fields with a delay between each write.
type Probe struct {
	Serial int64
	A      int64
	B      int64
	C      int64
}

// Complete reports whether every field carries the serial assigned at construction.
func (p *Probe) Complete() bool {
	return p != nil && p.Serial != 0 && p.A == p.Serial && p.B == p.Serial && p.C == p.Serial
}

// Factory builds the holder under test.
type Factory func(ctor singleton.Constructor[*Probe], opts ...singleton.Option) singleton.Holder[*Probe]

var serials atomic.Int64

// RunHolderContract runs an implementation-agnostic holder contract suite.
func RunHolderContract(t *testing.T, factory Factory, opts Options) {
	t.Helper()

	n := opts.Goroutines
	if n < 2 {
		n = 100
	}
	delay := opts.FieldDelay
	if delay <= 0 {
		delay = 2 * time.Millisecond
	}

	newProbe := func() *Probe {
		p := &Probe{Serial: serials.Add(1)}
		p.A = p.Serial
		time.Sleep(delay)
		p.B = p.Serial
		time.Sleep(delay)
		p.C = p.Serial
		return p
	}

	t.Run("concurrent first access constructs once", func(t *testing.T) {
		fake := singletonfake.New(newProbe)
		holder := factory(fake.Constructor())
		if holder.Initialized() {
			t.Fatalf("expected holder to start uninitialized")
		}

		got, err := race(n, holder)
		if err != nil {
			t.Fatalf("concurrent get failed: %v", err)
		}
		distinct := make(map[*Probe]struct{}, 1)
		for _, p := range got {
			if !p.Complete() {
				t.Fatalf("observed partially constructed value: %+v", *p)
			}
			distinct[p] = struct{}{}
		}
		if len(distinct) != 1 {
			t.Fatalf("expected 1 distinct instance across %d goroutines, got %d", n, len(distinct))
		}
		fake.AssertCalled(t, 1)
		if !holder.Initialized() {
			t.Fatalf("expected holder to report initialized")
		}
	})

	t.Run("sequential access returns the first instance", func(t *testing.T) {
		fake := singletonfake.New(newProbe)
		holder := factory(fake.Constructor())
		fake.AssertNotCalled(t)

		r1, err := holder.Get()
		if err != nil {
			t.Fatalf("first get failed: %v", err)
		}
		r2, err := holder.Get()
		if err != nil {
			t.Fatalf("second get failed: %v", err)
		}
		if r1 != r2 {
			t.Fatalf("expected identical instances, got %p and %p", r1, r2)
		}
		if holder.MustGet() != r1 {
			t.Fatalf("expected MustGet to return the first instance")
		}
		fake.AssertCalled(t, 1)
	})

	t.Run("constructor failure is sticky", func(t *testing.T) {
		cause := errors.New("contract: boom")
		fake := singletonfake.New(newProbe, singletonfake.WithError[*Probe](cause))
		holder := factory(fake.Constructor())

		for i := 0; i < 2; i++ {
			_, err := race(n, holder)
			if !errors.Is(err, singleton.ErrInitialization) || !errors.Is(err, cause) {
				t.Fatalf("expected initialization error wrapping cause, got %v", err)
			}
			var initErr *singleton.InitializationError
			if !errors.As(err, &initErr) || initErr.Name != holder.Name() {
				t.Fatalf("expected *InitializationError named %q, got %v", holder.Name(), err)
			}
		}
		fake.AssertCalled(t, 1)
		if !holder.Initialized() {
			t.Fatalf("expected failed holder to report initialized")
		}
		if !panics(func() { holder.MustGet() }) {
			t.Fatalf("expected MustGet to panic on failure")
		}
	})

	t.Run("constructor panic is sticky", func(t *testing.T) {
		var calls atomic.Int32
		holder := factory(func() (*Probe, error) {
			calls.Add(1)
			panic("contract: kaboom")
		})

		for i := 0; i < 3; i++ {
			_, err := holder.Get()
			var panicErr *singleton.PanicError
			if !errors.As(err, &panicErr) || panicErr.Value != "contract: kaboom" {
				t.Fatalf("expected recovered panic, got %v", err)
			}
			if !errors.Is(err, singleton.ErrInitialization) {
				t.Fatalf("expected panic to surface as initialization error, got %v", err)
			}
		}
		if got := calls.Load(); got != 1 {
			t.Fatalf("expected constructor to run once, ran %d times", got)
		}
	})

	t.Run("guard rejects direct construction", func(t *testing.T) {
		guard := singleton.NewGuard("contract probe")
		fake := singletonfake.New(newProbe)
		holder := factory(fake.Constructor(), singleton.WithGuard(guard))

		if _, err := holder.Get(); err != nil {
			t.Fatalf("guarded get failed: %v", err)
		}
		direct := singleton.Guarded(guard, fake.Constructor())
		if _, err := direct(); !errors.Is(err, singleton.ErrDuplicateConstruction) {
			t.Fatalf("expected duplicate construction error, got %v", err)
		}
		fake.AssertCalled(t, 1)
	})

	t.Run("guard claimed elsewhere fails initialization", func(t *testing.T) {
		guard := singleton.NewGuard("contract probe")
		fake := singletonfake.New(newProbe)
		if _, err := singleton.Guarded(guard, fake.Constructor())(); err != nil {
			t.Fatalf("first direct construction failed: %v", err)
		}

		holder := factory(fake.Constructor(), singleton.WithGuard(guard))
		_, err := holder.Get()
		if !errors.Is(err, singleton.ErrDuplicateConstruction) || !errors.Is(err, singleton.ErrInitialization) {
			t.Fatalf("expected initialization error wrapping duplicate construction, got %v", err)
		}
		fake.AssertCalled(t, 1)
	})
}

// race releases n goroutines at once against h and collects what they observe.
func race(n int, h singleton.Holder[*Probe]) ([]*Probe, error) {
	start := make(chan struct{})
	got := make([]*Probe, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			<-start
			p, err := h.Get()
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("goroutine %d observed nil instance", i)
			}
			got[i] = p
			return nil
		})
	}
	close(start)
	return got, g.Wait()
}

func panics(fn func()) (panicked bool) {
	defer func() {
		if recover() != nil {
			panicked = true
		}
	}()
	fn()
	return false
}
