package singleton

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestGuardFirstClaimSucceeds(t *testing.T) {
	g := NewGuard("registry")
	if g.Claimed() {
		t.Fatalf("expected fresh guard to be unclaimed")
	}
	if err := g.Claim(); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	err := g.Claim()
	if !errors.Is(err, ErrDuplicateConstruction) {
		t.Fatalf("expected duplicate construction, got %v", err)
	}
	var dup *DuplicateConstructionError
	if !errors.As(err, &dup) || dup.Name != "registry" {
		t.Fatalf("expected named duplicate error, got %v", err)
	}
	if err.Error() != "singleton: registry already initialized" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestGuardConcurrentClaimsAdmitOne(t *testing.T) {
	g := NewGuard("registry")
	var ok atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if g.Claim() == nil {
				ok.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()
	if ok.Load() != 1 {
		t.Fatalf("expected exactly one successful claim, got %d", ok.Load())
	}
}

func TestGuardedConstructorRejectsSecondCall(t *testing.T) {
	var built int
	ctor := Guarded(NewGuard("widget"), func() (*widget, error) {
		built++
		return &widget{}, nil
	})
	if _, err := ctor(); err != nil {
		t.Fatalf("first construction failed: %v", err)
	}
	w, err := ctor()
	if !errors.Is(err, ErrDuplicateConstruction) || w != nil {
		t.Fatalf("expected duplicate construction, got w=%v err=%v", w, err)
	}
	if built != 1 {
		t.Fatalf("expected body to run once, ran %d", built)
	}
}

func TestHolderWithGuardOwnsTheOnlyConstruction(t *testing.T) {
	for variant, mk := range holderVariants() {
		t.Run(string(variant), func(t *testing.T) {
			g := NewGuard("widget")
			h := mk(func() (*widget, error) { return &widget{}, nil }, WithGuard(g))
			if g.Claimed() {
				t.Fatalf("expected guard untouched before first get")
			}
			if _, err := h.Get(); err != nil {
				t.Fatalf("get failed: %v", err)
			}
			if !g.Claimed() {
				t.Fatalf("expected holder to claim guard")
			}
			if _, err := h.Get(); err != nil {
				t.Fatalf("repeat get should not reclaim guard: %v", err)
			}
		})
	}
}
