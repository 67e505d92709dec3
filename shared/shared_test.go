package shared

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/goforj/singleton"
)

func TestCacheIsProcessWide(t *testing.T) {
	first := Cache()
	first.Set("k", "v", time.Minute)

	var wg sync.WaitGroup
	seen := make([]*gocache.Cache, 32)
	for i := range seen {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen[i] = Cache()
		}()
	}
	wg.Wait()
	for i, c := range seen {
		if c != first {
			t.Fatalf("goroutine %d saw a different cache", i)
		}
	}
	if v, ok := seen[0].Get("k"); !ok || v != "v" {
		t.Fatalf("expected value written through first handle, got %v ok=%v", v, ok)
	}
}

func TestDBIsProcessWideAndReady(t *testing.T) {
	db, err := DB()
	if err != nil {
		t.Fatalf("open shared db: %v", err)
	}
	again, err := DB()
	if err != nil || again != db {
		t.Fatalf("expected same db handle, err=%v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + constructionsTable).Scan(&n); err != nil {
		t.Fatalf("expected schema to exist: %v", err)
	}
}

func TestDefaultLedgerRejectsDirectConstruction(t *testing.T) {
	l, err := DefaultLedger()
	if err != nil {
		t.Fatalf("default ledger: %v", err)
	}
	again, err := DefaultLedger()
	if err != nil || again != l {
		t.Fatalf("expected same ledger, err=%v", err)
	}

	db, _ := DB()
	direct, err := NewLedger(db, Cache())
	if !errors.Is(err, singleton.ErrDuplicateConstruction) || direct != nil {
		t.Fatalf("expected duplicate construction, got ledger=%v err=%v", direct, err)
	}
}

func TestLedgerRecordsHolderEvents(t *testing.T) {
	db, err := openDB()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	l := newLedger(db, gocache.New(time.Minute, time.Minute))
	at := time.Unix(1700000000, 0)
	l.now = func() time.Time { return at }

	h := singleton.NewChecked(func() (*int, error) {
		n := 42
		return &n, nil
	}, singleton.WithName("answer"), singleton.WithObserver(l))
	for i := 0; i < 3; i++ {
		h.MustGet()
	}

	failing := singleton.NewOnce(func() (int, error) {
		return 0, errors.New("no answer")
	}, singleton.WithName("broken"), singleton.WithObserver(l))
	_, _ = failing.Get()

	got, err := l.Constructions(context.Background())
	if err != nil {
		t.Fatalf("constructions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 constructions, got %d", len(got))
	}
	if got[0].Name != "answer" || got[0].Variant != singleton.VariantChecked || got[0].Failure != "" {
		t.Fatalf("unexpected first construction: %+v", got[0])
	}
	if got[1].Name != "broken" || got[1].Variant != singleton.VariantOnce || got[1].Failure == "" {
		t.Fatalf("unexpected second construction: %+v", got[1])
	}
	if !got[0].CreatedAt.Equal(at) || !got[1].CreatedAt.Equal(at) {
		t.Fatalf("expected creation time from ledger clock, got %v and %v", got[0].CreatedAt, got[1].CreatedAt)
	}
	if n := l.Gets("answer"); n != 3 {
		t.Fatalf("expected 3 gets for answer, got %d", n)
	}
	if n := l.Gets("missing"); n != 0 {
		t.Fatalf("expected no gets for unknown name, got %d", n)
	}
}

func TestLedgerRecordKeepsExplicitTimestamp(t *testing.T) {
	db, err := openDB()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	l := newLedger(db, gocache.New(time.Minute, time.Minute))

	at := time.Unix(1700000000, 0)
	if err := l.Record(context.Background(), Construction{Name: "x", Variant: singleton.VariantOnce, Duration: time.Millisecond, CreatedAt: at}); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := l.Constructions(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected constructions: %v err=%v", got, err)
	}
	if !got[0].CreatedAt.Equal(at) || got[0].Duration != time.Millisecond {
		t.Fatalf("unexpected stored construction: %+v", got[0])
	}
}

func TestLedgerRecordFailsOnClosedDB(t *testing.T) {
	db, err := openDB()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	_ = db.Close()
	l := newLedger(db, gocache.New(time.Minute, time.Minute))
	if err := l.Record(context.Background(), Construction{Name: "x"}); err == nil {
		t.Fatalf("expected record on closed db to fail")
	}
}
