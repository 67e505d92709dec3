package shared

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/goforj/singleton"
)

var ledgerGuard = singleton.NewGuard("shared ledger")

var ledger = singleton.NewChecked(func() (*Ledger, error) {
	db, err := DB()
	if err != nil {
		return nil, err
	}
	return NewLedger(db, Cache())
}, singleton.WithName("shared ledger"))

// Construction is one recorded holder construction.
type Construction struct {
	Name      string
	Variant   singleton.Variant
	Failure   string
	Duration  time.Duration
	CreatedAt time.Time
}

// Ledger records holder events: constructions go to SQLite, get counts to the
// in-process cache. It implements singleton.Observer.
//
// Only one Ledger may exist per process. Use DefaultLedger.
type Ledger struct {
	db       *sql.DB
	counters *gocache.Cache
	now      func() time.Time
}

var _ singleton.Observer = (*Ledger)(nil)

// DefaultLedger returns the process-wide ledger backed by DB and Cache.
func DefaultLedger() (*Ledger, error) {
	return ledger.Get()
}

// NewLedger builds the process ledger. Any call after the first fails with
// singleton.ErrDuplicateConstruction, including the one made by DefaultLedger.
func NewLedger(db *sql.DB, counters *gocache.Cache) (*Ledger, error) {
	if err := ledgerGuard.Claim(); err != nil {
		return nil, err
	}
	return newLedger(db, counters), nil
}

func newLedger(db *sql.DB, counters *gocache.Cache) *Ledger {
	return &Ledger{db: db, counters: counters, now: time.Now}
}

// OnSingletonOp implements singleton.Observer. Write failures are dropped;
// use Record when the caller needs them.
func (l *Ledger) OnSingletonOp(op singleton.Op, name string, err error, dur time.Duration, variant singleton.Variant) {
	switch op {
	case singleton.OpGet:
		l.countGet(name)
	case singleton.OpConstruct:
		c := Construction{Name: name, Variant: variant, Duration: dur}
		if err != nil {
			c.Failure = err.Error()
		}
		_ = l.Record(context.Background(), c)
	}
}

// Record stores a construction.
func (l *Ledger) Record(ctx context.Context, c Construction) error {
	created := c.CreatedAt
	if created.IsZero() {
		created = l.now()
	}
	_, err := l.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, variant, failure, duration_ns, created_at) VALUES (?, ?, ?, ?, ?)`, constructionsTable),
		c.Name, string(c.Variant), c.Failure, int64(c.Duration), created.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record construction of %s: %w", c.Name, err)
	}
	return nil
}

// Constructions returns recorded constructions in insertion order.
func (l *Ledger) Constructions(ctx context.Context) ([]Construction, error) {
	rows, err := l.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT name, variant, failure, duration_ns, created_at FROM %s ORDER BY id`, constructionsTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Construction
	for rows.Next() {
		var (
			c         Construction
			variant   string
			durNanos  int64
			createdNs int64
		)
		if err := rows.Scan(&c.Name, &variant, &c.Failure, &durNanos, &createdNs); err != nil {
			return nil, err
		}
		c.Variant = singleton.Variant(variant)
		c.Duration = time.Duration(durNanos)
		c.CreatedAt = time.Unix(0, createdNs)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Gets returns how many accessor calls were observed for name.
func (l *Ledger) Gets(name string) int64 {
	v, ok := l.counters.Get(getsKeyPrefix + name)
	if !ok {
		return 0
	}
	n, _ := v.(int64)
	return n
}

func (l *Ledger) countGet(name string) {
	key := getsKeyPrefix + name
	// Add fails when the counter exists, which is the common case.
	_ = l.counters.Add(key, int64(0), gocache.NoExpiration)
	_, _ = l.counters.IncrementInt64(key, 1)
}
