package shared

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/goforj/singleton"
)

var database = singleton.NewChecked(openDB, singleton.WithName("shared sqlite db"))

// DB returns the process-wide in-memory SQLite database.
// A failure to open it is returned on this and every later call.
func DB() (*sql.DB, error) {
	return database.Get()
}

// openDB opens a private in-memory database. Each connection to ":memory:" is
// its own database, so the pool is pinned to a single connection.
func openDB() (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, sqliteDSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		variant TEXT NOT NULL,
		failure TEXT NOT NULL DEFAULT '',
		duration_ns INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`, constructionsTable)
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("create %s: %w", constructionsTable, err)
	}
	return nil
}
