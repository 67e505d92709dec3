// Package shared exposes process-wide values built on singleton holders:
// an in-process cache, an in-memory SQLite database, and a construction
// ledger that records holder events into both.
package shared
