package shared

import "time"

const (
	defaultCacheTTL              = 5 * time.Minute
	defaultMemoryCleanupInterval = 10 * time.Minute

	sqliteDriverName = "sqlite"
	sqliteDSN        = ":memory:"

	constructionsTable = "singleton_constructions"
	getsKeyPrefix      = "singleton:gets:"
)
