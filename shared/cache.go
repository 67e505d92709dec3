package shared

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/goforj/singleton"
)

var memory = singleton.NewValue(newMemory, singleton.WithName("shared memory cache"))

func newMemory() *gocache.Cache {
	return gocache.New(defaultCacheTTL, defaultMemoryCleanupInterval)
}

// Cache returns the process-wide in-memory cache, creating it on first use.
func Cache() *gocache.Cache {
	return memory.MustGet()
}
