package catalog

import (
	"time"

	"github.com/google/cel-go/cel"
)

// ProgramCache caches compiled filter expressions keyed by source text
type ProgramCache interface {
	// Get returns the compiled program, false on miss or expiry
	Get(expression string) (cel.Program, bool)

	// Set stores a compiled program
	Set(expression string, prog cel.Program)

	// Len returns the number of live entries
	Len() int
}

// CacheConfig holds configuration for cache behavior
type CacheConfig struct {
	// TTL is the time-to-live for cached entries
	// Set to 0 for no expiration
	TTL time.Duration

	// MaxEntries bounds the cache; the oldest entry is evicted first.
	// Set to 0 for no bound.
	MaxEntries int
}

// DefaultCacheConfig returns defaults sized for ad-hoc filter queries
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:        10 * time.Minute,
		MaxEntries: 256,
	}
}
