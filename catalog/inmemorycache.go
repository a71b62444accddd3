package catalog

import (
	"sync"
	"time"

	"github.com/google/cel-go/cel"
)

type cachedProgram struct {
	prog     cel.Program
	cachedAt time.Time
}

// InMemoryProgramCache is a simple in-memory implementation of ProgramCache
// Thread-safe for concurrent access
type InMemoryProgramCache struct {
	entries map[string]cachedProgram
	order   []string // insertion order, for eviction
	config  CacheConfig
	now     func() time.Time
	mu      sync.RWMutex
}

// NewInMemoryProgramCache creates a new in-memory program cache
func NewInMemoryProgramCache(config CacheConfig) *InMemoryProgramCache {
	return &InMemoryProgramCache{
		entries: make(map[string]cachedProgram),
		config:  config,
		now:     time.Now,
	}
}

// Get retrieves a cached program
// Returns false if absent or expired
func (c *InMemoryProgramCache) Get(expression string) (cel.Program, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[expression]
	if !ok {
		return nil, false
	}
	if c.expired(entry) {
		return nil, false
	}
	return entry.prog, true
}

// Set stores a program, evicting the oldest entry when full
func (c *InMemoryProgramCache) Set(expression string, prog cel.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[expression]; !exists {
		c.order = append(c.order, expression)
	}
	c.entries[expression] = cachedProgram{prog: prog, cachedAt: c.now()}

	for c.config.MaxEntries > 0 && len(c.entries) > c.config.MaxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len returns the number of unexpired entries
func (c *InMemoryProgramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, entry := range c.entries {
		if !c.expired(entry) {
			n++
		}
	}
	return n
}

func (c *InMemoryProgramCache) expired(entry cachedProgram) bool {
	return c.config.TTL > 0 && c.now().Sub(entry.cachedAt) > c.config.TTL
}
