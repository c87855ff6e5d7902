package chart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/newthinker/btview/internal/core"
)

// Key returns the content hash of a result snapshot
func Key(result *core.BacktestResult) (uint64, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("encoding result: %w", err)
	}
	return xxhash.Sum64(data), nil
}

// Entry is a rendered snapshot held by the cache
type Entry struct {
	Key    uint64
	Result *core.BacktestResult
	Data   *ChartData
}

// Cache holds the most recently rendered result. Storing a new entry
// replaces the previous one wholesale; entries are never modified.
type Cache struct {
	mu    sync.RWMutex
	entry *Entry
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached chart data when key matches the latest entry
func (c *Cache) Get(key uint64) (*ChartData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil || c.entry.Key != key {
		return nil, false
	}
	return c.entry.Data, true
}

// Put replaces the cached entry
func (c *Cache) Put(entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = entry
}

// Latest returns the most recent entry, if any
func (c *Cache) Latest() (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entry, c.entry != nil
}
