// Package store provides wage.Backend implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/wage-engine/wage"
)

// =============================================================================
// MEMORY BACKEND - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps the collection in process memory. The mutex only guards the
// map itself; it does not make EntryStore's read-modify-write atomic.
type Memory struct {
	mu      sync.RWMutex
	entries wage.Collection
	writes  int
}

// NewMemory returns an empty backend.
func NewMemory() *Memory {
	return &Memory{entries: make(wage.Collection)}
}

// NewMemoryWith returns a backend pre-loaded with c.
func NewMemoryWith(c wage.Collection) *Memory {
	return &Memory{entries: c.Clone()}
}

// Load returns a copy of the stored collection.
func (m *Memory) Load(_ context.Context) (wage.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries.Clone(), nil
}

// Replace stores a copy of c.
func (m *Memory) Replace(_ context.Context, c wage.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = c.Clone()
	m.writes++
	return nil
}

// Writes returns how many times Replace has been called.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
