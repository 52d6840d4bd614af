package storage

import (
	"context"
	"sync"
)

// MemorySubstrate keeps values in process memory.
type MemorySubstrate struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemorySubstrate creates an empty in-memory substrate.
func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{values: make(map[string][]byte)}
}

func (m *MemorySubstrate) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemorySubstrate) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemorySubstrate) Close() error { return nil }
