package readthrough

import (
	"fmt"
	"sync"
)

func NewMemory() *Memory {
	return &Memory{entries: map[string][]byte{}}
}

// Memory is a process-lifetime Backend.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bs, ok := m.entries[key]
	if !ok {
		return nil, fmt.Errorf("cache miss for '%s': %w", key, ErrMiss)
	}
	return bs, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
