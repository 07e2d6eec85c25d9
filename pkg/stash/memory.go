package stash

import (
	"encoding/json"
	"sort"
	"sync"
)

// MemoryStash is a simple in-memory implementation, intended for the
// single-instance case.
type MemoryStash struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func NewMemoryStash() *MemoryStash {
	return &MemoryStash{values: make(map[string]json.RawMessage)}
}

func (m *MemoryStash) Put(key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// copy so callers can reuse their buffer
	m.values[key] = append(json.RawMessage(nil), value...)
	return nil
}

func (m *MemoryStash) Get(key string) (json.RawMessage, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append(json.RawMessage(nil), v...), true, nil
}

func (m *MemoryStash) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// Ping reports readiness for health/info endpoints.
func (m *MemoryStash) Ping() error { return nil }
