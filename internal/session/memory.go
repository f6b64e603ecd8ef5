package session

import (
	"context"
	"sync"
)

// MemoryPersister keeps records in process memory. Nothing survives exit.
type MemoryPersister struct {
	mu      sync.Mutex
	records map[string]string
}

// NewMemoryPersister creates an empty persister
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{records: make(map[string]string)}
}

func (m *MemoryPersister) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.records[key]
	return payload, ok, nil
}

func (m *MemoryPersister) Save(_ context.Context, key, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = payload
	return nil
}

func (m *MemoryPersister) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

var _ Persister = (*MemoryPersister)(nil)
