package harness

import (
	"context"
	"sync"
)

// PersistentStore is the host's key-value persistence mechanism. When
// store clearing is enabled the Runner empties it before each case so
// persisted state cannot leak between cases. Clearing failures are logged
// as warnings and never abort the run.
type PersistentStore interface {
	// Keys returns all keys currently present in the store.
	Keys(ctx context.Context) ([]string, error)

	// Remove deletes a single key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear removes every key from the store.
	Clear(ctx context.Context) error
}

// MemoryStore is an in-memory PersistentStore. It backs the harness's own
// tests and suits hosts that keep per-session state in process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Set stores a value under key.
func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Get returns the value stored under key, if any.
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Keys implements PersistentStore.
func (m *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	return keys, nil
}

// Remove implements PersistentStore.
func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Clear implements PersistentStore.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
	return nil
}
