package notify

import (
	"context"
	"sync"
)

// MemoryStore keeps toasts in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	pending map[string][]Toast
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[string][]Toast)}
}

func (m *MemoryStore) Append(_ context.Context, sessionID string, toast Toast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[sessionID] = append(m.pending[sessionID], toast)
	return nil
}

func (m *MemoryStore) Take(_ context.Context, sessionID string) ([]Toast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	toasts := m.pending[sessionID]
	delete(m.pending, sessionID)
	return toasts, nil
}
