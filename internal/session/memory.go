// ABOUTME: In-process session store keyed by browser session id
// ABOUTME: Used by tests and by embedders that do not need persistence

package session

import (
	"context"
	"sync"
)

// MemoryStore keeps credentials in a map. Calls without a session id in
// context share a single unscoped slot.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func scopeKey(ctx context.Context) string {
	id, _ := IDFromContext(ctx)
	return id
}

// Get returns the credential for the context's scope.
func (m *MemoryStore) Get(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tok, ok := m.tokens[scopeKey(ctx)]
	if !ok || tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// Set stores the credential for the context's scope.
func (m *MemoryStore) Set(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[scopeKey(ctx)] = token
	return nil
}

// Clear removes the credential for the context's scope.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, scopeKey(ctx))
	return nil
}
