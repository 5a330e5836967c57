package session

import (
	"context"
	"sync"

	"empathy-client/internal/domain/ports"
)

// MemoryStore keeps the bearer token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

var _ ports.TokenStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token returns the stored token, or "" when signed out.
func (s *MemoryStore) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// SetToken replaces the stored token.
func (s *MemoryStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// ClearToken signs the session out.
func (s *MemoryStore) ClearToken(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
