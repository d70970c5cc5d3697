package storage

import (
	"context"
	"sync"

	"github.com/v01cee/convert-yandex-bot/internal/ports"
)

// MemoryTokenStore keeps tokens in process memory. Used when no database
// DSN is configured and as a fake in tests; tokens vanish on restart.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[int64]string
}

var _ ports.TokenStore = (*MemoryTokenStore)(nil)

// NewMemoryTokenStore builds an empty store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: map[int64]string{}}
}

// Save stores the user's access token.
func (s *MemoryTokenStore) Save(_ context.Context, userID int64, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID] = accessToken
	return nil
}

// Get returns the user's token and whether one is stored.
func (s *MemoryTokenStore) Get(_ context.Context, userID int64) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[userID]
	return token, ok, nil
}

// Remove deletes the user's token.
func (s *MemoryTokenStore) Remove(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, userID)
	return nil
}
