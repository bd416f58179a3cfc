package cache

import (
	"context"
	"sync"

	"github.com/nicksmagento/syncbridge/internal/infrastructure/connectors"
)

// InMemoryTokenStore caches access tokens in process memory. Suitable for
// a single instance; distributed deployments should use RedisTokenStore so
// instances share tokens instead of racing the remote token endpoint.
type InMemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]connectors.Token
}

// NewInMemoryTokenStore creates an empty in-memory token store
func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{
		tokens: make(map[string]connectors.Token),
	}
}

// Token implements connectors.TokenStore
func (s *InMemoryTokenStore) Token(ctx context.Context, code string) (connectors.Token, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[code]
	return tok, ok, nil
}

// Save implements connectors.TokenStore
func (s *InMemoryTokenStore) Save(ctx context.Context, code string, token connectors.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[code] = token
	return nil
}

// Delete implements connectors.TokenStore
func (s *InMemoryTokenStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, code)
	return nil
}

var _ connectors.TokenStore = (*InMemoryTokenStore)(nil)
