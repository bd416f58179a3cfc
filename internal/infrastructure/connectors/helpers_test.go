package connectors

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
)

// staticSource is a test ConnectorSource backed by a plain map
type staticSource map[string]config.ConnectorSettings

func (s staticSource) ConnectorSettings(code string) (config.ConnectorSettings, bool) {
	cs, ok := s[code]
	return cs, ok
}

// memTokenStore is a minimal in-memory TokenStore for tests
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]Token
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]Token)}
}

func (s *memTokenStore) Token(ctx context.Context, code string) (Token, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[code]
	return tok, ok, nil
}

func (s *memTokenStore) Save(ctx context.Context, code string, token Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[code] = token
	return nil
}

func (s *memTokenStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, code)
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func enabledSettings(apiURL string) config.ConnectorSettings {
	return config.ConnectorSettings{
		Enabled:      true,
		APIURL:       apiURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
}
