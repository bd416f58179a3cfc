package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/connectors"
)

// RedisTokenStore implements connectors.TokenStore on Redis. Tokens are
// stored as JSON with a TTL matching their expiry, so Redis evicts them
// on its own and a restart never resurrects a stale token.
type RedisTokenStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenStore connects to Redis and verifies the connection
func NewRedisTokenStore(cfg config.RedisConfig) (*RedisTokenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTokenStore{
		client:    client,
		keyPrefix: "connector:token:",
	}, nil
}

// NewRedisTokenStoreWithClient creates a store with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisTokenStoreWithClient(client *redis.Client, keyPrefix string) *RedisTokenStore {
	if keyPrefix == "" {
		keyPrefix = "connector:token:"
	}
	return &RedisTokenStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Token implements connectors.TokenStore
func (s *RedisTokenStore) Token(ctx context.Context, code string) (connectors.Token, bool, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return connectors.Token{}, false, nil
	}
	if err != nil {
		return connectors.Token{}, false, fmt.Errorf("failed to read cached token: %w", err)
	}

	var tok connectors.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return connectors.Token{}, false, fmt.Errorf("failed to decode cached token: %w", err)
	}
	return tok, true, nil
}

// Save implements connectors.TokenStore
func (s *RedisTokenStore) Save(ctx context.Context, code string, token connectors.Token) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		// Already expired, nothing worth caching
		return nil
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+code, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}
	return nil
}

// Delete implements connectors.TokenStore
func (s *RedisTokenStore) Delete(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, s.keyPrefix+code).Err(); err != nil {
		return fmt.Errorf("failed to drop cached token: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisTokenStore) Close() error {
	return s.client.Close()
}

var _ connectors.TokenStore = (*RedisTokenStore)(nil)
