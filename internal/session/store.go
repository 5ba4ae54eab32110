package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "console:session:token:"

// TokenStore persists the bearer token for a session. The token is the only
// durable session field; everything else is refetched from the backend.
type TokenStore interface {
	// Get returns the stored token, or "" when the session has none.
	Get(ctx context.Context, sid string) (string, error)
	// Set stores the token under the session key with the given lifetime.
	Set(ctx context.Context, sid, token string, ttl time.Duration) error
	// Delete removes the session key. Deleting an absent key is not an error.
	Delete(ctx context.Context, sid string) error
}

// RedisTokenStore keeps one Redis string key per session.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore wraps an existing Redis client.
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Get(ctx context.Context, sid string) (string, error) {
	val, err := s.client.Get(ctx, tokenKeyPrefix+sid).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisTokenStore) Set(ctx context.Context, sid, token string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKeyPrefix+sid, token, ttl).Err()
}

func (s *RedisTokenStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, tokenKeyPrefix+sid).Err()
}

// MemoryTokenStore is a map-backed TokenStore for tests and single-node
// development runs.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryTokenStore builds an empty store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]string)}
}

func (s *MemoryTokenStore) Get(_ context.Context, sid string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[sid], nil
}

func (s *MemoryTokenStore) Set(_ context.Context, sid, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sid] = token
	return nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sid)
	return nil
}
