package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// Store is the single-slot session boundary: it holds at most one value, the
// identifier of the currently logged-in user. An empty identifier means no
// session. Implementations are handed to the identity service explicitly;
// there is no process-global slot.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, userID string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session slot in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	userID string
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, nil
}

func (s *MemoryStore) Set(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	return nil
}

// RedisStore keeps the session slot in Redis so it survives process restarts
type RedisStore struct {
	client *redis.Client
	slot   string
	ttl    time.Duration
}

// NewRedisStore creates a session store backed by the given Redis client.
// The slot name scopes the session to one logical client.
func NewRedisStore(client *redis.Client, slot string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		slot:   "session:" + slot,
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.slot).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", errors.Wrap(err, "failed to read session slot")
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, userID string) error {
	if err := s.client.Set(ctx, s.slot, userID, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to write session slot")
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.slot).Err(); err != nil {
		return errors.Wrap(err, "failed to clear session slot")
	}
	return nil
}
