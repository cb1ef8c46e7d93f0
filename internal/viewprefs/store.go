package viewprefs

import (
	"context"
	"fmt"

	"github.com/Marga-Ghale/ora-boards-backend/internal/db"
	gocache "github.com/patrickmn/go-cache"
)

// Store is the key-value backend for view preferences.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps preferences in process memory. Used in tests and when
// Redis is not configured.
type MemoryStore struct {
	items *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("unexpected value type %T for %s", v, key)
	}
	return append([]byte(nil), b...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.items.Set(key, append([]byte(nil), value...), gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.items.Delete(key)
	return nil
}

// RedisStore keeps preferences in Redis.
type RedisStore struct {
	keys *db.Keyspace
}

func NewRedisStore(redis *db.RedisDB) *RedisStore {
	return &RedisStore{keys: redis.Keyspace("prefs")}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.keys.Get(ctx, key)
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.keys.Set(ctx, key, value, 0)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.keys.Delete(ctx, key)
}
