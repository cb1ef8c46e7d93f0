// internal/db/redis.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by GetJSON when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

type RedisDB struct {
	Client *redis.Client
}

func NewRedisDB(redisURL string) (*RedisDB, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("[Redis] ✅ Connected to %s (db %d)", opt.Addr, opt.DB)
	return &RedisDB{Client: client}, nil
}

func (r *RedisDB) Close() {
	if r.Client == nil {
		return
	}
	if err := r.Client.Close(); err != nil {
		log.Printf("⚠️ [Redis] Close failed: %v", err)
		return
	}
	log.Println("[Redis] Connection closed")
}

func (r *RedisDB) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Keyspace returns a view of the client that prefixes every key with
// name and a colon.
func (r *RedisDB) Keyspace(name string) *Keyspace {
	return &Keyspace{client: r.Client, prefix: name + ":"}
}

// Keyspace stores raw bytes or JSON under a shared key prefix.
type Keyspace struct {
	client *redis.Client
	prefix string
}

// Get reports ok=false for a missing key.
func (k *Keyspace) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := k.client.Get(ctx, k.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return data, true, nil
}

// Set stores value; ttl 0 keeps it until deleted.
func (k *Keyspace) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return k.client.Set(ctx, k.prefix+key, value, ttl).Err()
}

func (k *Keyspace) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = k.prefix + key
	}
	return k.client.Del(ctx, full...).Err()
}

func (k *Keyspace) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return k.Set(ctx, key, data, ttl)
}

func (k *Keyspace) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, ok, err := k.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}
