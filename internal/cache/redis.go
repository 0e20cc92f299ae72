package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// envelope wraps cached payloads so the version stamp travels with the
// data. Redis handles expiry via the key TTL; the version check stays
// client-side to match Store semantics.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
}

// RedisStore is an optional cache tier with the same validity rules as
// Store, for deployments where several processes share one cache. The
// in-memory Store remains the default.
type RedisStore struct {
	client        *redis.Client
	name          string
	defaultMaxAge time.Duration
}

// NewRedisStore wraps an existing client. The caller owns the client's
// lifecycle.
func NewRedisStore(client *redis.Client, name string, defaultMaxAge time.Duration) *RedisStore {
	return &RedisStore{client: client, name: name, defaultMaxAge: defaultMaxAge}
}

func (r *RedisStore) key(k string) string {
	return fmt.Sprintf("gg:%s:%s", r.name, k)
}

func (r *RedisStore) maxAge(opts Options) time.Duration {
	if opts.MaxAge > 0 {
		return opts.MaxAge
	}
	return r.defaultMaxAge
}

// Set stores value as a JSON envelope with the key's TTL set to MaxAge.
func (r *RedisStore) Set(ctx context.Context, key string, value interface{}, opts Options) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	env, err := json.Marshal(envelope{Data: data, Version: opts.Version, Timestamp: time.Now()})
	if err != nil {
		return fmt.Errorf("marshal cache envelope: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), string(env), r.maxAge(opts)).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get unmarshals a valid entry into dest. A version mismatch or an
// unparseable envelope reads as absent and deletes the dead key.
func (r *RedisStore) Get(ctx context.Context, key string, opts Options, dest interface{}) (bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		// Malformed entry: purge and treat as a miss.
		r.client.Del(ctx, r.key(key))
		return false, nil
	}
	if env.Version != opts.Version {
		r.client.Del(ctx, r.key(key))
		return false, nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		r.client.Del(ctx, r.key(key))
		return false, nil
	}
	return true, nil
}

// Remove deletes an entry unconditionally.
func (r *RedisStore) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}
