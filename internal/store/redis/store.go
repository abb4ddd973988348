// Package redis provides a Redis-backed snapshot store. It is the production
// choice when carts must survive process restarts and be shared across
// replicas behind a load balancer.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists cart snapshots in Redis. Keys are namespaced as
// "<namespace>:cart:<key>" so several deployments can share one instance.
type Store struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// New connects to addr. A ttl of zero or less keeps snapshots forever;
// otherwise every Save refreshes the expiry, so active carts never lapse.
func New(addr, namespace string, ttl time.Duration) *Store {
	if ttl < 0 {
		ttl = 0
	}
	return &Store{
		client:    redis.NewClient(&redis.Options{Addr: addr}),
		namespace: namespace,
		ttl:       ttl,
	}
}

func (s *Store) snapshotKey(key string) string {
	return fmt.Sprintf("%s:cart:%s", s.namespace, key)
}

func (s *Store) Load(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.snapshotKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis: load snapshot %q: %w", key, err)
	}
	return val, true, nil
}

func (s *Store) Save(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.snapshotKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: save snapshot %q: %w", key, err)
	}
	return nil
}

// Ping verifies connectivity. Called once at startup so a bad address fails
// fast instead of surfacing as per-request save warnings.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close releases the client's connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
