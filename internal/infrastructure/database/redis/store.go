package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

// Store persists visitor state as Redis strings. Every write refreshes the
// key's expiry so abandoned visitors age out on their own.
type Store struct {
	rdb       redis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

// NewStore creates a storage driver on top of rdb. A zero ttl keeps keys forever.
func NewStore(rdb redis.Cmdable, keyPrefix string, ttl time.Duration) *Store {
	return &Store{rdb: rdb, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.keyPrefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
