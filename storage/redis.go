package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jsaveker/fork-it-app/logging"
	"github.com/redis/go-redis/v9"
)

// RedisKeyValueStore backs the KV contract with Redis. Expiry is native
// (SET with EX), so expired sessions simply stop existing.
type RedisKeyValueStore struct {
	Client *redis.Client
}

// NewRedisKeyValueStore connects to Redis and verifies the connection
// before returning.
func NewRedisKeyValueStore(addr string) (*RedisKeyValueStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: redis ping failed: %v", ErrStoreUnavailable, err)
	}
	return &RedisKeyValueStore{Client: client}, nil
}

func (s *RedisKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		logging.Log.Errorf("KV: redis GET %s failed: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return value, nil
}

func (s *RedisKeyValueStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.Client.Set(ctx, key, value, ttl).Err(); err != nil {
		logging.Log.Errorf("KV: redis SET %s failed: %v", key, err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisKeyValueStore) Delete(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, key).Err(); err != nil {
		logging.Log.Errorf("KV: redis DEL %s failed: %v", key, err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisKeyValueStore) List(ctx context.Context, prefix string) ([][]byte, error) {
	var keys []string
	iter := s.Client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logging.Log.Errorf("KV: redis SCAN %s* failed: %v", prefix, err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(keys) == 0 {
		return [][]byte{}, nil
	}

	raw, err := s.Client.MGet(ctx, keys...).Result()
	if err != nil {
		logging.Log.Errorf("KV: redis MGET failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	values := make([][]byte, 0, len(raw))
	for _, v := range raw {
		// Keys can expire between SCAN and MGET.
		if str, ok := v.(string); ok {
			values = append(values, []byte(str))
		}
	}
	return values, nil
}

// Close releases the underlying connection pool.
func (s *RedisKeyValueStore) Close() error {
	return s.Client.Close()
}
