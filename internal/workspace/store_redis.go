package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mindx-labs/coursecms/internal/platform/cache"
)

// RedisStore persists the catalog blob and selection keys in Redis. This is
// the default durable backend.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store from a connected cache client.
func NewRedisStore(c *cache.Cache) *RedisStore {
	return &RedisStore{client: c.Client}
}

func (s *RedisStore) LoadTree(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, treeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog blob: %w", err)
	}
	return data, nil
}

func (s *RedisStore) SaveTree(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, treeKey, data, 0).Err(); err != nil {
		return fmt.Errorf("save catalog blob: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadSelection(ctx context.Context) (string, string, error) {
	vals, err := s.client.MGet(ctx, selectedPathKey, selectedCourseKey).Result()
	if err != nil {
		return "", "", fmt.Errorf("load selection: %w", err)
	}

	var pathID, courseID string
	if v, ok := vals[0].(string); ok {
		pathID = v
	}
	if v, ok := vals[1].(string); ok {
		courseID = v
	}
	return pathID, courseID, nil
}

func (s *RedisStore) SaveSelection(ctx context.Context, pathID, courseID string) error {
	pipe := s.client.TxPipeline()
	setOrDeleteRedis(ctx, pipe, selectedPathKey, pathID)
	setOrDeleteRedis(ctx, pipe, selectedCourseKey, courseID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

func setOrDeleteRedis(ctx context.Context, pipe redis.Pipeliner, key, value string) {
	if value == "" {
		pipe.Del(ctx, key)
		return
	}
	pipe.Set(ctx, key, value, 0)
}
