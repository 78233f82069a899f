package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"ascentra/internal/model"
)

// ResultCache handles Redis caching of execution results. Results are
// byte-for-byte reproducible for a fixed spec, dataset and segment set, so
// the deterministic spec hash is a sound cache key. TTL-only: nothing here
// survives as a durable result store.
type ResultCache interface {
	Get(ctx context.Context, key string) (*model.ExecutionResult, error)
	Set(ctx context.Context, key string, result *model.ExecutionResult) error
}

type resultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a new result cache
func NewResultCache(client *redis.Client) ResultCache {
	return &resultCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *resultCache) key(hash string) string {
	return "result:" + hash
}

func (c *resultCache) Get(ctx context.Context, key string) (*model.ExecutionResult, error) {
	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.ExecutionResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *resultCache) Set(ctx context.Context, key string, result *model.ExecutionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
}
