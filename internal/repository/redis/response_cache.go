package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prathmeshnaik91/skinet/internal/repository"
)

const responseKeyPrefix = "response:"

var _ repository.ResponseCacheStore = (*ResponseCache)(nil)

// ResponseCache keeps serialized catalog responses.
type ResponseCache struct {
	client *redis.Client
}

func NewResponseCache(client *redis.Client) *ResponseCache {
	return &ResponseCache{client: client}
}

func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := c.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get response: %w", err)
	}
	return body, true, nil
}

func (c *ResponseCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, responseKeyPrefix+key, body, ttl).Err(); err != nil {
		return fmt.Errorf("redis set response: %w", err)
	}
	return nil
}
