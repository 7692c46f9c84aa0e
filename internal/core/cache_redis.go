package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"eventreg/pkg/domain"
)

const bodyKeyPrefix = "events:body:"

// RedisBodyCache keeps registry answers in Redis as JSON with a TTL.
type RedisBodyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBodyCache(client *redis.Client, ttl time.Duration) *RedisBodyCache {
	return &RedisBodyCache{client: client, ttl: ttl}
}

func bodyKey(id domain.BodyID) string {
	return bodyKeyPrefix + id.String()
}

func (r *RedisBodyCache) Get(ctx context.Context, id domain.BodyID) (*Body, bool, error) {
	raw, err := r.client.Get(ctx, bodyKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached body %s: %w", id, err)
	}
	var body Body
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, false, fmt.Errorf("decode cached body %s: %w", id, err)
	}
	return &body, true, nil
}

func (r *RedisBodyCache) Set(ctx context.Context, body *Body) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode body %s: %w", body.ID, err)
	}
	return r.client.Set(ctx, bodyKey(body.ID), raw, r.ttl).Err()
}
