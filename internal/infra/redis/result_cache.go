package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"ugc-video-pipeline/internal/domain"
	"ugc-video-pipeline/internal/domain/model"
	"ugc-video-pipeline/internal/domain/ports/repository"
)

var _ repository.ResultCache = (*ResultCache)(nil)

// ResultCache keeps recent pipeline records by job id so the read API can
// answer without touching durable storage.
type ResultCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewResultCache(client RedisClient, ttl time.Duration) *ResultCache {
	return &ResultCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ResultCache) Put(ctx context.Context, result *model.VideoResult) error {
	key := "video_result:" + result.JobID
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl)
}

func (c *ResultCache) Get(ctx context.Context, jobID string) (*model.VideoResult, error) {
	key := "video_result:" + jobID
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var result model.VideoResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
