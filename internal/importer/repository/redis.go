package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/importer"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/cache"
	"github.com/redis/go-redis/v9"
)

const jobTTL = 24 * time.Hour

var _ importer.JobStore = (*RedisJobStore)(nil)

// RedisJobStore keeps import jobs as JSON strings that expire a day after
// their last update.
type RedisJobStore struct {
	cache *cache.RedisClient
}

func NewRedisJobStore(cache *cache.RedisClient) *RedisJobStore {
	return &RedisJobStore{cache: cache}
}

func jobKey(id string) string {
	return "menu-import:job:" + id
}

func (s *RedisJobStore) Save(ctx context.Context, job *importer.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := s.cache.Client.Set(ctx, jobKey(job.ID), data, jobTTL).Err(); err != nil {
		return fmt.Errorf("save import job %s: %w", job.ID, err)
	}
	return nil
}

func (s *RedisJobStore) Get(ctx context.Context, id string) (*importer.Job, error) {
	val, err := s.cache.Client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, importer.ErrJobNotFound
		}
		return nil, fmt.Errorf("load import job %s: %w", id, err)
	}

	var job importer.Job
	if err := json.Unmarshal(val, &job); err != nil {
		return nil, fmt.Errorf("decode import job %s: %w", id, err)
	}
	return &job, nil
}
