package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/filedrop-bot/internal/models"
	appErrors "github.com/noah-isme/filedrop-bot/pkg/errors"
)

const batchKeyPrefix = "resolve:"

// CacheRepository caches resolved share-code batches in Redis.
// A nil client degrades to an always-miss, no-op cache.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

// GetBatch retrieves the cached batch for a code.
func (r *CacheRepository) GetBatch(ctx context.Context, code string) ([]models.SavedFile, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, batchKeyPrefix+code).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", code, err)
	}

	var files []models.SavedFile
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("unmarshal cached batch for %s: %w", code, err)
	}

	return files, nil
}

// SetBatch stores the batch under its code with the given TTL.
func (r *CacheRepository) SetBatch(ctx context.Context, code string, files []models.SavedFile, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("marshal batch for %s: %w", code, err)
	}

	if err := r.client.Set(ctx, batchKeyPrefix+code, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", code, err)
	}

	return nil
}

// Invalidate drops the cached batch for a code.
func (r *CacheRepository) Invalidate(ctx context.Context, code string) error {
	if r.client == nil {
		return nil
	}

	if err := r.client.Del(ctx, batchKeyPrefix+code).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", code, err)
	}

	return nil
}

// Close releases the underlying Redis connection if present.
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
