package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/filedrop-bot/internal/models"
	appErrors "github.com/noah-isme/filedrop-bot/pkg/errors"
)

type codeResolver interface {
	FindByCode(ctx context.Context, code string) ([]models.SavedFile, error)
}

type batchCache interface {
	GetBatch(ctx context.Context, code string) ([]models.SavedFile, error)
	SetBatch(ctx context.Context, code string, files []models.SavedFile, ttl time.Duration) error
}

// RetrievalService resolves a share code to its saved batch. Retrieval is
// open to any caller; only the code gates access.
type RetrievalService struct {
	files     codeResolver
	cache     batchCache
	cacheTTL  time.Duration
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewRetrievalService builds the service. A nil cache disables the
// read-through path.
func NewRetrievalService(files codeResolver, cache batchCache, cacheTTL time.Duration, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *RetrievalService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetrievalService{
		files:     files,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// Resolve returns the batch saved under the code, in batch order. An
// unknown or deleted code yields ErrLinkInvalid; the two are
// indistinguishable by design.
func (s *RetrievalService) Resolve(ctx context.Context, code string) ([]models.SavedFile, error) {
	if err := s.validator.Var(code, codeFormat); err != nil {
		return nil, appErrors.ErrLinkInvalid
	}

	if s.cache != nil {
		cached, err := s.cache.GetBatch(ctx, code)
		switch {
		case err == nil:
			s.metrics.RecordCacheLookup(true)
			return cached, nil
		case errors.Is(err, appErrors.ErrCacheMiss):
			s.metrics.RecordCacheLookup(false)
		default:
			s.metrics.RecordCacheLookup(false)
			s.logger.Warn("batch cache lookup failed", zap.String("code", code), zap.Error(err))
		}
	}

	files, err := s.files.FindByCode(ctx, code)
	if err != nil {
		s.logger.Error("failed to resolve code", zap.String("code", code), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Kind, appErrors.ErrInternal.Message)
	}
	if len(files) == 0 {
		return nil, appErrors.ErrLinkInvalid
	}

	if s.cache != nil {
		if err := s.cache.SetBatch(ctx, code, files, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache batch", zap.String("code", code), zap.Error(err))
		}
	}

	return files, nil
}
