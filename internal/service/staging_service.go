package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/filedrop-bot/internal/models"
	appErrors "github.com/noah-isme/filedrop-bot/pkg/errors"
)

type stagingWriter interface {
	Insert(ctx context.Context, file *models.StagedFile) error
}

// StagingService records inbound file references prior to a save.
type StagingService struct {
	staging stagingWriter
	ownerID int64
	metrics *MetricsService
	logger  *zap.Logger
}

// NewStagingService builds the service.
func NewStagingService(staging stagingWriter, ownerID int64, metrics *MetricsService, logger *zap.Logger) *StagingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StagingService{
		staging: staging,
		ownerID: ownerID,
		metrics: metrics,
		logger:  logger,
	}
}

// Stage appends one uploaded file reference to the caller's pending batch.
// Only the configured owner may upload.
func (s *StagingService) Stage(ctx context.Context, userID int64, fileID string, modality models.Modality, caption *string) (*models.StagedFile, error) {
	if userID != s.ownerID {
		return nil, appErrors.ErrNotAuthorizedUpload
	}

	file := &models.StagedFile{
		ID:       uuid.NewString(),
		OwnerID:  userID,
		FileID:   fileID,
		Modality: modality,
		Caption:  caption,
		StagedAt: time.Now().UTC(),
	}

	if err := s.staging.Insert(ctx, file); err != nil {
		s.logger.Error("failed to stage file", zap.String("file_id", fileID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Kind, appErrors.ErrInternal.Message)
	}

	s.metrics.ObserveStaged(string(modality))
	return file, nil
}
