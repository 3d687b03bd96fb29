package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/filedrop-bot/internal/models"
	appErrors "github.com/noah-isme/filedrop-bot/pkg/errors"
)

// maxCodeAttempts bounds the collision retry loop when minting a code.
const maxCodeAttempts = 5

const codeFormat = "len=8,alphanum"

type stagingStore interface {
	FindByOwner(ctx context.Context, ownerID int64) ([]models.StagedFile, error)
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type fileStore interface {
	InsertMany(ctx context.Context, files []models.SavedFile) error
	FindByOwner(ctx context.Context, ownerID int64) ([]models.SavedFile, error)
	CountByCode(ctx context.Context, code string) (int64, error)
	DeleteByCodeAndOwner(ctx context.Context, code string, ownerID int64) (int64, error)
}

type batchInvalidator interface {
	Invalidate(ctx context.Context, code string) error
}

// ShareService commits staged uploads under a fresh share code and handles
// owner-scoped listing and deletion of saved batches.
type ShareService struct {
	staging   stagingStore
	files     fileStore
	cache     batchInvalidator
	codes     CodeGenerator
	ownerID   int64
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger

	// commitLocks serialises stage-clear sequences per user; standalone
	// Mongo has no multi-document transactions to lean on.
	commitLocks sync.Map
}

// NewShareService builds the service.
func NewShareService(staging stagingStore, files fileStore, cache batchInvalidator, codes CodeGenerator, ownerID int64, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ShareService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if codes == nil {
		codes = NewCodeGenerator()
	}
	return &ShareService{
		staging:   staging,
		files:     files,
		cache:     cache,
		codes:     codes,
		ownerID:   ownerID,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// Commit moves every staged file for the user into durable storage under a
// newly minted share code, then clears the staging area. Returns the code
// and the number of files saved.
func (s *ShareService) Commit(ctx context.Context, userID int64) (string, int, error) {
	if userID != s.ownerID {
		return "", 0, appErrors.ErrNotAuthorizedSave
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	staged, err := s.staging.FindByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load staged files", zap.Int64("user_id", userID), zap.Error(err))
		return "", 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Kind, appErrors.ErrInternal.Message)
	}
	if len(staged) == 0 {
		return "", 0, appErrors.ErrNoStagedFiles
	}

	code, err := s.mintCode(ctx)
	if err != nil {
		s.logger.Error("failed to mint share code", zap.Error(err))
		return "", 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Kind, appErrors.ErrInternal.Message)
	}

	now := time.Now().UTC()
	saved := make([]models.SavedFile, len(staged))
	for i, file := range staged {
		saved[i] = models.SavedFile{
			ID:       uuid.NewString(),
			Code:     code,
			OwnerID:  userID,
			FileID:   file.FileID,
			Modality: file.Modality,
			Caption:  file.Caption,
			Seq:      i,
			SavedAt:  now,
		}
	}

	if err := s.files.InsertMany(ctx, saved); err != nil {
		s.logger.Error("failed to save batch", zap.String("code", code), zap.Error(err))
		return "", 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Kind, appErrors.ErrInternal.Message)
	}

	if _, err := s.staging.DeleteByOwner(ctx, userID); err != nil {
		// The batch is durable under its code; leftover staged rows would
		// be re-committed under a fresh code on the next save.
		s.logger.Error("failed to clear staging after save", zap.String("code", code), zap.Int64("user_id", userID), zap.Error(err))
		return "", 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Kind, appErrors.ErrInternal.Message)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, code); err != nil {
			s.logger.Warn("failed to invalidate batch cache", zap.String("code", code), zap.Error(err))
		}
	}

	s.metrics.ObserveSaved(len(saved))
	return code, len(saved), nil
}

// List returns every file saved by the configured owner.
func (s *ShareService) List(ctx context.Context, userID int64) ([]models.SavedFile, error) {
	if userID != s.ownerID {
		return nil, appErrors.ErrNotAuthorizedView
	}

	files, err := s.files.FindByOwner(ctx, s.ownerID)
	if err != nil {
		s.logger.Error("failed to list saved files", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Kind, appErrors.ErrInternal.Message)
	}
	if len(files) == 0 {
		return nil, appErrors.ErrNoSavedFiles
	}
	return files, nil
}

// Delete removes every saved file matching both the code and the owner.
// Returns how many records were deleted.
func (s *ShareService) Delete(ctx context.Context, userID int64, code string) (int64, error) {
	if userID != s.ownerID {
		return 0, appErrors.ErrNotAuthorizedDelete
	}

	if err := s.validator.Var(code, codeFormat); err != nil {
		// A malformed code can never match a saved batch.
		return 0, appErrors.ErrCodeNotFound
	}

	deleted, err := s.files.DeleteByCodeAndOwner(ctx, code, userID)
	if err != nil {
		s.logger.Error("failed to delete batch", zap.String("code", code), zap.Error(err))
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Kind, appErrors.ErrInternal.Message)
	}
	if deleted == 0 {
		return 0, appErrors.ErrCodeNotFound
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, code); err != nil {
			s.logger.Warn("failed to invalidate batch cache", zap.String("code", code), zap.Error(err))
		}
	}

	return deleted, nil
}

// mintCode generates a share code not already in use, retrying on collision.
func (s *ShareService) mintCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return "", err
		}
		count, err := s.files.CountByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
		s.logger.Warn("share code collision, regenerating", zap.String("code", code))
	}
	return "", fmt.Errorf("exhausted %d share code attempts", maxCodeAttempts)
}

func (s *ShareService) userLock(userID int64) *sync.Mutex {
	lock, _ := s.commitLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
