package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/repository"
)

// GetSubmissionUsecase handles fetching submission status and results.
type GetSubmissionUsecase struct {
	repo   repository.SubmissionRepository
	logger *zap.Logger
}

// NewGetSubmissionUsecase creates a new GetSubmissionUsecase.
func NewGetSubmissionUsecase(repo repository.SubmissionRepository, logger *zap.Logger) *GetSubmissionUsecase {
	return &GetSubmissionUsecase{
		repo:   repo,
		logger: logger,
	}
}

// Execute retrieves a submission scoped to its owning user. Other users'
// submissions are indistinguishable from missing ones.
func (uc *GetSubmissionUsecase) Execute(ctx context.Context, id, userID uuid.UUID) (*domain.Submission, error) {
	sub, err := uc.repo.GetForUser(ctx, id, userID)
	if err != nil {
		uc.logger.Debug("Submission not found", zap.String("submission_id", id.String()), zap.Error(err))
		return nil, domain.ErrSubmissionNotFound
	}
	return sub, nil
}
