package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/publisher"
	"github.com/developerskull/codePVG-sub000/internal/repository"
)

const maxSourceCodeSize = 1 << 20 // 1 MB

// SubmitSubmissionUsecase handles submission intake: validation, creation of
// the pending record and asynchronous dispatch to the judging pipeline.
type SubmitSubmissionUsecase struct {
	subRepo     repository.SubmissionRepository
	problemRepo repository.ProblemRepository
	publisher   publisher.Publisher
	logger      *zap.Logger
}

// NewSubmitSubmissionUsecase creates a new SubmitSubmissionUsecase.
func NewSubmitSubmissionUsecase(
	subRepo repository.SubmissionRepository,
	problemRepo repository.ProblemRepository,
	pub publisher.Publisher,
	logger *zap.Logger,
) *SubmitSubmissionUsecase {
	return &SubmitSubmissionUsecase{
		subRepo:     subRepo,
		problemRepo: problemRepo,
		publisher:   pub,
		logger:      logger,
	}
}

// Execute validates the request, stores a pending submission and publishes
// it for judging. It returns as soon as the submission is queued; judging
// happens asynchronously.
func (uc *SubmitSubmissionUsecase) Execute(ctx context.Context, req *domain.SubmitRequest) (*domain.SubmitResponse, error) {
	if !req.Language.IsValid() {
		return nil, domain.ErrInvalidLanguage
	}
	if strings.TrimSpace(req.SourceCode) == "" {
		return nil, domain.ErrEmptySourceCode
	}
	if len(req.SourceCode) > maxSourceCodeSize {
		return nil, domain.ErrPayloadTooLarge
	}

	exists, err := uc.problemRepo.Exists(ctx, req.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("check problem: %w", err)
	}
	if !exists {
		return nil, domain.ErrProblemNotFound
	}

	// Time-ordered UUIDv7
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate UUIDv7: %w", err)
	}

	sub := &domain.Submission{
		ID:         id,
		UserID:     req.UserID,
		ProblemID:  req.ProblemID,
		Language:   req.Language,
		SourceCode: req.SourceCode,
		Status:     domain.StatusPending,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := uc.subRepo.Create(ctx, sub); err != nil {
		uc.logger.Error("Failed to create submission", zap.Error(err), zap.String("submission_id", id.String()))
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if err := uc.publisher.Publish(ctx, sub); err != nil {
		// The row stays pending and is observable for reconciliation; the
		// caller gets a retryable failure.
		uc.logger.Error("Failed to publish submission to queue", zap.Error(err), zap.String("submission_id", id.String()))
		return nil, domain.ErrPublishFailed
	}

	uc.logger.Info("Submission queued for judging",
		zap.String("submission_id", id.String()),
		zap.String("user_id", req.UserID.String()),
		zap.String("problem_id", req.ProblemID.String()),
		zap.String("language", string(req.Language)),
	)

	return &domain.SubmitResponse{
		ID:     id,
		Status: string(domain.StatusPending),
	}, nil
}
