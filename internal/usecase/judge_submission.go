package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/metrics"
	"github.com/developerskull/codePVG-sub000/internal/repository"
)

// JudgeSubmissionUsecase orchestrates the full judging pipeline for one
// submission: idempotency check → state transition → verdict aggregation →
// terminal write → leaderboard update for accepted verdicts.
type JudgeSubmissionUsecase struct {
	subRepo     repository.SubmissionRepository
	problemRepo repository.ProblemRepository
	idempotent  repository.IdempotencyStore
	aggregator  repository.VerdictAggregator
	leaderboard repository.LeaderboardUpdater
	logger      *zap.Logger
}

// NewJudgeSubmissionUsecase creates a new JudgeSubmissionUsecase.
func NewJudgeSubmissionUsecase(
	subRepo repository.SubmissionRepository,
	problemRepo repository.ProblemRepository,
	idempotent repository.IdempotencyStore,
	aggregator repository.VerdictAggregator,
	leaderboard repository.LeaderboardUpdater,
	logger *zap.Logger,
) *JudgeSubmissionUsecase {
	return &JudgeSubmissionUsecase{
		subRepo:     subRepo,
		problemRepo: problemRepo,
		idempotent:  idempotent,
		aggregator:  aggregator,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// Execute judges a single submission end to end. Returns (isDuplicate, error).
func (uc *JudgeSubmissionUsecase) Execute(ctx context.Context, sub *domain.Submission) (bool, error) {
	// Step 1: Idempotency check against redelivered messages.
	acquired, err := uc.idempotent.AcquireLock(ctx, sub.ID)
	if err != nil {
		uc.logger.Error("Failed to acquire idempotency lock", zap.Error(err), zap.String("submission_id", sub.ID.String()))
		return false, err
	}
	if !acquired {
		uc.logger.Info("Duplicate message detected, skipping", zap.String("submission_id", sub.ID.String()))
		return true, nil
	}

	// Step 2: pending → processing. A row that already moved on (an expired
	// lock plus redelivery) surfaces as an invalid transition and is treated
	// as a duplicate, preserving the forward-only state machine.
	if err := uc.subRepo.TransitionStatus(ctx, sub.ID, domain.StatusPending, domain.StatusProcessing); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			uc.logger.Info("Submission no longer pending, skipping", zap.String("submission_id", sub.ID.String()))
			return true, nil
		}
		uc.logger.Error("Failed to transition submission", zap.Error(err), zap.String("submission_id", sub.ID.String()))
		return false, err
	}

	// Step 3: Load the problem's ordered test cases.
	cases, err := uc.problemRepo.GetTestCases(ctx, sub.ProblemID)
	if err != nil {
		uc.logger.Error("Failed to load test cases", zap.Error(err), zap.String("submission_id", sub.ID.String()))
		return false, err
	}

	// Step 4: Aggregate the verdict. Execution-layer failures fold into a
	// runtime_error verdict inside the aggregator.
	start := time.Now()
	verdict := uc.aggregator.Aggregate(ctx, sub, cases)
	metrics.VerdictDuration.WithLabelValues(string(sub.Language)).Observe(time.Since(start).Seconds())

	// Step 5: Persist the terminal state atomically with its metrics. On
	// failure the row stays in processing and the message is NACKed; such
	// submissions remain observable for reconciliation.
	if err := uc.subRepo.SetVerdict(ctx, sub.ID, verdict); err != nil {
		uc.logger.Error("Failed to persist verdict", zap.Error(err), zap.String("submission_id", sub.ID.String()))
		return false, err
	}
	metrics.SubmissionsTotal.WithLabelValues(string(sub.Language), string(verdict.Status)).Inc()

	// Step 6: Standings update for accepted verdicts. Leaderboard failures
	// are logged, never propagated: the submission's own correctness record
	// is authoritative, and rank recomputation can be retried later.
	if verdict.Status == domain.StatusAccepted {
		if _, err := uc.leaderboard.ApplyAccepted(ctx, sub.UserID, sub.ProblemID, sub.ID, time.Now().UTC()); err != nil {
			uc.logger.Error("Leaderboard update failed",
				zap.Error(err),
				zap.String("submission_id", sub.ID.String()),
				zap.String("user_id", sub.UserID.String()),
			)
		}
	}

	// Step 7: Release idempotency lock (set TTL for eventual cleanup).
	_ = uc.idempotent.ReleaseLock(ctx, sub.ID)

	uc.logger.Info("Submission judged",
		zap.String("submission_id", sub.ID.String()),
		zap.String("status", string(verdict.Status)),
		zap.Int("runtime_ms", verdict.RuntimeMs),
		zap.Int("memory_kb", verdict.MemoryKB),
		zap.Int("failed_case", verdict.FailedCase),
	)

	return false, nil
}
