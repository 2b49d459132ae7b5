package leaderboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/metrics"
	"github.com/developerskull/codePVG-sub000/internal/repository"
)

// Engine is the single writer of leaderboard state. Every accepted
// submission flows through ApplyAccepted; no other code path may mutate
// entries or ranks.
type Engine struct {
	repo   repository.LeaderboardRepository
	logger *zap.Logger

	// mu serializes updates within this process. Cross-process safety comes
	// from the repository's transactional ApplyAccepted; the mutex keeps a
	// single worker from burning transaction retries against itself.
	mu sync.Mutex
}

var _ repository.LeaderboardUpdater = (*Engine)(nil)

// NewEngine creates a leaderboard engine over the given repository.
func NewEngine(repo repository.LeaderboardRepository, logger *zap.Logger) *Engine {
	return &Engine{repo: repo, logger: logger}
}

// ApplyAccepted records an accepted submission in the standings. If the user
// already solved the problem through another submission the call is a no-op
// and returns false. The first-solve check, the total_solved update and the
// full rank recomputation are one atomic unit relative to concurrent calls.
func (e *Engine) ApplyAccepted(ctx context.Context, userID, problemID, submissionID uuid.UUID, at time.Time) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	counted, err := e.repo.ApplyAccepted(ctx, userID, problemID, submissionID, at)
	if err != nil {
		return false, err
	}
	if counted {
		metrics.LeaderboardRecomputeDuration.Observe(time.Since(start).Seconds())
		e.logger.Info("Leaderboard updated for first solve",
			zap.String("user_id", userID.String()),
			zap.String("problem_id", problemID.String()),
			zap.String("submission_id", submissionID.String()),
		)
	} else {
		e.logger.Debug("Repeat solve, leaderboard unchanged",
			zap.String("user_id", userID.String()),
			zap.String("problem_id", problemID.String()),
		)
	}
	return counted, nil
}
