package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/developerskull/codePVG-sub000/internal/domain"
)

// SubmissionRepository defines the interface for submission persistence.
// Implementations must be safe for concurrent use.
type SubmissionRepository interface {
	// Create inserts a new submission in the pending state.
	Create(ctx context.Context, sub *domain.Submission) error

	// GetByID retrieves a submission by its UUID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// GetForUser retrieves a submission scoped to its owning user.
	// Returns domain.ErrSubmissionNotFound for other users' submissions.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Submission, error)

	// TransitionStatus atomically moves a submission from one non-terminal
	// status to the next. Returns domain.ErrInvalidTransition if the row is
	// no longer in the expected state.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.SubmissionStatus) error

	// SetVerdict persists the terminal status together with runtime and
	// memory in a single atomic write, guarded on the processing state.
	SetVerdict(ctx context.Context, id uuid.UUID, verdict *domain.Verdict) error
}

// ProblemRepository is the read-only view of the problem catalog the
// pipeline needs. Problem authoring lives outside this service.
type ProblemRepository interface {
	// Exists reports whether a problem with the given ID exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// GetByID retrieves a problem by its UUID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error)

	// List returns a page of problems ordered by creation time.
	List(ctx context.Context, limit, offset int) ([]*domain.Problem, error)

	// GetTestCases returns a problem's test cases in execution order.
	GetTestCases(ctx context.Context, problemID uuid.UUID) ([]domain.TestCase, error)
}

// LeaderboardRepository owns all reads and writes of the global standings.
// No other code path may touch leaderboard state.
type LeaderboardRepository interface {
	// ApplyAccepted processes one accepted submission: the first-solve check,
	// the total_solved upsert and the full dense-rank recomputation execute
	// as a single atomic unit relative to concurrent calls. Returns true if
	// the submission counted as the user's first solve of the problem.
	ApplyAccepted(ctx context.Context, userID, problemID, submissionID uuid.UUID, at time.Time) (bool, error)

	// List returns a page of entries ordered by rank.
	List(ctx context.Context, limit, offset int) ([]*domain.LeaderboardEntry, error)

	// GetByUser retrieves a single user's entry.
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.LeaderboardEntry, error)
}

// IdempotencyStore defines the interface for distributed deduplication locks.
type IdempotencyStore interface {
	// AcquireLock attempts to acquire an exclusive processing lock for a
	// submission. Returns true if the lock was acquired (first delivery),
	// false if already locked (duplicate).
	AcquireLock(ctx context.Context, submissionID uuid.UUID) (bool, error)

	// ReleaseLock releases the processing lock with a TTL for eventual cleanup.
	ReleaseLock(ctx context.Context, submissionID uuid.UUID) error
}

// VerdictAggregator produces one terminal verdict for a submission from its
// ordered test cases. Execution-layer failures fold into the verdict as
// runtime_error; Aggregate never fails outright.
type VerdictAggregator interface {
	Aggregate(ctx context.Context, sub *domain.Submission, cases []domain.TestCase) *domain.Verdict
}

// LeaderboardUpdater is the write-side surface the judging pipeline uses;
// implemented by the leaderboard engine.
type LeaderboardUpdater interface {
	ApplyAccepted(ctx context.Context, userID, problemID, submissionID uuid.UUID, at time.Time) (bool, error)
}
