package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/repository"
)

// Ensure pgSubmissionRepo implements repository.SubmissionRepository.
var _ repository.SubmissionRepository = (*pgSubmissionRepo)(nil)

type pgSubmissionRepo struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a PostgreSQL-backed submission repository.
func NewSubmissionRepository(pool *pgxpool.Pool) repository.SubmissionRepository {
	return &pgSubmissionRepo{pool: pool}
}

func (r *pgSubmissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	query := `
		INSERT INTO submissions (id, user_id, problem_id, language, source_code, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, query,
		sub.ID, sub.UserID, sub.ProblemID, sub.Language, sub.SourceCode,
		sub.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("postgres: create submission: %w", err)
	}
	sub.CreatedAt = now
	sub.UpdatedAt = now
	return nil
}

const submissionColumns = `
	id, user_id, problem_id, language, source_code, status,
	runtime_ms, memory_kb, created_at, updated_at`

func (r *pgSubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `SELECT` + submissionColumns + ` FROM submissions WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *pgSubmissionRepo) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Submission, error) {
	query := `SELECT` + submissionColumns + ` FROM submissions WHERE id = $1 AND user_id = $2`
	return r.scanOne(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *pgSubmissionRepo) scanOne(row pgx.Row) (*domain.Submission, error) {
	sub := &domain.Submission{}
	err := row.Scan(
		&sub.ID, &sub.UserID, &sub.ProblemID, &sub.Language, &sub.SourceCode,
		&sub.Status, &sub.RuntimeMs, &sub.MemoryKB, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("postgres: get submission: %w", err)
	}
	return sub, nil
}

// TransitionStatus guards the update on the expected current status, so a
// row can never move backward or out of a terminal state regardless of how
// calls interleave.
func (r *pgSubmissionRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.SubmissionStatus) error {
	if !from.CanTransitionTo(to) {
		return domain.ErrInvalidTransition
	}

	query := `UPDATE submissions SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	tag, err := r.pool.Exec(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return fmt.Errorf("postgres: transition status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// SetVerdict writes the terminal status together with the observed runtime
// and memory in one statement, so observers never see a terminal status with
// stale metrics.
func (r *pgSubmissionRepo) SetVerdict(ctx context.Context, id uuid.UUID, verdict *domain.Verdict) error {
	if !verdict.Status.IsTerminal() {
		return domain.ErrInvalidTransition
	}

	query := `
		UPDATE submissions
		SET status = $1, runtime_ms = $2, memory_kb = $3, updated_at = $4
		WHERE id = $5 AND status = $6`

	tag, err := r.pool.Exec(ctx, query,
		verdict.Status, verdict.RuntimeMs, verdict.MemoryKB,
		time.Now().UTC(), id, domain.StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("postgres: set verdict: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}
