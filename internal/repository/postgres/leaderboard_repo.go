package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/repository"
)

// Ensure pgLeaderboardRepo implements repository.LeaderboardRepository.
var _ repository.LeaderboardRepository = (*pgLeaderboardRepo)(nil)

const maxTxRetries = 3

type pgLeaderboardRepo struct {
	pool *pgxpool.Pool
}

// NewLeaderboardRepository creates a PostgreSQL-backed leaderboard repository.
func NewLeaderboardRepository(pool *pgxpool.Pool) repository.LeaderboardRepository {
	return &pgLeaderboardRepo{pool: pool}
}

// ApplyAccepted runs the first-solve guard, the total_solved upsert and the
// full rank recomputation inside one serializable transaction. Two
// concurrently accepted submissions for the same (user, problem) can never
// both pass the guard: the conditional insert on problem_solves makes the
// check-and-count a single write. Serialization failures are retried.
func (r *pgLeaderboardRepo) ApplyAccepted(ctx context.Context, userID, problemID, submissionID uuid.UUID, at time.Time) (bool, error) {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		counted, err := r.applyOnce(ctx, userID, problemID, submissionID, at)
		if err == nil {
			return counted, nil
		}
		if !retryable(err) {
			return false, err
		}
		lastErr = err
	}
	return false, fmt.Errorf("postgres: leaderboard update exhausted retries: %w", lastErr)
}

func (r *pgLeaderboardRepo) applyOnce(ctx context.Context, userID, problemID, submissionID uuid.UUID, at time.Time) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return false, fmt.Errorf("postgres: begin leaderboard tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// First-solve guard: insert-if-absent on (user, problem). Zero rows
	// affected means another accepted submission already counted.
	tag, err := tx.Exec(ctx, `
		INSERT INTO problem_solves (user_id, problem_id, submission_id, solved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, problem_id) DO NOTHING`,
		userID, problemID, submissionID, at,
	)
	if err != nil {
		return false, fmt.Errorf("postgres: record solve: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, tx.Commit(ctx)
	}

	// Create or bump the user's entry.
	_, err = tx.Exec(ctx, `
		INSERT INTO leaderboard_entries (user_id, total_solved, rank, last_submission_at)
		VALUES ($1, 1, 0, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET total_solved = leaderboard_entries.total_solved + 1,
		    last_submission_at = EXCLUDED.last_submission_at`,
		userID, at,
	)
	if err != nil {
		return false, fmt.Errorf("postgres: upsert entry: %w", err)
	}

	// Full dense-rank recomputation over all entries. A full recompute is
	// deliberate: incremental rank maintenance under concurrent ties is
	// error-prone, and the invariant stays simply stated.
	_, err = tx.Exec(ctx, `
		UPDATE leaderboard_entries le
		SET rank = ranked.new_rank
		FROM (
			SELECT user_id,
			       ROW_NUMBER() OVER (ORDER BY total_solved DESC, last_submission_at ASC) AS new_rank
			FROM leaderboard_entries
		) ranked
		WHERE le.user_id = ranked.user_id
		  AND le.rank IS DISTINCT FROM ranked.new_rank`,
	)
	if err != nil {
		return false, fmt.Errorf("postgres: recompute ranks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("postgres: commit leaderboard tx: %w", err)
	}
	return true, nil
}

// retryable reports whether the error is a serialization failure or deadlock
// worth another attempt.
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func (r *pgLeaderboardRepo) List(ctx context.Context, limit, offset int) ([]*domain.LeaderboardEntry, error) {
	query := `
		SELECT user_id, total_solved, rank, last_submission_at
		FROM leaderboard_entries
		ORDER BY rank
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: list leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LeaderboardEntry
	for rows.Next() {
		e := &domain.LeaderboardEntry{}
		if err := rows.Scan(&e.UserID, &e.TotalSolved, &e.Rank, &e.LastSubmissionAt); err != nil {
			return nil, fmt.Errorf("postgres: scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *pgLeaderboardRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.LeaderboardEntry, error) {
	query := `
		SELECT user_id, total_solved, rank, last_submission_at
		FROM leaderboard_entries
		WHERE user_id = $1`

	e := &domain.LeaderboardEntry{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(&e.UserID, &e.TotalSolved, &e.Rank, &e.LastSubmissionAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("postgres: get leaderboard entry: %w", err)
	}
	return e, nil
}
