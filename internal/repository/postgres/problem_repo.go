package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/repository"
)

// Ensure pgProblemRepo implements repository.ProblemRepository.
var _ repository.ProblemRepository = (*pgProblemRepo)(nil)

type pgProblemRepo struct {
	pool *pgxpool.Pool
}

// NewProblemRepository creates a PostgreSQL-backed read-only problem repository.
func NewProblemRepository(pool *pgxpool.Pool) repository.ProblemRepository {
	return &pgProblemRepo{pool: pool}
}

func (r *pgProblemRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM problems WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: problem exists: %w", err)
	}
	return exists, nil
}

func (r *pgProblemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error) {
	query := `
		SELECT id, title, difficulty, time_limit_ms, memory_limit_kb, created_at
		FROM problems
		WHERE id = $1`

	p := &domain.Problem{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Difficulty, &p.TimeLimitMs, &p.MemoryLimitKB, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProblemNotFound
		}
		return nil, fmt.Errorf("postgres: get problem: %w", err)
	}
	return p, nil
}

func (r *pgProblemRepo) List(ctx context.Context, limit, offset int) ([]*domain.Problem, error) {
	query := `
		SELECT id, title, difficulty, time_limit_ms, memory_limit_kb, created_at
		FROM problems
		ORDER BY created_at
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: list problems: %w", err)
	}
	defer rows.Close()

	var problems []*domain.Problem
	for rows.Next() {
		p := &domain.Problem{}
		if err := rows.Scan(&p.ID, &p.Title, &p.Difficulty, &p.TimeLimitMs, &p.MemoryLimitKB, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan problem: %w", err)
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}

// GetTestCases returns test cases ordered by position; execution and
// short-circuiting follow that order.
func (r *pgProblemRepo) GetTestCases(ctx context.Context, problemID uuid.UUID) ([]domain.TestCase, error) {
	query := `
		SELECT id, problem_id, position, input, expected_output
		FROM test_cases
		WHERE problem_id = $1
		ORDER BY position`

	rows, err := r.pool.Query(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("postgres: get test cases: %w", err)
	}
	defer rows.Close()

	var cases []domain.TestCase
	for rows.Next() {
		var tc domain.TestCase
		if err := rows.Scan(&tc.ID, &tc.ProblemID, &tc.Position, &tc.Input, &tc.ExpectedOutput); err != nil {
			return nil, fmt.Errorf("postgres: scan test case: %w", err)
		}
		cases = append(cases, tc)
	}
	return cases, rows.Err()
}
