package mock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/leaderboard"
	"github.com/developerskull/codePVG-sub000/internal/repository"
)

// ---- SubmissionRepository mock ----

var _ repository.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository is an in-memory test double that honors the
// submission state machine the way the real repository does.
type SubmissionRepository struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*domain.Submission

	CreateFn           func(ctx context.Context, sub *domain.Submission) error
	TransitionStatusFn func(ctx context.Context, id uuid.UUID, from, to domain.SubmissionStatus) error
	SetVerdictFn       func(ctx context.Context, id uuid.UUID, verdict *domain.Verdict) error

	// Recorded calls for assertions.
	StatusUpdates []StatusUpdate
	Verdicts      []VerdictUpdate
}

type StatusUpdate struct {
	ID   uuid.UUID
	From domain.SubmissionStatus
	To   domain.SubmissionStatus
}

type VerdictUpdate struct {
	ID      uuid.UUID
	Verdict *domain.Verdict
}

// NewSubmissionRepository creates an empty in-memory submission repository.
func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{subs: make(map[uuid.UUID]*domain.Submission)}
}

func (m *SubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.subs[sub.ID] = &cp
	return nil
}

func (m *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (m *SubmissionRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[id]
	if !ok || sub.UserID != userID {
		return nil, domain.ErrSubmissionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (m *SubmissionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.SubmissionStatus) error {
	m.mu.Lock()
	m.StatusUpdates = append(m.StatusUpdates, StatusUpdate{ID: id, From: from, To: to})
	m.mu.Unlock()
	if m.TransitionStatusFn != nil {
		return m.TransitionStatusFn(ctx, id, from, to)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !from.CanTransitionTo(to) {
		return domain.ErrInvalidTransition
	}
	sub, ok := m.subs[id]
	if !ok || sub.Status != from {
		return domain.ErrInvalidTransition
	}
	sub.Status = to
	sub.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *SubmissionRepository) SetVerdict(ctx context.Context, id uuid.UUID, verdict *domain.Verdict) error {
	m.mu.Lock()
	m.Verdicts = append(m.Verdicts, VerdictUpdate{ID: id, Verdict: verdict})
	m.mu.Unlock()
	if m.SetVerdictFn != nil {
		return m.SetVerdictFn(ctx, id, verdict)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !verdict.Status.IsTerminal() {
		return domain.ErrInvalidTransition
	}
	sub, ok := m.subs[id]
	if !ok || sub.Status != domain.StatusProcessing {
		return domain.ErrInvalidTransition
	}
	runtime, memory := verdict.RuntimeMs, verdict.MemoryKB
	sub.Status = verdict.Status
	sub.RuntimeMs = &runtime
	sub.MemoryKB = &memory
	sub.UpdatedAt = time.Now().UTC()
	return nil
}

// GetAll returns all stored submissions (for test assertions).
func (m *SubmissionRepository) GetAll() []*domain.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Submission, 0, len(m.subs))
	for _, s := range m.subs {
		cp := *s
		result = append(result, &cp)
	}
	return result
}

// ---- ProblemRepository mock ----

var _ repository.ProblemRepository = (*ProblemRepository)(nil)

// ProblemRepository is an in-memory test double for the problem catalog.
type ProblemRepository struct {
	mu       sync.Mutex
	problems map[uuid.UUID]*domain.Problem
	cases    map[uuid.UUID][]domain.TestCase

	GetTestCasesFn func(ctx context.Context, problemID uuid.UUID) ([]domain.TestCase, error)
}

// NewProblemRepository creates an empty in-memory problem repository.
func NewProblemRepository() *ProblemRepository {
	return &ProblemRepository{
		problems: make(map[uuid.UUID]*domain.Problem),
		cases:    make(map[uuid.UUID][]domain.TestCase),
	}
}

// AddProblem seeds a problem with the given ordered test cases.
func (m *ProblemRepository) AddProblem(p *domain.Problem, cases []domain.TestCase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.problems[p.ID] = p
	m.cases[p.ID] = cases
}

func (m *ProblemRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.problems[id]
	return ok, nil
}

func (m *ProblemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[id]
	if !ok {
		return nil, domain.ErrProblemNotFound
	}
	return p, nil
}

func (m *ProblemRepository) List(ctx context.Context, limit, offset int) ([]*domain.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Problem, 0, len(m.problems))
	for _, p := range m.problems {
		result = append(result, p)
	}
	return result, nil
}

func (m *ProblemRepository) GetTestCases(ctx context.Context, problemID uuid.UUID) ([]domain.TestCase, error) {
	if m.GetTestCasesFn != nil {
		return m.GetTestCasesFn(ctx, problemID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cases[problemID], nil
}

// ---- LeaderboardRepository mock ----

var _ repository.LeaderboardRepository = (*LeaderboardRepository)(nil)

// LeaderboardRepository is an in-memory test double with the same atomic
// first-solve semantics as the PostgreSQL implementation.
type LeaderboardRepository struct {
	mu      sync.Mutex
	solves  map[string]bool
	entries map[uuid.UUID]*domain.LeaderboardEntry

	ApplyAcceptedFn func(ctx context.Context, userID, problemID, submissionID uuid.UUID, at time.Time) (bool, error)

	ApplyCalls []ApplyCall
}

type ApplyCall struct {
	UserID       uuid.UUID
	ProblemID    uuid.UUID
	SubmissionID uuid.UUID
}

// NewLeaderboardRepository creates an empty in-memory leaderboard repository.
func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{
		solves:  make(map[string]bool),
		entries: make(map[uuid.UUID]*domain.LeaderboardEntry),
	}
}

func (m *LeaderboardRepository) ApplyAccepted(ctx context.Context, userID, problemID, submissionID uuid.UUID, at time.Time) (bool, error) {
	m.mu.Lock()
	m.ApplyCalls = append(m.ApplyCalls, ApplyCall{UserID: userID, ProblemID: problemID, SubmissionID: submissionID})
	m.mu.Unlock()
	if m.ApplyAcceptedFn != nil {
		return m.ApplyAcceptedFn(ctx, userID, problemID, submissionID, at)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	solveKey := userID.String() + "/" + problemID.String()
	if m.solves[solveKey] {
		return false, nil
	}
	m.solves[solveKey] = true

	entry, ok := m.entries[userID]
	if !ok {
		entry = &domain.LeaderboardEntry{UserID: userID}
		m.entries[userID] = entry
	}
	entry.TotalSolved++
	entry.LastSubmissionAt = at

	all := make([]*domain.LeaderboardEntry, 0, len(m.entries))
	for _, e := range m.entries {
		all = append(all, e)
	}
	leaderboard.Rank(all)
	return true, nil
}

func (m *LeaderboardRepository) List(ctx context.Context, limit, offset int) ([]*domain.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*domain.LeaderboardEntry, 0, len(m.entries))
	for _, e := range m.entries {
		cp := *e
		all = append(all, &cp)
	}
	leaderboard.Rank(all)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *LeaderboardRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[userID]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}

// ---- IdempotencyStore mock ----

var _ repository.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore is a test double for repository.IdempotencyStore.
type IdempotencyStore struct {
	mu sync.Mutex

	AcquireLockFn func(ctx context.Context, submissionID uuid.UUID) (bool, error)
	ReleaseLockFn func(ctx context.Context, submissionID uuid.UUID) error

	AcquireCalls []uuid.UUID
	ReleaseCalls []uuid.UUID
}

func (m *IdempotencyStore) AcquireLock(ctx context.Context, submissionID uuid.UUID) (bool, error) {
	m.mu.Lock()
	m.AcquireCalls = append(m.AcquireCalls, submissionID)
	m.mu.Unlock()
	if m.AcquireLockFn != nil {
		return m.AcquireLockFn(ctx, submissionID)
	}
	return true, nil // default: lock acquired
}

func (m *IdempotencyStore) ReleaseLock(ctx context.Context, submissionID uuid.UUID) error {
	m.mu.Lock()
	m.ReleaseCalls = append(m.ReleaseCalls, submissionID)
	m.mu.Unlock()
	if m.ReleaseLockFn != nil {
		return m.ReleaseLockFn(ctx, submissionID)
	}
	return nil
}

// ---- VerdictAggregator mock ----

var _ repository.VerdictAggregator = (*VerdictAggregator)(nil)

// VerdictAggregator is a test double for repository.VerdictAggregator.
type VerdictAggregator struct {
	mu sync.Mutex

	AggregateFn func(ctx context.Context, sub *domain.Submission, cases []domain.TestCase) *domain.Verdict

	AggregateCalls []*domain.Submission
}

func (m *VerdictAggregator) Aggregate(ctx context.Context, sub *domain.Submission, cases []domain.TestCase) *domain.Verdict {
	m.mu.Lock()
	m.AggregateCalls = append(m.AggregateCalls, sub)
	m.mu.Unlock()
	if m.AggregateFn != nil {
		return m.AggregateFn(ctx, sub, cases)
	}
	return &domain.Verdict{
		Status:     domain.StatusAccepted,
		RuntimeMs:  42,
		MemoryKB:   1024,
		FailedCase: -1,
	}
}
