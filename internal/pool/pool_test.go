package pool_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/pool"
	"github.com/developerskull/codePVG-sub000/internal/repository/mock"
	"github.com/developerskull/codePVG-sub000/internal/usecase"
)

type fixtures struct {
	subs *mock.SubmissionRepository
	idem *mock.IdempotencyStore
	agg  *mock.VerdictAggregator
}

func newTestPool(t *testing.T, poolSize int, f *fixtures) (chan *domain.SubmissionMessage, *pool.WorkerPool, context.CancelFunc) {
	t.Helper()

	logger := zap.NewNop()
	problems := mock.NewProblemRepository()
	lb := mock.NewLeaderboardRepository()
	uc := usecase.NewJudgeSubmissionUsecase(f.subs, problems, f.idem, f.agg, lb, logger)

	ch := make(chan *domain.SubmissionMessage, 16)
	ctx, cancel := context.WithCancel(context.Background())
	wp := pool.NewWorkerPool(poolSize, ch, uc, logger)
	wp.Start(ctx)

	return ch, wp, cancel
}

func sendSubmission(t *testing.T, subs *mock.SubmissionRepository, ch chan<- *domain.SubmissionMessage, acked, nacked *atomic.Int32) {
	t.Helper()
	sub := &domain.Submission{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		ProblemID:  uuid.New(),
		Language:   domain.LangPython,
		SourceCode: "print('test')",
		Status:     domain.StatusPending,
	}
	if err := subs.Create(context.Background(), sub); err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	ch <- &domain.SubmissionMessage{
		Submission: sub,
		Ack: func() error {
			acked.Add(1)
			return nil
		},
		Nack: func(requeue bool) error {
			nacked.Add(1)
			return nil
		},
	}
}

// Test: pool judges submissions and ACKs them.
func TestPool_ProcessAndAck(t *testing.T) {
	f := &fixtures{subs: mock.NewSubmissionRepository(), idem: &mock.IdempotencyStore{}, agg: &mock.VerdictAggregator{}}
	ch, wp, cancel := newTestPool(t, 2, f)

	var acked, nacked atomic.Int32
	for i := 0; i < 5; i++ {
		sendSubmission(t, f.subs, ch, &acked, &nacked)
	}

	// Give workers time to process.
	time.Sleep(200 * time.Millisecond)

	cancel()
	wp.Stop()

	if acked.Load() != 5 {
		t.Errorf("expected 5 ACKs, got %d", acked.Load())
	}
	if nacked.Load() != 0 {
		t.Errorf("expected 0 NACKs, got %d", nacked.Load())
	}
}

// Test: pool NACKs submissions whose verdict cannot be persisted.
func TestPool_NacksOnFailure(t *testing.T) {
	f := &fixtures{subs: mock.NewSubmissionRepository(), idem: &mock.IdempotencyStore{}, agg: &mock.VerdictAggregator{}}
	f.subs.SetVerdictFn = func(ctx context.Context, id uuid.UUID, verdict *domain.Verdict) error {
		return context.DeadlineExceeded
	}
	ch, wp, cancel := newTestPool(t, 1, f)

	var acked, nacked atomic.Int32
	sendSubmission(t, f.subs, ch, &acked, &nacked)

	time.Sleep(200 * time.Millisecond)

	cancel()
	wp.Stop()

	if nacked.Load() != 1 {
		t.Errorf("expected 1 NACK, got %d", nacked.Load())
	}
	if acked.Load() != 0 {
		t.Errorf("expected 0 ACKs, got %d", acked.Load())
	}
}

// Test: pool shuts down gracefully (context cancellation).
func TestPool_GracefulShutdown(t *testing.T) {
	f := &fixtures{subs: mock.NewSubmissionRepository(), idem: &mock.IdempotencyStore{}, agg: &mock.VerdictAggregator{}}
	ch, wp, cancel := newTestPool(t, 4, f)

	var acked, nacked atomic.Int32
	sendSubmission(t, f.subs, ch, &acked, &nacked)
	sendSubmission(t, f.subs, ch, &acked, &nacked)

	// Small delay so at least one submission gets picked up.
	time.Sleep(50 * time.Millisecond)
	cancel()
	wp.Stop()
	close(ch)

	total := acked.Load() + nacked.Load()
	if total < 1 {
		t.Errorf("expected at least 1 processed submission, got %d", total)
	}
}

// Test: pool ACKs duplicate deliveries rather than NACKing them.
func TestPool_DuplicateIsAcked(t *testing.T) {
	f := &fixtures{subs: mock.NewSubmissionRepository(), agg: &mock.VerdictAggregator{}}
	f.idem = &mock.IdempotencyStore{
		AcquireLockFn: func(ctx context.Context, submissionID uuid.UUID) (bool, error) {
			return false, nil // duplicate
		},
	}
	ch, wp, cancel := newTestPool(t, 1, f)

	var acked, nacked atomic.Int32
	sendSubmission(t, f.subs, ch, &acked, &nacked)

	time.Sleep(200 * time.Millisecond)
	cancel()
	wp.Stop()

	if acked.Load() != 1 {
		t.Errorf("expected 1 ACK for duplicate, got %d", acked.Load())
	}
	if nacked.Load() != 0 {
		t.Errorf("expected 0 NACKs, got %d", nacked.Load())
	}
}
