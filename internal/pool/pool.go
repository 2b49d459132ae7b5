package pool

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/metrics"
	"github.com/developerskull/codePVG-sub000/internal/usecase"
)

// WorkerPool manages a fixed-size pool of goroutines that judge submissions.
// Submissions from different users and problems run fully in parallel; the
// only shared mutable state is the leaderboard, which guards itself.
type WorkerPool struct {
	size    int
	jobs    <-chan *domain.SubmissionMessage
	judgeUC *usecase.JudgeSubmissionUsecase
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new fixed-size worker pool.
func NewWorkerPool(size int, jobs <-chan *domain.SubmissionMessage, judgeUC *usecase.JudgeSubmissionUsecase, logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    jobs,
		judgeUC: judgeUC,
		logger:  logger,
	}
}

// Start launches all worker goroutines. Call Stop to wait for them to finish.
func (p *WorkerPool) Start(ctx context.Context) {
	p.logger.Info("Starting worker pool", zap.Int("pool_size", p.size))

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop waits for all workers to finish their current submissions and exit.
func (p *WorkerPool) Stop() {
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Worker panic recovered",
				zap.Int("worker_id", id),
				zap.Any("panic", r),
			)
		}
	}()

	p.logger.Debug("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Worker shutting down", zap.Int("worker_id", id))
			return
		case msg, ok := <-p.jobs:
			if !ok {
				p.logger.Debug("Job channel closed", zap.Int("worker_id", id))
				return
			}

			sub := msg.Submission

			p.logger.Info("Worker judging submission",
				zap.Int("worker_id", id),
				zap.String("submission_id", sub.ID.String()),
				zap.String("language", string(sub.Language)),
			)

			metrics.WorkersActive.Inc()
			isDuplicate, err := p.judgeUC.Execute(ctx, sub)
			metrics.WorkersActive.Dec()

			if err != nil {
				p.logger.Error("Submission judging failed",
					zap.Int("worker_id", id),
					zap.String("submission_id", sub.ID.String()),
					zap.Error(err),
				)

				// Nack without requeue — failed submissions go to the DLQ.
				// Requeuing a deterministic failure would cause an infinite loop.
				if nackErr := msg.Nack(false); nackErr != nil {
					p.logger.Error("Failed to NACK message",
						zap.String("submission_id", sub.ID.String()),
						zap.Error(nackErr),
					)
				}
				continue
			}

			if isDuplicate {
				metrics.DuplicateDeliveriesTotal.Inc()
				p.logger.Debug("Duplicate submission skipped",
					zap.Int("worker_id", id),
					zap.String("submission_id", sub.ID.String()),
				)
				// Duplicate → still ACK so the message is removed from the queue.
				if ackErr := msg.Ack(); ackErr != nil {
					p.logger.Error("Failed to ACK duplicate message",
						zap.String("submission_id", sub.ID.String()),
						zap.Error(ackErr),
					)
				}
				continue
			}

			// Judged — ACK the message.
			if ackErr := msg.Ack(); ackErr != nil {
				p.logger.Error("Failed to ACK message after judging",
					zap.String("submission_id", sub.ID.String()),
					zap.Error(ackErr),
				)
			}
		}
	}
}
