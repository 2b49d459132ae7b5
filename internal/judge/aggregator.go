package judge

import (
	"context"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/domain"
)

// Per-case judge status ids beyond accepted. The judge distinguishes more
// runtime-error flavors (7..12) plus internal and exec-format errors; all of
// those collapse to runtime_error at the submission level.
const (
	statusIDWrongAnswer       = 4
	statusIDTimeLimitExceeded = 5
	statusIDCompilationError  = 6
)

// Aggregator runs one submission across its ordered test cases and produces
// a single terminal verdict. Execution is strictly sequential and stops at
// the first failing case; there is no point paying for later cases once
// failure is certain.
type Aggregator struct {
	runner CaseRunner
	logger *zap.Logger
}

// NewAggregator creates a verdict aggregator on top of a case runner.
func NewAggregator(runner CaseRunner, logger *zap.Logger) *Aggregator {
	return &Aggregator{runner: runner, logger: logger}
}

// Aggregate produces the terminal verdict for sub over cases. Runner errors
// (network failures, judge outages) fold into a runtime_error verdict; they
// are reported, not retried at this layer.
func (a *Aggregator) Aggregate(ctx context.Context, sub *domain.Submission, cases []domain.TestCase) *domain.Verdict {
	verdict := &domain.Verdict{
		Status:     domain.StatusAccepted,
		FailedCase: -1,
	}

	for i, tc := range cases {
		res, err := a.runner.Run(ctx, &RunRequest{
			SourceCode:     sub.SourceCode,
			Language:       sub.Language,
			Stdin:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
		if err != nil {
			a.logger.Error("Test-case execution failed",
				zap.String("submission_id", sub.ID.String()),
				zap.Int("case", i),
				zap.Error(err),
			)
			verdict.Status = domain.StatusRuntimeError
			verdict.FailedCase = i
			return verdict
		}

		// A result still in progress past the polling horizon counts as an
		// execution failure.
		if res.InProgress() {
			a.logger.Warn("Test case never reached a terminal judge status",
				zap.String("submission_id", sub.ID.String()),
				zap.Int("case", i),
			)
			verdict.Status = domain.StatusRuntimeError
			verdict.FailedCase = i
			return verdict
		}

		if ms := parseRuntimeMs(res.Time); ms > verdict.RuntimeMs {
			verdict.RuntimeMs = ms
		}
		if res.MemoryKB > verdict.MemoryKB {
			verdict.MemoryKB = res.MemoryKB
		}

		if !res.Accepted() {
			verdict.Status = caseStatus(res.StatusID)
			verdict.FailedCase = i
			return verdict
		}
	}

	return verdict
}

// caseStatus maps a terminal non-accept judge status id to the submission
// status. Per-case distinctions propagate: a case that times out marks the
// whole submission time_limit_exceeded rather than generic wrong_answer.
func caseStatus(id int) domain.SubmissionStatus {
	switch id {
	case statusIDWrongAnswer:
		return domain.StatusWrongAnswer
	case statusIDTimeLimitExceeded:
		return domain.StatusTimeLimitExceeded
	case statusIDCompilationError:
		return domain.StatusCompilationError
	default:
		return domain.StatusRuntimeError
	}
}

// parseRuntimeMs converts the judge's decimal-seconds string to whole
// milliseconds, rounding to nearest. Absent or malformed times count as 0.
func parseRuntimeMs(t string) int {
	if t == "" {
		return 0
	}
	sec, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(sec * 1000))
}
