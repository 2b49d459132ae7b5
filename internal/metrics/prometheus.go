package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts judged submissions by language and terminal status.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codepvg_submissions_total",
			Help: "Total number of judged submissions",
		},
		[]string{"language", "status"},
	)

	// JudgeRequestsTotal counts calls to the external judging service.
	JudgeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codepvg_judge_requests_total",
			Help: "Total number of requests to the external judging service",
		},
		[]string{"outcome"},
	)

	// JudgePollAttempts tracks how many polls a single test-case execution needed.
	JudgePollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codepvg_judge_poll_attempts",
			Help:    "Number of poll attempts per test-case execution",
			Buckets: prometheus.LinearBuckets(0, 3, 11), // 0 to 30
		},
	)

	// VerdictDuration tracks the wall-clock duration of full verdict aggregation.
	VerdictDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codepvg_verdict_duration_seconds",
			Help:    "Duration of full submission judging in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		},
		[]string{"language"},
	)

	// WorkersActive tracks the number of currently active workers.
	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "codepvg_workers_active",
			Help: "Number of currently active worker goroutines",
		},
	)

	// LeaderboardRecomputeDuration tracks full rank recomputation time.
	LeaderboardRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codepvg_leaderboard_recompute_seconds",
			Help:    "Duration of a full leaderboard rank recomputation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)

	// DuplicateDeliveriesTotal counts redelivered queue messages skipped by the
	// idempotency lock.
	DuplicateDeliveriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codepvg_duplicate_deliveries_total",
			Help: "Total number of duplicate queue deliveries skipped",
		},
	)
)
