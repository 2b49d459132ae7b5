package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is one user's row in the global standings. There is
// exactly one entry per user; ranks are dense 1-based integers derived from
// (total_solved DESC, last_submission_at ASC).
type LeaderboardEntry struct {
	UserID           uuid.UUID `json:"user_id"`
	TotalSolved      int       `json:"total_solved"`
	Rank             int       `json:"rank"`
	LastSubmissionAt time.Time `json:"last_submission_at"`
}

// Problem is the read-only view of a problem the judging pipeline needs.
// Authoring and administration live outside this service.
type Problem struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Difficulty    string    `json:"difficulty"`
	TimeLimitMs   int       `json:"time_limit_ms"`
	MemoryLimitKB int       `json:"memory_limit_kb"`
	CreatedAt     time.Time `json:"created_at"`
}
