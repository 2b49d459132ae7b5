package leaderboard_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/leaderboard"
)

func entry(solved int, last time.Time) *domain.LeaderboardEntry {
	return &domain.LeaderboardEntry{UserID: uuid.New(), TotalSolved: solved, LastSubmissionAt: last}
}

func TestRank_OrderAndContiguity(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []*domain.LeaderboardEntry{
		entry(1, base),
		entry(5, base.Add(time.Hour)),
		entry(5, base),                // ties with the one above, earlier submission wins
		entry(3, base.Add(time.Hour)),
	}

	leaderboard.Rank(entries)

	wantSolved := []int{5, 5, 3, 1}
	for i, e := range entries {
		if e.TotalSolved != wantSolved[i] {
			t.Errorf("position %d: expected total_solved %d, got %d", i, wantSolved[i], e.TotalSolved)
		}
		if e.Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, e.Rank)
		}
	}

	// The tied pair orders by earlier last submission.
	if !entries[0].LastSubmissionAt.Equal(base) {
		t.Error("expected the earlier of the tied entries to rank first")
	}
}

func TestRank_Empty(t *testing.T) {
	leaderboard.Rank(nil)
	leaderboard.Rank([]*domain.LeaderboardEntry{})
}

func TestRank_Single(t *testing.T) {
	entries := []*domain.LeaderboardEntry{entry(7, time.Now())}
	leaderboard.Rank(entries)
	if entries[0].Rank != 1 {
		t.Errorf("expected rank 1, got %d", entries[0].Rank)
	}
}
