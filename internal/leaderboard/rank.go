package leaderboard

import (
	"sort"

	"github.com/developerskull/codePVG-sub000/internal/domain"
)

// Rank sorts entries by (total_solved DESC, last_submission_at ASC) and
// assigns dense 1-based ranks in place. Ties on solved count resolve to the
// earlier last-submission time, so ranks are always contiguous integers 1..N
// with no gaps or duplicates.
func Rank(entries []*domain.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalSolved != entries[j].TotalSolved {
			return entries[i].TotalSolved > entries[j].TotalSolved
		}
		return entries[i].LastSubmissionAt.Before(entries[j].LastSubmissionAt)
	})
	for i, e := range entries {
		e.Rank = i + 1
	}
}
