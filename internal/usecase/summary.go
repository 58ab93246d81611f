package usecase

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/github-activity/internal/domain"
)

// summarizePushes describes the commit counts of individual pushes.
// It returns nil when there were no pushes.
func summarizePushes(commits []int) *domain.PushSummary {
	if len(commits) == 0 {
		return nil
	}
	data := stats.LoadRawData(commits)

	// The stats functions only fail on empty input, which is excluded above.
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	maxCommits, _ := stats.Max(data)

	return &domain.PushSummary{
		Pushes: len(commits),
		Mean:   mean,
		Median: median,
		Max:    maxCommits,
	}
}

// SummaryLine formats s as a report line.
func SummaryLine(s *domain.PushSummary) string {
	return fmt.Sprintf("- Averaged %.1f commit(s) per push over %d push(es) (median %.1f, max %.0f)",
		s.Mean, s.Pushes, s.Median, s.Max)
}
