package usecase

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/naka-gawa/github-activity/internal/domain"
)

// Render turns a user's events into report lines in a single pass. Push events
// produce no line of their own; their commits are tallied per repository and
// printed after the other lines. Malformed events are skipped and recorded.
func Render(events []domain.Event) *domain.Report {
	report := &domain.Report{Lines: []string{}, Tally: []domain.RepoCommits{}}
	if len(events) > 0 {
		latest := events[0]
		report.Latest = &latest
	}

	// Index into report.Tally; keeps repositories in first-push order.
	tallyIndex := make(map[string]int)
	var pushCommits []int

	for _, e := range events {
		switch p := e.Payload.(type) {
		case domain.PushPayload:
			i, ok := tallyIndex[e.Repo]
			if !ok {
				i = len(report.Tally)
				tallyIndex[e.Repo] = i
				report.Tally = append(report.Tally, domain.RepoCommits{Name: e.Repo})
			}
			report.Tally[i].Commits += p.Commits
			pushCommits = append(pushCommits, p.Commits)
		case domain.IssuesPayload:
			report.Lines = append(report.Lines, fmt.Sprintf("- %s an issue in %s: \"%s\"", Capitalize(p.Action), e.Repo, p.Title))
		case domain.PullRequestPayload:
			report.Lines = append(report.Lines, fmt.Sprintf("- %s a pull request in %s: \"%s\"", Capitalize(p.Action), e.Repo, p.Title))
		case domain.ForkPayload:
			report.Lines = append(report.Lines, fmt.Sprintf("- Forked %s to %s", e.Repo, p.FullName))
		case domain.WatchPayload:
			report.Lines = append(report.Lines, fmt.Sprintf("- Starred %s", e.Repo))
		case domain.CreatePayload:
			if p.HasRef {
				report.Lines = append(report.Lines, fmt.Sprintf("- Created %s '%s' in %s", p.RefType, p.Ref, e.Repo))
			} else {
				report.Lines = append(report.Lines, fmt.Sprintf("- Created %s in %s", p.RefType, e.Repo))
			}
		case domain.DeletePayload:
			report.Lines = append(report.Lines, fmt.Sprintf("- Deleted %s '%s' in %s", p.RefType, p.Ref, e.Repo))
		case domain.MalformedPayload:
			report.Skipped = append(report.Skipped, domain.SkippedEvent{ID: e.ID, Type: e.Type, Repo: e.Repo, Err: p.Err})
		default:
			report.Lines = append(report.Lines, fmt.Sprintf("- Performed %s on %s", e.Type, e.Repo))
		}
	}

	for _, rc := range report.Tally {
		report.Lines = append(report.Lines, fmt.Sprintf("- Pushed %d commit(s) to %s", rc.Commits, rc.Name))
	}
	report.Summary = summarizePushes(pushCommits)
	return report
}

// Capitalize upper-cases the first character of s and leaves the rest as is.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[size:])
	return b.String()
}
