// Package domain contains the core data structures and domain logic for the application.
package domain

// RepoCommits holds the number of pushed commits seen for a single repository.
type RepoCommits struct {
	Name    string
	Commits int
}

// PushSummary describes the distribution of commit counts across push events.
type PushSummary struct {
	Pushes int
	Mean   float64
	Median float64
	Max    float64
}

// SkippedEvent records an event left out of a report because its payload was malformed.
type SkippedEvent struct {
	ID   string
	Type string
	Repo string
	Err  error
}

// Report is the rendered activity of a single user.
type Report struct {
	Username string
	Lines    []string
	Tally    []RepoCommits
	// Latest is the first event of the feed, which GitHub orders newest first.
	Latest  *Event
	Skipped []SkippedEvent
	Summary *PushSummary
}
