// Package usecase contains the business logic of the application.
package usecase

import (
	"context"

	"github.com/naka-gawa/github-activity/internal/domain"
	"github.com/naka-gawa/github-activity/internal/gateway"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many users are looked up at once.
const DefaultConcurrency = 4

// Outcome is the result of looking up one user: a report or the error that prevented it.
type Outcome struct {
	Username string
	Report   *domain.Report
	Err      error
}

// Aggregator is the use case for summarizing GitHub user activity.
// It orchestrates fetching events and rendering them into reports.
type Aggregator struct {
	fetcher     gateway.Fetcher
	logger      logrus.FieldLogger
	concurrency int
}

// NewAggregator creates a new Aggregator instance. A concurrency below 1
// falls back to DefaultConcurrency.
func NewAggregator(fetcher gateway.Fetcher, logger logrus.FieldLogger, concurrency int) *Aggregator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{
		fetcher:     fetcher,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Lookup fetches the events of a single user and renders them.
func (a *Aggregator) Lookup(ctx context.Context, username string) (*domain.Report, error) {
	log := a.logger.WithField("user", username)
	log.Debug("Usecase: Starting activity lookup...")

	events, err := a.fetcher.FetchEvents(ctx, username)
	if err != nil {
		log.WithError(err).Debug("Usecase: Lookup failed.")
		return nil, err
	}

	report := Render(events)
	report.Username = username
	for _, s := range report.Skipped {
		log.WithFields(logrus.Fields{"event": s.ID, "type": s.Type, "repo": s.Repo}).WithError(s.Err).Warn("Skipping malformed event")
	}

	log.WithField("lines", len(report.Lines)).Debug("Usecase: Lookup complete.")
	return report, nil
}

// LookupAll looks up every user concurrently and returns the outcomes in the
// order the users were given. A failed lookup does not cancel the others.
func (a *Aggregator) LookupAll(ctx context.Context, usernames []string) []Outcome {
	outcomes := make([]Outcome, len(usernames))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for i, username := range usernames {
		i, username := i, username
		eg.Go(func() error {
			report, err := a.Lookup(egCtx, username)
			outcomes[i] = Outcome{Username: username, Report: report, Err: err}
			return nil
		})
	}
	// Goroutines never return an error; failures live in the outcomes.
	_ = eg.Wait()

	return outcomes
}
