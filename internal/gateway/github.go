// Package gateway provides a gateway to the GitHub events API,
// translating its responses into domain events.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/github-activity/internal/domain"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com/"

// Errors returned by the gateway. They are wrapped, so callers should use errors.Is.
var (
	ErrRequest   = errors.New("failed to build events request")
	ErrTransport = errors.New("failed to reach GitHub API")
	ErrStatus    = errors.New("unexpected response status from GitHub API")
	ErrNotFound  = errors.New("user not found")
	ErrRead      = errors.New("failed to read events response")
	ErrDecode    = errors.New("failed to decode events response")
)

// Fetcher defines the behavior of a gateway for fetching a user's public events.
type Fetcher interface {
	FetchEvents(ctx context.Context, username string) ([]domain.Event, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client *github.Client
	logger logrus.FieldLogger
}

// NewGitHubGateway creates a gateway talking to the API at baseURL.
// A nil httpClient means http.DefaultClient.
func NewGitHubGateway(baseURL string, httpClient *http.Client, logger logrus.FieldLogger) (*GitHubGateway, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", ErrRequest, baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be absolute", ErrRequest, baseURL)
	}
	// go-github resolves paths relative to BaseURL, which requires the trailing slash.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	client := github.NewClient(httpClient)
	client.BaseURL = u
	return &GitHubGateway{
		client: client,
		logger: logger,
	}, nil
}

// FetchEvents retrieves the most recent public events performed by username.
func (g *GitHubGateway) FetchEvents(ctx context.Context, username string) ([]domain.Event, error) {
	g.logger.WithField("user", username).Info("Fetching public events...")

	req, err := g.NewEventsRequest(username)
	if err != nil {
		return nil, err
	}
	body, err := g.ReadEvents(ctx, req)
	if err != nil {
		return nil, err
	}
	events, err := ParseEvents(body)
	if err != nil {
		return nil, err
	}

	g.logger.WithFields(logrus.Fields{"user": username, "events": len(events)}).Info("Completed fetching events.")
	return events, nil
}

// NewEventsRequest prepares the GET request for a user's events. The username is
// not validated; GitHub answers unknown or empty names with an error status.
func (g *GitHubGateway) NewEventsRequest(username string) (*http.Request, error) {
	req, err := g.client.NewRequest(http.MethodGet, fmt.Sprintf("users/%s/events", username), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	return req, nil
}

// ReadEvents executes req and returns the full response body. Any status other
// than 200 is reported as ErrStatus.
func (g *GitHubGateway) ReadEvents(ctx context.Context, req *http.Request) ([]byte, error) {
	resp, err := g.client.BareDo(ctx, req)
	if err != nil {
		// BareDo hands back the response whenever the server answered.
		if resp != nil && resp.Response != nil {
			g.logger.WithError(err).Debug("GitHub API rejected the request")
			return nil, statusError(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	g.logger.WithFields(logrus.Fields{
		"limit":     resp.Rate.Limit,
		"remaining": resp.Rate.Remaining,
		"reset":     resp.Rate.Reset.Time,
	}).Debug("GitHub API rate limit")

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return body, nil
}

// ParseEvents decodes a JSON array of events. A payload that does not match
// its event type does not fail the parse; it becomes a domain.MalformedPayload.
func ParseEvents(body []byte) ([]domain.Event, error) {
	var raw []*github.Event
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	events := make([]domain.Event, 0, len(raw))
	for _, e := range raw {
		events = append(events, toDomainEvent(e))
	}
	return events, nil
}

func toDomainEvent(e *github.Event) domain.Event {
	if e == nil {
		return domain.Event{Payload: domain.MalformedPayload{Err: errors.New("event is null")}}
	}
	var raw json.RawMessage
	if e.RawPayload != nil {
		raw = *e.RawPayload
	}
	return domain.Event{
		ID:        e.GetID(),
		Type:      e.GetType(),
		Repo:      e.GetRepo().GetName(),
		Actor:     e.GetActor().GetLogin(),
		CreatedAt: e.GetCreatedAt().Time,
		Payload:   decodePayload(e.GetType(), raw),
	}
}

func statusError(code int) error {
	if code == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrStatus, ErrNotFound)
	}
	return fmt.Errorf("%w: %d %s", ErrStatus, code, http.StatusText(code))
}
