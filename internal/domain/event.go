package domain

import "time"

// Event types with dedicated rendering. Anything else is rendered generically.
const (
	TypePush        = "PushEvent"
	TypeIssues      = "IssuesEvent"
	TypePullRequest = "PullRequestEvent"
	TypeFork        = "ForkEvent"
	TypeWatch       = "WatchEvent"
	TypeCreate      = "CreateEvent"
	TypeDelete      = "DeleteEvent"
)

// Event is one public activity record from a user's events feed.
type Event struct {
	ID        string
	Type      string
	Repo      string
	Actor     string
	CreatedAt time.Time
	Payload   Payload
}

// Payload is the type-specific part of an Event. The concrete type is
// selected by Event.Type.
type Payload interface {
	payload()
}

type PushPayload struct {
	Commits int
}

type IssuesPayload struct {
	Action string
	Title  string
}

type PullRequestPayload struct {
	Action string
	Title  string
}

type ForkPayload struct {
	FullName string
}

type WatchPayload struct{}

// CreatePayload carries the created ref. Repository creation has no ref, so
// HasRef distinguishes an absent ref from an empty one.
type CreatePayload struct {
	RefType string
	Ref     string
	HasRef  bool
}

type DeletePayload struct {
	RefType string
	Ref     string
}

// OtherPayload is used for event types without dedicated rendering.
type OtherPayload struct{}

// MalformedPayload marks an event whose payload did not match the shape of its type.
type MalformedPayload struct {
	Err error
}

func (PushPayload) payload()        {}
func (IssuesPayload) payload()      {}
func (PullRequestPayload) payload() {}
func (ForkPayload) payload()        {}
func (WatchPayload) payload()       {}
func (CreatePayload) payload()      {}
func (DeletePayload) payload()      {}
func (OtherPayload) payload()       {}
func (MalformedPayload) payload()   {}
