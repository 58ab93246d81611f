package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/naka-gawa/github-activity/internal/domain"
)

// Payload shapes hold only the fields the report reads, so unexpected
// values elsewhere in a payload cannot make the event unreadable.
type (
	pushPayload struct {
		Commits []json.RawMessage `json:"commits"`
	}

	titled struct {
		Title *string `json:"title"`
	}

	issuesPayload struct {
		Action *string `json:"action"`
		Issue  *titled `json:"issue"`
	}

	pullRequestPayload struct {
		Action      *string `json:"action"`
		PullRequest *titled `json:"pull_request"`
	}

	forkPayload struct {
		Forkee *struct {
			FullName *string `json:"full_name"`
		} `json:"forkee"`
	}

	refPayload struct {
		Ref     *string `json:"ref"`
		RefType *string `json:"ref_type"`
	}
)

// decodePayload decodes raw into the payload variant selected by eventType.
func decodePayload(eventType string, raw json.RawMessage) domain.Payload {
	switch eventType {
	case domain.TypePush:
		var p pushPayload
		if err := unmarshalPayload(raw, &p); err != nil {
			return malformed(eventType, err)
		}
		return domain.PushPayload{Commits: len(p.Commits)}

	case domain.TypeIssues:
		var p issuesPayload
		if err := unmarshalPayload(raw, &p); err != nil {
			return malformed(eventType, err)
		}
		if p.Issue == nil {
			return missingField(eventType, "issue")
		}
		return domain.IssuesPayload{Action: deref(p.Action), Title: deref(p.Issue.Title)}

	case domain.TypePullRequest:
		var p pullRequestPayload
		if err := unmarshalPayload(raw, &p); err != nil {
			return malformed(eventType, err)
		}
		if p.PullRequest == nil {
			return missingField(eventType, "pull_request")
		}
		return domain.PullRequestPayload{Action: deref(p.Action), Title: deref(p.PullRequest.Title)}

	case domain.TypeFork:
		var p forkPayload
		if err := unmarshalPayload(raw, &p); err != nil {
			return malformed(eventType, err)
		}
		if p.Forkee == nil {
			return missingField(eventType, "forkee")
		}
		return domain.ForkPayload{FullName: deref(p.Forkee.FullName)}

	case domain.TypeWatch:
		return domain.WatchPayload{}

	case domain.TypeCreate:
		var p refPayload
		if err := unmarshalPayload(raw, &p); err != nil {
			return malformed(eventType, err)
		}
		return domain.CreatePayload{RefType: deref(p.RefType), Ref: deref(p.Ref), HasRef: p.Ref != nil}

	case domain.TypeDelete:
		var p refPayload
		if err := unmarshalPayload(raw, &p); err != nil {
			return malformed(eventType, err)
		}
		return domain.DeletePayload{RefType: deref(p.RefType), Ref: deref(p.Ref)}
	}
	return domain.OtherPayload{}
}

// unmarshalPayload treats an absent or null payload as an empty object.
func unmarshalPayload(raw json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.Unmarshal(trimmed, v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func malformed(eventType string, err error) domain.Payload {
	return domain.MalformedPayload{Err: fmt.Errorf("invalid %s payload: %w", eventType, err)}
}

func missingField(eventType, field string) domain.Payload {
	return domain.MalformedPayload{Err: fmt.Errorf("%s payload has no %q", eventType, field)}
}
