package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/naka-gawa/github-activity/internal/domain"
	"github.com/naka-gawa/github-activity/internal/gateway"
	"github.com/naka-gawa/github-activity/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// disableColor turns color off for the test and restores the previous setting.
func disableColor(t *testing.T) {
	t.Helper()
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })
}

// executeRoot runs the root command with args and restores its output,
// arguments and flag values afterwards.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		for _, c := range []*cobra.Command{rootCmd, activityCmd} {
			c.Flags().VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestPrintOutcomes(t *testing.T) {
	disableColor(t)

	report := &domain.Report{
		Lines:   []string{"- Starred acme/widgets", "- Pushed 3 commit(s) to acme/widgets"},
		Summary: &domain.PushSummary{Pushes: 2, Mean: 1.5, Median: 1.5, Max: 2},
	}

	testCases := []struct {
		name     string
		outcomes []usecase.Outcome
		summary  bool
		expected string
	}{
		{
			name:     "single user has no header",
			outcomes: []usecase.Outcome{{Username: "octocat", Report: report}},
			expected: "- Starred acme/widgets\n- Pushed 3 commit(s) to acme/widgets\n",
		},
		{
			name:     "summary line is opt-in",
			outcomes: []usecase.Outcome{{Username: "octocat", Report: report}},
			summary:  true,
			expected: "- Starred acme/widgets\n- Pushed 3 commit(s) to acme/widgets\n" +
				"- Averaged 1.5 commit(s) per push over 2 push(es) (median 1.5, max 2)\n",
		},
		{
			name:     "empty report prints nothing",
			outcomes: []usecase.Outcome{{Username: "octocat", Report: &domain.Report{}}},
			expected: "",
		},
		{
			name:     "status failure",
			outcomes: []usecase.Outcome{{Username: "ghost", Err: fmt.Errorf("%w: %w", gateway.ErrStatus, gateway.ErrNotFound)}},
			expected: "Could not connect to the API\n",
		},
		{
			name:     "other failure",
			outcomes: []usecase.Outcome{{Username: "octocat", Err: errors.New("boom")}},
			expected: "Error: boom\n",
		},
		{
			name: "several users get headers",
			outcomes: []usecase.Outcome{
				{Username: "octocat", Report: report},
				{Username: "ghost", Err: gateway.ErrStatus},
			},
			expected: "Activity for octocat:\n- Starred acme/widgets\n- Pushed 3 commit(s) to acme/widgets\n" +
				"\nActivity for ghost:\nCould not connect to the API\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			printOutcomes(&buf, tc.outcomes, tc.summary)
			assert.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestActivityCommand(t *testing.T) {
	disableColor(t)

	testCases := []struct {
		name     string
		handler  http.HandlerFunc
		expected string
	}{
		{
			name: "renders the feed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/octocat/events", r.URL.Path)
				fmt.Fprint(w, `[
					{"id":"5","type":"IssuesEvent","repo":{"name":"acme/widgets"},"payload":{"action":"opened","issue":{"title":"Bug"}}},
					{"id":"4","type":"PushEvent","repo":{"name":"acme/widgets"},"payload":{"commits":[{},{}]}},
					{"id":"3","type":"IssuesEvent","repo":{"name":"acme/widgets"},"payload":{"action":"opened"}},
					{"id":"2","type":"PushEvent","repo":{"name":"acme/widgets"},"payload":{"commits":[{},{},{}]}},
					{"id":"1","type":"GollumEvent","repo":{"name":"acme/wiki"},"payload":{}}
				]`)
			},
			expected: "- Opened an issue in acme/widgets: \"Bug\"\n" +
				"- Performed GollumEvent on acme/wiki\n" +
				"- Pushed 5 commit(s) to acme/widgets\n",
		},
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			expected: "Could not connect to the API\n",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"message":"not a list"}`)
			},
			expected: "Error: failed to decode events response: ",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			out, err := executeRoot(t, "activity", "--api-url", server.URL, "octocat")
			require.NoError(t, err)
			if strings.HasPrefix(tc.expected, "Error: ") {
				assert.True(t, strings.HasPrefix(out, tc.expected), "got %q", out)
				return
			}
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestActivityCommand_InvalidConcurrency(t *testing.T) {
	disableColor(t)

	for _, value := range []string{"0", "-3"} {
		t.Run(value, func(t *testing.T) {
			var requests int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				fmt.Fprint(w, `[]`)
			}))
			defer server.Close()

			_, err := executeRoot(t, "activity", "--api-url", server.URL, "--concurrency", value, "octocat")
			assert.ErrorContains(t, err, "invalid --concurrency")
			assert.Zero(t, requests)
		})
	}
}
