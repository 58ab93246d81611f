package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/naka-gawa/github-activity/internal/config"
	"github.com/naka-gawa/github-activity/internal/gateway"
	"github.com/naka-gawa/github-activity/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// connectFailureMessage is printed for any non-200 answer from the API.
const connectFailureMessage = "Could not connect to the API"

var activityCmd = &cobra.Command{
	Use:   "activity <username> [username...]",
	Short: "Prints the recent public activity of GitHub users",
	Long: `Fetches the public events of each given GitHub user and prints one line per event,
followed by the number of commits pushed to each repository.

Lookup failures are reported on standard output and do not change the exit status.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := newLogger(verbose, cfg.LogLevel)

		// Flags override the environment.
		if cmd.Flags().Changed("api-url") {
			cfg.APIURL, _ = cmd.Flags().GetString("api-url")
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
			if err := config.ValidateConcurrency(cfg.Concurrency); err != nil {
				return fmt.Errorf("invalid --concurrency: %w", err)
			}
		}
		summary, _ := cmd.Flags().GetBool("summary")

		githubGateway, err := gateway.NewGitHubGateway(cfg.APIURL, nil, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		aggregator := usecase.NewAggregator(githubGateway, logger, cfg.Concurrency)

		outcomes := aggregator.LookupAll(cmd.Context(), args)
		for _, o := range outcomes {
			if o.Report != nil && o.Report.Latest != nil {
				latest := o.Report.Latest
				logger.WithFields(logrus.Fields{
					"user":       o.Username,
					"actor":      latest.Actor,
					"type":       latest.Type,
					"repo":       latest.Repo,
					"created_at": latest.CreatedAt,
				}).Info("Most recent activity")
			}
		}

		printOutcomes(cmd.OutOrStdout(), outcomes, summary)
		return nil
	},
}

// printOutcomes writes the reports in order. A header names each user only
// when there is more than one.
func printOutcomes(w io.Writer, outcomes []usecase.Outcome, summary bool) {
	header := color.New(color.Bold)
	failure := color.New(color.FgRed)

	for i, o := range outcomes {
		if len(outcomes) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			header.Fprintf(w, "Activity for %s:\n", o.Username)
		}

		if o.Err != nil {
			failure.Fprintln(w, failureMessage(o.Err))
			continue
		}
		for _, line := range o.Report.Lines {
			fmt.Fprintln(w, line)
		}
		if summary && o.Report.Summary != nil {
			fmt.Fprintln(w, usecase.SummaryLine(o.Report.Summary))
		}
	}
}

func failureMessage(err error) string {
	if errors.Is(err, gateway.ErrStatus) {
		return connectFailureMessage
	}
	return "Error: " + err.Error()
}

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.Flags().String("api-url", gateway.DefaultBaseURL, "Base URL of the GitHub REST API (overrides "+config.EnvAPIURL+")")
	activityCmd.Flags().Bool("summary", false, "Print commit-per-push statistics after the report")
	activityCmd.Flags().Int("concurrency", usecase.DefaultConcurrency, "Maximum number of users looked up at once")
}
