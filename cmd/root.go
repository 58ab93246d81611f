// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-activity",
	Short: "A CLI tool to summarize the recent public activity of GitHub users.",
	Long: `github-activity fetches the public events feed of one or more GitHub users
and prints a human-readable summary: issues, pull requests, forks, stars,
created and deleted refs, and pushed commits per repository.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger returns a logger that discards everything unless verbose is set,
// in which case it writes to standard error.
func newLogger(verbose bool, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}
