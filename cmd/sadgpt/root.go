// Package main provides the entry point for the SadGPT dataset CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sadgpt",
		Short: "Collect Reddit posts and comments into flat training datasets",
		Long: `sadgpt crawls a subreddit through the Reddit OAuth API and flattens
posts or comment threads into a tabular dataset for model training.

Credentials come from a JSON file (--creds) or from REDDIT_* environment
variables; a .env file in the working directory is honored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose progress logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewStatsCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger builds the JSON logger; verbose lowers the level so batch
// progress shows up.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// getVerboseFlag retrieves the persistent verbose flag.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}
