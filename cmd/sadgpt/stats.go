package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Xinyu-ham/SadGPT/internal/dashboard"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Serve summary charts for a crawled JSONL dataset",
		Long: `Stats starts a local web server with charts over a dataset produced by
'crawl --format jsonl': records per post and body length distribution.

Example:
  sadgpt stats --data askreddit.jsonl --port 8080`,
		RunE: runStatsCmd,
	}

	cmd.Flags().StringP("data", "d", "dataset.jsonl", "Path to a JSONL dataset")
	cmd.Flags().StringP("port", "p", "8080", "HTTP port to listen on")

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	data, _ := cmd.Flags().GetString("data")
	port, _ := cmd.Flags().GetString("port")

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	logger.Info("serving dataset stats", "data", data, "port", port)
	return dashboard.StartServer(data, port)
}
