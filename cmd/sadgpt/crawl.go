package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Xinyu-ham/SadGPT/internal/collector"
	"github.com/Xinyu-ham/SadGPT/internal/config"
	"github.com/Xinyu-ham/SadGPT/internal/crawl"
	"github.com/Xinyu-ham/SadGPT/internal/domain"
	"github.com/Xinyu-ham/SadGPT/internal/storage"
	"github.com/Xinyu-ham/SadGPT/internal/table"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [subreddit]",
		Short: "Crawl a subreddit into a flat dataset file",
		Long: `Crawl pulls every available page of a subreddit listing, following the
'before' cursor until the listing is exhausted or a fetch fails. Partial
results are always written.

In post mode each row is one post (name, title, text). In comment mode the
crawler fetches the all-time top posts and fans out one request per post
for its top comments; each row is one comment (name, title, comment), and
--sort orders the comments within each post, not the posts.

Examples:
  # All new posts from r/askreddit into a CSV
  sadgpt crawl askreddit --out askreddit.csv

  # Controversial comments on the top posts, as JSONL
  sadgpt crawl askreddit --mode comment --sort controversial --format jsonl --out askreddit.jsonl

  # Dry run without credentials or network
  sadgpt crawl askreddit --mock -v`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("mode", "m", "post", "Row shape: 'post' or 'comment'")
	cmd.Flags().StringP("sort", "s", "new", "Sort order (posts in post mode, comments in comment mode)")
	cmd.Flags().StringP("out", "o", "dataset.csv", "Output file path")
	cmd.Flags().StringP("format", "f", "csv", "Output format: 'csv' or 'jsonl'")
	cmd.Flags().IntP("limit", "l", crawl.DefaultPageSize, "Page size per batch (API caps at 100)")
	cmd.Flags().StringP("creds", "c", "", "Path to JSON credential file (default: REDDIT_* environment)")
	cmd.Flags().Bool("mock", false, "Use the offline mock fetcher (no credentials, no network)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	subreddit := args[0]
	modeStr, _ := cmd.Flags().GetString("mode")
	sortBy, _ := cmd.Flags().GetString("sort")
	out, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")
	limit, _ := cmd.Flags().GetInt("limit")
	credsPath, _ := cmd.Flags().GetString("creds")
	mock, _ := cmd.Flags().GetBool("mock")

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	mode, err := domain.ParseMode(modeStr)
	if err != nil {
		return err
	}
	if format != "csv" && format != "jsonl" {
		return fmt.Errorf("unknown format %q: use 'csv' or 'jsonl'", format)
	}

	var creds *config.Credentials
	if !mock {
		creds, err = config.Load(credsPath)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher, err := collector.NewFetcher(ctx, creds, mock)
	if err != nil {
		return err
	}

	loop, err := crawl.New(fetcher, mode, limit)
	if err != nil {
		return err
	}

	logger.Info("starting crawl", "subreddit", subreddit, "mode", mode, "sort", sortBy)
	result := loop.Run(ctx, subreddit, sortBy)

	tbl, err := table.Assemble(result.Mode, result.Records)
	if err != nil {
		return err
	}
	if err := writeTable(tbl, out, format); err != nil {
		return err
	}

	logger.Info("crawl finished",
		"status", result.Status.String(),
		"records", len(result.Records),
		"batches", result.Batches,
		"out", out)
	return nil
}

func writeTable(tbl *table.Table, path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if format == "jsonl" {
		return storage.WriteJSONL(f, tbl)
	}
	return tbl.WriteCSV(f)
}
