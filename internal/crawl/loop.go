// Package crawl drives repeated batch fetches until the listing is
// exhausted or a fetch fails, accumulating flattened records in order.
package crawl

import (
	"context"
	"log/slog"

	"github.com/Xinyu-ham/SadGPT/internal/domain"
)

// DefaultPageSize is the per-batch item cap. The upstream API enforces a
// hard limit of 100.
const DefaultPageSize = 100

// Status tells a clean exhaustion apart from an error-truncated crawl.
// The record sequence looks the same either way: ordered, possibly empty,
// possibly partial.
type Status int

const (
	Completed Status = iota
	Truncated
)

func (s Status) String() string {
	if s == Truncated {
		return "truncated"
	}
	return "completed"
}

// Result is one finished crawl. Records grow monotonically during the run
// and are handed off as-is; Err holds the truncating fetch error when
// Status is Truncated.
type Result struct {
	Mode    domain.Mode
	Records []domain.Record
	Batches int
	Status  Status
	Err     error
}

// Loop orchestrates one crawl: mode-selected fetches, cursor tracking and
// the termination policy.
type Loop struct {
	fetcher  domain.Fetcher
	mode     domain.Mode
	pageSize int
}

// New builds a loop for the given mode. The mode gates the entire run, so
// an invalid one fails here before any fetch happens.
func New(fetcher domain.Fetcher, mode domain.Mode, pageSize int) (*Loop, error) {
	if _, err := domain.ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Loop{fetcher: fetcher, mode: mode, pageSize: pageSize}, nil
}

// Run crawls until the first empty page or the first fetch error. The
// cursor for each fetch is the fullname of the last record appended by the
// previous one; a cursor is never reused. Partial results survive errors.
func (l *Loop) Run(ctx context.Context, subreddit, sort string) *Result {
	fetch := l.fetcher.FetchPosts
	if l.mode == domain.ModeComment {
		fetch = l.fetcher.FetchComments
	}

	var records []domain.Record
	before := ""
	batches := 0
	for {
		page, err := fetch(ctx, subreddit, sort, l.pageSize, before)
		if err != nil {
			slog.Error("batch fetch failed, keeping partial results",
				"subreddit", subreddit, "batch", batches+1, "records", len(records), "err", err)
			return &Result{Mode: l.mode, Records: records, Batches: batches, Status: Truncated, Err: err}
		}
		if len(page) == 0 {
			slog.Debug("listing exhausted", "subreddit", subreddit, "batches", batches, "records", len(records))
			return &Result{Mode: l.mode, Records: records, Batches: batches, Status: Completed}
		}

		records = append(records, page...)
		before = records[len(records)-1].Cursor()
		batches++
		slog.Debug("batch complete", "batch", batches, "records", len(records))
	}
}
