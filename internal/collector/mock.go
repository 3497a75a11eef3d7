package collector

import (
	"context"
	"fmt"

	"github.com/Xinyu-ham/SadGPT/internal/domain"
)

// MockFetcher implements domain.Fetcher with deterministic fake pages and
// no network access. It serves MaxBatches non-empty pages per operation,
// then empty ones, so a crawl against it always exhausts cleanly.
type MockFetcher struct {
	MaxBatches int

	postBatches    int
	commentBatches int
}

// NewMockFetcher returns a fetcher that exhausts after maxBatches pages.
func NewMockFetcher(maxBatches int) *MockFetcher {
	return &MockFetcher{MaxBatches: maxBatches}
}

func (m *MockFetcher) FetchPosts(_ context.Context, subreddit, _ string, limit int, _ string) ([]domain.Record, error) {
	if m.postBatches >= m.MaxBatches {
		return nil, nil
	}
	m.postBatches++

	var records []domain.Record
	for i := 0; i < limit; i++ {
		records = append(records, domain.Post{
			Name:  fmt.Sprintf("t3_mock_%s_%d_%d", subreddit, m.postBatches, i),
			Title: fmt.Sprintf("[%s] Simulated post #%d of batch %d", subreddit, i, m.postBatches),
			Text:  "Simulated selftext.",
		})
	}
	return records, nil
}

func (m *MockFetcher) FetchComments(_ context.Context, subreddit, _ string, limit int, _ string) ([]domain.Record, error) {
	if m.commentBatches >= m.MaxBatches {
		return nil, nil
	}
	m.commentBatches++

	var records []domain.Record
	for i := 0; i < limit; i++ {
		name := fmt.Sprintf("t3_mock_%s_%d_%d", subreddit, m.commentBatches, i)
		title := fmt.Sprintf("[%s] Simulated post #%d of batch %d", subreddit, i, m.commentBatches)
		for j := 0; j < commentSubLimit; j++ {
			records = append(records, domain.Comment{
				PostName:  name,
				PostTitle: title,
				Body:      fmt.Sprintf("Simulated comment #%d", j),
			})
		}
	}
	return records, nil
}
