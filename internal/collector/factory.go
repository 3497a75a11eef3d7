package collector

import (
	"context"

	"github.com/Xinyu-ham/SadGPT/internal/auth"
	"github.com/Xinyu-ham/SadGPT/internal/config"
	"github.com/Xinyu-ham/SadGPT/internal/domain"
)

// mockMaxBatches bounds dry runs so they terminate quickly.
const mockMaxBatches = 3

// NewFetcher selects the fetcher implementation. With mock set it returns
// the offline fetcher and never touches credentials or the network;
// otherwise it authenticates and wraps a live client.
func NewFetcher(ctx context.Context, creds *config.Credentials, mock bool, opts ...auth.Option) (domain.Fetcher, error) {
	if mock {
		return NewMockFetcher(mockMaxBatches), nil
	}

	client, err := auth.NewClient(ctx, creds, opts...)
	if err != nil {
		return nil, err
	}
	return NewBatchFetcher(client), nil
}
