// Package collector fetches bounded, cursor-qualified batches of posts and
// comments from the Reddit listing endpoints.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Xinyu-ham/SadGPT/internal/domain"
)

// commentSubLimit caps how many comments are requested per post in comment
// mode. Fixed by design: the dataset wants each post's handful of top
// comments, not whole threads.
const commentSubLimit = 5

// FetchError reports an HTTP or parse failure during a batch fetch,
// carrying the offending endpoint and raw status. The fetcher performs no
// retries itself; transient upstream errors are already retried one layer
// down in the authenticated client.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Getter is the slice of the authenticated client the fetcher needs.
type Getter interface {
	Get(ctx context.Context, path string, query url.Values) (body []byte, status int, err error)
}

// BatchFetcher issues one bounded request per call, mapping listing
// children to flat records in response order.
type BatchFetcher struct {
	client Getter
}

// NewBatchFetcher wraps an authenticated client.
func NewBatchFetcher(client Getter) *BatchFetcher {
	return &BatchFetcher{client: client}
}

// listing mirrors Reddit's envelope: data.children[].data holds the item.
// Body is a pointer so "load more" placeholder nodes, which lack the field
// entirely, are distinguishable from empty comments.
type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID       string  `json:"id"`
				Name     string  `json:"name"`
				Title    string  `json:"title"`
				Selftext string  `json:"selftext"`
				Body     *string `json:"body"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchPosts retrieves one page of the subreddit's sort-ordered listing,
// starting after the cursor when before is non-empty.
func (f *BatchFetcher) FetchPosts(ctx context.Context, subreddit, sort string, limit int, before string) ([]domain.Record, error) {
	path := fmt.Sprintf("/r/%s/%s", subreddit, sort)
	query := url.Values{
		"limit":    {strconv.Itoa(limit)},
		"raw_json": {"1"},
	}
	if before != "" {
		query.Set("before", before)
	}

	page, err := f.getListing(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	for _, child := range page.Data.Children {
		records = append(records, domain.Post{
			Name:  child.Data.Name,
			Title: child.Data.Title,
			Text:  child.Data.Selftext,
		})
	}
	return records, nil
}

// FetchComments retrieves one page of top posts, then fans out one request
// per post for its top comments. sort orders the comments within each
// post; the page of posts itself is always the all-time "top" listing,
// which is what the cursor paginates.
func (f *BatchFetcher) FetchComments(ctx context.Context, subreddit, sort string, limit int, before string) ([]domain.Record, error) {
	path := fmt.Sprintf("/r/%s/top", subreddit)
	query := url.Values{
		"limit":    {strconv.Itoa(limit)},
		"raw_json": {"1"},
		"t":        {"all"},
	}
	if before != "" {
		query.Set("before", before)
	}

	page, err := f.getListing(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	for _, child := range page.Data.Children {
		post := child.Data
		comments, err := f.fetchPostComments(ctx, post.ID, sort)
		if err != nil {
			return nil, err
		}
		for _, body := range comments {
			records = append(records, domain.Comment{
				PostName:  post.Name,
				PostTitle: post.Title,
				Body:      body,
			})
		}
	}
	return records, nil
}

// fetchPostComments returns the bodies of one post's top comments,
// skipping bodyless placeholder nodes.
func (f *BatchFetcher) fetchPostComments(ctx context.Context, postID, sort string) ([]string, error) {
	path := "/comments/" + postID
	query := url.Values{
		"limit":    {strconv.Itoa(commentSubLimit)},
		"raw_json": {"1"},
		"sort":     {sort},
	}

	body, status, err := f.client.Get(ctx, path, query)
	if err != nil {
		return nil, &FetchError{Endpoint: path, Err: err}
	}
	if status != http.StatusOK {
		return nil, &FetchError{Endpoint: path, StatusCode: status}
	}

	// The comment endpoint returns a two-element array: the post listing
	// followed by the comment tree.
	var tree []listing
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, &FetchError{Endpoint: path, Err: err}
	}
	if len(tree) < 2 {
		return nil, &FetchError{Endpoint: path, Err: fmt.Errorf("comment response has %d listings, want 2", len(tree))}
	}

	var bodies []string
	for _, child := range tree[1].Data.Children {
		if child.Data.Body == nil {
			continue
		}
		bodies = append(bodies, *child.Data.Body)
	}
	return bodies, nil
}

func (f *BatchFetcher) getListing(ctx context.Context, path string, query url.Values) (*listing, error) {
	body, status, err := f.client.Get(ctx, path, query)
	if err != nil {
		return nil, &FetchError{Endpoint: path, Err: err}
	}
	if status != http.StatusOK {
		return nil, &FetchError{Endpoint: path, StatusCode: status}
	}

	var page listing
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &FetchError{Endpoint: path, Err: err}
	}
	return &page, nil
}
