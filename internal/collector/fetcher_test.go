package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/Xinyu-ham/SadGPT/internal/domain"
)

// stubGetter scripts responses by path and records every request.
type stubGetter struct {
	responses map[string]stubResponse
	requests  []stubRequest
}

type stubResponse struct {
	body   string
	status int
	err    error
}

type stubRequest struct {
	path  string
	query url.Values
}

func (s *stubGetter) Get(_ context.Context, path string, query url.Values) ([]byte, int, error) {
	s.requests = append(s.requests, stubRequest{path: path, query: query})
	resp, ok := s.responses[path]
	if !ok {
		return nil, http.StatusNotFound, nil
	}
	if resp.err != nil {
		return nil, 0, resp.err
	}
	status := resp.status
	if status == 0 {
		status = http.StatusOK
	}
	return []byte(resp.body), status, nil
}

const postListing = `{"data": {"children": [
	{"data": {"id": "aa1", "name": "t3_aa1", "title": "first", "selftext": "body one"}},
	{"data": {"id": "aa2", "name": "t3_aa2", "title": "second", "selftext": ""}}
]}}`

func TestFetchPosts(t *testing.T) {
	t.Run("maps children preserving order", func(t *testing.T) {
		stub := &stubGetter{responses: map[string]stubResponse{
			"/r/askreddit/new": {body: postListing},
		}}
		f := NewBatchFetcher(stub)

		records, err := f.FetchPosts(context.Background(), "askreddit", "new", 100, "")
		if err != nil {
			t.Fatalf("FetchPosts() error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		first, ok := records[0].(domain.Post)
		if !ok {
			t.Fatalf("record type %T, want domain.Post", records[0])
		}
		if first.Name != "t3_aa1" || first.Title != "first" || first.Text != "body one" {
			t.Errorf("unexpected first record: %+v", first)
		}
		if records[1].Cursor() != "t3_aa2" {
			t.Errorf("second cursor = %q, want t3_aa2", records[1].Cursor())
		}
	})

	t.Run("query parameters", func(t *testing.T) {
		stub := &stubGetter{responses: map[string]stubResponse{
			"/r/askreddit/top": {body: `{"data": {"children": []}}`},
		}}
		f := NewBatchFetcher(stub)

		if _, err := f.FetchPosts(context.Background(), "askreddit", "top", 50, "t3_prev"); err != nil {
			t.Fatalf("FetchPosts() error: %v", err)
		}
		q := stub.requests[0].query
		if q.Get("limit") != "50" || q.Get("raw_json") != "1" || q.Get("before") != "t3_prev" {
			t.Errorf("unexpected query: %v", q)
		}
	})

	t.Run("no before param without cursor", func(t *testing.T) {
		stub := &stubGetter{responses: map[string]stubResponse{
			"/r/askreddit/new": {body: `{"data": {"children": []}}`},
		}}
		f := NewBatchFetcher(stub)

		if _, err := f.FetchPosts(context.Background(), "askreddit", "new", 100, ""); err != nil {
			t.Fatalf("FetchPosts() error: %v", err)
		}
		if _, present := stub.requests[0].query["before"]; present {
			t.Error("before sent on the first fetch")
		}
	})

	t.Run("http failure becomes FetchError", func(t *testing.T) {
		stub := &stubGetter{responses: map[string]stubResponse{
			"/r/private/new": {status: http.StatusForbidden},
		}}
		f := NewBatchFetcher(stub)

		_, err := f.FetchPosts(context.Background(), "private", "new", 100, "")
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("error = %v, want *FetchError", err)
		}
		if fetchErr.Endpoint != "/r/private/new" || fetchErr.StatusCode != http.StatusForbidden {
			t.Errorf("FetchError = %+v", fetchErr)
		}
	})

	t.Run("parse failure becomes FetchError", func(t *testing.T) {
		stub := &stubGetter{responses: map[string]stubResponse{
			"/r/askreddit/new": {body: `<html>rate limited</html>`},
		}}
		f := NewBatchFetcher(stub)

		_, err := f.FetchPosts(context.Background(), "askreddit", "new", 100, "")
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("error = %v, want *FetchError", err)
		}
		if fetchErr.Err == nil {
			t.Error("parse FetchError carries no cause")
		}
	})
}

const commentTree = `[
	{"data": {"children": [{"data": {"id": "aa1", "name": "t3_aa1", "title": "first"}}]}},
	{"data": {"children": [
		{"data": {"body": "top comment"}},
		{"data": {"body": "second comment"}},
		{"data": {"id": "more-placeholder"}}
	]}}
]`

func TestFetchComments(t *testing.T) {
	t.Run("fan-out of one call per post", func(t *testing.T) {
		stub := &stubGetter{responses: map[string]stubResponse{
			"/r/askreddit/top": {body: postListing},
			"/comments/aa1":    {body: commentTree},
			"/comments/aa2":    {body: `[{"data":{"children":[]}}, {"data":{"children":[]}}]`},
		}}
		f := NewBatchFetcher(stub)

		records, err := f.FetchComments(context.Background(), "askreddit", "controversial", 100, "")
		if err != nil {
			t.Fatalf("FetchComments() error: %v", err)
		}

		// One listing call plus exactly one call per post.
		if len(stub.requests) != 3 {
			t.Fatalf("upstream saw %d calls, want 3", len(stub.requests))
		}
		if stub.requests[1].path != "/comments/aa1" || stub.requests[2].path != "/comments/aa2" {
			t.Errorf("fan-out paths = %v", stub.requests[1:])
		}

		// Bodyless placeholder nodes are skipped.
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		c, ok := records[0].(domain.Comment)
		if !ok {
			t.Fatalf("record type %T, want domain.Comment", records[0])
		}
		if c.PostName != "t3_aa1" || c.PostTitle != "first" || c.Body != "top comment" {
			t.Errorf("unexpected comment record: %+v", c)
		}
	})

	t.Run("listing paginated by top posts, sort orders comments", func(t *testing.T) {
		stub := &stubGetter{responses: map[string]stubResponse{
			"/r/askreddit/top": {body: `{"data": {"children": [{"data": {"id": "aa1", "name": "t3_aa1", "title": "first"}}]}}`},
			"/comments/aa1":    {body: commentTree},
		}}
		f := NewBatchFetcher(stub)

		if _, err := f.FetchComments(context.Background(), "askreddit", "controversial", 25, "t3_prev"); err != nil {
			t.Fatalf("FetchComments() error: %v", err)
		}

		listing := stub.requests[0].query
		if listing.Get("t") != "all" || listing.Get("before") != "t3_prev" || listing.Get("limit") != "25" {
			t.Errorf("listing query = %v", listing)
		}
		if listing.Get("sort") != "" {
			t.Error("sort leaked into the post listing query")
		}

		comments := stub.requests[1].query
		if comments.Get("sort") != "controversial" || comments.Get("limit") != "5" {
			t.Errorf("comment query = %v", comments)
		}
	})

	t.Run("comment fetch failure aborts the batch", func(t *testing.T) {
		stub := &stubGetter{responses: map[string]stubResponse{
			"/r/askreddit/top": {body: postListing},
			"/comments/aa1":    {status: http.StatusInternalServerError},
		}}
		f := NewBatchFetcher(stub)

		_, err := f.FetchComments(context.Background(), "askreddit", "new", 100, "")
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("error = %v, want *FetchError", err)
		}
		if fetchErr.Endpoint != "/comments/aa1" {
			t.Errorf("endpoint = %q, want /comments/aa1", fetchErr.Endpoint)
		}
	})

	t.Run("truncated comment response becomes FetchError", func(t *testing.T) {
		stub := &stubGetter{responses: map[string]stubResponse{
			"/r/askreddit/top": {body: postListing},
			"/comments/aa1":    {body: `[{"data":{"children":[]}}]`},
			"/comments/aa2":    {body: commentTree},
		}}
		f := NewBatchFetcher(stub)

		_, err := f.FetchComments(context.Background(), "askreddit", "new", 100, "")
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("error = %v, want *FetchError", err)
		}
	})
}
