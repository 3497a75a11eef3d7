package domain

import (
	"context"
	"errors"
)

// Mode selects which row shape a crawl produces. Exactly one shape is
// produced per crawl; posts and comments are never mixed in one result.
type Mode string

const (
	ModePost    Mode = "post"
	ModeComment Mode = "comment"
)

// ErrInvalidMode is returned for any mode outside {post, comment}.
var ErrInvalidMode = errors.New("invalid mode: use 'post' or 'comment'")

// ParseMode validates a user-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePost, ModeComment:
		return Mode(s), nil
	}
	return "", ErrInvalidMode
}

// Record is one flattened dataset row. Cursor returns the fullname of the
// top-level post driving pagination; Fields returns the row values in
// column order.
type Record interface {
	Cursor() string
	Fields() []string
}

// Post is one top-level listing item.
type Post struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (p Post) Cursor() string   { return p.Name }
func (p Post) Fields() []string { return []string{p.Name, p.Title, p.Text} }

// Comment is one second-level item, denormalized with its parent post.
// PostName is the parent's fullname and drives pagination in comment mode.
type Comment struct {
	PostName  string `json:"name"`
	PostTitle string `json:"title"`
	Body      string `json:"comment"`
}

func (c Comment) Cursor() string   { return c.PostName }
func (c Comment) Fields() []string { return []string{c.PostName, c.PostTitle, c.Body} }

// Fetcher defines the interface for batch data fetching. A fetch is one
// bounded, cursor-qualified request; before is empty to start from the
// newest item.
type Fetcher interface {
	FetchPosts(ctx context.Context, subreddit, sort string, limit int, before string) ([]Record, error)
	FetchComments(ctx context.Context, subreddit, sort string, limit int, before string) ([]Record, error)
}
