package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Xinyu-ham/SadGPT/internal/config"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the authenticated Reddit API host.
const DefaultBaseURL = "https://oauth.reddit.com"

// maxAttempts bounds the retry loop for throttled or failing upstream
// responses (429 and 5xx). Other statuses are returned on the first try.
const maxAttempts = 3

// VerificationStatus reports the outcome of the construction-time identity
// check. Verification is advisory: an Unverified client is still usable.
type VerificationStatus int

const (
	VerificationSkipped VerificationStatus = iota
	Verified
	Unverified
)

func (s VerificationStatus) String() string {
	switch s {
	case Verified:
		return "verified"
	case Unverified:
		return "unverified"
	}
	return "skipped"
}

// Client wraps an HTTP client with a bearer token, fixed User-Agent,
// request pacing and bounded retry. The token is obtained once at
// construction and never refreshed; a new Client replaces the session
// wholesale.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	baseURL      string
	tokenURL     string
	userAgent    string
	authHeader   string
	verification VerificationStatus
	skipVerify   bool
	retryDelay   time.Duration
}

// Option configures a Client before the token exchange runs.
type Option func(*Client)

// WithBaseURL overrides the authenticated API host.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithTokenURL overrides the token exchange endpoint.
func WithTokenURL(u string) Option { return func(c *Client) { c.tokenURL = u } }

// WithUserAgent overrides the User-Agent sent on every request.
func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// WithRateLimit replaces the default pacing of one request per second.
func WithRateLimit(every time.Duration) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(every), 1) }
}

// WithoutVerification skips the construction-time identity check.
func WithoutVerification() Option { return func(c *Client) { c.skipVerify = true } }

// NewClient exchanges credentials for a bearer token and verifies it
// against the identity endpoint. Verification failure is recorded, not
// fatal; a token exchange failure is.
func NewClient(ctx context.Context, creds *config.Credentials, opts ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		// API rate limit: ~60 reqs/min (safe buffer)
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	token, err := NewTokenProvider(c.tokenURL, c.userAgent).Token(ctx, creds)
	if err != nil {
		return nil, err
	}
	c.authHeader = "bearer " + token

	c.verification = c.verify(ctx)
	switch c.verification {
	case Verified:
		slog.Info("authenticated", "user", creds.Username)
	case Unverified:
		slog.Warn("token verification failed, continuing anyway", "user", creds.Username)
	}
	return c, nil
}

// Verification reports the outcome of the identity check performed at
// construction.
func (c *Client) Verification() VerificationStatus {
	return c.verification
}

func (c *Client) verify(ctx context.Context) VerificationStatus {
	if c.skipVerify {
		return VerificationSkipped
	}
	_, status, err := c.Get(ctx, "/api/v1/me", nil)
	if err != nil || status != http.StatusOK {
		return Unverified
	}
	return Verified
}

// Get issues one authenticated GET against path under the API host. It
// waits for the rate limiter before each attempt and retries throttled
// (429) and server-side (5xx) failures with linear backoff. The returned
// status is the final HTTP status; callers decide whether a non-200 is an
// error in their own terms.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body []byte
	var status int
	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("build request %s: %w", path, err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Authorization", c.authHeader)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, 0, fmt.Errorf("get %s: %w", path, err)
		}
		body, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, resp.StatusCode, fmt.Errorf("read response %s: %w", path, err)
		}
		status = resp.StatusCode

		if !retryable(status) || attempt == maxAttempts {
			return body, status, nil
		}

		backoff := time.Duration(attempt) * c.retryDelay
		slog.Debug("retrying after upstream error", "path", path, "status", status, "attempt", attempt, "backoff", backoff)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, status, ctx.Err()
		}
	}
}

// retryable classifies upstream statuses worth another attempt: throttling
// and transient server errors.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
