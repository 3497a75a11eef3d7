// Package auth obtains a Reddit OAuth bearer token and provides an
// authenticated HTTP client with rate limiting and bounded retry.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Xinyu-ham/SadGPT/internal/config"
)

const (
	// DefaultTokenURL is Reddit's password-grant token endpoint.
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"

	// DefaultUserAgent identifies the crawler to the API. Reddit requires
	// a descriptive User-Agent on every request.
	DefaultUserAgent = "SadGPT/0.1 dataset loader"
)

// AuthError reports a failed token exchange. Wrong credentials and an
// unexpected response shape surface as the same error kind; Body carries
// the raw response for diagnosis.
type AuthError struct {
	Reason string
	Body   string
}

func (e *AuthError) Error() string {
	if e.Body == "" {
		return "auth: " + e.Reason
	}
	return fmt.Sprintf("auth: %s: %s", e.Reason, e.Body)
}

// TokenProvider exchanges long-lived credentials for a short-lived bearer
// token. One synchronous request, no retries: authentication failure is
// always fatal to the caller.
type TokenProvider struct {
	httpClient *http.Client
	tokenURL   string
	userAgent  string
}

// NewTokenProvider creates a provider against the given token endpoint.
// An empty tokenURL selects the production endpoint.
func NewTokenProvider(tokenURL, userAgent string) *TokenProvider {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &TokenProvider{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokenURL:   tokenURL,
		userAgent:  userAgent,
	}
}

// Token performs the password-grant exchange: client basic-auth plus the
// user's credentials in the form body.
func (tp *TokenProvider) Token(ctx context.Context, creds *config.Credentials) (string, error) {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {creds.Username},
		"password":   {creds.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tp.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(creds.ClientID, creds.ClientSecret)
	req.Header.Set("User-Agent", tp.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tp.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ErrorCode   string `json:"error"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", &AuthError{Reason: "malformed token response", Body: string(body)}
	}
	if tokenResp.AccessToken == "" {
		if tokenResp.ErrorCode != "" {
			return "", &AuthError{Reason: "invalid credentials", Body: string(body)}
		}
		return "", &AuthError{Reason: "token response missing access_token", Body: string(body)}
	}
	return tokenResp.AccessToken, nil
}
