// Package config loads Reddit API credentials from a JSON file or the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned when any credential field is empty
// after loading.
var ErrMissingCredentials = errors.New("missing credentials: client id, secret, username and password are all required")

// Credentials holds the long-lived secrets exchanged once for a bearer
// token. They are never persisted by the crawler.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"secret_token"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

// Load reads credentials from the JSON file at path. When path is empty it
// falls back to environment variables (a .env file is honored if present):
// REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USERNAME, REDDIT_PASSWORD.
func Load(path string) (*Credentials, error) {
	if path == "" {
		return fromEnv()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credential file %s: %w", path, err)
	}
	if err := creds.validate(); err != nil {
		return nil, err
	}
	return &creds, nil
}

func fromEnv() (*Credentials, error) {
	godotenv.Load()

	creds := Credentials{
		ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		Username:     os.Getenv("REDDIT_USERNAME"),
		Password:     os.Getenv("REDDIT_PASSWORD"),
	}
	if err := creds.validate(); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Credentials) validate() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}
