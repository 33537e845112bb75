// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the configuration read once at process start.
type Config struct {
	// Token is the bearer token for the GitHub API; empty means anonymous.
	Token string
	// Host is the alternate canonical host (GitHub Enterprise), without
	// scheme; empty means github.com only.
	Host string
	// PollInterval is the spacing between status polls while waiting.
	PollInterval time.Duration
}

// Load reads configuration from environment variables and returns a validated
// Config. The token comes from GITHUB_TOKEN with GH_TOKEN as a fallback; both
// are optional. GITHUB_HOST names an alternate GitHub host (any scheme prefix
// is stripped). CISTATUS_POLL_INTERVAL overrides the default 5s poll spacing.
func Load() (*Config, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}

	host := os.Getenv("GITHUB_HOST")
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimSuffix(host, "/")

	pollInterval := 5 * time.Second
	if v, ok := os.LookupEnv("CISTATUS_POLL_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CISTATUS_POLL_INTERVAL has invalid duration %q: %w", v, err)
		}
		pollInterval = parsed
	}

	return &Config{
		Token:        token,
		Host:         host,
		PollInterval: pollInterval,
	}, nil
}
