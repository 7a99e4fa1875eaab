package gitea

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotConfigured indicates the client is missing a required setting.
var ErrNotConfigured = errors.New("gitea client not configured")

// ConfigError names the missing or invalid client setting.
type ConfigError struct {
	Field string
}

// Error returns a user-facing configuration error message.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("gitea %s not configured", e.Field)
}

// Unwrap lets callers match ErrNotConfigured with errors.Is.
func (e *ConfigError) Unwrap() error {
	return ErrNotConfigured
}

// Config configures the Gitea API client.
type Config struct {
	// BaseURL is the instance URL; the client appends /api/v1/.
	BaseURL    string
	Token      string
	Owner      string
	Repo       string
	HTTPClient *http.Client
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.BaseURL) == "":
		return &ConfigError{Field: "instance URL"}
	case strings.TrimSpace(c.Token) == "":
		return &ConfigError{Field: "token"}
	case strings.TrimSpace(c.Owner) == "":
		return &ConfigError{Field: "repository owner"}
	case strings.TrimSpace(c.Repo) == "":
		return &ConfigError{Field: "repository name"}
	}
	return nil
}

// NewClient constructs a client for one repository. It fails before any
// network call when a required setting is absent.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate client config: %w", err)
	}

	rest, err := newRESTClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create REST client: %w", err)
	}

	return &Client{
		rest:  rest,
		owner: cfg.Owner,
		repo:  cfg.Repo,
	}, nil
}
