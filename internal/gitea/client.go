package gitea

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Client talks to one repository on a Gitea instance. Every method issues a
// single request; there is no retry, backoff or page traversal.
type Client struct {
	rest  *restClient
	owner string
	repo  string
}

func (c *Client) ready() error {
	if c == nil || c.rest == nil {
		return &ConfigError{Field: "client"}
	}
	return nil
}

func (c *Client) repoPath(format string, args ...any) string {
	if c == nil {
		return ""
	}
	prefix := fmt.Sprintf("repos/%s/%s", url.PathEscape(c.owner), url.PathEscape(c.repo))
	if format == "" {
		return prefix
	}
	return prefix + "/" + fmt.Sprintf(format, args...)
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	if err := c.ready(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return c.rest.do(ctx, op, http.MethodGet, path, nil, out)
}

func (c *Client) send(ctx context.Context, op, method, path string, body, out any) error {
	if err := c.ready(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return c.rest.do(ctx, op, method, path, body, out)
}

// CurrentUser returns the user the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "get current user", "user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAssignees lists the users that can be assigned in the repository.
func (c *Client) ListAssignees(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.get(ctx, "list repository assignees", c.repoPath("assignees"), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateAssignees replaces the assignee set of an issue or pull request.
func (c *Client) UpdateAssignees(ctx context.Context, number int, logins []string) ([]User, error) {
	if logins == nil {
		logins = []string{}
	}
	payload := map[string][]string{"assignees": logins}

	var issue Issue
	if err := c.send(ctx, "update assignees", http.MethodPatch, c.repoPath("issues/%d", number), payload, &issue); err != nil {
		return nil, err
	}
	return issue.Assignees, nil
}

// GetCommit looks up a commit by SHA.
func (c *Client) GetCommit(ctx context.Context, sha string) (*CommitDetails, error) {
	var commit CommitDetails
	if err := c.get(ctx, "get commit details", c.repoPath("git/commits/%s", url.PathEscape(sha)), &commit); err != nil {
		return nil, err
	}
	return &commit, nil
}

type markdownRequest struct {
	Text    string `json:"Text"`
	Mode    string `json:"Mode,omitempty"`
	Context string `json:"Context,omitempty"`
}

// RenderMarkdown renders text with the server's markdown flavor in the
// repository's context and returns HTML.
func (c *Client) RenderMarkdown(ctx context.Context, text string) (string, error) {
	var buf bytes.Buffer
	payload := markdownRequest{
		Text:    text,
		Mode:    "gfm",
		Context: c.owner + "/" + c.repo,
	}
	if err := c.send(ctx, "render markdown", http.MethodPost, "markdown", payload, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
