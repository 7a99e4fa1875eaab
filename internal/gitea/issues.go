package gitea

import (
	"context"
	"fmt"
	"net/http"
)

// issueListQuery restricts the shared issues endpoint to real issues; the
// server returns pull requests from it too unless type=issues is sent.
type issueListQuery struct {
	ListOptions
	Type string `url:"type"`
}

// ListIssues lists repository issues, excluding pull requests.
func (c *Client) ListIssues(ctx context.Context, opts ListOptions) ([]Issue, error) {
	path, err := withQuery(c.repoPath("issues"), issueListQuery{ListOptions: opts, Type: "issues"})
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	var issues []Issue
	if err := c.get(ctx, "list issues", path, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// GetIssue fetches one issue by number.
func (c *Client) GetIssue(ctx context.Context, number int) (*Issue, error) {
	var issue Issue
	if err := c.get(ctx, "get issue", c.repoPath("issues/%d", number), &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// CreateIssue opens a new issue.
func (c *Client) CreateIssue(ctx context.Context, opts CreateIssueOptions) (*Issue, error) {
	var issue Issue
	if err := c.send(ctx, "create issue", http.MethodPost, c.repoPath("issues"), opts, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// EditIssue patches an issue.
func (c *Client) EditIssue(ctx context.Context, number int, opts EditIssueOptions) (*Issue, error) {
	var issue Issue
	if err := c.send(ctx, "edit issue", http.MethodPatch, c.repoPath("issues/%d", number), opts, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// EditIssueState sets an issue open or closed. Repeating the current state is
// accepted by the server.
func (c *Client) EditIssueState(ctx context.Context, number int, state State) (*Issue, error) {
	var issue Issue
	payload := map[string]State{"state": state}
	if err := c.send(ctx, "set issue state", http.MethodPatch, c.repoPath("issues/%d", number), payload, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListTimeline fetches the timeline of an issue or pull request. Both kinds
// share the issue-shaped endpoint.
func (c *Client) ListTimeline(ctx context.Context, number int) ([]TimelineEvent, error) {
	var events []TimelineEvent
	if err := c.get(ctx, "list timeline", c.repoPath("issues/%d/timeline", number), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateComment adds a comment to an issue or pull request.
func (c *Client) CreateComment(ctx context.Context, number int, body string) (*Comment, error) {
	var comment Comment
	payload := map[string]string{"body": body}
	if err := c.send(ctx, "create comment", http.MethodPost, c.repoPath("issues/%d/comments", number), payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// EditComment replaces a comment's body.
func (c *Client) EditComment(ctx context.Context, id int64, body string) (*Comment, error) {
	var comment Comment
	payload := map[string]string{"body": body}
	if err := c.send(ctx, "edit comment", http.MethodPatch, c.repoPath("issues/comments/%d", id), payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.send(ctx, "delete comment", http.MethodDelete, c.repoPath("issues/comments/%d", id), nil, nil)
}
