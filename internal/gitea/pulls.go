package gitea

import (
	"context"
	"fmt"
	"net/http"
)

// ListPullRequests lists repository pull requests.
func (c *Client) ListPullRequests(ctx context.Context, opts ListOptions) ([]PullRequest, error) {
	path, err := withQuery(c.repoPath("pulls"), opts)
	if err != nil {
		return nil, fmt.Errorf("list pull requests: %w", err)
	}

	var pulls []PullRequest
	if err := c.get(ctx, "list pull requests", path, &pulls); err != nil {
		return nil, err
	}
	return pulls, nil
}

// GetPullRequest fetches one pull request by number.
func (c *Client) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	var pr PullRequest
	if err := c.get(ctx, "get pull request", c.repoPath("pulls/%d", number), &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// ListPullRequestCommits lists the commits of a pull request.
func (c *Client) ListPullRequestCommits(ctx context.Context, number int) ([]CommitDetails, error) {
	var commits []CommitDetails
	if err := c.get(ctx, "list pull request commits", c.repoPath("pulls/%d/commits", number), &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// ListPullRequestFiles lists the files changed by a pull request.
func (c *Client) ListPullRequestFiles(ctx context.Context, number int) ([]ChangedFile, error) {
	var files []ChangedFile
	if err := c.get(ctx, "list pull request files", c.repoPath("pulls/%d/files", number), &files); err != nil {
		return nil, err
	}
	return files, nil
}

// EditPullRequest patches a pull request.
func (c *Client) EditPullRequest(ctx context.Context, number int, opts EditPullRequestOptions) (*PullRequest, error) {
	var pr PullRequest
	if err := c.send(ctx, "edit pull request", http.MethodPatch, c.repoPath("pulls/%d", number), opts, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// EditPullRequestState sets a pull request open or closed.
func (c *Client) EditPullRequestState(ctx context.Context, number int, state State) (*PullRequest, error) {
	var pr PullRequest
	payload := map[string]State{"state": state}
	if err := c.send(ctx, "set pull request state", http.MethodPatch, c.repoPath("pulls/%d", number), payload, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}
