package gitea

import (
	"context"
	"net/http"
)

type labelsPayload struct {
	Labels []int64 `json:"labels"`
}

// ListRepositoryLabels lists every label defined in the repository.
func (c *Client) ListRepositoryLabels(ctx context.Context) ([]Label, error) {
	var labels []Label
	if err := c.get(ctx, "list repository labels", c.repoPath("labels"), &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// GetLabel fetches one repository label.
func (c *Client) GetLabel(ctx context.Context, id int64) (*Label, error) {
	var label Label
	if err := c.get(ctx, "get label", c.repoPath("labels/%d", id), &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// AddLabels attaches labels to an issue or pull request and returns the resulting set.
func (c *Client) AddLabels(ctx context.Context, number int, ids []int64) ([]Label, error) {
	return c.writeLabels(ctx, "add labels", http.MethodPost, number, ids)
}

// ReplaceLabels replaces the label set of an issue or pull request.
func (c *Client) ReplaceLabels(ctx context.Context, number int, ids []int64) ([]Label, error) {
	return c.writeLabels(ctx, "replace labels", http.MethodPut, number, ids)
}

// RemoveLabel detaches one label from an issue or pull request.
func (c *Client) RemoveLabel(ctx context.Context, number int, id int64) error {
	return c.send(ctx, "remove label", http.MethodDelete, c.repoPath("issues/%d/labels/%d", number, id), nil, nil)
}

func (c *Client) writeLabels(ctx context.Context, op, method string, number int, ids []int64) ([]Label, error) {
	if ids == nil {
		ids = []int64{}
	}

	var labels []Label
	if err := c.send(ctx, op, method, c.repoPath("issues/%d/labels", number), labelsPayload{Labels: ids}, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}
