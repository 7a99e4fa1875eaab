package gitea

import (
	"context"
	"net/http"
)

type reactionPayload struct {
	Content string `json:"content"`
}

// ListIssueReactions lists the reactions on an issue or pull request.
func (c *Client) ListIssueReactions(ctx context.Context, number int) ([]Reaction, error) {
	var reactions []Reaction
	if err := c.get(ctx, "list issue reactions", c.repoPath("issues/%d/reactions", number), &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}

// AddIssueReaction reacts to an issue or pull request as the current user.
func (c *Client) AddIssueReaction(ctx context.Context, number int, content string) error {
	return c.send(ctx, "add issue reaction", http.MethodPost, c.repoPath("issues/%d/reactions", number), reactionPayload{Content: content}, nil)
}

// RemoveIssueReaction withdraws the current user's reaction from an issue or pull request.
func (c *Client) RemoveIssueReaction(ctx context.Context, number int, content string) error {
	return c.send(ctx, "remove issue reaction", http.MethodDelete, c.repoPath("issues/%d/reactions", number), reactionPayload{Content: content}, nil)
}

// ListCommentReactions lists the reactions on one comment.
func (c *Client) ListCommentReactions(ctx context.Context, commentID int64) ([]Reaction, error) {
	var reactions []Reaction
	if err := c.get(ctx, "list comment reactions", c.repoPath("issues/comments/%d/reactions", commentID), &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}

// AddCommentReaction reacts to a comment as the current user.
func (c *Client) AddCommentReaction(ctx context.Context, commentID int64, content string) error {
	return c.send(ctx, "add comment reaction", http.MethodPost, c.repoPath("issues/comments/%d/reactions", commentID), reactionPayload{Content: content}, nil)
}

// RemoveCommentReaction withdraws the current user's reaction from a comment.
func (c *Client) RemoveCommentReaction(ctx context.Context, commentID int64, content string) error {
	return c.send(ctx, "remove comment reaction", http.MethodDelete, c.repoPath("issues/comments/%d/reactions", commentID), reactionPayload{Content: content}, nil)
}
