package bridge

import (
	"errors"
	"strings"
)

// Inbound is a message sent by the rendered UI to a view host. The set of
// implementations is closed; see InboundKinds.
type Inbound interface {
	Kind() Kind
	inbound()
}

type (
	// Refresh re-fetches the item or list shown by the view.
	Refresh struct{}
	// GetTimeline fetches the enriched timeline of the item.
	GetTimeline struct{}
	// GetRepositoryLabels lists the repository's labels.
	GetRepositoryLabels struct{}
	// GetRepositoryAssignees lists the repository's assignable users.
	GetRepositoryAssignees struct{}
	// GetPullRequestCommits lists the commits of a pull request.
	GetPullRequestCommits struct{}
	// GetPullRequestFiles lists the changed files of a pull request.
	GetPullRequestFiles struct{}
	// CloseIssue and its siblings change the state of the item.
	CloseIssue        struct{}
	ClosePullRequest  struct{}
	ReopenIssue       struct{}
	ReopenPullRequest struct{}
)

// AddComment posts a new comment on the item.
type AddComment struct {
	Body string `json:"body"`
}

// DeleteComment removes a comment by ID.
type DeleteComment struct {
	CommentID int64 `json:"commentId"`
}

// EditComment replaces the body of a comment.
type EditComment struct {
	CommentID int64  `json:"commentId"`
	Body      string `json:"body"`
}

// UpdateIssueLabels replaces the label set of an issue.
type UpdateIssueLabels struct {
	LabelIDs []int64 `json:"labelIds"`
}

// UpdatePullRequestLabels replaces the label set of a pull request.
type UpdatePullRequestLabels struct {
	LabelIDs []int64 `json:"labelIds"`
}

// UpdateAssignees replaces the assignees of the item.
type UpdateAssignees struct {
	Assignees []string `json:"assignees"`
}

// AddIssueReaction reacts to the item itself.
type AddIssueReaction struct {
	Content string `json:"content"`
}

// RemoveIssueReaction withdraws a reaction from the item.
type RemoveIssueReaction struct {
	Content string `json:"content"`
}

// AddCommentReaction reacts to one comment.
type AddCommentReaction struct {
	CommentID int64  `json:"commentId"`
	Content   string `json:"content"`
}

// RemoveCommentReaction withdraws a reaction from one comment.
type RemoveCommentReaction struct {
	CommentID int64  `json:"commentId"`
	Content   string `json:"content"`
}

// GetCommitDetails looks up one commit, typically from a pull_push event.
type GetCommitDetails struct {
	CommitID string `json:"commitId"`
}

// RenderMarkdown renders text with the server's markdown renderer.
type RenderMarkdown struct {
	Text string `json:"text"`
}

// OpenExternal opens a URL in the system browser.
type OpenExternal struct {
	URL string `json:"url"`
}

// ShowDetails opens the detail view for an item of a list.
type ShowDetails struct {
	Number int `json:"number"`
}

func (Refresh) Kind() Kind                 { return KindRefresh }
func (GetTimeline) Kind() Kind             { return KindGetTimeline }
func (AddComment) Kind() Kind              { return KindAddComment }
func (DeleteComment) Kind() Kind           { return KindDeleteComment }
func (EditComment) Kind() Kind             { return KindEditComment }
func (CloseIssue) Kind() Kind              { return KindCloseIssue }
func (ClosePullRequest) Kind() Kind        { return KindClosePullRequest }
func (ReopenIssue) Kind() Kind             { return KindReopenIssue }
func (ReopenPullRequest) Kind() Kind       { return KindReopenPullRequest }
func (GetRepositoryLabels) Kind() Kind     { return KindGetRepositoryLabels }
func (GetRepositoryAssignees) Kind() Kind  { return KindGetRepositoryAssignees }
func (UpdateIssueLabels) Kind() Kind       { return KindUpdateIssueLabels }
func (UpdatePullRequestLabels) Kind() Kind { return KindUpdatePullRequestLabels }
func (UpdateAssignees) Kind() Kind         { return KindUpdateAssignees }
func (AddIssueReaction) Kind() Kind        { return KindAddIssueReaction }
func (RemoveIssueReaction) Kind() Kind     { return KindRemoveIssueReaction }
func (AddCommentReaction) Kind() Kind      { return KindAddCommentReaction }
func (RemoveCommentReaction) Kind() Kind   { return KindRemoveCommentReaction }
func (GetCommitDetails) Kind() Kind        { return KindGetCommitDetails }
func (GetPullRequestCommits) Kind() Kind   { return KindGetPullRequestCommits }
func (GetPullRequestFiles) Kind() Kind     { return KindGetPullRequestFiles }
func (RenderMarkdown) Kind() Kind          { return KindRenderMarkdown }
func (OpenExternal) Kind() Kind            { return KindOpenExternal }
func (ShowDetails) Kind() Kind             { return KindShowDetails }

func (Refresh) inbound()                 {}
func (GetTimeline) inbound()             {}
func (AddComment) inbound()              {}
func (DeleteComment) inbound()           {}
func (EditComment) inbound()             {}
func (CloseIssue) inbound()              {}
func (ClosePullRequest) inbound()        {}
func (ReopenIssue) inbound()             {}
func (ReopenPullRequest) inbound()       {}
func (GetRepositoryLabels) inbound()     {}
func (GetRepositoryAssignees) inbound()  {}
func (UpdateIssueLabels) inbound()       {}
func (UpdatePullRequestLabels) inbound() {}
func (UpdateAssignees) inbound()         {}
func (AddIssueReaction) inbound()        {}
func (RemoveIssueReaction) inbound()     {}
func (AddCommentReaction) inbound()      {}
func (RemoveCommentReaction) inbound()   {}
func (GetCommitDetails) inbound()        {}
func (GetPullRequestCommits) inbound()   {}
func (GetPullRequestFiles) inbound()     {}
func (RenderMarkdown) inbound()          {}
func (OpenExternal) inbound()            {}
func (ShowDetails) inbound()             {}

var (
	errMissingCommentID = errors.New("commentId is required")
	errMissingCommitID  = errors.New("commitId is required")
	errMissingContent   = errors.New("content is required")
	errMissingURL       = errors.New("url is required")
	errMissingNumber    = errors.New("number must be positive")
)

func (m DeleteComment) validate() error {
	if m.CommentID <= 0 {
		return errMissingCommentID
	}
	return nil
}

func (m EditComment) validate() error {
	if m.CommentID <= 0 {
		return errMissingCommentID
	}
	return nil
}

func (m AddIssueReaction) validate() error    { return requireContent(m.Content) }
func (m RemoveIssueReaction) validate() error { return requireContent(m.Content) }

func (m AddCommentReaction) validate() error {
	if m.CommentID <= 0 {
		return errMissingCommentID
	}
	return requireContent(m.Content)
}

func (m RemoveCommentReaction) validate() error {
	if m.CommentID <= 0 {
		return errMissingCommentID
	}
	return requireContent(m.Content)
}

func (m GetCommitDetails) validate() error {
	if strings.TrimSpace(m.CommitID) == "" {
		return errMissingCommitID
	}
	return nil
}

func (m OpenExternal) validate() error {
	if strings.TrimSpace(m.URL) == "" {
		return errMissingURL
	}
	return nil
}

func (m ShowDetails) validate() error {
	if m.Number <= 0 {
		return errMissingNumber
	}
	return nil
}

func requireContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errMissingContent
	}
	return nil
}
