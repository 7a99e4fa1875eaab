package bridge

import "github.com/johnqtcg/giteaview/internal/gitea"

// Outbound is a message pushed by a view host to the rendered UI. The set
// of implementations is closed; see OutboundKinds.
type Outbound interface {
	Kind() Kind
	outbound()
}

// UpdateData carries the item of a detail view or the items of a list view.
type UpdateData struct {
	Data any `json:"data"`
}

// TimelineData carries an enriched timeline. An empty timeline is sent as [].
type TimelineData struct {
	Data []gitea.TimelineEvent `json:"data"`
}

// CommentAdded carries a newly created comment.
type CommentAdded struct {
	Data *gitea.Comment `json:"data"`
}

// CommentError reports a failed addComment.
type CommentError struct {
	Error string `json:"error"`
}

// CommentDeleted confirms a deletion.
type CommentDeleted struct {
	CommentID int64 `json:"commentId"`
}

// CommentEdited carries the edited comment.
type CommentEdited struct {
	Data *gitea.Comment `json:"data"`
}

// RepositoryLabels carries the repository's labels.
type RepositoryLabels struct {
	Data []gitea.Label `json:"data"`
}

// RepositoryAssignees carries the repository's assignable users.
type RepositoryAssignees struct {
	Data []gitea.User `json:"data"`
}

// LabelsUpdated carries the item's label set after replacement.
type LabelsUpdated struct {
	Data []gitea.Label `json:"data"`
}

// AssigneesUpdated carries the item's assignees after replacement.
type AssigneesUpdated struct {
	Data []gitea.User `json:"data"`
}

// CommitDetails answers getCommitDetails.
type CommitDetails struct {
	CommitID string               `json:"commitId"`
	Data     *gitea.CommitDetails `json:"data"`
}

// PullRequestCommits carries the commits of a pull request.
type PullRequestCommits struct {
	Data []gitea.CommitDetails `json:"data"`
}

// PullRequestFiles carries the changed files of a pull request.
type PullRequestFiles struct {
	Data []gitea.ChangedFile `json:"data"`
}

// MarkdownRendered carries server-rendered HTML.
type MarkdownRendered struct {
	Data string `json:"data"`
}

func (UpdateData) Kind() Kind          { return KindUpdateData }
func (TimelineData) Kind() Kind        { return KindTimelineData }
func (CommentAdded) Kind() Kind        { return KindCommentAdded }
func (CommentError) Kind() Kind        { return KindCommentError }
func (CommentDeleted) Kind() Kind      { return KindCommentDeleted }
func (CommentEdited) Kind() Kind       { return KindCommentEdited }
func (RepositoryLabels) Kind() Kind    { return KindRepositoryLabels }
func (RepositoryAssignees) Kind() Kind { return KindRepositoryAssignees }
func (LabelsUpdated) Kind() Kind       { return KindLabelsUpdated }
func (AssigneesUpdated) Kind() Kind    { return KindAssigneesUpdated }
func (CommitDetails) Kind() Kind       { return KindCommitDetails }
func (PullRequestCommits) Kind() Kind  { return KindPullRequestCommits }
func (PullRequestFiles) Kind() Kind    { return KindPullRequestFiles }
func (MarkdownRendered) Kind() Kind    { return KindMarkdownRendered }

func (UpdateData) outbound()          {}
func (TimelineData) outbound()        {}
func (CommentAdded) outbound()        {}
func (CommentError) outbound()        {}
func (CommentDeleted) outbound()      {}
func (CommentEdited) outbound()       {}
func (RepositoryLabels) outbound()    {}
func (RepositoryAssignees) outbound() {}
func (LabelsUpdated) outbound()       {}
func (AssigneesUpdated) outbound()    {}
func (CommitDetails) outbound()       {}
func (PullRequestCommits) outbound()  {}
func (PullRequestFiles) outbound()    {}
func (MarkdownRendered) outbound()    {}
