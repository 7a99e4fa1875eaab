package gitea

import "fmt"

// ItemKind identifies which of the two item variants a number refers to.
type ItemKind string

const (
	// KindIssue is a plain issue.
	KindIssue ItemKind = "issue"
	// KindPullRequest is a pull request.
	KindPullRequest ItemKind = "pull"
)

// ItemRef addresses one issue or pull request within the configured repository.
type ItemRef struct {
	Kind   ItemKind
	Number int
}

// State is the open/closed state of an item.
type State string

const (
	// StateOpen marks an open item.
	StateOpen State = "open"
	// StateClosed marks a closed item.
	StateClosed State = "closed"
)

// User is the author or actor reference attached to most payloads.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	LoginName string `json:"login_name,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
}

// Label is a repository label.
type Label struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
	Exclusive   bool   `json:"exclusive,omitempty"`
	IsArchived  bool   `json:"is_archived,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Milestone is the subset of milestone data shown in timelines.
type Milestone struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	State string `json:"state,omitempty"`
}

// Issue is a repository issue.
type Issue struct {
	ID        int64             `json:"id"`
	Number    int               `json:"number"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	State     State             `json:"state"`
	User      User              `json:"user"`
	Labels    []Label           `json:"labels"`
	Assignee  *User             `json:"assignee,omitempty"`
	Assignees []User            `json:"assignees"`
	Comments  int               `json:"comments,omitempty"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
	ClosedAt  *string           `json:"closed_at,omitempty"`
	HTMLURL   string            `json:"html_url"`
	Reactions []ReactionSummary `json:"reactions,omitzero"`
}

// BranchRef is the head or base of a pull request.
type BranchRef struct {
	Label string `json:"label,omitempty"`
	Ref   string `json:"ref"`
	SHA   string `json:"sha,omitempty"`
}

// PullRequest is a repository pull request.
type PullRequest struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     State     `json:"state"`
	User      User      `json:"user"`
	Head      BranchRef `json:"head"`
	Base      BranchRef `json:"base"`
	// Mergeable is nil when the server has not computed it.
	Mergeable *bool             `json:"mergeable,omitempty"`
	Merged    bool              `json:"merged"`
	MergedAt  *string           `json:"merged_at,omitempty"`
	Labels    []Label           `json:"labels"`
	Assignees []User            `json:"assignees"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
	HTMLURL   string            `json:"html_url"`
	Reactions []ReactionSummary `json:"reactions,omitzero"`
}

// RefIssue is the issue referenced by a cross-reference timeline event.
type RefIssue struct {
	ID      int64  `json:"id"`
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   State  `json:"state"`
	HTMLURL string `json:"html_url"`
	User    User   `json:"user"`
}

// RefComment is the comment referenced by a comment_ref timeline event.
type RefComment struct {
	ID      int64  `json:"id"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
	User    User   `json:"user"`
}

// Timeline event types with special handling.
const (
	EventComment  = "comment"
	EventPullPush = "pull_push"
)

// TimelineEvent is one entry of an item's activity record. Reactions is only
// set on comment events after enrichment.
type TimelineEvent struct {
	ID              int64             `json:"id"`
	Type            string            `json:"type"`
	HTMLURL         string            `json:"html_url,omitempty"`
	PullRequestURL  string            `json:"pull_request_url,omitempty"`
	IssueURL        string            `json:"issue_url,omitempty"`
	User            *User             `json:"user,omitempty"`
	Body            string            `json:"body"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at,omitempty"`
	OldTitle        string            `json:"old_title,omitempty"`
	NewTitle        string            `json:"new_title,omitempty"`
	OldRef          string            `json:"old_ref,omitempty"`
	NewRef          string            `json:"new_ref,omitempty"`
	RefIssue        *RefIssue         `json:"ref_issue,omitempty"`
	RefComment      *RefComment       `json:"ref_comment,omitempty"`
	RefAction       string            `json:"ref_action,omitempty"`
	RefCommitSHA    string            `json:"ref_commit_sha,omitempty"`
	ReviewID        int64             `json:"review_id,omitempty"`
	Label           *Label            `json:"label,omitempty"`
	Assignee        *User             `json:"assignee,omitempty"`
	RemovedAssignee bool              `json:"removed_assignee,omitempty"`
	Milestone       *Milestone        `json:"milestone,omitempty"`
	OldMilestone    *Milestone        `json:"old_milestone,omitempty"`
	Reactions       []ReactionSummary `json:"reactions,omitzero"`
}

// Reaction is one user's reaction on an item or comment.
type Reaction struct {
	Content   string `json:"content"`
	User      User   `json:"user"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ReactionSummary aggregates the reactions of one kind on a target.
type ReactionSummary struct {
	Content string `json:"content"`
	Count   int    `json:"count"`
	Users   []User `json:"users"`
	Me      bool   `json:"me"`
}

// Comment is an issue or pull request comment.
type Comment struct {
	ID             int64  `json:"id"`
	HTMLURL        string `json:"html_url"`
	IssueURL       string `json:"issue_url,omitempty"`
	PullRequestURL string `json:"pull_request_url,omitempty"`
	User           User   `json:"user"`
	Body           string `json:"body"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// CommitUser is the git identity recorded in a commit.
type CommitUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

// CommitMeta is the git-level part of a commit.
type CommitMeta struct {
	Message   string     `json:"message"`
	Author    CommitUser `json:"author"`
	Committer CommitUser `json:"committer"`
}

// CommitFile is one file touched by a commit.
type CommitFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

// CommitStats summarizes a commit's line changes.
type CommitStats struct {
	Total     int `json:"total"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// CommitDetails is a single commit looked up by SHA.
type CommitDetails struct {
	SHA       string       `json:"sha"`
	HTMLURL   string       `json:"html_url"`
	Commit    CommitMeta   `json:"commit"`
	Author    *User        `json:"author,omitempty"`
	Committer *User        `json:"committer,omitempty"`
	Files     []CommitFile `json:"files"`
	Stats     *CommitStats `json:"stats,omitempty"`
}

// ChangedFile is one file in a pull request diff.
type ChangedFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	HTMLURL   string `json:"html_url,omitempty"`
}

// ListOptions filters list endpoints.
type ListOptions struct {
	State  State  `url:"state,omitempty"`
	Labels string `url:"labels,omitempty"`
	Query  string `url:"q,omitempty"`
}

// CreateIssueOptions is the payload for creating an issue.
type CreateIssueOptions struct {
	Title     string   `json:"title"`
	Body      string   `json:"body,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
	Labels    []int64  `json:"labels,omitempty"`
	Milestone int64    `json:"milestone,omitempty"`
	Closed    bool     `json:"closed,omitempty"`
	DueDate   string   `json:"due_date,omitempty"`
}

// EditIssueOptions is the payload for editing an issue. Nil fields are left unchanged.
type EditIssueOptions struct {
	Title     *string  `json:"title,omitempty"`
	Body      *string  `json:"body,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
	Milestone *int64   `json:"milestone,omitempty"`
	State     *State   `json:"state,omitempty"`
	DueDate   *string  `json:"due_date,omitempty"`
	Ref       *string  `json:"ref,omitempty"`
}

// EditPullRequestOptions is the payload for editing a pull request.
type EditPullRequestOptions struct {
	Title     *string  `json:"title,omitempty"`
	Body      *string  `json:"body,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
	Base      *string  `json:"base,omitempty"`
	Labels    []int64  `json:"labels,omitempty"`
	Milestone *int64   `json:"milestone,omitempty"`
	State     *State   `json:"state,omitempty"`
}

// Valid reports whether k is one of the two item kinds.
func (k ItemKind) Valid() bool {
	return k == KindIssue || k == KindPullRequest
}

// String renders the reference as "issue #10" or "pull request #42".
func (r ItemRef) String() string {
	if r.Kind == KindPullRequest {
		return fmt.Sprintf("pull request #%d", r.Number)
	}
	return fmt.Sprintf("issue #%d", r.Number)
}
