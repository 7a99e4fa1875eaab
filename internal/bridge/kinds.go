package bridge

// Kind is the "type" discriminator carried by every bridge message.
type Kind string

// Inbound kinds, sent by the rendered UI.
const (
	KindRefresh                 Kind = "refresh"
	KindGetTimeline             Kind = "getTimeline"
	KindAddComment              Kind = "addComment"
	KindDeleteComment           Kind = "deleteComment"
	KindEditComment             Kind = "editComment"
	KindCloseIssue              Kind = "closeIssue"
	KindClosePullRequest        Kind = "closePullRequest"
	KindReopenIssue             Kind = "reopenIssue"
	KindReopenPullRequest       Kind = "reopenPullRequest"
	KindGetRepositoryLabels     Kind = "getRepositoryLabels"
	KindGetRepositoryAssignees  Kind = "getRepositoryAssignees"
	KindUpdateIssueLabels       Kind = "updateIssueLabels"
	KindUpdatePullRequestLabels Kind = "updatePullRequestLabels"
	KindUpdateAssignees         Kind = "updateAssignees"
	KindAddIssueReaction        Kind = "addIssueReaction"
	KindRemoveIssueReaction     Kind = "removeIssueReaction"
	KindAddCommentReaction      Kind = "addCommentReaction"
	KindRemoveCommentReaction   Kind = "removeCommentReaction"
	KindGetCommitDetails        Kind = "getCommitDetails"
	KindGetPullRequestCommits   Kind = "getPullRequestCommits"
	KindGetPullRequestFiles     Kind = "getPullRequestFiles"
	KindRenderMarkdown          Kind = "renderMarkdown"
	KindOpenExternal            Kind = "openExternal"
	KindShowDetails             Kind = "showDetails"
)

// Outbound kinds, pushed by a view host.
const (
	KindUpdateData          Kind = "updateData"
	KindTimelineData        Kind = "timelineData"
	KindCommentAdded        Kind = "commentAdded"
	KindCommentError        Kind = "commentError"
	KindCommentDeleted      Kind = "commentDeleted"
	KindCommentEdited       Kind = "commentEdited"
	KindRepositoryLabels    Kind = "repositoryLabels"
	KindRepositoryAssignees Kind = "repositoryAssignees"
	KindLabelsUpdated       Kind = "labelsUpdated"
	KindAssigneesUpdated    Kind = "assigneesUpdated"
	KindCommitDetails       Kind = "commitDetails"
	KindPullRequestCommits  Kind = "pullRequestCommits"
	KindPullRequestFiles    Kind = "pullRequestFiles"
	KindMarkdownRendered    Kind = "markdownRendered"
)

var outboundKinds = []Kind{
	KindUpdateData,
	KindTimelineData,
	KindCommentAdded,
	KindCommentError,
	KindCommentDeleted,
	KindCommentEdited,
	KindRepositoryLabels,
	KindRepositoryAssignees,
	KindLabelsUpdated,
	KindAssigneesUpdated,
	KindCommitDetails,
	KindPullRequestCommits,
	KindPullRequestFiles,
	KindMarkdownRendered,
}

// InboundKinds lists every kind Decode accepts, in declaration order.
func InboundKinds() []Kind {
	out := make([]Kind, 0, len(inboundOrder))
	return append(out, inboundOrder...)
}

// OutboundKinds lists every outbound kind, in declaration order.
func OutboundKinds() []Kind {
	out := make([]Kind, 0, len(outboundKinds))
	return append(out, outboundKinds...)
}
