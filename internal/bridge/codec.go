package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned by Decode for a type it has no message for.
var ErrUnknownKind = errors.New("unknown bridge message type")

// ErrInvalidMessage is returned by Decode for malformed or incomplete messages.
var ErrInvalidMessage = errors.New("invalid bridge message")

type validator interface {
	validate() error
}

type decodeFunc func(data []byte) (Inbound, error)

func decodeAs[T Inbound](data []byte) (Inbound, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if v, ok := any(msg).(validator); ok {
		if err := v.validate(); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

var inboundOrder = []Kind{
	KindRefresh,
	KindGetTimeline,
	KindAddComment,
	KindDeleteComment,
	KindEditComment,
	KindCloseIssue,
	KindClosePullRequest,
	KindReopenIssue,
	KindReopenPullRequest,
	KindGetRepositoryLabels,
	KindGetRepositoryAssignees,
	KindUpdateIssueLabels,
	KindUpdatePullRequestLabels,
	KindUpdateAssignees,
	KindAddIssueReaction,
	KindRemoveIssueReaction,
	KindAddCommentReaction,
	KindRemoveCommentReaction,
	KindGetCommitDetails,
	KindGetPullRequestCommits,
	KindGetPullRequestFiles,
	KindRenderMarkdown,
	KindOpenExternal,
	KindShowDetails,
}

var inboundRegistry = map[Kind]decodeFunc{
	KindRefresh:                 decodeAs[Refresh],
	KindGetTimeline:             decodeAs[GetTimeline],
	KindAddComment:              decodeAs[AddComment],
	KindDeleteComment:           decodeAs[DeleteComment],
	KindEditComment:             decodeAs[EditComment],
	KindCloseIssue:              decodeAs[CloseIssue],
	KindClosePullRequest:        decodeAs[ClosePullRequest],
	KindReopenIssue:             decodeAs[ReopenIssue],
	KindReopenPullRequest:       decodeAs[ReopenPullRequest],
	KindGetRepositoryLabels:     decodeAs[GetRepositoryLabels],
	KindGetRepositoryAssignees:  decodeAs[GetRepositoryAssignees],
	KindUpdateIssueLabels:       decodeAs[UpdateIssueLabels],
	KindUpdatePullRequestLabels: decodeAs[UpdatePullRequestLabels],
	KindUpdateAssignees:         decodeAs[UpdateAssignees],
	KindAddIssueReaction:        decodeAs[AddIssueReaction],
	KindRemoveIssueReaction:     decodeAs[RemoveIssueReaction],
	KindAddCommentReaction:      decodeAs[AddCommentReaction],
	KindRemoveCommentReaction:   decodeAs[RemoveCommentReaction],
	KindGetCommitDetails:        decodeAs[GetCommitDetails],
	KindGetPullRequestCommits:   decodeAs[GetPullRequestCommits],
	KindGetPullRequestFiles:     decodeAs[GetPullRequestFiles],
	KindRenderMarkdown:          decodeAs[RenderMarkdown],
	KindOpenExternal:            decodeAs[OpenExternal],
	KindShowDetails:             decodeAs[ShowDetails],
}

type envelope struct {
	Type Kind `json:"type"`
}

// Decode parses one {"type": ..., ...} object sent by the UI.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}
	decode, ok := inboundRegistry[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
	}
	msg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMessage, env.Type, err)
	}
	return msg, nil
}

// Encode renders msg as a {"type": ..., ...} object for the UI.
func Encode(msg Outbound) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil outbound message", ErrInvalidMessage)
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Kind(), err)
	}
	head, err := json.Marshal(envelope{Type: msg.Kind()})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Kind(), err)
	}

	// Splice the struct fields into the envelope object.
	body = bytes.TrimPrefix(body, []byte("{"))
	head = bytes.TrimSuffix(head, []byte("}"))
	if bytes.Equal(body, []byte("}")) {
		return append(head, '}'), nil
	}
	return append(append(head, ','), body...), nil
}
