package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/timeline"
)

const (
	viewDetail = "detail"
	viewList   = "list"
)

// DetailView shows one issue or pull request and executes the actions its
// UI sends. Handle may be called from many goroutines at once.
type DetailView struct {
	id      string
	ref     gitea.ItemRef
	host    *Host
	surface Surface

	mu    sync.Mutex
	state State
}

// ID identifies the view for transports that route frames by view.
func (v *DetailView) ID() string { return v.id }

// Ref is the item the view shows.
func (v *DetailView) Ref() gitea.ItemRef { return v.ref }

// State returns the current lifecycle state.
func (v *DetailView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Dispose closes the view. Later messages and posts are dropped.
func (v *DetailView) Dispose() {
	v.host.release(v)
}

func (v *DetailView) dispose() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.transitionLocked(StateDisposed) {
		v.host.metrics.RecordViewDisposed()
		v.host.logger.Printf("detail view disposed id=%s ref=%q", v.id, v.ref)
	}
}

func (v *DetailView) transition(from, to State) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != from {
		return false
	}
	return v.transitionLocked(to)
}

func (v *DetailView) transitionLocked(to State) bool {
	if !v.state.canTransition(to) {
		return false
	}
	v.state = to
	if l, ok := v.surface.(StateListener); ok {
		l.OnState(to)
	}
	return true
}

func (v *DetailView) post(msg bridge.Outbound) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateDisposed {
		v.host.metrics.RecordDropped("outbound")
		return
	}
	if err := v.surface.Post(msg); err != nil {
		v.host.logger.Printf("post failed id=%s type=%s err=%v", v.id, msg.Kind(), err)
		return
	}
	v.host.metrics.RecordOutbound(viewDetail, string(msg.Kind()))
}

func (v *DetailView) notify(level Level, format string, args ...any) {
	v.raise(Notice{Level: level, Text: fmt.Sprintf(format, args...)})
}

func (v *DetailView) raise(n Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateDisposed {
		return
	}
	v.surface.Notify(n)
}

// fail raises an error notice for a failed action and returns err.
func (v *DetailView) fail(action string, err error) error {
	v.host.logger.Printf("action failed id=%s ref=%q action=%q err=%v", v.id, v.ref, action, err)
	v.raise(Notice{Level: LevelError, Text: fmt.Sprintf("Failed to %s: %v", action, err), Err: err})
	return err
}

// load fetches the item and the enriched timeline concurrently, pushes both
// and moves the view from Loading to Ready.
func (v *DetailView) load(ctx context.Context) {
	var (
		item      any
		itemErr   error
		events    []gitea.TimelineEvent
		eventsErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		item, itemErr = v.fetchItem(ctx)
		return nil
	})
	g.Go(func() error {
		events, eventsErr = v.fetchTimeline(ctx)
		return nil
	})
	_ = g.Wait()

	if itemErr != nil {
		_ = v.fail("load "+v.ref.String(), itemErr)
	} else {
		v.post(bridge.UpdateData{Data: item})
	}
	if eventsErr != nil {
		_ = v.fail("fetch timeline", eventsErr)
		events = []gitea.TimelineEvent{}
	}
	v.post(bridge.TimelineData{Data: events})

	v.transition(StateLoading, StateReady)
}

func (v *DetailView) fetchItem(ctx context.Context) (any, error) {
	api := v.host.api
	if v.ref.Kind == gitea.KindPullRequest {
		pr, err := api.GetPullRequest(ctx, v.ref.Number)
		if err != nil {
			return nil, err
		}
		pr.Reactions = v.host.enricher.ItemReactions(ctx, v.ref.Number)
		return pr, nil
	}
	issue, err := api.GetIssue(ctx, v.ref.Number)
	if err != nil {
		return nil, err
	}
	issue.Reactions = v.host.enricher.ItemReactions(ctx, v.ref.Number)
	return issue, nil
}

func (v *DetailView) fetchTimeline(ctx context.Context) ([]gitea.TimelineEvent, error) {
	events, err := v.host.api.ListTimeline(ctx, v.ref.Number)
	if err != nil {
		return nil, err
	}
	return v.host.enricher.Enrich(ctx, events), nil
}

// Handle executes one inbound message. Messages for a disposed view are
// dropped and return nil. Failures are reported to the surface as notices
// and also returned.
func (v *DetailView) Handle(ctx context.Context, msg bridge.Inbound) error {
	if v.State() == StateDisposed {
		v.host.metrics.RecordDropped("inbound")
		return nil
	}
	start := time.Now()
	err := v.dispatch(ctx, msg)
	v.host.metrics.RecordInbound(viewDetail, string(msg.Kind()), time.Since(start), err != nil)
	return err
}

func (v *DetailView) dispatch(ctx context.Context, msg bridge.Inbound) error {
	api := v.host.api
	number := v.ref.Number

	switch m := msg.(type) {
	case bridge.Refresh:
		return v.refresh(ctx)

	case bridge.GetTimeline:
		return v.sendTimeline(ctx)

	case bridge.AddComment:
		comment, err := api.CreateComment(ctx, number, m.Body)
		if err != nil {
			v.post(bridge.CommentError{Error: err.Error()})
			return v.fail("add comment", err)
		}
		v.post(bridge.CommentAdded{Data: comment})
		return v.sendTimeline(ctx)

	case bridge.DeleteComment:
		if err := api.DeleteComment(ctx, m.CommentID); err != nil {
			return v.fail("delete comment", err)
		}
		v.post(bridge.CommentDeleted{CommentID: m.CommentID})
		return nil

	case bridge.EditComment:
		comment, err := api.EditComment(ctx, m.CommentID, m.Body)
		if err != nil {
			return v.fail("edit comment", err)
		}
		v.post(bridge.CommentEdited{Data: comment})
		return v.sendTimeline(ctx)

	case bridge.CloseIssue:
		return v.setIssueState(ctx, msg, gitea.StateClosed)
	case bridge.ReopenIssue:
		return v.setIssueState(ctx, msg, gitea.StateOpen)
	case bridge.ClosePullRequest:
		return v.setPullRequestState(ctx, msg, gitea.StateClosed)
	case bridge.ReopenPullRequest:
		return v.setPullRequestState(ctx, msg, gitea.StateOpen)

	case bridge.GetRepositoryLabels:
		labels, err := api.ListRepositoryLabels(ctx)
		if err != nil {
			return v.fail("fetch labels", err)
		}
		v.post(bridge.RepositoryLabels{Data: nonNil(labels)})
		return nil

	case bridge.GetRepositoryAssignees:
		users, err := api.ListAssignees(ctx)
		if err != nil {
			return v.fail("fetch assignees", err)
		}
		v.post(bridge.RepositoryAssignees{Data: nonNil(users)})
		return nil

	case bridge.UpdateIssueLabels:
		if err := v.requireKind(msg, gitea.KindIssue); err != nil {
			return err
		}
		return v.replaceLabels(ctx, m.LabelIDs, "Issue labels updated successfully")

	case bridge.UpdatePullRequestLabels:
		if err := v.requireKind(msg, gitea.KindPullRequest); err != nil {
			return err
		}
		return v.replaceLabels(ctx, m.LabelIDs, "Pull request labels updated successfully")

	case bridge.UpdateAssignees:
		users, err := api.UpdateAssignees(ctx, number, m.Assignees)
		if err != nil {
			return v.fail("update assignees", err)
		}
		v.post(bridge.AssigneesUpdated{Data: nonNil(users)})
		v.notify(LevelInfo, "Assignees of %s updated successfully", v.ref)
		return nil

	case bridge.AddIssueReaction:
		return v.react("add reaction", m.Content, func() error {
			return api.AddIssueReaction(ctx, number, m.Content)
		})
	case bridge.RemoveIssueReaction:
		return v.react("remove reaction", m.Content, func() error {
			return api.RemoveIssueReaction(ctx, number, m.Content)
		})
	case bridge.AddCommentReaction:
		return v.react("add reaction", m.Content, func() error {
			return api.AddCommentReaction(ctx, m.CommentID, m.Content)
		})
	case bridge.RemoveCommentReaction:
		return v.react("remove reaction", m.Content, func() error {
			return api.RemoveCommentReaction(ctx, m.CommentID, m.Content)
		})

	case bridge.GetCommitDetails:
		commit, err := api.GetCommit(ctx, m.CommitID)
		if err != nil {
			return v.fail("fetch commit details", err)
		}
		v.post(bridge.CommitDetails{CommitID: m.CommitID, Data: commit})
		return nil

	case bridge.GetPullRequestCommits:
		if err := v.requireKind(msg, gitea.KindPullRequest); err != nil {
			return err
		}
		commits, err := api.ListPullRequestCommits(ctx, number)
		if err != nil {
			return v.fail("fetch commits", err)
		}
		v.post(bridge.PullRequestCommits{Data: nonNil(commits)})
		return nil

	case bridge.GetPullRequestFiles:
		if err := v.requireKind(msg, gitea.KindPullRequest); err != nil {
			return err
		}
		files, err := api.ListPullRequestFiles(ctx, number)
		if err != nil {
			return v.fail("fetch changed files", err)
		}
		v.post(bridge.PullRequestFiles{Data: nonNil(files)})
		return nil

	case bridge.RenderMarkdown:
		html, err := api.RenderMarkdown(ctx, m.Text)
		if err != nil {
			return v.fail("render markdown", err)
		}
		v.post(bridge.MarkdownRendered{Data: html})
		return nil

	case bridge.OpenExternal:
		if err := v.host.opener.Open(m.URL); err != nil {
			return v.fail("open link", err)
		}
		return nil

	default:
		err := fmt.Errorf("%w: %s in detail view", ErrUnsupportedMessage, msg.Kind())
		return v.fail("handle message", err)
	}
}

func (v *DetailView) refresh(ctx context.Context) error {
	refreshing := v.transition(StateReady, StateRefreshing)
	defer func() {
		if refreshing {
			v.transition(StateRefreshing, StateReady)
		}
	}()

	item, err := v.fetchItem(ctx)
	if err != nil {
		return v.fail("refresh "+v.ref.String(), err)
	}
	v.post(bridge.UpdateData{Data: item})
	return nil
}

func (v *DetailView) sendTimeline(ctx context.Context) error {
	events, err := v.fetchTimeline(ctx)
	if err != nil {
		v.post(bridge.TimelineData{Data: []gitea.TimelineEvent{}})
		return v.fail("fetch timeline", err)
	}
	v.post(bridge.TimelineData{Data: events})
	return nil
}

func (v *DetailView) requireKind(msg bridge.Inbound, kind gitea.ItemKind) error {
	if v.ref.Kind == kind {
		return nil
	}
	err := fmt.Errorf("%w: %s sent to %s", ErrKindMismatch, msg.Kind(), v.ref)
	return v.fail("handle "+string(msg.Kind()), err)
}

func (v *DetailView) setIssueState(ctx context.Context, msg bridge.Inbound, state gitea.State) error {
	if err := v.requireKind(msg, gitea.KindIssue); err != nil {
		return err
	}
	issue, err := v.host.api.EditIssueState(ctx, v.ref.Number, state)
	if err != nil {
		return v.fail(stateVerb(state)+" issue", err)
	}
	v.post(bridge.UpdateData{Data: issue})
	v.notify(LevelInfo, "Issue #%d %s successfully", v.ref.Number, stateDone(state))
	return nil
}

func (v *DetailView) setPullRequestState(ctx context.Context, msg bridge.Inbound, state gitea.State) error {
	if err := v.requireKind(msg, gitea.KindPullRequest); err != nil {
		return err
	}
	pr, err := v.host.api.EditPullRequestState(ctx, v.ref.Number, state)
	if err != nil {
		return v.fail(stateVerb(state)+" pull request", err)
	}
	v.post(bridge.UpdateData{Data: pr})
	v.notify(LevelInfo, "Pull Request #%d %s successfully", v.ref.Number, stateDone(state))
	return nil
}

func (v *DetailView) replaceLabels(ctx context.Context, ids []int64, done string) error {
	labels, err := v.host.api.ReplaceLabels(ctx, v.ref.Number, ids)
	if err != nil {
		return v.fail("update labels", err)
	}
	v.post(bridge.LabelsUpdated{Data: nonNil(labels)})
	v.notify(LevelInfo, "%s", done)
	return nil
}

func (v *DetailView) react(action, content string, call func() error) error {
	if !timeline.IsAvailableReaction(content) {
		return v.fail(action, fmt.Errorf("unsupported reaction %q", content))
	}
	if err := call(); err != nil {
		return v.fail(action, err)
	}
	return nil
}

func stateVerb(state gitea.State) string {
	if state == gitea.StateClosed {
		return "close"
	}
	return "reopen"
}

func stateDone(state gitea.State) string {
	if state == gitea.StateClosed {
		return "closed"
	}
	return "reopened"
}
