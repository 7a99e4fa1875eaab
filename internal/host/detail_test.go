package host

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/metrics"
)

type apiStatusError struct{ code int }

func (e apiStatusError) Error() string { return http.StatusText(e.code) }

func newTestHost(api *fakeAPI) (*Host, *recordingOpener) {
	opener := &recordingOpener{}
	return New(Deps{API: api, Opener: opener}), opener
}

func countCalls(calls []string, prefix string) int {
	n := 0
	for _, c := range calls {
		if strings.HasPrefix(c, prefix+" ") {
			n++
		}
	}
	return n
}

func openDetail(t *testing.T, h *Host, ref gitea.ItemRef) (*DetailView, *fakeSurface) {
	t.Helper()
	surface := &fakeSurface{}
	view, err := h.OpenDetail(context.Background(), ref, surface)
	require.NoError(t, err)
	return view, surface
}

func TestOpenDetailLoadsItemAndTimeline(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	h, _ := newTestHost(api)
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindPullRequest, Number: 42})

	calls := api.Calls()
	assert.Equal(t, 1, countCalls(calls, "GetPullRequest"))
	assert.Equal(t, 1, countCalls(calls, "ListTimeline"))
	assert.Equal(t, []bridge.Kind{bridge.KindUpdateData, bridge.KindTimelineData}, surface.Kinds())
	assert.Equal(t, []State{StateLoading, StateReady}, surface.States())
	assert.Equal(t, StateReady, view.State())
	assert.NotEmpty(t, view.ID())
	assert.Same(t, view, h.Current())

	posts := surface.Posts()
	pr, ok := posts[0].(bridge.UpdateData).Data.(*gitea.PullRequest)
	require.True(t, ok, "updateData carries the pull request")
	assert.Equal(t, 42, pr.Number)
	require.NotNil(t, pr.Reactions)

	events := posts[1].(bridge.TimelineData).Data
	require.Len(t, events, 2)
	require.Len(t, events[0].Reactions, 1, "comment events are enriched")
	assert.True(t, events[0].Reactions[0].Me)
	assert.Nil(t, events[1].Reactions)
}

func TestOpenDetailTimelineBeforeItemStillReadiesOnce(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	gate := make(chan struct{})
	api.block[42] = gate
	h, _ := newTestHost(api)
	surface := &fakeSurface{}

	done := make(chan *DetailView)
	go func() {
		view, _ := h.OpenDetail(context.Background(), gitea.ItemRef{Kind: gitea.KindPullRequest, Number: 42}, surface)
		done <- view
	}()

	require.Eventually(t, func() bool {
		calls := api.Calls()
		return countCalls(calls, "ListTimeline") == 1 && countCalls(calls, "GetPullRequest") == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, surface.Kinds(), "nothing is pushed before both halves arrive")
	close(gate)

	view := <-done
	assert.Equal(t, []bridge.Kind{bridge.KindUpdateData, bridge.KindTimelineData}, surface.Kinds())
	assert.Equal(t, []State{StateLoading, StateReady}, surface.States())
	assert.Equal(t, StateReady, view.State())
}

func TestOpenDetailItemFailureStillReadies(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.fail("GetIssue", apiStatusError{code: http.StatusNotFound})
	h, _ := newTestHost(api)
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 7})

	assert.Equal(t, []bridge.Kind{bridge.KindTimelineData}, surface.Kinds())
	notices := surface.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, LevelError, notices[0].Level)
	assert.Contains(t, notices[0].Text, "issue #7")
	assert.Equal(t, StateReady, view.State())
}

func TestOpenDetailRejectsInvalidRef(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	h, _ := newTestHost(api)
	current, _ := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 1})

	for _, ref := range []gitea.ItemRef{{Kind: "discussion", Number: 1}, {Kind: gitea.KindIssue, Number: 0}} {
		view, err := h.OpenDetail(context.Background(), ref, &fakeSurface{})
		require.ErrorIs(t, err, ErrInvalidRef)
		assert.Nil(t, view)
	}
	assert.Equal(t, StateReady, current.State(), "a rejected open keeps the current view")
}

func TestAddCommentRefetchesTimeline(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	h, _ := newTestHost(api)
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindPullRequest, Number: 42})
	surface.reset()

	require.NoError(t, view.Handle(context.Background(), bridge.AddComment{Body: "lgtm"}))

	assert.Equal(t, []bridge.Kind{bridge.KindCommentAdded, bridge.KindTimelineData}, surface.Kinds())
	calls := api.Calls()
	assert.Equal(t, "CreateComment 42 lgtm", calls[len(calls)-2])
	assert.Equal(t, "ListTimeline 42", calls[len(calls)-1])

	events := surface.Posts()[1].(bridge.TimelineData).Data
	require.Len(t, events, 3)
	assert.Equal(t, "lgtm", events[2].Body)
	assert.NotNil(t, events[2].Reactions)
}

func TestAddCommentFailureSkipsTimeline(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	h, _ := newTestHost(api)
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindPullRequest, Number: 42})
	surface.reset()
	api.fail("CreateComment", apiStatusError{code: http.StatusForbidden})
	before := countCalls(api.Calls(), "ListTimeline")

	err := view.Handle(context.Background(), bridge.AddComment{Body: "lgtm"})
	require.Error(t, err)

	assert.Equal(t, []bridge.Kind{bridge.KindCommentError}, surface.Kinds())
	assert.Equal(t, "Forbidden", surface.Posts()[0].(bridge.CommentError).Error)
	assert.Equal(t, before, countCalls(api.Calls(), "ListTimeline"), "no timeline re-fetch on failure")
	require.Len(t, surface.Notices(), 1)
	assert.Equal(t, LevelError, surface.Notices()[0].Level)
}

func TestCloseIssueTwice(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	h, _ := newTestHost(api)
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 10})
	surface.reset()

	for i := 0; i < 2; i++ {
		require.NoError(t, view.Handle(context.Background(), bridge.CloseIssue{}))
	}

	assert.Equal(t, 2, countCalls(api.Calls(), "EditIssueState"))
	posts := surface.Posts()
	require.Len(t, posts, 2)
	for _, p := range posts {
		issue := p.(bridge.UpdateData).Data.(*gitea.Issue)
		assert.Equal(t, gitea.StateClosed, issue.State)
	}
	notices := surface.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, Notice{Level: LevelInfo, Text: "Issue #10 closed successfully"}, notices[0])

	require.NoError(t, view.Handle(context.Background(), bridge.ReopenIssue{}))
	assert.Contains(t, api.Calls(), "EditIssueState 10 open")
}

func TestOpeningSecondDetailDisposesFirst(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	api := newFakeAPI()
	h := New(Deps{API: api, Opener: &recordingOpener{}, Metrics: m})

	first, firstSurface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 1})
	second, _ := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindPullRequest, Number: 2})

	assert.Equal(t, StateDisposed, first.State())
	assert.Equal(t, StateReady, second.State())
	assert.Same(t, second, h.Current())
	assert.Equal(t, []State{StateLoading, StateReady, StateDisposed}, firstSurface.States())

	firstSurface.reset()
	before := len(api.Calls())
	require.NoError(t, first.Handle(context.Background(), bridge.Refresh{}))
	require.NoError(t, first.Handle(context.Background(), bridge.AddComment{Body: "late"}))
	assert.Len(t, api.Calls(), before, "disposed views make no API calls")
	assert.Empty(t, firstSurface.Posts())
	assert.Empty(t, firstSurface.Notices())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ViewsDisposed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DroppedMessages.WithLabelValues("inbound")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ViewsOpened.WithLabelValues("detail")))

	second.Dispose()
	assert.Nil(t, h.Current())
	assert.Equal(t, StateDisposed, second.State())
}

func TestDisposeDuringLoadDropsResults(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	gate := make(chan struct{})
	api.block[1] = gate
	h, _ := newTestHost(api)
	firstSurface := &fakeSurface{}

	done := make(chan *DetailView)
	go func() {
		view, _ := h.OpenDetail(context.Background(), gitea.ItemRef{Kind: gitea.KindIssue, Number: 1}, firstSurface)
		done <- view
	}()
	require.Eventually(t, func() bool {
		return countCalls(api.Calls(), "GetIssue") == 1 && h.Current() != nil
	}, time.Second, 5*time.Millisecond)

	_, secondSurface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 2})
	close(gate)
	first := <-done

	assert.Equal(t, StateDisposed, first.State())
	assert.Empty(t, firstSurface.Posts(), "results of the disposed view are dropped")
	assert.Equal(t, []State{StateLoading, StateDisposed}, firstSurface.States())
	assert.Len(t, secondSurface.Posts(), 2)
}

func TestKindMismatchMakesNoCall(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		ref  gitea.ItemRef
		msg  bridge.Inbound
	}{
		{name: "closeIssue on pull", ref: gitea.ItemRef{Kind: gitea.KindPullRequest, Number: 2}, msg: bridge.CloseIssue{}},
		{name: "reopenIssue on pull", ref: gitea.ItemRef{Kind: gitea.KindPullRequest, Number: 2}, msg: bridge.ReopenIssue{}},
		{name: "updateIssueLabels on pull", ref: gitea.ItemRef{Kind: gitea.KindPullRequest, Number: 2}, msg: bridge.UpdateIssueLabels{LabelIDs: []int64{1}}},
		{name: "closePullRequest on issue", ref: gitea.ItemRef{Kind: gitea.KindIssue, Number: 1}, msg: bridge.ClosePullRequest{}},
		{name: "updatePullRequestLabels on issue", ref: gitea.ItemRef{Kind: gitea.KindIssue, Number: 1}, msg: bridge.UpdatePullRequestLabels{}},
		{name: "getPullRequestFiles on issue", ref: gitea.ItemRef{Kind: gitea.KindIssue, Number: 1}, msg: bridge.GetPullRequestFiles{}},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := newFakeAPI()
			h, _ := newTestHost(api)
			view, surface := openDetail(t, h, tc.ref)
			surface.reset()
			before := len(api.Calls())

			err := view.Handle(context.Background(), tc.msg)
			require.ErrorIs(t, err, ErrKindMismatch)
			assert.Len(t, api.Calls(), before)
			assert.Empty(t, surface.Posts())
			require.Len(t, surface.Notices(), 1)
			assert.Equal(t, LevelError, surface.Notices()[0].Level)
		})
	}
}

func detailSample(kind bridge.Kind, ref gitea.ItemRef) bridge.Inbound {
	switch kind {
	case bridge.KindRefresh:
		return bridge.Refresh{}
	case bridge.KindGetTimeline:
		return bridge.GetTimeline{}
	case bridge.KindAddComment:
		return bridge.AddComment{Body: "x"}
	case bridge.KindDeleteComment:
		return bridge.DeleteComment{CommentID: 1}
	case bridge.KindEditComment:
		return bridge.EditComment{CommentID: 1, Body: "y"}
	case bridge.KindCloseIssue:
		return bridge.CloseIssue{}
	case bridge.KindClosePullRequest:
		return bridge.ClosePullRequest{}
	case bridge.KindReopenIssue:
		return bridge.ReopenIssue{}
	case bridge.KindReopenPullRequest:
		return bridge.ReopenPullRequest{}
	case bridge.KindGetRepositoryLabels:
		return bridge.GetRepositoryLabels{}
	case bridge.KindGetRepositoryAssignees:
		return bridge.GetRepositoryAssignees{}
	case bridge.KindUpdateIssueLabels:
		return bridge.UpdateIssueLabels{LabelIDs: []int64{1}}
	case bridge.KindUpdatePullRequestLabels:
		return bridge.UpdatePullRequestLabels{LabelIDs: []int64{1}}
	case bridge.KindUpdateAssignees:
		return bridge.UpdateAssignees{Assignees: []string{"alice"}}
	case bridge.KindAddIssueReaction:
		return bridge.AddIssueReaction{Content: "+1"}
	case bridge.KindRemoveIssueReaction:
		return bridge.RemoveIssueReaction{Content: "+1"}
	case bridge.KindAddCommentReaction:
		return bridge.AddCommentReaction{CommentID: 1, Content: "heart"}
	case bridge.KindRemoveCommentReaction:
		return bridge.RemoveCommentReaction{CommentID: 1, Content: "heart"}
	case bridge.KindGetCommitDetails:
		return bridge.GetCommitDetails{CommitID: "a1"}
	case bridge.KindGetPullRequestCommits:
		return bridge.GetPullRequestCommits{}
	case bridge.KindGetPullRequestFiles:
		return bridge.GetPullRequestFiles{}
	case bridge.KindRenderMarkdown:
		return bridge.RenderMarkdown{Text: "**x**"}
	case bridge.KindOpenExternal:
		return bridge.OpenExternal{URL: "https://gitea.test/octo/repo"}
	case bridge.KindShowDetails:
		return bridge.ShowDetails{Number: ref.Number}
	}
	return nil
}

func TestEveryDetailKindIsDispatched(t *testing.T) {
	t.Parallel()

	pullOnly := map[bridge.Kind]bool{
		bridge.KindClosePullRequest:        true,
		bridge.KindReopenPullRequest:       true,
		bridge.KindUpdatePullRequestLabels: true,
		bridge.KindGetPullRequestCommits:   true,
		bridge.KindGetPullRequestFiles:     true,
	}
	for _, kind := range bridge.InboundKinds() {
		if kind == bridge.KindShowDetails {
			continue
		}
		ref := gitea.ItemRef{Kind: gitea.KindIssue, Number: 5}
		if pullOnly[kind] {
			ref.Kind = gitea.KindPullRequest
		}

		api := newFakeAPI()
		h, opener := newTestHost(api)
		view, surface := openDetail(t, h, ref)
		surface.reset()

		msg := detailSample(kind, ref)
		require.NotNil(t, msg, "no sample for %s", kind)
		require.NoError(t, view.Handle(context.Background(), msg), "kind %s", kind)
		for _, n := range surface.Notices() {
			assert.Equal(t, LevelInfo, n.Level, "kind %s raised %q", kind, n.Text)
		}
		if kind == bridge.KindOpenExternal {
			assert.Equal(t, []string{"https://gitea.test/octo/repo"}, opener.urls)
		}
	}
}

func TestShowDetailsIsUnsupportedInDetailView(t *testing.T) {
	t.Parallel()

	h, _ := newTestHost(newFakeAPI())
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 5})
	surface.reset()

	err := view.Handle(context.Background(), bridge.ShowDetails{Number: 6})
	require.ErrorIs(t, err, ErrUnsupportedMessage)
	assert.Len(t, surface.Notices(), 1)
	assert.Same(t, view, h.Current())
}

func TestFailuresRaiseNoticesAndKeepState(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name      string
		method    string
		msg       bridge.Inbound
		wantPosts []bridge.Kind
	}{
		{name: "refresh", method: "GetIssue", msg: bridge.Refresh{}},
		{name: "getTimeline", method: "ListTimeline", msg: bridge.GetTimeline{}, wantPosts: []bridge.Kind{bridge.KindTimelineData}},
		{name: "deleteComment", method: "DeleteComment", msg: bridge.DeleteComment{CommentID: 3}},
		{name: "editComment", method: "EditComment", msg: bridge.EditComment{CommentID: 3, Body: "x"}},
		{name: "closeIssue", method: "EditIssueState", msg: bridge.CloseIssue{}},
		{name: "getRepositoryLabels", method: "ListRepositoryLabels", msg: bridge.GetRepositoryLabels{}},
		{name: "updateIssueLabels", method: "ReplaceLabels", msg: bridge.UpdateIssueLabels{LabelIDs: []int64{2}}},
		{name: "addIssueReaction", method: "AddIssueReaction", msg: bridge.AddIssueReaction{Content: "+1"}},
		{name: "getCommitDetails", method: "GetCommit", msg: bridge.GetCommitDetails{CommitID: "zz"}},
		{name: "renderMarkdown", method: "RenderMarkdown", msg: bridge.RenderMarkdown{Text: "x"}},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := newFakeAPI()
			h, _ := newTestHost(api)
			view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 10})
			surface.reset()
			api.fail(tc.method, errors.New("boom"))

			err := view.Handle(context.Background(), tc.msg)
			require.Error(t, err)

			kinds := surface.Kinds()
			if tc.wantPosts == nil {
				assert.Empty(t, kinds)
			} else {
				assert.Equal(t, tc.wantPosts, kinds)
			}
			notices := surface.Notices()
			require.Len(t, notices, 1)
			assert.Equal(t, LevelError, notices[0].Level)
			assert.Contains(t, notices[0].Text, "boom")
			assert.ErrorIs(t, notices[0].Err, err)
			assert.Equal(t, StateReady, view.State())
		})
	}
}

func TestGetTimelineFailureSendsEmptyArray(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	h, _ := newTestHost(api)
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 10})
	surface.reset()
	api.fail("ListTimeline", errors.New("boom"))

	require.Error(t, view.Handle(context.Background(), bridge.GetTimeline{}))
	raw, err := bridge.Encode(surface.Posts()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"timelineData","data":[]}`, string(raw))
}

func TestRefreshTransitionsThroughRefreshing(t *testing.T) {
	t.Parallel()

	h, _ := newTestHost(newFakeAPI())
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 10})

	require.NoError(t, view.Handle(context.Background(), bridge.Refresh{}))
	assert.Equal(t, []State{StateLoading, StateReady, StateRefreshing, StateReady}, surface.States())
}

func TestUnsupportedReactionMakesNoCall(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	h, _ := newTestHost(api)
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 10})
	surface.reset()
	before := len(api.Calls())

	require.Error(t, view.Handle(context.Background(), bridge.AddIssueReaction{Content: "thumbsup"}))
	assert.Len(t, api.Calls(), before)
	require.Len(t, surface.Notices(), 1)
}

func TestOpenExternalFailureRaisesNotice(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	opener := &recordingOpener{err: errors.New("no browser")}
	h := New(Deps{API: api, Opener: opener})
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 10})
	surface.reset()

	require.Error(t, view.Handle(context.Background(), bridge.OpenExternal{URL: "https://gitea.test"}))
	assert.Empty(t, surface.Posts())
	require.Len(t, surface.Notices(), 1)
	assert.Contains(t, surface.Notices()[0].Text, "no browser")
}

func TestConcurrentHandlesAreSafe(t *testing.T) {
	t.Parallel()

	h, _ := newTestHost(newFakeAPI())
	view, surface := openDetail(t, h, gitea.ItemRef{Kind: gitea.KindIssue, Number: 10})
	surface.reset()

	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() { errs <- view.Handle(context.Background(), bridge.GetTimeline{}) }()
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, <-errs)
	}
	assert.Len(t, surface.Posts(), 20)
	assert.Equal(t, StateReady, view.State())
}
