package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/gitea"
)

func TestOpenListPushesItems(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name   string
		kind   gitea.ItemKind
		method string
	}{
		{name: "issues", kind: gitea.KindIssue, method: "ListIssues"},
		{name: "pulls", kind: gitea.KindPullRequest, method: "ListPullRequests"},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := newFakeAPI()
			h, _ := newTestHost(api)
			surface := &fakeSurface{}
			list, err := h.OpenList(context.Background(), tc.kind, surface, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, list.Kind())
			assert.Equal(t, 1, countCalls(api.Calls(), tc.method))
			assert.Equal(t, []bridge.Kind{bridge.KindUpdateData}, surface.Kinds())

			require.NoError(t, list.Handle(context.Background(), bridge.Refresh{}))
			assert.Equal(t, 2, countCalls(api.Calls(), tc.method))
			assert.Len(t, surface.Posts(), 2)
			assert.Empty(t, surface.States(), "list views have no detail lifecycle")
		})
	}
}

func TestOpenListRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	h, _ := newTestHost(newFakeAPI())
	list, err := h.OpenList(context.Background(), "discussion", &fakeSurface{}, nil)
	require.ErrorIs(t, err, ErrInvalidRef)
	assert.Nil(t, list)
}

func TestListRefreshFailureRaisesNotice(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	h, _ := newTestHost(api)
	surface := &fakeSurface{}
	list, err := h.OpenList(context.Background(), gitea.KindIssue, surface, nil)
	require.NoError(t, err)
	surface.reset()
	api.fail("ListIssues", errors.New("boom"))

	require.Error(t, list.Handle(context.Background(), bridge.Refresh{}))
	assert.Empty(t, surface.Posts())
	require.Len(t, surface.Notices(), 1)
	assert.Equal(t, "Failed to refresh issues: boom", surface.Notices()[0].Text)
}

func TestShowDetailsOpensDetailOnFactorySurface(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	h, _ := newTestHost(api)
	listSurface := &fakeSurface{}
	detailSurface := &fakeSurface{}
	var requested []gitea.ItemRef
	details := func(ref gitea.ItemRef) Surface {
		requested = append(requested, ref)
		return detailSurface
	}

	list, err := h.OpenList(context.Background(), gitea.KindPullRequest, listSurface, details)
	require.NoError(t, err)
	require.NoError(t, list.Handle(context.Background(), bridge.ShowDetails{Number: 42}))

	want := gitea.ItemRef{Kind: gitea.KindPullRequest, Number: 42}
	assert.Equal(t, []gitea.ItemRef{want}, requested)
	require.NotNil(t, h.Current())
	assert.Equal(t, want, h.Current().Ref())
	assert.Equal(t, []bridge.Kind{bridge.KindUpdateData, bridge.KindTimelineData}, detailSurface.Kinds())
	assert.Len(t, listSurface.Posts(), 1, "the list surface only got its own list")
	assert.Equal(t, 1, countCalls(api.Calls(), "GetPullRequest"))
}

func TestShowDetailsWithoutFactoryReusesListSurface(t *testing.T) {
	t.Parallel()

	h, _ := newTestHost(newFakeAPI())
	surface := &fakeSurface{}
	list, err := h.OpenList(context.Background(), gitea.KindIssue, surface, nil)
	require.NoError(t, err)
	surface.reset()

	require.NoError(t, list.Handle(context.Background(), bridge.ShowDetails{Number: 3}))
	assert.Equal(t, []bridge.Kind{bridge.KindUpdateData, bridge.KindTimelineData}, surface.Kinds())
}

func TestListViewMessages(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	h, opener := newTestHost(api)
	surface := &fakeSurface{}
	list, err := h.OpenList(context.Background(), gitea.KindIssue, surface, nil)
	require.NoError(t, err)
	surface.reset()

	require.NoError(t, list.Handle(context.Background(), bridge.OpenExternal{URL: "https://gitea.test/octo/repo/issues/1"}))
	assert.Equal(t, []string{"https://gitea.test/octo/repo/issues/1"}, opener.urls)

	err = list.Handle(context.Background(), bridge.AddComment{Body: "x"})
	require.ErrorIs(t, err, ErrUnsupportedMessage)
	assert.Len(t, surface.Notices(), 1)

	list.Dispose()
	before := len(api.Calls())
	require.NoError(t, list.Handle(context.Background(), bridge.Refresh{}))
	assert.Len(t, api.Calls(), before)
}
