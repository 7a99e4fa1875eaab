package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/metrics"
	"github.com/johnqtcg/giteaview/internal/timeline"
)

var (
	// ErrKindMismatch is returned for a message that targets the other item kind,
	// such as closeIssue sent to a pull request view.
	ErrKindMismatch = errors.New("message does not apply to this item kind")
	// ErrUnsupportedMessage is returned for a message the view does not handle.
	ErrUnsupportedMessage = errors.New("message not supported by this view")
	// ErrInvalidRef is returned when opening a view for a malformed item reference.
	ErrInvalidRef = errors.New("invalid item reference")
)

// API is the part of the Gitea client the hosts call. *gitea.Client satisfies it.
type API interface {
	timeline.ReactionSource

	ListIssues(ctx context.Context, opts gitea.ListOptions) ([]gitea.Issue, error)
	GetIssue(ctx context.Context, number int) (*gitea.Issue, error)
	EditIssueState(ctx context.Context, number int, state gitea.State) (*gitea.Issue, error)

	ListPullRequests(ctx context.Context, opts gitea.ListOptions) ([]gitea.PullRequest, error)
	GetPullRequest(ctx context.Context, number int) (*gitea.PullRequest, error)
	EditPullRequestState(ctx context.Context, number int, state gitea.State) (*gitea.PullRequest, error)
	ListPullRequestCommits(ctx context.Context, number int) ([]gitea.CommitDetails, error)
	ListPullRequestFiles(ctx context.Context, number int) ([]gitea.ChangedFile, error)

	ListTimeline(ctx context.Context, number int) ([]gitea.TimelineEvent, error)
	CreateComment(ctx context.Context, number int, body string) (*gitea.Comment, error)
	EditComment(ctx context.Context, id int64, body string) (*gitea.Comment, error)
	DeleteComment(ctx context.Context, id int64) error

	ListRepositoryLabels(ctx context.Context) ([]gitea.Label, error)
	ReplaceLabels(ctx context.Context, number int, ids []int64) ([]gitea.Label, error)
	ListAssignees(ctx context.Context) ([]gitea.User, error)
	UpdateAssignees(ctx context.Context, number int, logins []string) ([]gitea.User, error)

	AddIssueReaction(ctx context.Context, number int, content string) error
	RemoveIssueReaction(ctx context.Context, number int, content string) error
	AddCommentReaction(ctx context.Context, commentID int64, content string) error
	RemoveCommentReaction(ctx context.Context, commentID int64, content string) error

	GetCommit(ctx context.Context, sha string) (*gitea.CommitDetails, error)
	RenderMarkdown(ctx context.Context, text string) (string, error)
}

// Enricher decorates timelines and items with reaction summaries.
// *timeline.Enricher satisfies it.
type Enricher interface {
	Enrich(ctx context.Context, events []gitea.TimelineEvent) []gitea.TimelineEvent
	ItemReactions(ctx context.Context, number int) []gitea.ReactionSummary
}

// Deps are the collaborators of a Host. Only API is required.
type Deps struct {
	API      API
	Enricher Enricher
	Opener   Opener
	Logger   *log.Logger
	Metrics  *metrics.Metrics
}

// Host owns the single open detail view and creates list views.
type Host struct {
	api      API
	enricher Enricher
	opener   Opener
	logger   *log.Logger
	metrics  *metrics.Metrics

	mu     sync.Mutex
	detail *DetailView
}

// New builds a Host. Missing optional deps get defaults: an enricher over
// API, the system browser opener and a discarding logger.
func New(deps Deps) *Host {
	h := &Host{
		api:      deps.API,
		enricher: deps.Enricher,
		opener:   deps.Opener,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
	if h.logger == nil {
		h.logger = log.New(io.Discard, "", 0)
	}
	if h.enricher == nil {
		opts := []timeline.Option{timeline.WithLogger(h.logger)}
		if h.metrics != nil {
			opts = append(opts, timeline.WithRecorder(h.metrics))
		}
		h.enricher = timeline.NewEnricher(h.api, opts...)
	}
	if h.opener == nil {
		h.opener = BrowserOpener
	}
	return h
}

// Current returns the open detail view, or nil.
func (h *Host) Current() *DetailView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.detail
}

// OpenDetail disposes the current detail view, opens one for ref on surface
// and runs its initial load. It returns once the view is Ready or was
// disposed during the load.
func (h *Host) OpenDetail(ctx context.Context, ref gitea.ItemRef, surface Surface) (*DetailView, error) {
	if !ref.Kind.Valid() || ref.Number <= 0 {
		return nil, fmt.Errorf("%w: %q #%d", ErrInvalidRef, ref.Kind, ref.Number)
	}

	h.mu.Lock()
	if h.detail != nil {
		h.detail.dispose()
	}
	view := &DetailView{
		id:      uuid.NewString(),
		ref:     ref,
		host:    h,
		surface: surface,
		state:   StateLoading,
	}
	h.detail = view
	h.mu.Unlock()

	h.metrics.RecordViewOpened(viewDetail)
	h.logger.Printf("detail view opened id=%s ref=%q", view.id, ref)
	if l, ok := surface.(StateListener); ok {
		l.OnState(StateLoading)
	}

	view.load(ctx)
	return view, nil
}

// OpenList opens a list view of kind on surface and pushes the first list.
// showDetails messages open detail views on surfaces made by details; a nil
// details reuses surface.
func (h *Host) OpenList(ctx context.Context, kind gitea.ItemKind, surface Surface, details DetailSurfaces) (*ListView, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidRef, kind)
	}
	view := &ListView{
		id:      uuid.NewString(),
		kind:    kind,
		host:    h,
		surface: surface,
		details: details,
	}
	h.metrics.RecordViewOpened(viewList)
	h.logger.Printf("list view opened id=%s kind=%s", view.id, kind)

	_ = view.load(ctx, "load")
	return view, nil
}

// release clears the detail handle when view is still the current one.
func (h *Host) release(view *DetailView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.detail == view {
		h.detail = nil
	}
	view.dispose()
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
