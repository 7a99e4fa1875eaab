package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/gitea"
)

// DetailSurfaces makes the surface a detail view opened from a list renders on.
type DetailSurfaces func(ref gitea.ItemRef) Surface

// ListView shows the repository's issues or pull requests with the server's
// default filter (open items).
type ListView struct {
	id      string
	kind    gitea.ItemKind
	host    *Host
	surface Surface
	details DetailSurfaces

	mu       sync.Mutex
	disposed bool
}

// ID identifies the view for transports that route frames by view.
func (l *ListView) ID() string { return l.id }

// Kind is the item kind the list shows.
func (l *ListView) Kind() gitea.ItemKind { return l.kind }

// Dispose closes the list. Later messages and posts are dropped.
func (l *ListView) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disposed = true
}

func (l *ListView) isDisposed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.disposed
}

// Handle executes one inbound message: refresh, showDetails or openExternal.
func (l *ListView) Handle(ctx context.Context, msg bridge.Inbound) error {
	if l.isDisposed() {
		l.host.metrics.RecordDropped("inbound")
		return nil
	}
	start := time.Now()
	err := l.dispatch(ctx, msg)
	l.host.metrics.RecordInbound(viewList, string(msg.Kind()), time.Since(start), err != nil)
	return err
}

func (l *ListView) dispatch(ctx context.Context, msg bridge.Inbound) error {
	switch m := msg.(type) {
	case bridge.Refresh:
		return l.load(ctx, "refresh")

	case bridge.ShowDetails:
		ref := gitea.ItemRef{Kind: l.kind, Number: m.Number}
		surface := l.surface
		if l.details != nil {
			surface = l.details(ref)
		}
		if _, err := l.host.OpenDetail(ctx, ref, surface); err != nil {
			return l.fail("open "+ref.String(), err)
		}
		return nil

	case bridge.OpenExternal:
		if err := l.host.opener.Open(m.URL); err != nil {
			return l.fail("open link", err)
		}
		return nil

	default:
		err := fmt.Errorf("%w: %s in list view", ErrUnsupportedMessage, msg.Kind())
		return l.fail("handle message", err)
	}
}

func (l *ListView) load(ctx context.Context, action string) error {
	var (
		data any
		err  error
	)
	var opts gitea.ListOptions
	if l.kind == gitea.KindPullRequest {
		var pulls []gitea.PullRequest
		pulls, err = l.host.api.ListPullRequests(ctx, opts)
		data = nonNil(pulls)
	} else {
		var issues []gitea.Issue
		issues, err = l.host.api.ListIssues(ctx, opts)
		data = nonNil(issues)
	}
	if err != nil {
		return l.fail(action+" "+l.noun(), err)
	}
	l.post(bridge.UpdateData{Data: data})
	return nil
}

func (l *ListView) noun() string {
	if l.kind == gitea.KindPullRequest {
		return "pull requests"
	}
	return "issues"
}

func (l *ListView) post(msg bridge.Outbound) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disposed {
		l.host.metrics.RecordDropped("outbound")
		return
	}
	if err := l.surface.Post(msg); err != nil {
		l.host.logger.Printf("post failed id=%s type=%s err=%v", l.id, msg.Kind(), err)
		return
	}
	l.host.metrics.RecordOutbound(viewList, string(msg.Kind()))
}

func (l *ListView) fail(action string, err error) error {
	l.host.logger.Printf("action failed id=%s kind=%s action=%q err=%v", l.id, l.kind, action, err)
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.disposed {
		l.surface.Notify(Notice{Level: LevelError, Text: fmt.Sprintf("Failed to %s: %v", action, err), Err: err})
	}
	return err
}
