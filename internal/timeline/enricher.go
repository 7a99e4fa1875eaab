package timeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/johnqtcg/giteaview/internal/gitea"
)

const defaultLimit = 8

// Fallback targets reported to the Recorder.
const (
	TargetComment = "comment"
	TargetItem    = "item"
	TargetUser    = "user"
)

// ReactionSource fetches the raw data the enricher decorates with.
// *gitea.Client satisfies it.
type ReactionSource interface {
	CurrentUser(ctx context.Context) (*gitea.User, error)
	ListCommentReactions(ctx context.Context, commentID int64) ([]gitea.Reaction, error)
	ListIssueReactions(ctx context.Context, number int) ([]gitea.Reaction, error)
}

// Recorder receives enrichment measurements. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordFallback(target string)
	ObserveEnrich(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordFallback(string)       {}
func (nopRecorder) ObserveEnrich(time.Duration) {}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger used for fallback lines.
func WithLogger(logger *log.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLimit bounds the number of concurrent reaction fetches.
func WithLimit(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Enricher) {
		if r != nil {
			e.recorder = r
		}
	}
}

// Enricher attaches reaction summaries to timeline comments and items.
// Reactions are decoration: lookup failures never reach the caller.
type Enricher struct {
	source   ReactionSource
	logger   *log.Logger
	recorder Recorder
	limit    int
}

// NewEnricher builds an Enricher reading from source.
func NewEnricher(source ReactionSource, opts ...Option) *Enricher {
	e := &Enricher{
		source:   source,
		logger:   log.New(io.Discard, "", 0),
		recorder: nopRecorder{},
		limit:    defaultLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns a copy of events where every comment event with an ID
// carries its reaction summary. Length and order are preserved and other
// event types are returned unchanged.
func (e *Enricher) Enrich(ctx context.Context, events []gitea.TimelineEvent) []gitea.TimelineEvent {
	start := time.Now()
	defer func() { e.recorder.ObserveEnrich(time.Since(start)) }()

	out := make([]gitea.TimelineEvent, len(events))
	copy(out, events)

	var comments []int
	for i := range out {
		if out[i].Type == gitea.EventComment && out[i].ID != 0 {
			comments = append(comments, i)
		}
	}
	if len(comments) == 0 {
		return out
	}

	me, err := e.currentUser(ctx)
	if err != nil {
		e.fallback(TargetUser, 0, err)
		for _, i := range comments {
			out[i].Reactions = []gitea.ReactionSummary{}
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(e.limit)
	for _, i := range comments {
		g.Go(func() error {
			summaries, err := e.commentReactions(ctx, out[i].ID, me)
			out[i].Reactions = e.orEmpty(TargetComment, out[i].ID, summaries, err)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// ItemReactions returns the summarized top-level reactions of an issue or
// pull request, or an empty slice when they cannot be fetched.
func (e *Enricher) ItemReactions(ctx context.Context, number int) []gitea.ReactionSummary {
	summaries, err := e.itemReactions(ctx, number)
	return e.orEmpty(TargetItem, int64(number), summaries, err)
}

func (e *Enricher) currentUser(ctx context.Context) (*gitea.User, error) {
	if e.source == nil {
		return nil, fmt.Errorf("resolve current user: %w", gitea.ErrNotConfigured)
	}
	return e.source.CurrentUser(ctx)
}

func (e *Enricher) commentReactions(ctx context.Context, id int64, me *gitea.User) ([]gitea.ReactionSummary, error) {
	reactions, err := e.source.ListCommentReactions(ctx, id)
	if err != nil {
		return nil, err
	}
	return Summarize(reactions, me), nil
}

func (e *Enricher) itemReactions(ctx context.Context, number int) ([]gitea.ReactionSummary, error) {
	me, err := e.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	reactions, err := e.source.ListIssueReactions(ctx, number)
	if err != nil {
		return nil, err
	}
	return Summarize(reactions, me), nil
}

// orEmpty maps a failed decoration step to an empty, non-nil result.
func (e *Enricher) orEmpty(target string, id int64, summaries []gitea.ReactionSummary, err error) []gitea.ReactionSummary {
	if err != nil {
		e.fallback(target, id, err)
		return []gitea.ReactionSummary{}
	}
	if summaries == nil {
		return []gitea.ReactionSummary{}
	}
	return summaries
}

func (e *Enricher) fallback(target string, id int64, err error) {
	e.logger.Printf("reactions unavailable target=%s id=%d err=%v", target, id, err)
	e.recorder.RecordFallback(target)
}
