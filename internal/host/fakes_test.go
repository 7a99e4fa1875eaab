package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/gitea"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error
	block map[int]chan struct{}

	timeline []gitea.TimelineEvent
	state    map[int]gitea.State
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		errs:  map[string]error{},
		block: map[int]chan struct{}{},
		state: map[int]gitea.State{},
		timeline: []gitea.TimelineEvent{
			{ID: 1, Type: gitea.EventComment, Body: "first"},
			{ID: 2, Type: "label", Label: &gitea.Label{ID: 5, Name: "bug"}},
		},
	}
}

func (f *fakeAPI) record(name string, arg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("%s %v", name, arg))
	return f.errs[name]
}

func (f *fakeAPI) fail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[name] = err
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) wait(number int) {
	f.mu.Lock()
	gate := f.block[number]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (f *fakeAPI) itemState(number int) gitea.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.state[number]; ok {
		return s
	}
	return gitea.StateOpen
}

func (f *fakeAPI) setState(number int, s gitea.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state[number] = s
}

// Decoration lookups are not recorded.
func (f *fakeAPI) CurrentUser(context.Context) (*gitea.User, error) {
	return &gitea.User{ID: 1, Login: "me"}, nil
}

func (f *fakeAPI) ListCommentReactions(context.Context, int64) ([]gitea.Reaction, error) {
	return []gitea.Reaction{{Content: "heart", User: gitea.User{ID: 1, Login: "me"}}}, nil
}

func (f *fakeAPI) ListIssueReactions(context.Context, int) ([]gitea.Reaction, error) {
	return nil, nil
}

func (f *fakeAPI) ListIssues(_ context.Context, opts gitea.ListOptions) ([]gitea.Issue, error) {
	if err := f.record("ListIssues", opts.State); err != nil {
		return nil, err
	}
	return []gitea.Issue{{Number: 1, Title: "one"}, {Number: 3, Title: "three"}}, nil
}

func (f *fakeAPI) GetIssue(_ context.Context, number int) (*gitea.Issue, error) {
	err := f.record("GetIssue", number)
	f.wait(number)
	if err != nil {
		return nil, err
	}
	return &gitea.Issue{Number: number, Title: "issue", State: f.itemState(number)}, nil
}

func (f *fakeAPI) EditIssueState(_ context.Context, number int, state gitea.State) (*gitea.Issue, error) {
	if err := f.record("EditIssueState", fmt.Sprintf("%d %s", number, state)); err != nil {
		return nil, err
	}
	f.setState(number, state)
	return &gitea.Issue{Number: number, State: state}, nil
}

func (f *fakeAPI) ListPullRequests(_ context.Context, opts gitea.ListOptions) ([]gitea.PullRequest, error) {
	if err := f.record("ListPullRequests", opts.State); err != nil {
		return nil, err
	}
	return []gitea.PullRequest{{Number: 42, Title: "feature"}}, nil
}

func (f *fakeAPI) GetPullRequest(_ context.Context, number int) (*gitea.PullRequest, error) {
	err := f.record("GetPullRequest", number)
	f.wait(number)
	if err != nil {
		return nil, err
	}
	return &gitea.PullRequest{Number: number, Title: "pull", State: f.itemState(number)}, nil
}

func (f *fakeAPI) EditPullRequestState(_ context.Context, number int, state gitea.State) (*gitea.PullRequest, error) {
	if err := f.record("EditPullRequestState", fmt.Sprintf("%d %s", number, state)); err != nil {
		return nil, err
	}
	f.setState(number, state)
	return &gitea.PullRequest{Number: number, State: state}, nil
}

func (f *fakeAPI) ListPullRequestCommits(_ context.Context, number int) ([]gitea.CommitDetails, error) {
	if err := f.record("ListPullRequestCommits", number); err != nil {
		return nil, err
	}
	return []gitea.CommitDetails{{SHA: "a1"}}, nil
}

func (f *fakeAPI) ListPullRequestFiles(_ context.Context, number int) ([]gitea.ChangedFile, error) {
	if err := f.record("ListPullRequestFiles", number); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeAPI) ListTimeline(_ context.Context, number int) ([]gitea.TimelineEvent, error) {
	if err := f.record("ListTimeline", number); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gitea.TimelineEvent(nil), f.timeline...), nil
}

func (f *fakeAPI) CreateComment(_ context.Context, number int, body string) (*gitea.Comment, error) {
	if err := f.record("CreateComment", fmt.Sprintf("%d %s", number, body)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeline = append(f.timeline, gitea.TimelineEvent{ID: 99, Type: gitea.EventComment, Body: body})
	return &gitea.Comment{ID: 99, Body: body}, nil
}

func (f *fakeAPI) EditComment(_ context.Context, id int64, body string) (*gitea.Comment, error) {
	if err := f.record("EditComment", id); err != nil {
		return nil, err
	}
	return &gitea.Comment{ID: id, Body: body}, nil
}

func (f *fakeAPI) DeleteComment(_ context.Context, id int64) error {
	return f.record("DeleteComment", id)
}

func (f *fakeAPI) ListRepositoryLabels(context.Context) ([]gitea.Label, error) {
	if err := f.record("ListRepositoryLabels", ""); err != nil {
		return nil, err
	}
	return []gitea.Label{{ID: 1, Name: "bug"}}, nil
}

func (f *fakeAPI) ReplaceLabels(_ context.Context, number int, ids []int64) ([]gitea.Label, error) {
	if err := f.record("ReplaceLabels", fmt.Sprintf("%d %v", number, ids)); err != nil {
		return nil, err
	}
	out := make([]gitea.Label, 0, len(ids))
	for _, id := range ids {
		out = append(out, gitea.Label{ID: id})
	}
	return out, nil
}

func (f *fakeAPI) ListAssignees(context.Context) ([]gitea.User, error) {
	if err := f.record("ListAssignees", ""); err != nil {
		return nil, err
	}
	return []gitea.User{{Login: "alice"}}, nil
}

func (f *fakeAPI) UpdateAssignees(_ context.Context, number int, logins []string) ([]gitea.User, error) {
	if err := f.record("UpdateAssignees", fmt.Sprintf("%d %v", number, logins)); err != nil {
		return nil, err
	}
	out := make([]gitea.User, 0, len(logins))
	for _, login := range logins {
		out = append(out, gitea.User{Login: login})
	}
	return out, nil
}

func (f *fakeAPI) AddIssueReaction(_ context.Context, number int, content string) error {
	return f.record("AddIssueReaction", fmt.Sprintf("%d %s", number, content))
}

func (f *fakeAPI) RemoveIssueReaction(_ context.Context, number int, content string) error {
	return f.record("RemoveIssueReaction", fmt.Sprintf("%d %s", number, content))
}

func (f *fakeAPI) AddCommentReaction(_ context.Context, id int64, content string) error {
	return f.record("AddCommentReaction", fmt.Sprintf("%d %s", id, content))
}

func (f *fakeAPI) RemoveCommentReaction(_ context.Context, id int64, content string) error {
	return f.record("RemoveCommentReaction", fmt.Sprintf("%d %s", id, content))
}

func (f *fakeAPI) GetCommit(_ context.Context, sha string) (*gitea.CommitDetails, error) {
	if err := f.record("GetCommit", sha); err != nil {
		return nil, err
	}
	return &gitea.CommitDetails{SHA: sha}, nil
}

func (f *fakeAPI) RenderMarkdown(_ context.Context, text string) (string, error) {
	if err := f.record("RenderMarkdown", text); err != nil {
		return "", err
	}
	return "<p>" + text + "</p>", nil
}

type fakeSurface struct {
	mu      sync.Mutex
	posts   []bridge.Outbound
	notices []Notice
	states  []State
}

func (s *fakeSurface) Post(msg bridge.Outbound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, msg)
	return nil
}

func (s *fakeSurface) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

func (s *fakeSurface) OnState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, state)
}

func (s *fakeSurface) Kinds() []bridge.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bridge.Kind, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p.Kind())
	}
	return out
}

func (s *fakeSurface) Posts() []bridge.Outbound {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bridge.Outbound(nil), s.posts...)
}

func (s *fakeSurface) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notice(nil), s.notices...)
}

func (s *fakeSurface) States() []State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]State(nil), s.states...)
}

func (s *fakeSurface) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts, s.notices = nil, nil
}

type recordingOpener struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (o *recordingOpener) Open(rawURL string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, rawURL)
	return o.err
}
