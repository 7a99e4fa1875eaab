package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"

	"github.com/johnqtcg/giteaview/internal/config"
	"github.com/johnqtcg/giteaview/internal/host"
)

const apiPrefix = "/api/v1/repos/octo/repo/"

type fakeLoader struct {
	cfg   config.Config
	err   error
	calls int
}

func (f *fakeLoader) Load(flags *pflag.FlagSet) (config.Config, error) {
	_ = flags
	f.calls++
	if f.err != nil {
		return config.Config{}, f.err
	}
	return f.cfg, nil
}

func testConfig() config.Config {
	return config.Config{
		InstanceURL: "https://gitea.test",
		Token:       "token-123",
		Owner:       "octo",
		Repo:        "repo",
		WebAddr:     config.DefaultWebAddr,
	}
}

type stubResponse struct {
	status  int
	payload any
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// giteaStub answers API requests from a route table keyed by "METHOD path".
// Reaction listings default to empty and /user to alice.
type giteaStub struct {
	mu     sync.Mutex
	routes map[string]stubResponse
	calls  []string
	bodies map[string]string
}

func newGiteaStub() *giteaStub {
	return &giteaStub{
		routes: map[string]stubResponse{},
		bodies: map[string]string{},
	}
}

func (s *giteaStub) on(method, path string, status int, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = stubResponse{status: status, payload: payload}
}

func (s *giteaStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *giteaStub) Body(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[key]
}

func (s *giteaStub) httpClient() *http.Client {
	return &http.Client{Transport: roundTripFunc(s.roundTrip)}
}

func (s *giteaStub) roundTrip(r *http.Request) (*http.Response, error) {
	key := r.Method + " " + r.URL.Path
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
	}

	s.mu.Lock()
	s.calls = append(s.calls, key)
	s.bodies[key] = string(body)
	resp, ok := s.routes[key]
	s.mu.Unlock()

	if !ok {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/reactions"):
			resp = stubResponse{status: http.StatusOK, payload: []any{}}
		case key == "GET /api/v1/user":
			resp = stubResponse{status: http.StatusOK, payload: map[string]any{"id": 1, "login": "alice"}}
		default:
			resp = stubResponse{status: http.StatusNotFound, payload: map[string]any{"message": "not found: " + r.URL.Path}}
		}
	}

	data, err := json.Marshal(resp.payload)
	if err != nil {
		return nil, fmt.Errorf("marshal stub payload: %w", err)
	}
	return &http.Response{
		StatusCode: resp.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(data)),
		Request:    r,
	}, nil
}

// withIssue registers issue #1 with one comment carrying a +1 reaction.
func (s *giteaStub) withIssue() *giteaStub {
	s.on(http.MethodGet, apiPrefix+"issues/1", http.StatusOK, json.RawMessage(`{
		"id": 100, "number": 1, "title": "Panic on nil config", "body": "App panics.",
		"state": "open", "user": {"id": 1, "login": "alice"},
		"labels": [{"id": 5, "name": "bug", "color": "ff0000"}],
		"created_at": "2026-01-01T10:00:00Z", "updated_at": "2026-01-02T10:00:00Z",
		"html_url": "https://gitea.test/octo/repo/issues/1"
	}`))
	s.on(http.MethodGet, apiPrefix+"issues/1/timeline", http.StatusOK, json.RawMessage(`[
		{"id": 11, "type": "comment", "body": "I can reproduce this.", "created_at": "2026-01-01T12:00:00Z", "user": {"id": 2, "login": "bob"}},
		{"id": 12, "type": "close", "created_at": "2026-01-02T10:00:00Z", "user": {"id": 1, "login": "alice"}}
	]`))
	s.on(http.MethodGet, apiPrefix+"issues/comments/11/reactions", http.StatusOK, json.RawMessage(`[
		{"content": "+1", "user": {"id": 1, "login": "alice"}}
	]`))
	return s
}

// withPull registers pull request #2 with one push event.
func (s *giteaStub) withPull() *giteaStub {
	s.on(http.MethodGet, apiPrefix+"pulls/2", http.StatusOK, json.RawMessage(`{
		"id": 200, "number": 2, "title": "Fix nil config", "body": "Fixes #1.",
		"state": "open", "user": {"id": 2, "login": "bob"},
		"head": {"ref": "fix"}, "base": {"ref": "main"},
		"created_at": "2026-01-03T10:00:00Z", "updated_at": "2026-01-03T11:00:00Z",
		"html_url": "https://gitea.test/octo/repo/pulls/2"
	}`))
	s.on(http.MethodGet, apiPrefix+"issues/2/timeline", http.StatusOK, json.RawMessage(`[
		{"id": 21, "type": "pull_push", "body": "{\"is_force_push\":false,\"commit_ids\":[\"abc123\"]}", "created_at": "2026-01-03T10:30:00Z"}
	]`))
	return s
}

type testApp struct {
	runner Runner
	loader *fakeLoader
	stub   *giteaStub
	stdin  *bytes.Buffer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	opened []string
}

func newTestApp(t *testing.T, stub *giteaStub) *testApp {
	t.Helper()

	ta := &testApp{
		loader: &fakeLoader{cfg: testConfig()},
		stub:   stub,
		stdin:  new(bytes.Buffer),
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
	}
	ta.runner = NewApp(AppDeps{
		Loader:     ta.loader,
		HTTPClient: stub.httpClient(),
		Opener: host.OpenerFunc(func(rawURL string) error {
			ta.opened = append(ta.opened, rawURL)
			return nil
		}),
		Stdin:  ta.stdin,
		Stdout: ta.stdout,
		Stderr: ta.stderr,
	})
	return ta
}

func (ta *testApp) run(args ...string) int {
	return ta.runner.Run(context.Background(), args)
}

// plainStdout returns stdout with terminal styling removed.
func (ta *testApp) plainStdout() string {
	return ansi.Strip(ta.stdout.String())
}

// jsonLines decodes stdout as one JSON object per line.
func (ta *testApp) jsonLines(t *testing.T) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(ta.stdout.String()), "\n") {
		if line == "" {
			continue
		}
		var msg map[string]any
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			t.Fatalf("stdout line %q is not JSON: %v", line, err)
		}
		out = append(out, msg)
	}
	return out
}
