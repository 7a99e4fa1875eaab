package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/metrics"
)

const apiPrefix = "/api/v1/repos/octo/repo/"

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type stubResponse struct {
	status  int
	payload any
}

// giteaStub answers API requests from a route table keyed by "METHOD path".
// Unknown reaction listings answer [], anything else 404.
type giteaStub struct {
	mu     sync.Mutex
	routes map[string]stubResponse
	calls  []string
}

func newGiteaStub() *giteaStub {
	s := &giteaStub{routes: map[string]stubResponse{}}
	s.on(http.MethodGet, apiPrefix+"issues", http.StatusOK, json.RawMessage(`[
		{"number": 1, "title": "Panic on nil config", "state": "open", "user": {"login": "alice"}}
	]`))
	s.on(http.MethodGet, apiPrefix+"issues/1", http.StatusOK, json.RawMessage(`{
		"number": 1, "title": "Panic on nil config", "body": "App panics.", "state": "open",
		"user": {"login": "alice"}, "html_url": "https://gitea.test/octo/repo/issues/1",
		"created_at": "2026-01-01T10:00:00Z", "updated_at": "2026-01-02T10:00:00Z"
	}`))
	s.on(http.MethodGet, apiPrefix+"issues/1/timeline", http.StatusOK, json.RawMessage(`[
		{"id": 11, "type": "comment", "body": "I can reproduce this.", "created_at": "2026-01-01T12:00:00Z", "user": {"login": "bob"}}
	]`))
	s.on(http.MethodPatch, apiPrefix+"issues/1", http.StatusCreated, json.RawMessage(`{
		"number": 1, "title": "Panic on nil config", "state": "closed", "user": {"login": "alice"}
	}`))
	return s
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

func (s *giteaStub) roundTrip(r *http.Request) (*http.Response, error) {
	key := r.Method + " " + r.URL.Path

	s.mu.Lock()
	s.calls = append(s.calls, key)
	resp, ok := s.routes[key]
	s.mu.Unlock()

	if !ok {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/reactions"):
			resp = stubResponse{status: http.StatusOK, payload: []any{}}
		case key == "GET /api/v1/user":
			resp = stubResponse{status: http.StatusOK, payload: map[string]any{"id": 1, "login": "alice"}}
		default:
			resp = stubResponse{status: http.StatusNotFound, payload: map[string]any{"message": "not found"}}
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

func (s *giteaStub) client(t *testing.T) *gitea.Client {
	t.Helper()

	client, err := gitea.NewClient(gitea.Config{
		BaseURL:    "https://gitea.test",
		Token:      "token-123",
		Owner:      "octo",
		Repo:       "repo",
		HTTPClient: &http.Client{Transport: roundTripFunc(s.roundTrip)},
	})
	if err != nil {
		t.Fatalf("NewClient error = %v", err)
	}
	return client
}

// newTestHandler wires the handler over stub with a private registry.
func newTestHandler(t *testing.T, stub *giteaStub) (http.Handler, *prometheus.Registry) {
	t.Helper()

	registry := prometheus.NewRegistry()
	tmpl, err := loadTemplate()
	if err != nil {
		t.Fatalf("loadTemplate error = %v", err)
	}
	return newWebHandler(webDeps{
		api:      stub.client(t),
		tmpl:     tmpl,
		owner:    "octo",
		repo:     "repo",
		registry: registry,
		metrics:  metrics.New(registry),
	}), registry
}

func canBindLocalhost() bool {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}
