package main

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/converter"
	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/host"
	"github.com/johnqtcg/giteaview/internal/metrics"
	"github.com/johnqtcg/giteaview/internal/parser"
	webassets "github.com/johnqtcg/giteaview/web"
)

type webDeps struct {
	parser   parser.RefParser
	api      host.API
	renderer converter.Renderer
	tmpl     *template.Template
	owner    string
	repo     string
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	logger   *log.Logger
}

type webHandler struct {
	parser   parser.RefParser
	api      host.API
	renderer converter.Renderer
	tmpl     *template.Template
	owner    string
	repo     string
	metrics  *metrics.Metrics
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func newWebHandler(deps webDeps) http.Handler {
	tmpl := deps.tmpl
	if tmpl == nil {
		tmpl = template.Must(template.New("index").Parse(defaultIndexTemplate))
	}
	p := deps.parser
	if p == nil {
		p = parser.New()
	}
	renderer := deps.renderer
	if renderer == nil {
		renderer = converter.NewRenderer()
	}
	logger := deps.logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	handler := &webHandler{
		parser:   p,
		api:      deps.api,
		renderer: renderer,
		tmpl:     tmpl,
		owner:    deps.owner,
		repo:     deps.repo,
		metrics:  deps.metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler()))
	mux.HandleFunc("/", handler.handleIndex)
	mux.HandleFunc("/ws", handler.handleWebSocket)
	mux.HandleFunc("/export", handler.handleExport)
	mux.HandleFunc("/healthz", handleHealth)
	if deps.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))
	}

	return mux
}

func staticHandler() http.Handler {
	static, err := fs.Sub(webassets.FS, "static")
	if err != nil {
		return http.NotFoundHandler()
	}
	return http.FileServerFS(static)
}

func (h *webHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	kind := "issues"
	if listKind(r.URL.Query().Get("kind")) == gitea.KindPullRequest {
		kind = "pulls"
	}
	if err := h.tmpl.Execute(w, map[string]any{
		"Owner": h.owner,
		"Repo":  h.repo,
		"Kind":  kind,
		"Ref":   r.URL.Query().Get("ref"),
	}); err != nil {
		http.Error(w, "render template failed", http.StatusInternalServerError)
	}
}

// handleWebSocket upgrades to a bridge connection. ?kind=issues|pulls picks
// the list; ?ref= additionally opens that item's detail view.
func (h *webHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	kind := listKind(r.URL.Query().Get("kind"))
	if kind == "" {
		http.Error(w, "kind must be issues or pulls", http.StatusBadRequest)
		return
	}

	var ref *gitea.ItemRef
	if raw := r.URL.Query().Get("ref"); raw != "" {
		resolved, err := h.resolveRef(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ref = &resolved
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade failed err=%v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	p := &panel{conn: conn, logger: h.logger}
	p.host = host.New(host.Deps{
		API:     h.api,
		Opener:  host.OpenerFunc(p.open),
		Logger:  h.logger,
		Metrics: h.metrics,
	})
	h.logger.Printf("panel connected remote=%s kind=%s", r.RemoteAddr, kind)
	if err := p.serve(r.Context(), kind, ref); err != nil {
		h.logger.Printf("panel closed remote=%s err=%v", r.RemoteAddr, err)
		return
	}
	h.logger.Printf("panel closed remote=%s", r.RemoteAddr)
}

// listKind maps the kind query value to an item kind. Empty means issues;
// unknown values return "".
func listKind(raw string) gitea.ItemKind {
	switch raw {
	case "", "issues", "issue":
		return gitea.KindIssue
	case "pulls", "pull", "prs":
		return gitea.KindPullRequest
	default:
		return ""
	}
}

func (h *webHandler) resolveRef(raw string) (gitea.ItemRef, error) {
	target, err := h.parser.Parse(raw)
	if err != nil {
		return gitea.ItemRef{}, err
	}
	if !target.InRepository(h.owner, h.repo) {
		return gitea.ItemRef{}, fmt.Errorf("%w: %s/%s is not %s/%s", parser.ErrInvalidItemRef, target.Owner, target.Repo, h.owner, h.repo)
	}
	return target.Ref, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, "ok\n"); err != nil {
		return
	}
}

func fetchHTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if errors.Is(err, parser.ErrInvalidItemRef) ||
		errors.Is(err, host.ErrInvalidRef) ||
		errors.Is(err, bridge.ErrInvalidMessage) {
		return http.StatusBadRequest
	}
	if gitea.IsNotFound(err) {
		return http.StatusNotFound
	}
	if gitea.IsAuthError(err) {
		return authHTTPStatus(err)
	}
	if status, ok := gitea.StatusCode(err); ok {
		if status == http.StatusTooManyRequests {
			return http.StatusTooManyRequests
		}
	}

	return http.StatusBadGateway
}

func authHTTPStatus(err error) int {
	if status, ok := gitea.StatusCode(err); ok && status == http.StatusForbidden {
		return http.StatusForbidden
	}
	return http.StatusUnauthorized
}
