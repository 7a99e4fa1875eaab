package main

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/converter"
	"github.com/johnqtcg/giteaview/internal/host"
)

// recordSurface keeps what a one-shot detail view posts during its load.
type recordSurface struct {
	mu    sync.Mutex
	posts []bridge.Outbound
	err   error
}

func (s *recordSurface) Post(msg bridge.Outbound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, msg)
	return nil
}

func (s *recordSurface) Notify(n host.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.Level == host.LevelError && s.err == nil {
		s.err = n.Err
	}
}

// handleExport renders one item with its timeline as markdown.
// Form fields: ref (item URL or shorthand), timeline ("false" omits it).
func (h *webHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	raw := r.FormValue("ref")
	if raw == "" {
		http.Error(w, "missing ref", http.StatusBadRequest)
		return
	}
	ref, err := h.resolveRef(raw)
	if err != nil {
		http.Error(w, "invalid item reference", http.StatusBadRequest)
		return
	}

	surface := &recordSurface{}
	viewHost := host.New(host.Deps{API: h.api, Logger: h.logger, Metrics: h.metrics})
	view, err := viewHost.OpenDetail(r.Context(), ref, surface)
	if err != nil {
		http.Error(w, "open item failed", fetchHTTPStatusFromError(err))
		return
	}
	view.Dispose()

	surface.mu.Lock()
	posts, loadErr := surface.posts, surface.err
	surface.mu.Unlock()
	if loadErr != nil {
		h.logger.Printf("export failed ref=%q err=%v", ref, loadErr)
		http.Error(w, fmt.Sprintf("load %s failed", ref), fetchHTTPStatusFromError(loadErr))
		return
	}

	doc := converter.DocumentFromMessages(ref, posts)
	markdown, err := h.renderer.Render(doc, converter.RenderOptions{IncludeTimeline: r.FormValue("timeline") != "false"})
	if err != nil {
		http.Error(w, "render markdown failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if _, err := w.Write(markdown); err != nil {
		h.logger.Printf("write export response err=%v", err)
	}
}
