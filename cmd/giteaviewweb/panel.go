package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/host"
)

const (
	viewList   = "list"
	viewDetail = "detail"

	writeWait    = 10 * time.Second
	maxFrameSize = 1 << 20
)

// frame is one websocket message. Inbound frames carry a bridge message for
// the view named by View and ViewID. Outbound frames carry exactly one of
// Message, Notice, State or Open.
type frame struct {
	View    string          `json:"view,omitempty"`
	ViewID  string          `json:"viewId,omitempty"`
	Message json.RawMessage `json:"message,omitempty"`
	Notice  *host.Notice    `json:"notice,omitempty"`
	State   string          `json:"state,omitempty"`
	Open    string          `json:"open,omitempty"`
}

// panel drives one browser connection: a list view plus the detail view
// opened from it. Each connection owns its Host, so the single detail view
// is per browser tab.
type panel struct {
	conn   *websocket.Conn
	host   *host.Host
	logger *log.Logger

	writeMu sync.Mutex

	mu     sync.Mutex
	detail *panelSurface
}

// panelSurface forwards one view's output to the connection, tagged with
// the view it belongs to.
type panelSurface struct {
	panel *panel
	view  string
	id    string
}

func (s *panelSurface) Post(msg bridge.Outbound) error {
	data, err := bridge.Encode(msg)
	if err != nil {
		return err
	}
	return s.panel.write(frame{View: s.view, ViewID: s.id, Message: data})
}

func (s *panelSurface) Notify(n host.Notice) {
	if err := s.panel.write(frame{View: s.view, ViewID: s.id, Notice: &n}); err != nil {
		s.panel.logger.Printf("notice dropped view=%s id=%s err=%v", s.view, s.id, err)
	}
}

func (s *panelSurface) OnState(state host.State) {
	if err := s.panel.write(frame{View: s.view, ViewID: s.id, State: state.String()}); err != nil {
		s.panel.logger.Printf("state dropped view=%s id=%s err=%v", s.view, s.id, err)
	}
}

func (p *panel) write(f frame) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := p.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// detailSurface makes the surface for a newly opened detail view. Frames
// addressed to older detail surfaces are dropped from then on.
func (p *panel) detailSurface(gitea.ItemRef) host.Surface {
	s := &panelSurface{panel: p, view: viewDetail, id: uuid.NewString()}
	p.mu.Lock()
	p.detail = s
	p.mu.Unlock()
	return s
}

func (p *panel) currentDetail(viewID string) *host.DetailView {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detail == nil || p.detail.id != viewID {
		return nil
	}
	return p.host.Current()
}

// open asks the browser to open rawURL in a new tab.
func (p *panel) open(rawURL string) error {
	if err := host.CheckExternalURL(rawURL); err != nil {
		return err
	}
	return p.write(frame{Open: rawURL})
}

// serve opens the list view, and the detail view for ref when set, then
// routes inbound frames until the connection closes.
func (p *panel) serve(ctx context.Context, kind gitea.ItemKind, ref *gitea.ItemRef) error {
	ctx, cancel := context.WithCancel(ctx)
	var handlers errgroup.Group
	defer func() {
		cancel()
		_ = handlers.Wait()
		if view := p.host.Current(); view != nil {
			view.Dispose()
		}
	}()

	listSurface := &panelSurface{panel: p, view: viewList, id: uuid.NewString()}
	list, err := p.host.OpenList(ctx, kind, listSurface, p.detailSurface)
	if err != nil {
		return fmt.Errorf("open list: %w", err)
	}
	defer list.Dispose()

	if ref != nil {
		if _, err := p.host.OpenDetail(ctx, *ref, p.detailSurface(*ref)); err != nil {
			return fmt.Errorf("open %s: %w", ref, err)
		}
	}

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		var in frame
		if err := json.Unmarshal(data, &in); err != nil {
			p.reject(in, fmt.Errorf("%w: %v", bridge.ErrInvalidMessage, err))
			continue
		}

		msg, err := bridge.Decode(in.Message)
		if err != nil {
			p.reject(in, err)
			continue
		}

		switch in.View {
		case viewList:
			if in.ViewID != listSurface.id {
				p.logger.Printf("frame dropped view=list id=%s type=%s", in.ViewID, msg.Kind())
				continue
			}
			handlers.Go(func() error {
				_ = list.Handle(ctx, msg)
				return nil
			})
		case viewDetail:
			view := p.currentDetail(in.ViewID)
			if view == nil {
				p.logger.Printf("frame dropped view=detail id=%s type=%s", in.ViewID, msg.Kind())
				continue
			}
			handlers.Go(func() error {
				_ = view.Handle(ctx, msg)
				return nil
			})
		default:
			p.reject(in, fmt.Errorf("unknown view %q", in.View))
		}
	}
}

// reject reports a frame that could not be routed back to its sender.
func (p *panel) reject(in frame, err error) {
	n := host.Notice{Level: host.LevelError, Text: fmt.Sprintf("Failed to handle message: %v", err)}
	if werr := p.write(frame{View: in.View, ViewID: in.ViewID, Notice: &n}); werr != nil {
		p.logger.Printf("reject failed err=%v", werr)
	}
}
