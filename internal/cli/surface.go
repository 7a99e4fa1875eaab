package cli

import (
	"sync"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/host"
)

// captureSurface records everything a view pushes so a command can print it
// once the view has settled.
type captureSurface struct {
	mu      sync.Mutex
	posts   []bridge.Outbound
	notices []host.Notice
}

func (s *captureSurface) Post(msg bridge.Outbound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, msg)
	return nil
}

func (s *captureSurface) Notify(n host.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

// drain returns and clears the recorded posts and notices.
func (s *captureSurface) drain() ([]bridge.Outbound, []host.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, notices := s.posts, s.notices
	s.posts, s.notices = nil, nil
	return posts, notices
}

// firstError is the error behind the first error notice, or nil.
func firstError(notices []host.Notice) error {
	for _, n := range notices {
		if n.Level == host.LevelError && n.Err != nil {
			return n.Err
		}
	}
	return nil
}
