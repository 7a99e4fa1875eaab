package host

import (
	"fmt"
	"net/url"

	"github.com/pkg/browser"

	"github.com/johnqtcg/giteaview/internal/bridge"
)

// Level is the severity of a Notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a non-modal, user-visible message raised by a view host.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	// Err is the failure behind an error notice. It is not sent to clients.
	Err error `json:"-"`
}

// Surface is the rendered UI a view pushes to. Implementations must be safe
// for use from multiple goroutines.
type Surface interface {
	Post(msg bridge.Outbound) error
	Notify(n Notice)
}

// StateListener is implemented by surfaces that want detail view state
// changes. OnState is called with the view lock held and must not call back
// into the view.
type StateListener interface {
	OnState(s State)
}

// Opener opens URLs outside the host.
type Opener interface {
	Open(rawURL string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(rawURL string) error

// Open calls f.
func (f OpenerFunc) Open(rawURL string) error { return f(rawURL) }

// BrowserOpener opens http(s) URLs in the system browser.
var BrowserOpener Opener = OpenerFunc(openInBrowser)

func openInBrowser(rawURL string) error {
	if err := CheckExternalURL(rawURL); err != nil {
		return err
	}
	return browser.OpenURL(rawURL)
}

// CheckExternalURL rejects URLs that are not absolute http or https links.
func CheckExternalURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: only http and https urls are opened", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("refusing to open %q: missing host", rawURL)
	}
	return nil
}
