package instagram

import (
	"context"
	"net/url"
	"time"
)

// Session is one live browser page. Implementations must dismiss native
// dialogs on their own; callers never see them.
type Session interface {
	// Navigate loads rawURL and waits for wait.Selector to appear. A wait that
	// runs past wait.Timeout fails with ErrNavigationTimeout.
	Navigate(ctx context.Context, rawURL string, wait Wait) error

	// Eval runs a JS function against the live DOM and decodes its JSON
	// result into out. out may be nil.
	Eval(ctx context.Context, script string, out any, args ...any) error

	// ClickMatching clicks the first element matching selector whose text
	// matches the JS regex pattern (any element when pattern is empty). It
	// reports whether anything was clicked.
	ClickMatching(ctx context.Context, selector, pattern string) (bool, error)

	// Close releases the browser. It is safe to call more than once.
	Close() error
}

type Wait struct {
	Selector string
	Timeout  time.Duration
}

// SessionConfig is handed to a SessionFactory for each acquisition call.
type SessionConfig struct {
	Proxy          *url.URL // credentials, if any, are in Proxy.User
	UserAgent      string
	Headers        map[string]string
	ViewportWidth  int
	ViewportHeight int
	BlockResources bool
}

// SessionFactory launches a browser session.
type SessionFactory func(ctx context.Context, cfg SessionConfig) (Session, error)
