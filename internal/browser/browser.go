// Package browser defines the headless-browser collaborator used by source
// acquirers that need rendered pages, with a chromedp implementation.
package browser

import (
	"context"
	"time"
)

// Session is one stateful browser tab.
type Session interface {
	// Navigate loads a URL.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the selector is visible or the timeout hits.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Source returns the current page markup.
	Source(ctx context.Context) (string, error)
	// DetectMarker reports whether a selector matches any element.
	DetectMarker(ctx context.Context, selector string) (bool, error)
	// SimulateHumanActivity applies the session's pacing profile: randomized
	// delays and scroll gestures.
	SimulateHumanActivity(ctx context.Context) error
	// Close releases the underlying browser resources.
	Close() error
}

// SessionOptions configures a new session.
type SessionOptions struct {
	UserAgent string
	Proxy     string // --proxy-server address, empty for direct
	Headless  bool
	Language  string // Accept-Language, e.g. "en-US" or "zh-CN"
	WindowW   int
	WindowH   int
	Pacing    Profile
}

// Factory opens browser sessions. One factory is shared per pipeline run so
// cancellation tears down every live session.
type Factory interface {
	NewSession(ctx context.Context, opts SessionOptions) (Session, error)
}
