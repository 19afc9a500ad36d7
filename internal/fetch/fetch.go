// Package fetch defines the page-fetch collaborator contract used by
// source acquirers, plus the bypass-API implementation.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Options controls a single fetch.
type Options struct {
	Proxy        string        // proxy address, empty for direct
	RenderJS     bool          // ask the upstream to render JavaScript
	WaitSelector string        // CSS selector to wait for before returning
	Timeout      time.Duration // overall request budget
}

// Fetcher retrieves the markup of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts Options) (string, error)
	Name() string
}

// ErrorKind classifies fetch failures.
type ErrorKind string

const (
	KindTimeout    ErrorKind = "timeout"
	KindHTTPStatus ErrorKind = "http_status"
	KindNetwork    ErrorKind = "network"
)

// Error is a typed fetch failure.
type Error struct {
	Kind       ErrorKind
	StatusCode int // set for KindHTTPStatus
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch: status %d", e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// NewTimeout wraps err as a timeout fetch error.
func NewTimeout(err error) *Error { return &Error{Kind: KindTimeout, Err: err} }

// NewHTTPStatus creates a fetch error for an unexpected status code.
func NewHTTPStatus(code int) *Error { return &Error{Kind: KindHTTPStatus, StatusCode: code} }

// NewNetwork wraps err as a transport-level fetch error.
func NewNetwork(err error) *Error { return &Error{Kind: KindNetwork, Err: err} }

// KindOf returns the fetch error kind in err's chain, or ok=false.
func KindOf(err error) (ErrorKind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}
