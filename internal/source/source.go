// Package source implements the per-engine acquirers that turn an expanded
// query into raw hits, with block detection and typed failures.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/browser"
	"github.com/sells-group/leadgen-cli/internal/fetch"
	"github.com/sells-group/leadgen-cli/internal/locale"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pacing"
	"github.com/sells-group/leadgen-cli/internal/parse"
)

// Request is one acquisition unit: the original query plus its expansion,
// resolved language, and the region country code being searched.
type Request struct {
	Query       model.Query
	Expanded    model.ExpandedQuery
	Lang        locale.Language
	CountryCode string
}

// Location returns the query location scoped to the request's country code,
// e.g. "Berlin" in region "de" becomes "Berlin, DE". A request without a
// country code, or whose location already names it, passes through.
func (r Request) Location() string {
	loc := strings.TrimSpace(r.Query.Location)
	if r.CountryCode == "" {
		return loc
	}
	cc := strings.ToUpper(r.CountryCode)
	if loc == "" {
		return cc
	}
	if strings.HasSuffix(strings.ToUpper(loc), ", "+cc) {
		return loc
	}
	return loc + ", " + cc
}

// Acquirer turns a request into raw hits from one search source.
type Acquirer interface {
	Name() string
	Acquire(ctx context.Context, req Request) ([]model.RawHit, error)
}

// ErrorKind classifies acquisition failures.
type ErrorKind string

const (
	// KindBlocked means the source served an interstitial, captcha, or
	// rate-limit page. Retryable after proxy rotation.
	KindBlocked ErrorKind = "blocked"
	// KindTransport covers network, timeout, and upstream status failures.
	// Retryable.
	KindTransport ErrorKind = "transport"
	// KindParseEmpty means the page loaded but no results container was
	// found. Not retryable.
	KindParseEmpty ErrorKind = "parse_empty"
)

// AcquisitionError is a typed per-source failure.
type AcquisitionError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *AcquisitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s: %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("source %s: %s", e.Source, e.Kind)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

func newBlocked(source string, err error) *AcquisitionError {
	return &AcquisitionError{Source: source, Kind: KindBlocked, Err: err}
}

func newTransport(source string, err error) *AcquisitionError {
	return &AcquisitionError{Source: source, Kind: KindTransport, Err: err}
}

func newParseEmpty(source string, err error) *AcquisitionError {
	return &AcquisitionError{Source: source, Kind: KindParseEmpty, Err: err}
}

// Retryable reports whether err is an acquisition failure worth retrying.
// Blocked and transport failures are; an empty parse is not.
func Retryable(err error) bool {
	var ae *AcquisitionError
	if errors.As(err, &ae) {
		return ae.Kind == KindBlocked || ae.Kind == KindTransport
	}
	return false
}

// KindOf returns the acquisition error kind in err's chain, or ok=false.
func KindOf(err error) (ErrorKind, bool) {
	var ae *AcquisitionError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}

// Deps are the collaborators shared by every acquirer.
type Deps struct {
	Pace    *pacing.Table
	Proxies *pacing.ProxyPool
	// API is the bypass-API fetcher, nil when no key is configured. With no
	// API the acquirers drive a headless browser instead.
	API      fetch.Fetcher
	Browsers browser.Factory
	Schemas  map[string]parse.Schema
	Headless bool
	Timeout  time.Duration
}

// fetchPage retrieves rendered markup for url via the bypass API when
// configured, otherwise through a headless browser session, and runs block
// detection on the result.
func (d Deps) fetchPage(ctx context.Context, source, url, waitSelector, userAgent, langTag string) (string, error) {
	if err := d.Pace.Wait(ctx, source); err != nil {
		return "", err
	}

	var (
		markup string
		err    error
	)
	if d.API != nil {
		markup, err = d.fetchViaAPI(ctx, source, url, waitSelector)
	} else {
		markup, err = d.fetchViaBrowser(ctx, source, url, waitSelector, userAgent, langTag)
	}
	if err != nil {
		return "", err
	}

	if phrase, blocked := BlockedMarkup(markup); blocked {
		zap.L().Warn("source: blocking phrase detected",
			zap.String("source", source),
			zap.String("phrase", phrase),
		)
		return "", newBlocked(source, fmt.Errorf("page contains %q", phrase))
	}
	return markup, nil
}

func (d Deps) fetchViaAPI(ctx context.Context, source, url, waitSelector string) (string, error) {
	markup, err := d.API.Fetch(ctx, url, fetch.Options{
		RenderJS:     true,
		WaitSelector: waitSelector,
		Timeout:      d.Timeout,
	})
	if err != nil {
		if kind, ok := fetch.KindOf(err); ok && kind == fetch.KindHTTPStatus {
			var fe *fetch.Error
			if errors.As(err, &fe) && (fe.StatusCode == 403 || fe.StatusCode == 429) {
				return "", newBlocked(source, err)
			}
		}
		return "", newTransport(source, err)
	}
	return markup, nil
}

func (d Deps) fetchViaBrowser(ctx context.Context, source, url, waitSelector, userAgent, langTag string) (string, error) {
	var proxy string
	if d.Proxies != nil {
		proxy, _ = d.Proxies.Next()
	}

	sess, err := d.Browsers.NewSession(ctx, browser.SessionOptions{
		UserAgent: userAgent,
		Proxy:     proxy,
		Headless:  d.Headless,
		Language:  langTag,
		Pacing:    browser.DefaultProfile(),
	})
	if err != nil {
		return "", newTransport(source, err)
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, url); err != nil {
		if proxy != "" {
			d.Proxies.MarkFailed(proxy)
		}
		return "", newTransport(source, err)
	}

	// The container may legitimately never appear on a blocked page, so a
	// wait timeout falls through to marker and phrase detection.
	if err := sess.WaitVisible(ctx, waitSelector, d.Timeout); err != nil {
		if marked, merr := sess.DetectMarker(ctx, CaptchaSelector); merr == nil && marked {
			return "", newBlocked(source, errors.New("captcha marker present"))
		}
	}

	if err := sess.SimulateHumanActivity(ctx); err != nil {
		zap.L().Debug("source: human activity simulation failed",
			zap.String("source", source), zap.Error(err))
	}

	markup, err := sess.Source(ctx)
	if err != nil {
		return "", newTransport(source, err)
	}
	return markup, nil
}

// langTag converts a language to the Accept-Language tag handed to browser
// sessions. Chinese needs the region suffix for Baidu to serve zh pages.
func langTag(l locale.Language) string {
	if l.Code == "zh" {
		return "zh-CN"
	}
	return l.Code
}

// parsePage maps parse failures onto the acquisition taxonomy.
func (d Deps) parsePage(markup, source string) ([]model.RawHit, error) {
	hits, err := parse.Hits(markup, d.Schemas[source], source, time.Now().UTC())
	if err != nil {
		if errors.Is(err, parse.ErrNoContainer) {
			return nil, newParseEmpty(source, err)
		}
		return nil, newTransport(source, err)
	}
	return hits, nil
}
