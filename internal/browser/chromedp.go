package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ChromeFactory opens chromedp-backed sessions.
type ChromeFactory struct{}

// NewChromeFactory creates a chromedp session factory.
func NewChromeFactory() *ChromeFactory {
	return &ChromeFactory{}
}

// NewSession starts a headless Chrome tab configured per opts. The session
// lives until Close or until ctx is cancelled.
func (f *ChromeFactory) NewSession(ctx context.Context, opts SessionOptions) (Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}
	if opts.Language != "" {
		allocOpts = append(allocOpts, chromedp.Flag("lang", opts.Language))
	}
	w, h := opts.WindowW, opts.WindowH
	if w <= 0 || h <= 0 {
		w, h = 1920, 1080
	}
	allocOpts = append(allocOpts, chromedp.WindowSize(w, h))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Force browser start now so failures surface here, not mid-scrape.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, eris.Wrap(err, "browser: start chrome")
	}

	return &chromeSession{
		ctx:        tabCtx,
		cancelTab:  cancelTab,
		cancelExec: cancelAlloc,
		pacing:     opts.Pacing,
	}, nil
}

type chromeSession struct {
	ctx        context.Context
	cancelTab  context.CancelFunc
	cancelExec context.CancelFunc
	pacing     Profile
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return eris.Wrapf(err, "browser: navigate %s", url)
	}
	return nil
}

func (s *chromeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	merged, release := s.session(ctx)
	defer release()
	waitCtx, cancel := context.WithTimeout(merged, timeout)
	defer cancel()
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return eris.Wrapf(err, "browser: wait for %s", selector)
	}
	return nil
}

func (s *chromeSession) Source(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", eris.Wrap(err, "browser: page source")
	}
	return html, nil
}

func (s *chromeSession) DetectMarker(ctx context.Context, selector string) (bool, error) {
	var count int
	script := fmt.Sprintf("document.querySelectorAll(%q).length", selector)
	if err := s.run(ctx, chromedp.Evaluate(script, &count)); err != nil {
		return false, eris.Wrapf(err, "browser: detect marker %s", selector)
	}
	return count > 0, nil
}

// SimulateHumanActivity sleeps a profiled delay, performs randomized scroll
// gestures, and settles with another short delay.
func (s *chromeSession) SimulateHumanActivity(ctx context.Context) error {
	if err := s.sleep(ctx, s.pacing.Delay()); err != nil {
		return err
	}
	for _, px := range s.pacing.ScrollPlan() {
		script := fmt.Sprintf("window.scrollBy(0, %d)", px)
		if err := s.run(ctx, chromedp.Evaluate(script, nil)); err != nil {
			zap.L().Debug("browser: scroll gesture failed", zap.Error(err))
			return nil // scrolling is best-effort
		}
		if err := s.sleep(ctx, s.pacing.Delay()/3); err != nil {
			return err
		}
	}
	return nil
}

func (s *chromeSession) Close() error {
	s.cancelTab()
	s.cancelExec()
	return nil
}

// session merges the tab context with the caller's cancellation. The
// returned cancel releases the merge and must be called when the action
// finishes.
func (s *chromeSession) session(ctx context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(s.ctx)
	stop := context.AfterFunc(ctx, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}

func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	merged, cancel := s.session(ctx)
	defer cancel()
	return chromedp.Run(merged, actions...)
}

func (s *chromeSession) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
