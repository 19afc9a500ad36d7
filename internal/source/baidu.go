package source

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/fetch"
	"github.com/sells-group/leadgen-cli/internal/model"
)

const baiduWaitSelector = "#content_left"

// Baidu acquires LinkedIn profile hits through Baidu's web search, which
// serves different result sets than Google for Chinese-market queries.
type Baidu struct {
	deps Deps
}

// NewBaidu builds the Baidu acquirer.
func NewBaidu(deps Deps) *Baidu { return &Baidu{deps: deps} }

func (s *Baidu) Name() string { return "baidu" }

// Acquire runs one intitle-scoped search per expanded title variant. Baidu
// is picky about modern user agents, so sessions use the dedicated pool of
// older ones.
func (s *Baidu) Acquire(ctx context.Context, req Request) ([]model.RawHit, error) {
	var (
		hits    []model.RawHit
		lastErr error
	)
	for _, title := range req.Expanded.Titles {
		if ctx.Err() != nil {
			return hits, ctx.Err()
		}

		pageURL := baiduSearchURL(req.Lang.LocalizeTitle(title), req.Location())
		markup, err := s.deps.fetchPage(ctx, s.Name(), pageURL, baiduWaitSelector, fetch.BaiduUserAgent(), "zh-CN")
		if err != nil {
			if kind, ok := KindOf(err); ok && kind == KindBlocked {
				return hits, err
			}
			lastErr = err
			zap.L().Warn("baidu: variant fetch failed",
				zap.String("title", title), zap.Error(err))
			continue
		}

		pageHits, err := s.deps.parsePage(markup, s.Name())
		if err != nil {
			lastErr = err
			continue
		}
		hits = append(hits, pageHits...)
	}

	if len(hits) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return hits, nil
}

func baiduSearchURL(title, location string) string {
	query := fmt.Sprintf(`site:linkedin.com/in/ intitle:"%s" "%s"`, title, location)
	q := url.Values{}
	q.Set("wd", query)
	q.Set("rn", "50")
	q.Set("ie", "utf-8")
	q.Set("oe", "utf-8")
	q.Set("cl", "3")
	q.Set("tn", "baidu")
	return "https://www.baidu.com/s?" + q.Encode()
}
