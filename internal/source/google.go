package source

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/fetch"
	"github.com/sells-group/leadgen-cli/internal/model"
)

const googleWaitSelector = "#search"

// Google acquires LinkedIn profile hits indirectly through site-scoped
// Google searches on the language's regional domain.
type Google struct {
	deps Deps
}

// NewGoogle builds the Google acquirer.
func NewGoogle(deps Deps) *Google { return &Google{deps: deps} }

func (s *Google) Name() string { return "google" }

// Acquire runs one site-scoped search per expanded title variant against
// the literal industry and location. See LinkedIn.Acquire for the error
// accumulation contract.
func (s *Google) Acquire(ctx context.Context, req Request) ([]model.RawHit, error) {
	var (
		hits    []model.RawHit
		lastErr error
	)
	for _, title := range req.Expanded.Titles {
		if ctx.Err() != nil {
			return hits, ctx.Err()
		}

		pageURL := googleSearchURL(req.Lang.GoogleDomain, req.Lang.Code,
			req.Lang.LocalizeTitle(title), req.Query.Industry, req.Location())
		markup, err := s.deps.fetchPage(ctx, s.Name(), pageURL, googleWaitSelector, fetch.UserAgent(), langTag(req.Lang))
		if err != nil {
			if kind, ok := KindOf(err); ok && kind == KindBlocked {
				return hits, err
			}
			lastErr = err
			zap.L().Warn("google: variant fetch failed",
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

func googleSearchURL(domain, langCode, title, industry, location string) string {
	query := fmt.Sprintf(`site:linkedin.com/in/ "%s" "%s" "%s"`, title, industry, location)
	q := url.Values{}
	q.Set("q", query)
	q.Set("hl", langCode)
	q.Set("num", "100")
	return "https://www." + domain + "/search?" + q.Encode()
}
