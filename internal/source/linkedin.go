package source

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/fetch"
	"github.com/sells-group/leadgen-cli/internal/model"
)

const linkedinWaitSelector = ".search-results-container"

// LinkedIn acquires people-search results directly from LinkedIn. It is the
// most aggressively throttled source, so its pacing entry runs at a few
// requests per minute.
type LinkedIn struct {
	deps Deps
}

// NewLinkedIn builds the LinkedIn acquirer.
func NewLinkedIn(deps Deps) *LinkedIn { return &LinkedIn{deps: deps} }

func (s *LinkedIn) Name() string { return "linkedin" }

// Acquire searches one people-search page per expanded title variant and
// accumulates the hits. A blocked page aborts the remaining variants; the
// hits gathered so far are still returned alongside the error so callers
// can keep them across retries.
func (s *LinkedIn) Acquire(ctx context.Context, req Request) ([]model.RawHit, error) {
	var (
		hits    []model.RawHit
		lastErr error
	)
	for _, title := range req.Expanded.Titles {
		if ctx.Err() != nil {
			return hits, ctx.Err()
		}

		pageURL := linkedinSearchURL(req.Lang.LinkedInDomain, req.Lang.LocalizeTitle(title), req.Location())
		markup, err := s.deps.fetchPage(ctx, s.Name(), pageURL, linkedinWaitSelector, fetch.UserAgent(), langTag(req.Lang))
		if err != nil {
			if kind, ok := KindOf(err); ok && kind == KindBlocked {
				return hits, err
			}
			lastErr = err
			zap.L().Warn("linkedin: variant fetch failed",
				zap.String("title", title), zap.Error(err))
			continue
		}

		pageHits, err := s.deps.parsePage(markup, s.Name())
		if err != nil {
			lastErr = err
			zap.L().Warn("linkedin: no results container, page may be blocked",
				zap.String("title", title))
			continue
		}
		hits = append(hits, pageHits...)
	}

	if len(hits) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return hits, nil
}

func linkedinSearchURL(domain, title, location string) string {
	q := url.Values{}
	q.Set("keywords", strings.TrimSpace(title+" "+location))
	q.Set("origin", "GLOBAL_SEARCH_HEADER")
	return "https://" + domain + "/search/results/people/?" + q.Encode()
}
