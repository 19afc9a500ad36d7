package parse

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// ErrNoContainer is returned when the schema's container selector matches
// nothing — usually a blocked or interstitial page rather than zero results.
var ErrNoContainer = eris.New("parse: results container not found")

// Hits extracts raw hits from markup according to the schema. Results
// missing a required field are skipped individually; only markup-level
// failures error out.
func Hits(markup string, schema Schema, source string, now time.Time) ([]model.RawHit, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, eris.Wrap(err, "parse: read markup")
	}

	root := doc.Selection
	if schema.Container != "" {
		container := doc.Find(schema.Container)
		if container.Length() == 0 {
			return nil, ErrNoContainer
		}
		root = container
	}

	var hits []model.RawHit
	root.Find(schema.Result).Each(func(_ int, sel *goquery.Selection) {
		hit, ok := extractHit(sel, schema, source, now)
		if !ok {
			zap.L().Debug("parse: skipping malformed result", zap.String("source", source))
			return
		}
		hits = append(hits, hit)
	})

	return hits, nil
}

func extractHit(sel *goquery.Selection, schema Schema, source string, now time.Time) (model.RawHit, bool) {
	fields := make(map[string]string, len(schema.Fields))
	for name, selector := range schema.Fields {
		fields[name] = strings.TrimSpace(sel.Find(selector).First().Text())
	}

	rawURL := extractURL(sel, schema.URL)
	if rawURL == "" {
		return model.RawHit{}, false
	}
	if schema.URL.FilterSubstring != "" && !strings.Contains(rawURL, schema.URL.FilterSubstring) {
		return model.RawHit{}, false
	}

	for _, req := range schema.Required {
		if fields[req] == "" {
			return model.RawHit{}, false
		}
	}

	return model.RawHit{
		Source:       source,
		URL:          rawURL,
		Name:         fields["name"],
		Title:        fields["title"],
		Snippet:      fields["snippet"],
		Location:     fields["location"],
		DiscoveredAt: now,
	}, true
}

func extractURL(sel *goquery.Selection, rule URLRule) string {
	attr := rule.Attr
	if attr == "" {
		attr = "href"
	}
	raw, ok := sel.Find(rule.Selector).First().Attr(attr)
	if !ok {
		return ""
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if rule.UnwrapRedirect && strings.HasPrefix(raw, "/url?q=") {
		raw = strings.TrimPrefix(raw, "/url?q=")
	}
	if rule.StripQuery {
		if i := strings.IndexAny(raw, "?&"); i >= 0 {
			raw = raw[:i]
		}
	}
	if rule.Base != "" && !strings.HasPrefix(raw, "http") {
		raw = rule.Base + raw
	}
	return raw
}
