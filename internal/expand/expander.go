// Package expand turns a single (title, industry, location) query into
// bounded, deterministic sets of search variants.
package expand

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// DefaultDepth bounds each variant set when no depth is configured.
const DefaultDepth = 3

// Expander generates query variants up to a fixed depth per dimension.
type Expander struct {
	depth int
}

// New creates an Expander. A non-positive depth falls back to DefaultDepth.
func New(depth int) *Expander {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Expander{depth: depth}
}

// Expand derives title, industry, and location variants from the query.
// Each output is deduplicated case-insensitively, sorted by (length,
// lexical) ascending, and truncated to the configured depth. The ordering
// is deliberate: shorter, more general variants dispatch first and the
// output is stable across runs.
func (e *Expander) Expand(q model.Query) model.ExpandedQuery {
	return model.ExpandedQuery{
		Titles:     e.bound(expandTitles(strings.ToLower(q.JobTitle))),
		Industries: e.bound(expandIndustries(strings.ToLower(q.Industry))),
		Locations:  e.bound(expandLocation(q.Location)),
	}
}

func (e *Expander) bound(variants []string) []string {
	seen := make(map[string]bool, len(variants))
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i] < out[j]
	})
	if len(out) > e.depth {
		out = out[:e.depth]
	}
	return out
}

func expandTitles(title string) []string {
	variants := []string{title}

	if strings.Contains(title, " ") {
		variants = append(variants,
			strings.ReplaceAll(title, " ", "-"),
			strings.ReplaceAll(title, " ", ""),
		)
	}

	// Pull in the whole bucket when the title matches any variant.
	for _, bucket := range roleHierarchy {
		matched := false
		for _, v := range bucket {
			if strings.Contains(title, v) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, v := range bucket {
			variants = append(variants, v, "senior "+v)
			if !cLevelTitles[v] {
				variants = append(variants, "chief "+v)
			}
		}
	}

	// Prefix/suffix combinations on the head noun.
	words := strings.Fields(title)
	if len(words) > 0 {
		head := words[len(words)-1]
		for _, p := range titlePrefixes {
			variants = append(variants, p+" "+head)
		}
		for _, s := range titleSuffixes {
			variants = append(variants, head+" "+s)
		}
	}

	return variants
}

func expandIndustries(industry string) []string {
	variants := []string{industry}

	if strings.Contains(industry, " ") {
		variants = append(variants,
			strings.ReplaceAll(industry, " ", "-"),
			strings.ReplaceAll(industry, " ", ""),
		)
	}

	for canonical, synonyms := range industrySynonyms {
		matched := canonical == industry
		for _, syn := range synonyms {
			if strings.Contains(industry, strings.ToLower(syn)) {
				matched = true
				break
			}
		}
		if matched {
			variants = append(variants, synonyms...)
		}
	}

	return variants
}

func expandLocation(location string) []string {
	variants := []string{location}

	if city, country, ok := strings.Cut(location, ", "); ok {
		variants = append(variants, city, country, city+" "+country)
	}

	lower := strings.ToLower(location)
	switch {
	case strings.Contains(lower, "usa") || strings.Contains(lower, "united states"):
		variants = append(variants, "us", "united states", "america", "usa")
	case strings.Contains(lower, "uk") || strings.Contains(lower, "united kingdom"):
		variants = append(variants, "united kingdom", "great britain", "england", "gb", "uk")
	}

	// Initials abbreviation for multi-word locations ("New York" -> "NY").
	words := strings.Fields(location)
	if len(words) > 1 {
		var b strings.Builder
		for _, w := range words {
			r, _ := utf8.DecodeRuneInString(w)
			b.WriteRune(r)
		}
		variants = append(variants, strings.ToUpper(b.String()))
	}

	return variants
}
