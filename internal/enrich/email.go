package enrich

import (
	"regexp"
	"strings"
)

// emailShape is the strict address pattern a candidate must match before
// it is attached to a lead.
var emailShape = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// ValidEmail reports whether addr has a plausible email shape.
func ValidEmail(addr string) bool {
	return emailShape.MatchString(addr)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// DeriveDomain guesses a company's domain: strip non-alphanumerics,
// lowercase, append ".com". A heuristic, not a DNS lookup.
func DeriveDomain(company string) string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(company), "")
	if cleaned == "" {
		return ""
	}
	return cleaned + ".com"
}

// emailCandidates generates guessed addresses from a name and domain using
// a fixed ordered pattern set. Names that don't split into at least two
// tokens yield nothing.
func emailCandidates(name, domain string) []string {
	if domain == "" {
		return nil
	}
	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return nil
	}
	first := nonAlnum.ReplaceAllString(strings.ToLower(tokens[0]), "")
	last := nonAlnum.ReplaceAllString(strings.ToLower(tokens[len(tokens)-1]), "")
	if first == "" || last == "" {
		return nil
	}

	patterns := []string{
		first + "." + last + "@" + domain,
		first[:1] + last + "@" + domain,
		first + "_" + last + "@" + domain,
		first + last[:1] + "@" + domain,
		first + "@" + domain,
	}

	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if ValidEmail(p) {
			out = append(out, p)
		}
	}
	return out
}

// unionEmails merges extra addresses into base, lowercasing and dropping
// duplicates while preserving first-seen order.
func unionEmails(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, e := range append(append([]string{}, base...), extra...) {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
