package source

import "strings"

// CaptchaSelector marks an explicit challenge element on a rendered page.
const CaptchaSelector = "#captcha"

// blockingPhrases are the interstitial markers search sources serve when a
// client is throttled or challenged. Matched case-insensitively.
var blockingPhrases = []string{
	"security check",
	"captcha",
	"verification",
	"too many requests",
	"restricted",
	"blocked",
}

// BlockedMarkup scans markup for a blocking phrase and returns the first
// one found.
func BlockedMarkup(markup string) (string, bool) {
	lower := strings.ToLower(markup)
	for _, phrase := range blockingPhrases {
		if strings.Contains(lower, phrase) {
			return phrase, true
		}
	}
	return "", false
}
