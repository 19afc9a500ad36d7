// Package enrich turns seeded leads into scored contact records through a
// chain of best-effort stages. Every stage fails open: an error leaves the
// lead's prior values intact and is recorded in the stage report, never
// raised to the caller.
package enrich

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/pkg/clearbit"
	"github.com/sells-group/leadgen-cli/pkg/fullcontact"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/mailboxlayer"
	"github.com/sells-group/leadgen-cli/pkg/twiliolookup"
)

// Config wires the optional enrichment collaborators. A nil client disables
// its stage silently.
type Config struct {
	Emails    hunter.Client
	Verifier  mailboxlayer.Client
	Companies clearbit.Client
	Social    fullcontact.Client
	Phones    twiliolookup.Client

	// VerifyEmails gates the verification stage even when a verifier is
	// configured.
	VerifyEmails bool

	// Retry applies to external API calls. Zero value gets defaults.
	Retry resilience.Policy
}

// Enricher runs the stage chain. Safe for concurrent use; distinct leads
// enrich independently.
type Enricher struct {
	cfg   Config
	title cases.Caser
}

// New builds an Enricher.
func New(cfg Config) *Enricher {
	return &Enricher{cfg: cfg, title: cases.Title(language.Und)}
}

// Enrich runs every stage over the lead and returns the enriched copy with
// a per-stage report. It never returns an error.
func (e *Enricher) Enrich(ctx context.Context, lead model.Lead) (model.Lead, Report) {
	var report Report

	e.deriveFields(&lead, &report)

	domain := e.deriveDomain(&lead, &report)
	e.emailCandidates(&lead, domain, &report)
	e.emailLookup(ctx, &lead, domain, &report)
	e.emailVerify(ctx, &lead, &report)
	e.company(ctx, &lead, domain, &report)
	e.social(ctx, &lead, &report)
	e.phones(ctx, &lead, &report)
	e.score(&lead, &report)
	e.normalize(&lead, &report)

	return lead, report
}

// deriveFields fills name/title/company from a combined hit title of the
// "Name - Title - Company" or "Title at Company" shape that indirect
// sources produce.
func (e *Enricher) deriveFields(lead *model.Lead, report *Report) {
	const stage = "derive_fields"
	changed := false

	if lead.Name == "" {
		if segments := splitSegments(lead.Title); len(segments) >= 2 {
			lead.Name = segments[0]
			lead.Title = segments[1]
			if lead.Company == "" && len(segments) >= 3 {
				lead.Company = segments[2]
			}
			changed = true
		}
	}
	if lead.Company == "" {
		if _, after, found := strings.Cut(lead.Title, " at "); found && strings.TrimSpace(after) != "" {
			lead.Company = strings.TrimSpace(after)
			changed = true
		}
	}

	if changed {
		report.applied(stage)
	} else {
		report.skipped(stage)
	}
}

func splitSegments(title string) []string {
	parts := strings.Split(title, " - ")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (e *Enricher) deriveDomain(lead *model.Lead, report *Report) string {
	const stage = "domain"
	domain := DeriveDomain(lead.Company)
	if domain == "" {
		report.skipped(stage)
	} else {
		report.applied(stage)
	}
	return domain
}

func (e *Enricher) emailCandidates(lead *model.Lead, domain string, report *Report) {
	const stage = "email_candidates"
	candidates := emailCandidates(lead.Name, domain)
	if len(candidates) == 0 {
		report.skipped(stage)
		return
	}
	lead.Emails = unionEmails(lead.Emails, candidates)
	report.applied(stage)
}

func (e *Enricher) emailLookup(ctx context.Context, lead *model.Lead, domain string, report *Report) {
	const stage = "email_lookup"
	if e.cfg.Emails == nil || domain == "" {
		report.skipped(stage)
		return
	}

	found, err := resilience.DoVal(ctx, e.cfg.Retry, func(ctx context.Context) ([]string, error) {
		return e.cfg.Emails.DomainSearch(ctx, domain)
	})
	if err != nil {
		e.fail(report, stage, classify(stage, err))
		return
	}
	if len(found) == 0 {
		report.skipped(stage)
		return
	}
	lead.Emails = unionEmails(lead.Emails, found)
	report.applied(stage)
}

// emailVerify drops addresses the verifier rejects. Verifier errors fail
// open: the address is kept rather than discarded on an outage.
func (e *Enricher) emailVerify(ctx context.Context, lead *model.Lead, report *Report) {
	const stage = "email_verify"
	if !e.cfg.VerifyEmails || e.cfg.Verifier == nil || len(lead.Emails) == 0 {
		report.skipped(stage)
		return
	}

	kept := make([]string, 0, len(lead.Emails))
	var lastErr error
	for _, addr := range lead.Emails {
		ok, err := e.cfg.Verifier.Verify(ctx, addr)
		if err != nil {
			lastErr = err
			kept = append(kept, addr)
			continue
		}
		if ok {
			kept = append(kept, addr)
		}
	}
	lead.Emails = kept

	if lastErr != nil {
		e.fail(report, stage, classify(stage, lastErr))
		return
	}
	report.applied(stage)
}

func (e *Enricher) company(ctx context.Context, lead *model.Lead, domain string, report *Report) {
	const stage = "company"
	if e.cfg.Companies == nil || lead.Company != "" || domain == "" {
		report.skipped(stage)
		return
	}

	found, err := resilience.DoVal(ctx, e.cfg.Retry, func(ctx context.Context) (clearbit.Company, error) {
		return e.cfg.Companies.Find(ctx, domain)
	})
	if err != nil {
		if errors.Is(err, clearbit.ErrNotFound) {
			report.skipped(stage)
			return
		}
		e.fail(report, stage, classify(stage, err))
		return
	}
	lead.Company = found.Name
	report.applied(stage)
}

func (e *Enricher) social(ctx context.Context, lead *model.Lead, report *Report) {
	const stage = "social"
	if e.cfg.Social == nil || lead.Name == "" || lead.Company == "" {
		report.skipped(stage)
		return
	}

	profiles, err := resilience.DoVal(ctx, e.cfg.Retry, func(ctx context.Context) (map[string]string, error) {
		return e.cfg.Social.SocialProfiles(ctx, fullcontact.Person{
			FullName: lead.Name,
			Company:  lead.Company,
		})
	})
	if err != nil {
		if errors.Is(err, fullcontact.ErrNotFound) {
			report.skipped(stage)
			return
		}
		e.fail(report, stage, classify(stage, err))
		return
	}
	if len(profiles) == 0 {
		report.skipped(stage)
		return
	}

	if lead.Social == nil {
		lead.Social = make(map[string]string, len(profiles))
	}
	for network, u := range profiles {
		if _, exists := lead.Social[network]; !exists {
			lead.Social[network] = u
		}
	}
	report.applied(stage)
}

// phones drops numbers the validator explicitly rejects and keeps the rest
// in validated E.164 form. Transport failures fail open.
func (e *Enricher) phones(ctx context.Context, lead *model.Lead, report *Report) {
	const stage = "phones"
	if e.cfg.Phones == nil || len(lead.Phones) == 0 {
		report.skipped(stage)
		return
	}

	kept := make([]string, 0, len(lead.Phones))
	var lastErr error
	for _, p := range lead.Phones {
		e164, err := e.cfg.Phones.Lookup(ctx, p)
		if err != nil {
			if errors.Is(err, twiliolookup.ErrInvalidNumber) {
				continue
			}
			lastErr = err
			kept = append(kept, p)
			continue
		}
		kept = append(kept, e164)
	}
	lead.Phones = kept

	if lastErr != nil {
		e.fail(report, stage, classify(stage, lastErr))
		return
	}
	report.applied(stage)
}

func (e *Enricher) score(lead *model.Lead, report *Report) {
	lead.Score = Score(lead.Name, lead.Title)
	report.applied("score")
}

// Score computes the lead quality score: base 0.5, +0.2 for a multi-token
// name, +0.2 for a senior-role title keyword else +0.15 for an owner-type
// keyword, clamped to [0, 1].
func Score(name, title string) float64 {
	score := 0.5
	if len(strings.Fields(name)) >= 2 {
		score += 0.2
	}
	lower := strings.ToLower(title)
	switch {
	case containsAny(lower, "manager", "director", "vp", "ceo"):
		score += 0.2
	case containsAny(lower, "founder", "owner", "principal"):
		score += 0.15
	}
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (e *Enricher) normalize(lead *model.Lead, report *Report) {
	lead.Name = e.title.String(lead.Name)
	for i, p := range lead.Phones {
		lead.Phones[i] = normalizePhone(p)
	}
	for i, addr := range lead.Emails {
		lead.Emails[i] = strings.ToLower(addr)
	}
	report.applied("normalize")
}

// normalizePhone strips everything but digits and a leading plus.
func normalizePhone(p string) string {
	var b strings.Builder
	for i, r := range p {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (e *Enricher) fail(report *Report, stage string, err *EnrichmentError) {
	zap.L().Warn("enrich: stage failed open",
		zap.String("stage", stage),
		zap.String("kind", string(err.Kind)),
		zap.Error(err.Err),
	)
	report.failed(stage, err)
}
