package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/pkg/clearbit"
	"github.com/sells-group/leadgen-cli/pkg/fullcontact"
	"github.com/sells-group/leadgen-cli/pkg/twiliolookup"
)

type stubHunter struct {
	emails []string
	err    error
}

func (s *stubHunter) DomainSearch(context.Context, string) ([]string, error) {
	return s.emails, s.err
}

type stubVerifier struct {
	valid map[string]bool
	err   error
}

func (s *stubVerifier) Verify(_ context.Context, email string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.valid[email], nil
}

type stubClearbit struct {
	company clearbit.Company
	err     error
}

func (s *stubClearbit) Find(context.Context, string) (clearbit.Company, error) {
	return s.company, s.err
}

type stubFullContact struct {
	profiles map[string]string
	err      error
	got      fullcontact.Person
}

func (s *stubFullContact) SocialProfiles(_ context.Context, p fullcontact.Person) (map[string]string, error) {
	s.got = p
	return s.profiles, s.err
}

type stubTwilio struct {
	invalid map[string]bool
	err     error
}

func (s *stubTwilio) Lookup(_ context.Context, phone string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.invalid[phone] {
		return "", twiliolookup.ErrInvalidNumber
	}
	return phone, nil
}

func fastRetry() resilience.Policy {
	return resilience.Policy{MaxAttempts: 1, InitialBackoff: time.Millisecond}
}

func TestEnrich_NoAPIKeys_PatternGuessedEmailsOnly(t *testing.T) {
	e := New(Config{Retry: fastRetry()})

	lead, report := e.Enrich(context.Background(), model.Lead{
		Name:    "Jane Doe",
		Title:   "Director of Engineering",
		Company: "Acme Inc",
		URL:     "https://x/in/jdoe",
	})

	assert.Equal(t, []string{
		"jane.doe@acmeinc.com",
		"jdoe@acmeinc.com",
		"jane_doe@acmeinc.com",
		"janed@acmeinc.com",
		"jane@acmeinc.com",
	}, lead.Emails)
	assert.InDelta(t, 0.9, lead.Score, 1e-9)

	for _, stage := range []string{"email_lookup", "email_verify", "company", "social", "phones"} {
		outcome, ok := report.Outcome(stage)
		require.True(t, ok, stage)
		assert.Equal(t, OutcomeSkipped, outcome, stage)
	}
}

func TestEnrich_DerivesFieldsFromCombinedTitle(t *testing.T) {
	e := New(Config{Retry: fastRetry()})

	lead, report := e.Enrich(context.Background(), model.Lead{
		Title: "John Smith - Engineering Manager - Globex",
	})

	assert.Equal(t, "John Smith", lead.Name)
	assert.Equal(t, "Engineering Manager", lead.Title)
	assert.Equal(t, "Globex", lead.Company)
	assert.Contains(t, lead.Emails, "john.smith@globex.com")

	outcome, _ := report.Outcome("derive_fields")
	assert.Equal(t, OutcomeApplied, outcome)
}

func TestEnrich_CompanyFromAtSuffix(t *testing.T) {
	e := New(Config{Retry: fastRetry()})

	lead, _ := e.Enrich(context.Background(), model.Lead{
		Name:  "Zhang Wei",
		Title: "Manager at Initech",
	})
	assert.Equal(t, "Initech", lead.Company)
}

func TestEnrich_EmailLookupUnion(t *testing.T) {
	e := New(Config{
		Emails: &stubHunter{emails: []string{"Jane.Doe@acmeinc.com", "hr@acmeinc.com"}},
		Retry:  fastRetry(),
	})

	lead, report := e.Enrich(context.Background(), model.Lead{
		Name: "Jane Doe", Title: "CEO", Company: "Acme Inc",
	})

	// Guessed candidates first, provider results unioned after, all
	// lowercased, no duplicates.
	assert.Equal(t, "jane.doe@acmeinc.com", lead.Emails[0])
	assert.Contains(t, lead.Emails, "hr@acmeinc.com")
	assert.Len(t, lead.Emails, 6)

	outcome, _ := report.Outcome("email_lookup")
	assert.Equal(t, OutcomeApplied, outcome)
}

func TestEnrich_EmailLookupFailureFailsOpen(t *testing.T) {
	e := New(Config{
		Emails: &stubHunter{err: errors.New("api down")},
		Retry:  fastRetry(),
	})

	lead, report := e.Enrich(context.Background(), model.Lead{
		Name: "Jane Doe", Title: "CEO", Company: "Acme Inc",
	})

	// Guessed candidates survive the provider outage.
	assert.Len(t, lead.Emails, 5)
	outcome, _ := report.Outcome("email_lookup")
	assert.Equal(t, OutcomeFailed, outcome)
}

func TestEnrich_VerificationDropsRejectedKeepsOnError(t *testing.T) {
	t.Run("rejected addresses dropped", func(t *testing.T) {
		e := New(Config{
			Verifier:     &stubVerifier{valid: map[string]bool{"jane.doe@acmeinc.com": true}},
			VerifyEmails: true,
			Retry:        fastRetry(),
		})
		lead, _ := e.Enrich(context.Background(), model.Lead{
			Name: "Jane Doe", Title: "CEO", Company: "Acme Inc",
		})
		assert.Equal(t, []string{"jane.doe@acmeinc.com"}, lead.Emails)
	})

	t.Run("verifier outage fails open", func(t *testing.T) {
		e := New(Config{
			Verifier:     &stubVerifier{err: errors.New("timeout")},
			VerifyEmails: true,
			Retry:        fastRetry(),
		})
		lead, report := e.Enrich(context.Background(), model.Lead{
			Name: "Jane Doe", Title: "CEO", Company: "Acme Inc",
		})
		assert.Len(t, lead.Emails, 5)
		outcome, _ := report.Outcome("email_verify")
		assert.Equal(t, OutcomeFailed, outcome)
	})
}

func TestEnrich_CompanyLookupFillsMissingCompany(t *testing.T) {
	// Company empty but derivable domain absent: stage skipped.
	e := New(Config{
		Companies: &stubClearbit{company: clearbit.Company{Name: "Acme Inc"}},
		Retry:     fastRetry(),
	})
	lead, report := e.Enrich(context.Background(), model.Lead{Name: "Jane Doe", Title: "CEO"})
	assert.Empty(t, lead.Company)
	outcome, _ := report.Outcome("company")
	assert.Equal(t, OutcomeSkipped, outcome)
}

func TestEnrich_SocialProfilesQueriedByNameAndCompany(t *testing.T) {
	fc := &stubFullContact{profiles: map[string]string{"twitter": "https://twitter.com/jane"}}
	e := New(Config{Social: fc, Retry: fastRetry()})

	lead, _ := e.Enrich(context.Background(), model.Lead{
		Name: "Jane Doe", Title: "CEO", Company: "Acme Inc",
	})

	assert.Equal(t, "Jane Doe", fc.got.FullName)
	assert.Equal(t, "Acme Inc", fc.got.Company)
	assert.Equal(t, "https://twitter.com/jane", lead.Social["twitter"])
}

func TestEnrich_PhoneValidation(t *testing.T) {
	e := New(Config{
		Phones: &stubTwilio{invalid: map[string]bool{"+10000000000": true}},
		Retry:  fastRetry(),
	})

	lead, _ := e.Enrich(context.Background(), model.Lead{
		Name:   "Jane Doe",
		Title:  "CEO",
		Phones: []string{"+4915112345678", "+10000000000"},
	})
	assert.Equal(t, []string{"+4915112345678"}, lead.Phones)
}

func TestEnrich_Normalization(t *testing.T) {
	e := New(Config{Retry: fastRetry()})

	lead, _ := e.Enrich(context.Background(), model.Lead{
		Name:   "jane doe",
		Title:  "assistant",
		Phones: []string{"+49 (151) 123-45678"},
	})

	assert.Equal(t, "Jane Doe", lead.Name)
	assert.Equal(t, []string{"+4915112345678"}, lead.Phones)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name, title string
		want        float64
	}{
		{"Jane Doe", "Director of Engineering", 0.9},
		{"Jane", "Assistant", 0.5},
		{"Jane Doe", "Founder", 0.85},
		{"Jane Doe", "Assistant", 0.7},
		{"Jane", "CEO", 0.7},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Score(tt.name, tt.title), 1e-9, "%s/%s", tt.name, tt.title)
	}
}
