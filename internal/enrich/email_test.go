package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("john.doe@acme.com"))
	assert.True(t, ValidEmail("j_doe+tag@acme-corp.io"))
	assert.False(t, ValidEmail("john..doe@"))
	assert.False(t, ValidEmail("no-at-sign.com"))
	assert.False(t, ValidEmail("@acme.com"))
	assert.False(t, ValidEmail("john@acme"))
}

func TestDeriveDomain(t *testing.T) {
	assert.Equal(t, "acmeinc.com", DeriveDomain("Acme Inc"))
	assert.Equal(t, "oreillymedia.com", DeriveDomain("O'Reilly Media"))
	assert.Equal(t, "37signals.com", DeriveDomain("37signals"))
	assert.Equal(t, "", DeriveDomain(""))
	assert.Equal(t, "", DeriveDomain("---"))
}

func TestEmailCandidates(t *testing.T) {
	t.Run("ordered pattern set", func(t *testing.T) {
		got := emailCandidates("Jane Doe", "acme.com")
		assert.Equal(t, []string{
			"jane.doe@acme.com",
			"jdoe@acme.com",
			"jane_doe@acme.com",
			"janed@acme.com",
			"jane@acme.com",
		}, got)
	})

	t.Run("single token name yields nothing", func(t *testing.T) {
		assert.Empty(t, emailCandidates("Jane", "acme.com"))
	})

	t.Run("empty domain yields nothing", func(t *testing.T) {
		assert.Empty(t, emailCandidates("Jane Doe", ""))
	})

	t.Run("middle names use first and last tokens", func(t *testing.T) {
		got := emailCandidates("Jane Q Doe", "acme.com")
		assert.Equal(t, "jane.doe@acme.com", got[0])
	})

	t.Run("punctuation in names stripped", func(t *testing.T) {
		got := emailCandidates("Mary-Jane O'Brien", "acme.com")
		assert.Equal(t, "maryjane.obrien@acme.com", got[0])
	})
}

func TestUnionEmails(t *testing.T) {
	got := unionEmails(
		[]string{"a@x.com", "B@x.com"},
		[]string{"b@x.com", "c@x.com", "", "a@x.com"},
	)
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, got)
}
