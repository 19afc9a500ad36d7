package expand

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func TestExpand_Deterministic(t *testing.T) {
	e := New(3)
	q := model.Query{JobTitle: "Senior Manager", Industry: "technology", Location: "Berlin, Germany"}

	first := e.Expand(q)
	second := e.Expand(q)

	assert.Equal(t, first, second)
	assert.LessOrEqual(t, len(first.Titles), 3)
	assert.LessOrEqual(t, len(first.Industries), 3)
	assert.LessOrEqual(t, len(first.Locations), 3)
}

func TestExpand_TitleOrdering(t *testing.T) {
	e := New(3)
	out := e.Expand(model.Query{JobTitle: "Senior Manager", Industry: "x", Location: "x"})

	// Shortest variants first, lexical tiebreak: the manager bucket
	// contributes "head" and "lead" ahead of the base title.
	assert.Equal(t, []string{"head", "lead", "manager"}, out.Titles)
}

func TestExpand_TitleHyphenVariants(t *testing.T) {
	e := New(50)
	out := e.Expand(model.Query{JobTitle: "growth hacker", Industry: "x", Location: "x"})

	assert.Contains(t, out.Titles, "growth-hacker")
	assert.Contains(t, out.Titles, "growthhacker")
	assert.Contains(t, out.Titles, "lead hacker")
	assert.Contains(t, out.Titles, "hacker manager")
}

func TestExpand_ChiefExcludedForCLevel(t *testing.T) {
	e := New(200)
	out := e.Expand(model.Query{JobTitle: "ceo", Industry: "x", Location: "x"})

	assert.Contains(t, out.Titles, "senior ceo")
	assert.NotContains(t, out.Titles, "chief ceo")
	assert.NotContains(t, out.Titles, "chief cto")
	assert.Contains(t, out.Titles, "chief founder")
}

func TestExpand_IndustrySynonyms(t *testing.T) {
	e := New(50)
	out := e.Expand(model.Query{JobTitle: "x", Industry: "fintech", Location: "x"})

	// "fintech" appears in both technology and finance synonym sets,
	// so both buckets are unioned in.
	assert.Contains(t, out.Industries, "banking")
	assert.Contains(t, out.Industries, "saas")
}

func TestExpand_IndustryPunctuationVariants(t *testing.T) {
	e := New(50)
	out := e.Expand(model.Query{JobTitle: "x", Industry: "real estate", Location: "x"})

	assert.Contains(t, out.Industries, "real-estate")
	assert.Contains(t, out.Industries, "realestate")
}

func TestExpand_LocationCityCountrySplit(t *testing.T) {
	e := New(10)
	out := e.Expand(model.Query{JobTitle: "x", Industry: "x", Location: "Berlin, Germany"})

	assert.Contains(t, out.Locations, "Berlin")
	assert.Contains(t, out.Locations, "Germany")
	assert.Contains(t, out.Locations, "Berlin Germany")
}

func TestExpand_LocationUSFamily(t *testing.T) {
	e := New(10)
	out := e.Expand(model.Query{JobTitle: "x", Industry: "x", Location: "Austin, USA"})

	assert.Contains(t, out.Locations, "us")
	assert.Contains(t, out.Locations, "america")
	assert.Contains(t, out.Locations, "united states")
}

func TestExpand_LocationInitials(t *testing.T) {
	e := New(10)
	out := e.Expand(model.Query{JobTitle: "x", Industry: "x", Location: "New York"})

	assert.Contains(t, out.Locations, "NY")
}

func TestExpand_LocationInitialsMultibyte(t *testing.T) {
	e := New(10)
	out := e.Expand(model.Query{JobTitle: "x", Industry: "x", Location: "Århus Kommune"})

	assert.Contains(t, out.Locations, "ÅK")
	for _, l := range out.Locations {
		assert.True(t, utf8.ValidString(l), l)
	}
}

func TestExpand_CaseInsensitiveDedup(t *testing.T) {
	e := New(10)
	out := e.Expand(model.Query{JobTitle: "x", Industry: "x", Location: "UK"})

	// "UK" literal and the family's "uk" must collapse to one entry.
	lower := 0
	for _, l := range out.Locations {
		if l == "uk" || l == "UK" {
			lower++
		}
	}
	assert.Equal(t, 1, lower)
}

func TestNew_DepthFallback(t *testing.T) {
	e := New(0)
	require.Equal(t, DefaultDepth, e.depth)
}
