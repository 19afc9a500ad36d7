package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegions(t *testing.T) {
	t.Run("named region", func(t *testing.T) {
		codes, err := Regions("europe")
		require.NoError(t, err)
		assert.Contains(t, codes, "de")
		assert.Contains(t, codes, "gb")
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		codes, err := Regions("  Oceania ")
		require.NoError(t, err)
		assert.Equal(t, []string{"au", "nz"}, codes)
	})

	t.Run("all regions in stable order", func(t *testing.T) {
		a, err := Regions("all")
		require.NoError(t, err)
		b, err := Regions("")
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Equal(t, "za", a[0]) // africa sorts first
	})

	t.Run("unknown region", func(t *testing.T) {
		_, err := Regions("atlantis")
		assert.Error(t, err)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		codes, err := Regions("oceania")
		require.NoError(t, err)
		codes[0] = "xx"
		again, err := Regions("oceania")
		require.NoError(t, err)
		assert.Equal(t, "au", again[0])
	})
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 7)
	assert.IsIncreasing(t, names)
}
