// Package aggregate orders enriched leads for output.
package aggregate

import (
	"sort"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Rank returns the leads sorted by score descending. The sort is stable, so
// ties keep their original merge order. No leads are dropped; score
// filtering is caller policy.
func Rank(leads []model.Lead) []model.Lead {
	out := make([]model.Lead, len(leads))
	copy(out, leads)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
