// Package output writes the final lead list as a timestamped JSON artifact.
package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Filename returns the artifact name for a run finishing at t, e.g.
// "leads_20260823_142500.json".
func Filename(t time.Time) string {
	return "leads_" + t.Format("20060102_150405") + ".json"
}

// WriteLeads writes leads as a UTF-8 JSON array, one object per lead, into
// dir under a timestamped name, and returns the full path. An empty lead
// list still produces a file containing "[]".
func WriteLeads(dir string, leads []model.Lead, now time.Time) (string, error) {
	if leads == nil {
		leads = []model.Lead{}
	}

	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "output: marshal leads")
	}
	data = append(data, '\n')

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "output: create directory")
	}

	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrap(err, "output: write file")
	}
	return path, nil
}
