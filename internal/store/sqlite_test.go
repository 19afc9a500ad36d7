package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testQuery() model.Query {
	return model.Query{JobTitle: "Manager", Industry: "fintech", Location: "Berlin, Germany"}
}

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testQuery())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, testQuery(), got.Query)
	assert.Nil(t, got.Result)
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinishRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testQuery())
	require.NoError(t, err)

	result := model.RunResult{RawHits: 12, UniqueLeads: 7, Enriched: 7, SourceErrors: 1}
	require.NoError(t, s.FinishRun(ctx, run.ID, model.RunStatusComplete, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 7, got.Result.UniqueLeads)
}

func TestUpdateRunStatus_UnknownRun(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateRunStatus(context.Background(), "ghost", model.RunStatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAndLoadLeads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testQuery())
	require.NoError(t, err)

	leads := []model.Lead{
		{Name: "Jane Doe", URL: "https://x/in/jdoe", Title: "CEO", Score: 0.9, Source: "linkedin",
			Emails: []string{"jane.doe@acme.com"}},
		{Name: "John Smith", URL: "https://x/in/jsmith", Title: "Manager", Score: 0.7, Source: "google"},
	}
	require.NoError(t, s.SaveLeads(ctx, run.ID, leads))

	got, err := s.LeadsForRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, leads[0], got[0])
	assert.Equal(t, leads[1], got[1])
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, testQuery())
	require.NoError(t, err)
	second, err := s.CreateRun(ctx, model.Query{JobTitle: "CTO", Location: "Tokyo"})
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}
