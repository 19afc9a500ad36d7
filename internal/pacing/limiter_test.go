package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestTable_WaitEnforcesInterval(t *testing.T) {
	tbl := NewTable(SourceRate{})
	tbl.SetSource("linkedin", SourceRate{Interval: 400 * time.Millisecond})

	ctx := context.Background()
	require.NoError(t, tbl.Wait(ctx, "linkedin"))

	start := time.Now()
	require.NoError(t, tbl.Wait(ctx, "linkedin"))
	elapsed := time.Since(start)

	// Second slot must not be granted before the interval elapses
	// (small scheduler tolerance).
	assert.GreaterOrEqual(t, elapsed, 350*time.Millisecond)
}

func TestTable_SourcesIndependent(t *testing.T) {
	tbl := NewTable(SourceRate{})
	tbl.SetSource("slow", SourceRate{Interval: 2 * time.Second})
	tbl.SetSource("fast", SourceRate{Interval: MinInterval})

	ctx := context.Background()
	require.NoError(t, tbl.Wait(ctx, "slow"))

	// A different source is not held up by the slow source's interval.
	start := time.Now()
	require.NoError(t, tbl.Wait(ctx, "fast"))
	assert.Less(t, time.Since(start), time.Second)
}

func TestTable_FloorApplied(t *testing.T) {
	st := newState(SourceRate{Interval: time.Millisecond})
	assert.Equal(t, rate.Every(MinInterval), st.lim.Limit())
}

func TestTable_WaitCancellation(t *testing.T) {
	tbl := NewTable(SourceRate{})
	tbl.SetSource("src", SourceRate{Interval: 10 * time.Second})

	ctx := context.Background()
	require.NoError(t, tbl.Wait(ctx, "src"))

	cancelled, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := tbl.Wait(cancelled, "src")
	assert.Error(t, err)
}

func TestTable_FallbackForUnknownSource(t *testing.T) {
	tbl := NewTable(SourceRate{Interval: 450 * time.Millisecond})

	ctx := context.Background()
	require.NoError(t, tbl.Wait(ctx, "unregistered"))

	start := time.Now()
	require.NoError(t, tbl.Wait(ctx, "unregistered"))
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
}

func TestPerMinute(t *testing.T) {
	r := PerMinute(5)
	assert.Equal(t, 12*time.Second, r.Interval)

	// Non-positive budgets fall back to one request per second.
	r = PerMinute(0)
	assert.Equal(t, time.Second, r.Interval)
}
