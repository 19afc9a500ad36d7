// Package pacing owns per-source request pacing and proxy rotation.
// One Table and one ProxyPool are constructed per pipeline run and shared
// by reference across every acquirer; neither is a process global.
package pacing

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MinInterval is the hard pacing floor. Configured intervals below it are
// raised, never lowered.
const MinInterval = 300 * time.Millisecond

// SourceRate describes pacing for one source: a fixed interval between
// requests plus an optional uniform random jitter added on top.
type SourceRate struct {
	Interval  time.Duration
	JitterMin time.Duration
	JitterMax time.Duration
}

// PerMinute converts a requests-per-minute budget into a SourceRate.
func PerMinute(rpm int) SourceRate {
	if rpm <= 0 {
		rpm = 60
	}
	return SourceRate{Interval: time.Minute / time.Duration(rpm)}
}

type sourceState struct {
	lim       *rate.Limiter
	jitterMin time.Duration
	jitterMax time.Duration
}

// Table holds one rate limiter per source name. Concurrent acquirers of the
// same source serialize through its limiter; different sources proceed
// independently.
type Table struct {
	mu       sync.Mutex
	states   map[string]*sourceState
	fallback SourceRate
}

// NewTable creates a pacing table. Sources without an explicit rate use the
// fallback rate.
func NewTable(fallback SourceRate) *Table {
	return &Table{
		states:   make(map[string]*sourceState),
		fallback: fallback,
	}
}

// SetSource registers pacing for a source name, replacing any prior state.
func (t *Table) SetSource(name string, r SourceRate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[name] = newState(r)
}

func newState(r SourceRate) *sourceState {
	interval := r.Interval
	if interval < MinInterval {
		interval = MinInterval
	}
	return &sourceState{
		lim:       rate.NewLimiter(rate.Every(interval), 1),
		jitterMin: r.JitterMin,
		jitterMax: r.JitterMax,
	}
}

func (t *Table) state(source string) *sourceState {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[source]
	if !ok {
		st = newState(t.fallback)
		t.states[source] = st
	}
	return st
}

// Wait blocks until the source's next request slot is available, then
// applies the source's jitter delay. Returns early with the context error
// on cancellation.
func (t *Table) Wait(ctx context.Context, source string) error {
	st := t.state(source)
	if err := st.lim.Wait(ctx); err != nil {
		return err
	}
	if st.jitterMax <= st.jitterMin {
		return nil
	}
	jitter := st.jitterMin + time.Duration(rand.Int64N(int64(st.jitterMax-st.jitterMin)))
	timer := time.NewTimer(jitter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
