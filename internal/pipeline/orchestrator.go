// Package pipeline coordinates one lead generation run: expansion,
// concurrent multi-source acquisition, merge/dedup, enrichment, and
// ranking.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/aggregate"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/expand"
	"github.com/sells-group/leadgen-cli/internal/locale"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/internal/source"
)

// State names the orchestrator's position in a run.
type State string

const (
	StateIdle        State = "idle"
	StateExpanding   State = "expanding"
	StateDispatching State = "dispatching"
	StateMerging     State = "merging"
	StateDone        State = "done"
)

// Config assembles one run's collaborators and limits.
type Config struct {
	Expander *expand.Expander
	Sources  []source.Acquirer
	Enricher *enrich.Enricher
	Lang     locale.Language

	// Regions lists the country codes searched, one sequential pass each.
	// Empty means a single pass with no region hint.
	Regions []string

	// Retry governs per-acquisition retries. Zero value gets the standard
	// acquisition policy.
	Retry resilience.Policy

	// MaxParallel caps concurrent source acquisitions within one region.
	// Zero means one per source.
	MaxParallel int

	// EnrichParallel caps concurrent lead enrichments. Zero means 8.
	EnrichParallel int

	// MaxResults truncates the merged seed list. Zero means unlimited.
	MaxResults int

	// Cache memoizes acquisition results within and across runs of the same
	// orchestrator. Nil disables caching.
	Cache *QueryCache
}

// Orchestrator drives the pipeline state machine. One orchestrator runs one
// query at a time.
type Orchestrator struct {
	cfg Config

	mu    sync.Mutex
	state State
}

// New creates an orchestrator.
func New(cfg Config) *Orchestrator {
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = resilience.AcquisitionPolicy()
	}
	cfg.Retry.ShouldRetry = source.Retryable
	if cfg.EnrichParallel <= 0 {
		cfg.EnrichParallel = 8
	}
	return &Orchestrator{cfg: cfg, state: StateIdle}
}

// State returns the orchestrator's current phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	zap.L().Debug("pipeline: state transition", zap.String("state", string(s)))
}

// Run executes the full pipeline for one query. Per-source failures are
// downgraded to zero results from that source; Run fails only when the
// context is cancelled, and even then it returns whatever leads were
// already merged and enriched.
func (o *Orchestrator) Run(ctx context.Context, q model.Query) ([]model.Lead, model.RunResult, error) {
	started := time.Now()

	o.setState(StateExpanding)
	expanded := o.cfg.Expander.Expand(q)
	zap.L().Info("pipeline: query expanded",
		zap.Int("titles", len(expanded.Titles)),
		zap.Int("industries", len(expanded.Industries)),
		zap.Int("locations", len(expanded.Locations)),
	)

	o.setState(StateDispatching)
	batches, sourceErrors := o.dispatch(ctx, q, expanded)

	o.setState(StateMerging)
	seeds, rawHits := o.merge(batches)

	enriched, enrichedCount := o.enrichAll(ctx, seeds)
	leads := aggregate.Rank(enriched)

	o.setState(StateDone)
	result := model.RunResult{
		RawHits:      rawHits,
		UniqueLeads:  len(seeds),
		Enriched:     enrichedCount,
		SourceErrors: sourceErrors,
		Elapsed:      time.Since(started),
	}
	zap.L().Info("pipeline: run finished",
		zap.Int("raw_hits", result.RawHits),
		zap.Int("unique_leads", result.UniqueLeads),
		zap.Int("source_errors", result.SourceErrors),
		zap.Duration("elapsed", result.Elapsed),
	)

	return leads, result, ctx.Err()
}

// dispatch runs each region sequentially and all sources within a region
// in parallel, bounded by MaxParallel. The returned batches preserve
// dispatch order (region-major, then source list order) regardless of
// completion order, so the downstream merge is deterministic.
func (o *Orchestrator) dispatch(ctx context.Context, q model.Query, expanded model.ExpandedQuery) ([][]model.RawHit, int) {
	regions := o.cfg.Regions
	if len(regions) == 0 {
		regions = []string{""}
	}

	batches := make([][]model.RawHit, len(regions)*len(o.cfg.Sources))
	var (
		errMu        sync.Mutex
		sourceErrors int
	)

	for ri, region := range regions {
		if ctx.Err() != nil {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		if o.cfg.MaxParallel > 0 {
			g.SetLimit(o.cfg.MaxParallel)
		}

		for si, acq := range o.cfg.Sources {
			slot := ri*len(o.cfg.Sources) + si
			req := source.Request{
				Query:       q,
				Expanded:    expanded,
				Lang:        o.cfg.Lang,
				CountryCode: region,
			}
			g.Go(func() error {
				hits, err := o.acquire(gctx, acq, req)
				batches[slot] = hits
				if err != nil {
					errMu.Lock()
					sourceErrors++
					errMu.Unlock()
					zap.L().Warn("pipeline: source exhausted retries",
						zap.String("source", acq.Name()),
						zap.String("region", region),
						zap.Error(err),
					)
				}
				// Per-source failures never abort the group.
				return nil
			})
		}
		_ = g.Wait()
	}

	return batches, sourceErrors
}

// acquire runs one source acquisition under the retry policy, keeping hits
// gathered by failed attempts, and consulting the query cache first.
func (o *Orchestrator) acquire(ctx context.Context, acq source.Acquirer, req source.Request) ([]model.RawHit, error) {
	key := cacheKey(acq.Name(), req)
	if o.cfg.Cache != nil {
		if hits, ok := o.cfg.Cache.Get(key); ok {
			zap.L().Debug("pipeline: cache hit", zap.String("source", acq.Name()))
			return hits, nil
		}
	}

	var collected []model.RawHit
	policy := o.cfg.Retry
	policy.OnRetry = resilience.RetryLogger(acq.Name(), "acquire")

	err := resilience.Do(ctx, policy, func(ctx context.Context) error {
		hits, err := acq.Acquire(ctx, req)
		collected = append(collected, hits...)
		return err
	})

	if err == nil && o.cfg.Cache != nil {
		o.cfg.Cache.Put(key, collected)
	}
	return collected, err
}

func cacheKey(sourceName string, req source.Request) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		sourceName, req.CountryCode, req.Lang.Code,
		req.Query.JobTitle, req.Query.Industry, req.Query.Location)
}

// merge flattens batches in dispatch order and deduplicates by URL,
// first occurrence winning.
func (o *Orchestrator) merge(batches [][]model.RawHit) ([]model.Lead, int) {
	seen := make(map[string]bool)
	var seeds []model.Lead
	rawHits := 0

	for _, batch := range batches {
		for _, hit := range batch {
			rawHits++
			if hit.URL == "" || seen[hit.URL] {
				continue
			}
			seen[hit.URL] = true
			seeds = append(seeds, model.SeedLead(hit))
		}
	}

	if o.cfg.MaxResults > 0 && len(seeds) > o.cfg.MaxResults {
		seeds = seeds[:o.cfg.MaxResults]
	}
	return seeds, rawHits
}

// enrichAll enriches distinct leads in parallel. On cancellation the
// remaining leads pass through as plain seeds so the run still returns
// everything merged so far.
func (o *Orchestrator) enrichAll(ctx context.Context, seeds []model.Lead) ([]model.Lead, int) {
	if o.cfg.Enricher == nil || len(seeds) == 0 {
		return seeds, 0
	}

	out := make([]model.Lead, len(seeds))
	copy(out, seeds)

	var (
		countMu  sync.Mutex
		enriched int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.EnrichParallel)
	for i := range seeds {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			lead, _ := o.cfg.Enricher.Enrich(gctx, seeds[i])
			out[i] = lead
			countMu.Lock()
			enriched++
			countMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out, enriched
}
