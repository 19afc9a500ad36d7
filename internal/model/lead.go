// Package model defines the data types shared across the lead pipeline.
package model

import "time"

// Query is the immutable input to one pipeline run.
type Query struct {
	JobTitle     string `json:"job_title"`
	Industry     string `json:"industry"`
	Location     string `json:"location"`
	LanguageCode string `json:"language_code"`
}

// ExpandedQuery holds the bounded variant sets derived from a Query.
// Each slice is deduplicated case-insensitively and ordered by
// (length, lexical) ascending, so repeated runs are reproducible.
type ExpandedQuery struct {
	Titles     []string `json:"titles"`
	Industries []string `json:"industries"`
	Locations  []string `json:"locations"`
}

// RawHit is a single unprocessed search result from one source.
// URL is the natural dedup key.
type RawHit struct {
	Source       string    `json:"source"`
	URL          string    `json:"url"`
	Name         string    `json:"name,omitempty"`
	Title        string    `json:"title"`
	Snippet      string    `json:"snippet,omitempty"`
	Location     string    `json:"location,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// Lead is a candidate contact record. It is seeded from the first RawHit
// seen for its URL, mutated by enrichment stages, and immutable once
// handed to the aggregator.
type Lead struct {
	Name     string            `json:"name"`
	URL      string            `json:"url"`
	Title    string            `json:"title"`
	Company  string            `json:"company,omitempty"`
	Location string            `json:"location,omitempty"`
	Emails   []string          `json:"emails,omitempty"`
	Phones   []string          `json:"phones,omitempty"`
	Social   map[string]string `json:"social_profiles,omitempty"`
	Score    float64           `json:"score"`
	Source   string            `json:"source"`
}

// SeedLead creates a Lead from a RawHit, leaving enrichment fields unset.
func SeedLead(hit RawHit) Lead {
	return Lead{
		Name:     hit.Name,
		URL:      hit.URL,
		Title:    hit.Title,
		Location: hit.Location,
		Source:   hit.Source,
	}
}

// RunStatus tracks the lifecycle of a persisted run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusComplete  RunStatus = "complete"
	RunStatusCancelled RunStatus = "cancelled"
	RunStatusFailed    RunStatus = "failed"
)

// RunResult summarizes one pipeline run for persistence and reporting.
type RunResult struct {
	RawHits      int           `json:"raw_hits"`
	UniqueLeads  int           `json:"unique_leads"`
	Enriched     int           `json:"enriched"`
	SourceErrors int           `json:"source_errors"`
	Elapsed      time.Duration `json:"elapsed"`
}
