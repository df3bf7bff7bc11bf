// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

/*
Package source defines external catalog integrations and the per-work mapping
state the aggregation engine maintains against them.

# Entities

  - [Source]: an admin-managed integration record (Shikimori, a scraper, a
    manual feed). Read-only to the aggregation engine.
  - [WorkSource]: the state record "this work originates from / is mirrored at
    this source". The (sourceID, externalID) pair is unique and maps to at
    most one work — it is the idempotency anchor for imports.
*/
package source

import "time"

// Kind describes how a source is integrated.
type Kind string

const (
	KindAPI     Kind = "api"
	KindScraper Kind = "scraper"
	KindManual  Kind = "manual"
)

// Source is an external third-party catalog integration.
type Source struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
	BaseURL string  `json:"base_url"`
	APIURL  *string `json:"api_url"`
	Kind    Kind    `json:"kind"`

	// IsActive gates the aggregation engine: imports and syncs against a
	// disabled source are rejected before any network call.
	IsActive bool `json:"is_active"`

	// Config holds free-form, source-specific settings (rate caps, API keys).
	Config map[string]any `json:"config"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkSource records that a work is mirrored at a source under a given
// external identifier. Created on first import, mutated on every sync,
// never created twice for the same (sourceID, externalID) pair.
type WorkSource struct {
	ID         string `json:"id"`
	WorkID     string `json:"work_id"`
	SourceID   string `json:"source_id"`
	ExternalID string `json:"external_id"`

	ExternalURL         string   `json:"external_url"`
	ExternalRating      *float64 `json:"external_rating"`
	ExternalRatingCount *int     `json:"external_rating_count"`

	// Metadata retains source-specific extras (chapter/volume counts,
	// publication dates, franchise, score histograms).
	Metadata map[string]any `json:"metadata"`

	SyncedAt  *time.Time `json:"synced_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// WorkSourceUpdate holds the mapping fields a sync refreshes.
type WorkSourceUpdate struct {
	ExternalRating      *float64
	ExternalRatingCount *int
	Metadata            map[string]any
}
