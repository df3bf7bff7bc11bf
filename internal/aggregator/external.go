// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package aggregator

import (
	"context"
	"time"

	"github.com/nvkhoa/tosho/internal/catalog/work"
)

// # Canonical External Shapes

// ExternalWorkData is the source-agnostic representation of a work as fetched
// from an external catalog. Adapters translate their native schema into this
// shape; nothing source-specific crosses past it into the engine.
type ExternalWorkData struct {
	ExternalID string `json:"external_id"`

	// Title follows the source's localized name when present, falling back
	// to the native/original name. This preference drives slug derivation
	// and therefore deduplication — adapters must apply it consistently.
	Title string `json:"title"`

	AltTitles   work.AlternativeTitles `json:"alternative_titles"`
	Type        work.Type              `json:"type"`
	Status      work.Status            `json:"status"`
	Description *string                `json:"description"`
	CoverURL    *string                `json:"cover_url"`
	ExternalURL string                 `json:"external_url"`

	// ExternalRating is the source's average score; nil when unrated.
	ExternalRating *float64 `json:"external_rating"`

	// ExternalRatingCount distinguishes "zero ratings" (pointer to 0) from
	// "source does not expose a count" (nil).
	ExternalRatingCount *int `json:"external_rating_count"`

	Genres  []string `json:"genres"`
	Authors []string `json:"authors"`
	Tags    []string `json:"tags"`

	// Metadata carries source extras preserved verbatim on the mapping row.
	Metadata map[string]any `json:"metadata"`
}

// ExternalChapterData is the source-agnostic representation of one chapter
// entry in a source's release feed.
type ExternalChapterData struct {
	Number         float64    `json:"number"`
	Title          *string    `json:"title"`
	Volume         *string    `json:"volume"`
	ExternalURL    string     `json:"external_url"`
	TranslatorName *string    `json:"translator_name"`
	PublishedAt    *time.Time `json:"published_at"`
}

// # Adapter Contract

// SourceAdapter is the capability set every integrated source implements.
//
// Implementations gate each network call through the shared rate limiter,
// honor the context deadline, and classify failures with the constructors in
// errors.go. They never retry internally — retry policy belongs to callers.
type SourceAdapter interface {
	FetchWork(ctx context.Context, externalID string) (*ExternalWorkData, error)
	FetchChapters(ctx context.Context, externalID string) ([]ExternalChapterData, error)
	Search(ctx context.Context, query string) ([]ExternalWorkData, error)
}
