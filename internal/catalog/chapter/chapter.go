// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

/*
Package chapter defines chapter installments and the translation teams that
release them.

# Append-Only Policy

Chapters are append-only from the aggregation engine's perspective: once
discovered and stored, a chapter is never mutated by sync. A source that
silently edits a chapter's title after publication will not propagate the
edit. Identity is the tuple (workID, sourceID, number, translatorID-or-null).
*/
package chapter

import "time"

// Chapter is a single installment of a work at a specific source.
type Chapter struct {
	ID       string `json:"id"`
	WorkID   string `json:"work_id"`
	SourceID string `json:"source_id"`

	// TranslatorID is nil for official or uncredited releases.
	TranslatorID *string `json:"translator_id"`

	Title *string `json:"title"`

	// Number may be fractional (12.5 specials) and is never negative.
	Number float64 `json:"number"`

	Volume      *string    `json:"volume"`
	ExternalURL string     `json:"external_url"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Translator is a named translation team scoped to a source.
// Uniqueness key: (sourceID, slug). Created on demand during chapter sync.
type Translator struct {
	ID       string            `json:"id"`
	SourceID string            `json:"source_id"`
	Name     string            `json:"name"`
	Slug     string            `json:"slug"`
	URL      *string           `json:"url"`
	Contacts map[string]string `json:"contacts"`

	CreatedAt time.Time `json:"created_at"`
}
