// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

/*
Package work defines the canonical catalog entry and its persistence contract.

A [Work] is the platform's own representation of a serialized comic
(manga/manhwa/manhua). It is created lazily on first successful import or by a
moderator, mutated by sync, and never deleted by the aggregation engine.

# Identity

The slug is globally unique and derived deterministically from the title, so
two imports of the same title from different sources converge on one record.
*/
package work

import "time"

// # Enumerations

// Type classifies a work by its origin tradition.
type Type string

const (
	TypeManga  Type = "manga"
	TypeManhwa Type = "manhwa"
	TypeManhua Type = "manhua"
)

// Status tracks the publication lifecycle of a work.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusHiatus    Status = "hiatus"
	StatusCancelled Status = "cancelled"
)

// # Work Aggregate

// AlternativeTitles carries the localized/romanized/native naming triple.
// Any member may be nil when the external source does not expose it.
type AlternativeTitles struct {
	Localized *string `json:"localized"`
	Romanized *string `json:"romanized"`
	Native    *string `json:"native"`
}

// Work is the canonical catalog entry.
type Work struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description *string           `json:"description"`
	Type        Type              `json:"type"`
	Status      Status            `json:"status"`
	CoverURL    *string           `json:"cover_url"`
	AltTitles   AlternativeTitles `json:"alternative_titles"`

	// AddedBy is the account that triggered the first import or created
	// the record manually.
	AddedBy string `json:"added_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update holds the mirrored fields a sync overwrites. The external source is
// the source of truth for these; moderator edits to them do not survive a sync.
type Update struct {
	Title       string
	Description *string
	Status      Status
	CoverURL    *string
	AltTitles   AlternativeTitles
}
