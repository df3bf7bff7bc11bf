// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

/*
Package metadata defines the shared descriptive vocabulary linked to works:
authors, genres, and tags.

All three follow the same find-or-create lifecycle during aggregation: looked
up by slug, created only if absent, and tolerant of a concurrent
duplicate-create resolving to the same row. Tags are additionally scoped by
category so "action" the genre and "action" the format tag can coexist.
*/
package metadata

import "time"

// Author is a creator credited on a work. Globally unique by slug.
type Author struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// Genre is a broad classification label. Globally unique by slug.
type Genre struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Tag is a narrow classification label, unique by (slug, category).
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryFormat is the tag category used for kind-derived tags
// (one-shot, doujin, novel, light-novel) during import.
const CategoryFormat = "format"
