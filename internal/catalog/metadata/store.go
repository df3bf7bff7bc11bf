// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package metadata

import "context"

// The three repositories below are the per-entity persistence contracts for
// the shared vocabulary. Every Create must surface unique-constraint
// violations as conflicts so the aggregation engine's find-or-create falls
// back to a re-read instead of erroring the workflow.

// AuthorRepository persists authors and their work links.
type AuthorRepository interface {
	FindAuthorBySlug(context context.Context, slug string) (*Author, error)
	CreateAuthor(context context.Context, author *Author) error

	// LinkAuthorToWork attaches an author at the given position. The
	// position preserves the external source's credit ordering. Relinking
	// an existing pair is a no-op.
	LinkAuthorToWork(context context.Context, workID, authorID string, position int) error
	UnlinkAuthorFromWork(context context.Context, workID, authorID string) error
}

// GenreRepository persists genres and their work links.
type GenreRepository interface {
	FindGenreBySlug(context context.Context, slug string) (*Genre, error)
	CreateGenre(context context.Context, genre *Genre) error
	LinkGenreToWork(context context.Context, workID, genreID string) error
	UnlinkGenreFromWork(context context.Context, workID, genreID string) error
}

// TagRepository persists tags and their work links.
type TagRepository interface {
	FindTagBySlug(context context.Context, slug, category string) (*Tag, error)
	CreateTag(context context.Context, tag *Tag) error
	LinkTagToWork(context context.Context, workID, tagID string) error
	UnlinkTagFromWork(context context.Context, workID, tagID string) error
}
