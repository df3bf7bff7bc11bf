// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvkhoa/tosho/internal/platform/dberr"
)

// # PostgreSQL Repositories

// PostgresRepository implements [AuthorRepository], [GenreRepository], and
// [TagRepository] against the catalog schema. The vocabulary tables are small
// and uniform, so one repository type serves all three contracts.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the PostgreSQL vocabulary repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Authors

// FindAuthorBySlug retrieves an author by their globally unique slug.
func (repository *PostgresRepository) FindAuthorBySlug(context context.Context, slug string) (*Author, error) {
	const query = `SELECT id, name, slug, bio, createdat FROM catalog.author WHERE slug = $1`

	author := &Author{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&author.ID, &author.Name, &author.Slug, &author.Bio, &author.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Author")
	}

	return author, nil
}

// CreateAuthor persists a new author. A duplicate slug maps to a Conflict.
func (repository *PostgresRepository) CreateAuthor(context context.Context, author *Author) error {
	const query = `INSERT INTO catalog.author (id, name, slug, bio, createdat) VALUES ($1, $2, $3, $4, $5)`

	if author.CreatedAt.IsZero() {
		author.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		author.ID, author.Name, author.Slug, author.Bio, author.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Author")
	}

	return nil
}

/*
LinkAuthorToWork attaches an author to a work at a given credit position.

Description: ON CONFLICT DO NOTHING makes relinking idempotent — re-importing
a work never duplicates join rows and never aborts on an existing link.

Parameters:
  - context: context.Context
  - workID: string (UUID)
  - authorID: string (UUID)
  - position: int (External credit ordering, zero-based)

Returns:
  - error: Database errors
*/
func (repository *PostgresRepository) LinkAuthorToWork(context context.Context, workID, authorID string, position int) error {
	const query = `
		INSERT INTO catalog.workauthor (workid, authorid, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (workid, authorid) DO NOTHING`

	if _, err := repository.pool.Exec(context, query, workID, authorID, position); err != nil {
		return fmt.Errorf("postgres_metadata_repo_link_author_failed: %w", err)
	}

	return nil
}

// UnlinkAuthorFromWork removes an author credit. Missing links are a no-op.
func (repository *PostgresRepository) UnlinkAuthorFromWork(context context.Context, workID, authorID string) error {
	const query = `DELETE FROM catalog.workauthor WHERE workid = $1 AND authorid = $2`

	if _, err := repository.pool.Exec(context, query, workID, authorID); err != nil {
		return fmt.Errorf("postgres_metadata_repo_unlink_author_failed: %w", err)
	}

	return nil
}

// # Genres

// FindGenreBySlug retrieves a genre by its globally unique slug.
func (repository *PostgresRepository) FindGenreBySlug(context context.Context, slug string) (*Genre, error) {
	const query = `SELECT id, name, slug, description, createdat FROM catalog.genre WHERE slug = $1`

	genre := &Genre{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&genre.ID, &genre.Name, &genre.Slug, &genre.Description, &genre.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}

	return genre, nil
}

// CreateGenre persists a new genre. A duplicate slug maps to a Conflict.
func (repository *PostgresRepository) CreateGenre(context context.Context, genre *Genre) error {
	const query = `INSERT INTO catalog.genre (id, name, slug, description, createdat) VALUES ($1, $2, $3, $4, $5)`

	if genre.CreatedAt.IsZero() {
		genre.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		genre.ID, genre.Name, genre.Slug, genre.Description, genre.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Genre")
	}

	return nil
}

// LinkGenreToWork attaches a genre to a work. Relinking is a no-op.
func (repository *PostgresRepository) LinkGenreToWork(context context.Context, workID, genreID string) error {
	const query = `
		INSERT INTO catalog.workgenre (workid, genreid)
		VALUES ($1, $2)
		ON CONFLICT (workid, genreid) DO NOTHING`

	if _, err := repository.pool.Exec(context, query, workID, genreID); err != nil {
		return fmt.Errorf("postgres_metadata_repo_link_genre_failed: %w", err)
	}

	return nil
}

// UnlinkGenreFromWork removes a genre link. Missing links are a no-op.
func (repository *PostgresRepository) UnlinkGenreFromWork(context context.Context, workID, genreID string) error {
	const query = `DELETE FROM catalog.workgenre WHERE workid = $1 AND genreid = $2`

	if _, err := repository.pool.Exec(context, query, workID, genreID); err != nil {
		return fmt.Errorf("postgres_metadata_repo_unlink_genre_failed: %w", err)
	}

	return nil
}

// # Tags

// FindTagBySlug retrieves a tag by its (slug, category) key.
func (repository *PostgresRepository) FindTagBySlug(context context.Context, slug, category string) (*Tag, error) {
	const query = `SELECT id, name, slug, description, category, createdat FROM catalog.tag WHERE slug = $1 AND category = $2`

	tag := &Tag{}
	err := repository.pool.QueryRow(context, query, slug, category).Scan(
		&tag.ID, &tag.Name, &tag.Slug, &tag.Description, &tag.Category, &tag.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}

	return tag, nil
}

// CreateTag persists a new tag. A duplicate (slug, category) maps to a Conflict.
func (repository *PostgresRepository) CreateTag(context context.Context, tag *Tag) error {
	const query = `INSERT INTO catalog.tag (id, name, slug, description, category, createdat) VALUES ($1, $2, $3, $4, $5, $6)`

	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		tag.ID, tag.Name, tag.Slug, tag.Description, tag.Category, tag.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Tag")
	}

	return nil
}

// LinkTagToWork attaches a tag to a work. Relinking is a no-op.
func (repository *PostgresRepository) LinkTagToWork(context context.Context, workID, tagID string) error {
	const query = `
		INSERT INTO catalog.worktag (workid, tagid)
		VALUES ($1, $2)
		ON CONFLICT (workid, tagid) DO NOTHING`

	if _, err := repository.pool.Exec(context, query, workID, tagID); err != nil {
		return fmt.Errorf("postgres_metadata_repo_link_tag_failed: %w", err)
	}

	return nil
}

// UnlinkTagFromWork removes a tag link. Missing links are a no-op.
func (repository *PostgresRepository) UnlinkTagFromWork(context context.Context, workID, tagID string) error {
	const query = `DELETE FROM catalog.worktag WHERE workid = $1 AND tagid = $2`

	if _, err := repository.pool.Exec(context, query, workID, tagID); err != nil {
		return fmt.Errorf("postgres_metadata_repo_unlink_tag_failed: %w", err)
	}

	return nil
}
