// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package work

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvkhoa/tosho/internal/platform/dberr"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the work [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const workColumns = `
	id, title, slug, description, type, status, coverurl,
	titlelocalized, titleromanized, titlenative,
	addedby, createdat, updatedat`

/*
FindByID retrieves a single work by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Work: Hydrated catalog entry
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Work, error) {
	query := `SELECT ` + workColumns + ` FROM catalog.work WHERE id = $1`

	return repository.scanOne(context, query, id)
}

/*
FindBySlug retrieves a single work by its globally unique slug.

Description: The slug lookup is the secondary deduplication signal during
import — the same title always derives the same slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Work: Hydrated catalog entry
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Work, error) {
	query := `SELECT ` + workColumns + ` FROM catalog.work WHERE slug = $1`

	return repository.scanOne(context, query, slug)
}

/*
Create persists a new work record.

Description: A unique violation on the slug column is mapped to a Conflict so
the aggregation engine can fall back to a re-read instead of failing the import.

Parameters:
  - context: context.Context
  - work: *Work (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate slug, or database errors
*/
func (repository *PostgresRepository) Create(context context.Context, work *Work) error {
	const query = `
		INSERT INTO catalog.work (
			id, title, slug, description, type, status, coverurl,
			titlelocalized, titleromanized, titlenative,
			addedby, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	if work.CreatedAt.IsZero() {
		work.CreatedAt = now
	}
	work.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		work.ID,
		work.Title,
		work.Slug,
		work.Description,
		work.Type,
		work.Status,
		work.CoverURL,
		work.AltTitles.Localized,
		work.AltTitles.Romanized,
		work.AltTitles.Native,
		work.AddedBy,
		work.CreatedAt,
		work.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Work")
	}

	return nil
}

/*
Update overwrites the sync-mirrored fields of a work.

Description: Only the fields carried by [Update] change; slug, type, and
audit columns are untouched. This is the destructive half of syncWorkFromSource.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - update: Update (Mirrored field values)

Returns:
  - error: apperr.NotFound when the work no longer exists, or database errors
*/
func (repository *PostgresRepository) Update(context context.Context, id string, update Update) error {
	const query = `
		UPDATE catalog.work
		SET title = $2, description = $3, status = $4, coverurl = $5,
		    titlelocalized = $6, titleromanized = $7, titlenative = $8,
		    updatedat = $9
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		id,
		update.Title,
		update.Description,
		update.Status,
		update.CoverURL,
		update.AltTitles.Localized,
		update.AltTitles.Romanized,
		update.AltTitles.Native,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("postgres_work_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// scanOne executes a single-row work query and hydrates the entity.
func (repository *PostgresRepository) scanOne(context context.Context, query string, args ...any) (*Work, error) {
	work := &Work{}
	err := repository.pool.QueryRow(context, query, args...).Scan(
		&work.ID,
		&work.Title,
		&work.Slug,
		&work.Description,
		&work.Type,
		&work.Status,
		&work.CoverURL,
		&work.AltTitles.Localized,
		&work.AltTitles.Romanized,
		&work.AltTitles.Native,
		&work.AddedBy,
		&work.CreatedAt,
		&work.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Work")
	}

	return work, nil
}
