// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package source

import (
	"context"
	"encoding/json"
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

// NewRepository creates a new PostgreSQL implementation of the source [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByID retrieves a source integration by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Source: Hydrated integration record
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Source, error) {
	const query = `
		SELECT id, name, slug, baseurl, apiurl, kind, isactive, config, createdat, updatedat
		FROM catalog.source
		WHERE id = $1`

	return repository.scanSource(context, query, id)
}

/*
FindBySlug retrieves a source integration by its unique slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Source: Hydrated integration record
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Source, error) {
	const query = `
		SELECT id, name, slug, baseurl, apiurl, kind, isactive, config, createdat, updatedat
		FROM catalog.source
		WHERE slug = $1`

	return repository.scanSource(context, query, slug)
}

const workSourceColumns = `
	id, workid, sourceid, externalid, externalurl,
	externalrating, externalratingcount, metadata, syncedat, createdat`

/*
FindWorkSource retrieves the mapping between a work and a source.

Parameters:
  - context: context.Context
  - workID: string (UUID)
  - sourceID: string (UUID)

Returns:
  - *WorkSource: The mapping/state record
  - error: apperr.NotFound when the work was never imported from this source
*/
func (repository *PostgresRepository) FindWorkSource(context context.Context, workID, sourceID string) (*WorkSource, error) {
	query := `SELECT ` + workSourceColumns + ` FROM catalog.worksource WHERE workid = $1 AND sourceid = $2`

	return repository.scanWorkSource(context, query, workID, sourceID)
}

/*
FindWorkSourceByExternalID retrieves a mapping by its idempotency anchor.

Description: The (sourceid, externalid) pair is unique, so this lookup decides
whether an import is a no-op.

Parameters:
  - context: context.Context
  - sourceID: string (UUID)
  - externalID: string (Source-native identifier)

Returns:
  - *WorkSource: The mapping/state record
  - error: apperr.NotFound when the external id was never imported
*/
func (repository *PostgresRepository) FindWorkSourceByExternalID(context context.Context, sourceID, externalID string) (*WorkSource, error) {
	query := `SELECT ` + workSourceColumns + ` FROM catalog.worksource WHERE sourceid = $1 AND externalid = $2`

	return repository.scanWorkSource(context, query, sourceID, externalID)
}

/*
CreateWorkSource persists a new work-source mapping.

Description: A unique violation on (sourceid, externalid) is mapped to a
Conflict — the aggregation engine treats it as "a concurrent import won the
race" and re-reads the winning row.

Parameters:
  - context: context.Context
  - mapping: *WorkSource (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate mapping, or database errors
*/
func (repository *PostgresRepository) CreateWorkSource(context context.Context, mapping *WorkSource) error {
	const query = `
		INSERT INTO catalog.worksource (
			id, workid, sourceid, externalid, externalurl,
			externalrating, externalratingcount, metadata, syncedat, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	metadataJSON, err := marshalMetadata(mapping.Metadata)
	if err != nil {
		return err
	}

	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = time.Now()
	}

	_, err = repository.pool.Exec(context, query,
		mapping.ID,
		mapping.WorkID,
		mapping.SourceID,
		mapping.ExternalID,
		mapping.ExternalURL,
		mapping.ExternalRating,
		mapping.ExternalRatingCount,
		metadataJSON,
		mapping.SyncedAt,
		mapping.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Work source mapping")
	}

	return nil
}

/*
UpdateWorkSource refreshes the externally mirrored mapping fields.

Parameters:
  - context: context.Context
  - id: string (Mapping UUID)
  - update: WorkSourceUpdate (Rating, rating count, metadata)

Returns:
  - error: apperr.NotFound when the mapping no longer exists, or database errors
*/
func (repository *PostgresRepository) UpdateWorkSource(context context.Context, id string, update WorkSourceUpdate) error {
	const query = `
		UPDATE catalog.worksource
		SET externalrating = $2, externalratingcount = $3, metadata = $4
		WHERE id = $1`

	metadataJSON, err := marshalMetadata(update.Metadata)
	if err != nil {
		return err
	}

	tag, err := repository.pool.Exec(context, query,
		id,
		update.ExternalRating,
		update.ExternalRatingCount,
		metadataJSON,
	)

	if err != nil {
		return fmt.Errorf("postgres_worksource_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
TouchSyncedAt stamps the mapping with the current wall-clock time.

Parameters:
  - context: context.Context
  - id: string (Mapping UUID)

Returns:
  - error: apperr.NotFound when the mapping no longer exists, or database errors
*/
func (repository *PostgresRepository) TouchSyncedAt(context context.Context, id string) error {
	const query = `UPDATE catalog.worksource SET syncedat = $2 WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_worksource_repo_touch_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// # Row Hydration

func (repository *PostgresRepository) scanSource(context context.Context, query string, args ...any) (*Source, error) {
	src := &Source{}
	var configJSON []byte

	err := repository.pool.QueryRow(context, query, args...).Scan(
		&src.ID,
		&src.Name,
		&src.Slug,
		&src.BaseURL,
		&src.APIURL,
		&src.Kind,
		&src.IsActive,
		&configJSON,
		&src.CreatedAt,
		&src.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Source")
	}

	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &src.Config); err != nil {
			return nil, fmt.Errorf("postgres_source_repo_config_decode_failed: %w", err)
		}
	}

	return src, nil
}

func (repository *PostgresRepository) scanWorkSource(context context.Context, query string, args ...any) (*WorkSource, error) {
	mapping := &WorkSource{}
	var metadataJSON []byte

	err := repository.pool.QueryRow(context, query, args...).Scan(
		&mapping.ID,
		&mapping.WorkID,
		&mapping.SourceID,
		&mapping.ExternalID,
		&mapping.ExternalURL,
		&mapping.ExternalRating,
		&mapping.ExternalRatingCount,
		&metadataJSON,
		&mapping.SyncedAt,
		&mapping.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Work source mapping")
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &mapping.Metadata); err != nil {
			return nil, fmt.Errorf("postgres_worksource_repo_metadata_decode_failed: %w", err)
		}
	}

	return mapping, nil
}

// marshalMetadata encodes free-form metadata as JSONB input, defaulting to
// an empty object so the column never holds SQL NULL.
func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return []byte("{}"), nil
	}

	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("postgres_worksource_repo_metadata_encode_failed: %w", err)
	}

	return encoded, nil
}
