// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package chapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvkhoa/tosho/internal/platform/dberr"
)

// # PostgreSQL Repositories

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the chapter [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByNumber resolves a chapter by its identity tuple.

Description: The translator component of the tuple is nullable; IS NOT
DISTINCT FROM makes nil match only translator-less rows instead of matching
nothing.

Parameters:
  - context: context.Context
  - workID: string (UUID)
  - sourceID: string (UUID)
  - number: float64 (May be fractional)
  - translatorID: *string (nil for official/uncredited releases)

Returns:
  - *Chapter: The stored installment
  - error: apperr.NotFound when the chapter is not yet known
*/
func (repository *PostgresRepository) FindByNumber(context context.Context, workID, sourceID string, number float64, translatorID *string) (*Chapter, error) {
	const query = `
		SELECT id, workid, sourceid, translatorid, title, number, volume, externalurl, publishedat, createdat
		FROM catalog.chapter
		WHERE workid = $1 AND sourceid = $2 AND number = $3 AND translatorid IS NOT DISTINCT FROM $4`

	chapter := &Chapter{}
	err := repository.pool.QueryRow(context, query, workID, sourceID, number, translatorID).Scan(
		&chapter.ID,
		&chapter.WorkID,
		&chapter.SourceID,
		&chapter.TranslatorID,
		&chapter.Title,
		&chapter.Number,
		&chapter.Volume,
		&chapter.ExternalURL,
		&chapter.PublishedAt,
		&chapter.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Chapter")
	}

	return chapter, nil
}

/*
Create persists a newly discovered chapter.

Description: A unique violation on the identity tuple maps to a Conflict,
letting a racing sync treat the chapter as already discovered.

Parameters:
  - context: context.Context
  - chapter: *Chapter (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate tuple, or database errors
*/
func (repository *PostgresRepository) Create(context context.Context, chapter *Chapter) error {
	const query = `
		INSERT INTO catalog.chapter (
			id, workid, sourceid, translatorid, title, number, volume, externalurl, publishedat, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if chapter.CreatedAt.IsZero() {
		chapter.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		chapter.ID,
		chapter.WorkID,
		chapter.SourceID,
		chapter.TranslatorID,
		chapter.Title,
		chapter.Number,
		chapter.Volume,
		chapter.ExternalURL,
		chapter.PublishedAt,
		chapter.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Chapter")
	}

	return nil
}

// # Translator Repository

// PostgresTranslatorRepository implements [TranslatorRepository] using pgx.
type PostgresTranslatorRepository struct {
	pool *pgxpool.Pool
}

// NewTranslatorRepository creates a new PostgreSQL implementation of [TranslatorRepository].
func NewTranslatorRepository(pool *pgxpool.Pool) *PostgresTranslatorRepository {
	return &PostgresTranslatorRepository{pool: pool}
}

// FindBySlug retrieves a translation team by its (sourceID, slug) key.
func (repository *PostgresTranslatorRepository) FindBySlug(context context.Context, sourceID, slug string) (*Translator, error) {
	const query = `
		SELECT id, sourceid, name, slug, url, contacts, createdat
		FROM catalog.translator
		WHERE sourceid = $1 AND slug = $2`

	translator := &Translator{}
	var contactsJSON []byte

	err := repository.pool.QueryRow(context, query, sourceID, slug).Scan(
		&translator.ID,
		&translator.SourceID,
		&translator.Name,
		&translator.Slug,
		&translator.URL,
		&contactsJSON,
		&translator.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Translator")
	}

	if len(contactsJSON) > 0 {
		if err := json.Unmarshal(contactsJSON, &translator.Contacts); err != nil {
			return nil, fmt.Errorf("postgres_translator_repo_contacts_decode_failed: %w", err)
		}
	}

	return translator, nil
}

// Create persists a new translation team. A duplicate (sourceid, slug) maps
// to a Conflict for the find-or-create fallback.
func (repository *PostgresTranslatorRepository) Create(context context.Context, translator *Translator) error {
	const query = `
		INSERT INTO catalog.translator (id, sourceid, name, slug, url, contacts, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	contacts := translator.Contacts
	if contacts == nil {
		contacts = map[string]string{}
	}
	contactsJSON, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("postgres_translator_repo_contacts_encode_failed: %w", err)
	}

	if translator.CreatedAt.IsZero() {
		translator.CreatedAt = time.Now()
	}

	_, err = repository.pool.Exec(context, query,
		translator.ID,
		translator.SourceID,
		translator.Name,
		translator.Slug,
		translator.URL,
		contactsJSON,
		translator.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Translator")
	}

	return nil
}
