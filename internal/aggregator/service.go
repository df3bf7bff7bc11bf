// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

/*
Package aggregator implements the catalog aggregation and synchronization
engine: importing works from external sources, keeping mirrored fields
updated, and reconciling fetched entities (authors, genres, tags,
translators, chapters) against stored ones without duplication.

# Workflow Shape

Every operation composes sequential, context-bound I/O steps. No in-process
locks span workflow steps; idempotency is enforced by the persistence layer's
unique constraints. Concurrent duplicate-create attempts are resolved by
optimistic create → conflict → re-read (see [Service] helpers), which turns a
race into a benign no-op.
*/
package aggregator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nvkhoa/tosho/internal/catalog/chapter"
	"github.com/nvkhoa/tosho/internal/catalog/metadata"
	"github.com/nvkhoa/tosho/internal/catalog/source"
	"github.com/nvkhoa/tosho/internal/catalog/work"
	"github.com/nvkhoa/tosho/internal/platform/dberr"
	"github.com/nvkhoa/tosho/pkg/slug"
	"github.com/nvkhoa/tosho/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates import and sync workflows against external sources.
type Service struct {
	workRepo       work.Repository
	sourceRepo     source.Repository
	authorRepo     metadata.AuthorRepository
	genreRepo      metadata.GenreRepository
	tagRepo        metadata.TagRepository
	chapterRepo    chapter.Repository
	translatorRepo chapter.TranslatorRepository

	registry *Registry
	cache    *SearchCache
	logger   *slog.Logger
}

// Dependencies groups the constructor inputs for [NewService].
type Dependencies struct {
	WorkRepo       work.Repository
	SourceRepo     source.Repository
	AuthorRepo     metadata.AuthorRepository
	GenreRepo      metadata.GenreRepository
	TagRepo        metadata.TagRepository
	ChapterRepo    chapter.Repository
	TranslatorRepo chapter.TranslatorRepository

	Registry *Registry

	// Cache is optional; a nil cache disables search caching.
	Cache *SearchCache

	Logger *slog.Logger
}

// NewService constructs the aggregation [Service] with explicit dependencies.
func NewService(deps Dependencies) *Service {
	return &Service{
		workRepo:       deps.WorkRepo,
		sourceRepo:     deps.SourceRepo,
		authorRepo:     deps.AuthorRepo,
		genreRepo:      deps.GenreRepo,
		tagRepo:        deps.TagRepo,
		chapterRepo:    deps.ChapterRepo,
		translatorRepo: deps.TranslatorRepo,
		registry:       deps.Registry,
		cache:          deps.Cache,
		logger:         deps.Logger,
	}
}

// # Import Workflow

/*
ImportWorkFromSource imports a work's metadata from an external source.

Description: The workflow is idempotent on the (source, externalID) pair —
re-importing the same external id never creates a duplicate work or mapping,
even under concurrent calls. An existing mapping short-circuits before any
network traffic.

Parameters:
  - context: context.Context (Carries the caller's deadline)
  - sourceSlug: string (Registry and source lookup key)
  - externalID: string (Source-native identifier)
  - actorID: string (Account credited with the import)

Returns:
  - *work.Work: The canonical work, fresh or pre-existing
  - error: Taxonomy errors from errors.go, or persistence failures
*/
func (service *Service) ImportWorkFromSource(context context.Context, sourceSlug, externalID, actorID string) (*work.Work, error) {

	// 1. Resolve the source and make sure an admin has not disabled it.
	src, err := service.resolveActiveSource(context, sourceSlug)
	if err != nil {
		return nil, err
	}

	// 2. Idempotency check: a known mapping means the import already ran.
	existing, err := service.sourceRepo.FindWorkSourceByExternalID(context, src.ID, externalID)
	if err != nil && !dberr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		known, err := service.workRepo.FindByID(context, existing.WorkID)
		if err == nil {
			return known, nil
		}
		// A mapping pointing at a vanished work falls through and re-runs
		// the import end to end.
		if !dberr.IsNotFound(err) {
			return nil, err
		}
	}

	// 3. Fetch and map through the source's adapter.
	adapter, err := service.registry.Resolve(sourceSlug)
	if err != nil {
		return nil, err
	}

	external, err := adapter.FetchWork(context, externalID)
	if err != nil {
		return nil, err
	}

	// 4. Resolve or create the canonical work by its derived slug.
	imported, err := service.createOrReuseWork(context, external, actorID)
	if err != nil {
		return nil, err
	}

	// 5. Record the mapping. A conflict here means a concurrent import won
	// the race for this external id; their work is the canonical answer.
	mapping := &source.WorkSource{
		ID:                  uuidv7.New(),
		WorkID:              imported.ID,
		SourceID:            src.ID,
		ExternalID:          external.ExternalID,
		ExternalURL:         external.ExternalURL,
		ExternalRating:      external.ExternalRating,
		ExternalRatingCount: external.ExternalRatingCount,
		Metadata:            external.Metadata,
	}
	if err := service.sourceRepo.CreateWorkSource(context, mapping); err != nil {
		if dberr.IsUniqueViolation(err) {
			return service.resolveRaceWinner(context, src.ID, externalID)
		}
		return nil, err
	}

	// 6. Link descriptive metadata. Failures here are cosmetic: log and
	// keep going, a missing genre link must not void a successful import.
	service.linkAuthors(context, imported.ID, external.Authors)
	service.linkGenres(context, imported.ID, external.Genres)
	service.linkTags(context, imported.ID, external.Tags)

	return imported, nil
}

// # Sync Workflows

/*
SyncWorkFromSource re-fetches external data and overwrites the work's
mirrored fields.

Description: This is destructive by design — the external source is the
source of truth for title, description, status, cover, and alternative
titles. Moderator edits to those fields do not survive a sync. The mapping's
rating snapshot and metadata are refreshed and syncedat is stamped.

Parameters:
  - context: context.Context
  - workID: string (UUID)
  - sourceID: string (UUID)

Returns:
  - error: ErrMappingNotFound when the work was never imported from this
    source, taxonomy errors, or persistence failures
*/
func (service *Service) SyncWorkFromSource(context context.Context, workID, sourceID string) error {
	mapping, src, adapter, err := service.resolveMapping(context, workID, sourceID)
	if err != nil {
		return err
	}

	external, err := adapter.FetchWork(context, mapping.ExternalID)
	if err != nil {
		return err
	}

	if err := service.workRepo.Update(context, workID, work.Update{
		Title:       external.Title,
		Description: external.Description,
		Status:      external.Status,
		CoverURL:    external.CoverURL,
		AltTitles:   external.AltTitles,
	}); err != nil {
		return err
	}

	if err := service.sourceRepo.UpdateWorkSource(context, mapping.ID, source.WorkSourceUpdate{
		ExternalRating:      external.ExternalRating,
		ExternalRatingCount: external.ExternalRatingCount,
		Metadata:            external.Metadata,
	}); err != nil {
		return err
	}

	if err := service.sourceRepo.TouchSyncedAt(context, mapping.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "work_synced",
		slog.String("work_id", workID),
		slog.String("source", src.Slug),
		slog.String("external_id", mapping.ExternalID),
	)

	return nil
}

/*
SyncChaptersFromSource fetches the source's chapter list and appends newly
discovered chapters.

Description: Chapters are additive-only. An entry whose identity tuple
(workID, sourceID, number, translatorID-or-null) already exists is left
untouched; edits made upstream after publication never propagate. When an
entry credits a translator, the team is find-or-created by (sourceID,
slug-of-name) first.

Parameters:
  - context: context.Context
  - workID: string (UUID)
  - sourceID: string (UUID)

Returns:
  - int: Count of chapters created by this pass
  - error: ErrMappingNotFound, taxonomy errors, or persistence failures
*/
func (service *Service) SyncChaptersFromSource(context context.Context, workID, sourceID string) (int, error) {
	mapping, src, adapter, err := service.resolveMapping(context, workID, sourceID)
	if err != nil {
		return 0, err
	}

	externalChapters, err := adapter.FetchChapters(context, mapping.ExternalID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, externalChapter := range externalChapters {

		var translatorID *string
		if externalChapter.TranslatorName != nil && *externalChapter.TranslatorName != "" {
			translator, err := service.findOrCreateTranslator(context, src.ID, *externalChapter.TranslatorName)
			if err != nil {
				return created, err
			}
			translatorID = &translator.ID
		}

		_, err := service.chapterRepo.FindByNumber(context, workID, sourceID, externalChapter.Number, translatorID)
		if err == nil {
			continue // already known, never updated
		}
		if !dberr.IsNotFound(err) {
			return created, err
		}

		createErr := service.chapterRepo.Create(context, &chapter.Chapter{
			ID:           uuidv7.New(),
			WorkID:       workID,
			SourceID:     sourceID,
			TranslatorID: translatorID,
			Title:        externalChapter.Title,
			Number:       externalChapter.Number,
			Volume:       externalChapter.Volume,
			ExternalURL:  externalChapter.ExternalURL,
			PublishedAt:  externalChapter.PublishedAt,
		})
		if createErr != nil {
			// A racing sync discovered the same chapter first.
			if dberr.IsUniqueViolation(createErr) {
				continue
			}
			return created, createErr
		}

		created++
	}

	service.logger.InfoContext(context, "chapters_synced",
		slog.String("work_id", workID),
		slog.String("source", src.Slug),
		slog.Int("new_chapters", created),
	)

	return created, nil
}

// # Search

/*
SearchWorks queries an external source's catalog through its adapter.

Description: Results are source-shaped previews for admin import tooling,
already mapped to the canonical external form. A short-TTL cache in front of
the adapter spares the external API from repeated identical queries.

Parameters:
  - context: context.Context
  - sourceSlug: string
  - query: string (Free-text search terms)

Returns:
  - []ExternalWorkData: Mapped search hits
  - error: Taxonomy errors from source resolution or the adapter
*/
func (service *Service) SearchWorks(context context.Context, sourceSlug, query string) ([]ExternalWorkData, error) {
	if _, err := service.resolveActiveSource(context, sourceSlug); err != nil {
		return nil, err
	}

	adapter, err := service.registry.Resolve(sourceSlug)
	if err != nil {
		return nil, err
	}

	if hits, found := service.cache.Get(context, sourceSlug, query); found {
		return hits, nil
	}

	hits, err := adapter.Search(context, query)
	if err != nil {
		return nil, err
	}

	service.cache.Set(context, sourceSlug, query, hits)

	return hits, nil
}

// # Resolution Helpers

// resolveActiveSource looks a source up by slug and rejects disabled ones.
func (service *Service) resolveActiveSource(context context.Context, sourceSlug string) (*source.Source, error) {
	src, err := service.sourceRepo.FindBySlug(context, sourceSlug)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrSourceNotFound(sourceSlug)
		}
		return nil, err
	}

	if !src.IsActive {
		return nil, ErrSourceInactive(sourceSlug)
	}

	return src, nil
}

// resolveMapping loads the mapping, source, and adapter a sync needs.
func (service *Service) resolveMapping(context context.Context, workID, sourceID string) (*source.WorkSource, *source.Source, SourceAdapter, error) {
	mapping, err := service.sourceRepo.FindWorkSource(context, workID, sourceID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, nil, nil, ErrMappingNotFound()
		}
		return nil, nil, nil, err
	}

	src, err := service.sourceRepo.FindByID(context, sourceID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, nil, nil, ErrSourceNotFound(sourceID)
		}
		return nil, nil, nil, err
	}

	adapter, err := service.registry.Resolve(src.Slug)
	if err != nil {
		return nil, nil, nil, err
	}

	return mapping, src, adapter, nil
}

// resolveRaceWinner re-reads the mapping a concurrent import created and
// returns its work.
func (service *Service) resolveRaceWinner(context context.Context, sourceID, externalID string) (*work.Work, error) {
	winner, err := service.sourceRepo.FindWorkSourceByExternalID(context, sourceID, externalID)
	if err != nil {
		return nil, fmt.Errorf("aggregator: mapping conflict but winner not readable: %w", err)
	}

	return service.workRepo.FindByID(context, winner.WorkID)
}

// # Find-Or-Create Reconciliation
//
// All helpers below share one strategy: look up by key; if absent, attempt
// the insert; if the insert reports a unique violation, a concurrent
// workflow created the row first — re-read and use theirs.

// createOrReuseWork resolves the canonical work for external data by slug,
// creating it when absent.
func (service *Service) createOrReuseWork(context context.Context, external *ExternalWorkData, actorID string) (*work.Work, error) {
	derivedSlug := slug.From(external.Title)

	existing, err := service.workRepo.FindBySlug(context, derivedSlug)
	if err == nil {
		return existing, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	fresh := &work.Work{
		ID:          uuidv7.New(),
		Title:       external.Title,
		Slug:        derivedSlug,
		Description: external.Description,
		Type:        external.Type,
		Status:      external.Status,
		CoverURL:    external.CoverURL,
		AltTitles:   external.AltTitles,
		AddedBy:     actorID,
	}

	if err := service.workRepo.Create(context, fresh); err != nil {
		if dberr.IsUniqueViolation(err) {
			return service.workRepo.FindBySlug(context, derivedSlug)
		}
		return nil, err
	}

	return fresh, nil
}

// findOrCreateTranslator resolves a translation team by (sourceID, slug).
func (service *Service) findOrCreateTranslator(context context.Context, sourceID, name string) (*chapter.Translator, error) {
	translatorSlug := slug.From(name)

	existing, err := service.translatorRepo.FindBySlug(context, sourceID, translatorSlug)
	if err == nil {
		return existing, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	fresh := &chapter.Translator{
		ID:       uuidv7.New(),
		SourceID: sourceID,
		Name:     name,
		Slug:     translatorSlug,
	}

	if err := service.translatorRepo.Create(context, fresh); err != nil {
		if dberr.IsUniqueViolation(err) {
			return service.translatorRepo.FindBySlug(context, sourceID, translatorSlug)
		}
		return nil, err
	}

	return fresh, nil
}

// # Best-Effort Metadata Linking
//
// Linking failures are logged and swallowed: a cosmetic miss must not abort
// an otherwise successful import.

func (service *Service) linkAuthors(context context.Context, workID string, names []string) {
	for position, name := range names {
		if name == "" {
			continue
		}

		author, err := service.findOrCreateAuthor(context, name)
		if err != nil {
			service.logger.WarnContext(context, "author_link_skipped",
				slog.String("work_id", workID),
				slog.String("author", name),
				slog.Any("error", err),
			)
			continue
		}

		if err := service.authorRepo.LinkAuthorToWork(context, workID, author.ID, position); err != nil {
			service.logger.WarnContext(context, "author_link_skipped",
				slog.String("work_id", workID),
				slog.String("author", name),
				slog.Any("error", err),
			)
		}
	}
}

func (service *Service) linkGenres(context context.Context, workID string, names []string) {
	for _, name := range names {
		if name == "" {
			continue
		}

		genre, err := service.findOrCreateGenre(context, name)
		if err != nil {
			service.logger.WarnContext(context, "genre_link_skipped",
				slog.String("work_id", workID),
				slog.String("genre", name),
				slog.Any("error", err),
			)
			continue
		}

		if err := service.genreRepo.LinkGenreToWork(context, workID, genre.ID); err != nil {
			service.logger.WarnContext(context, "genre_link_skipped",
				slog.String("work_id", workID),
				slog.String("genre", name),
				slog.Any("error", err),
			)
		}
	}
}

func (service *Service) linkTags(context context.Context, workID string, names []string) {
	for _, name := range names {
		if name == "" {
			continue
		}

		tag, err := service.findOrCreateTag(context, name, metadata.CategoryFormat)
		if err != nil {
			service.logger.WarnContext(context, "tag_link_skipped",
				slog.String("work_id", workID),
				slog.String("tag", name),
				slog.Any("error", err),
			)
			continue
		}

		if err := service.tagRepo.LinkTagToWork(context, workID, tag.ID); err != nil {
			service.logger.WarnContext(context, "tag_link_skipped",
				slog.String("work_id", workID),
				slog.String("tag", name),
				slog.Any("error", err),
			)
		}
	}
}

func (service *Service) findOrCreateAuthor(context context.Context, name string) (*metadata.Author, error) {
	authorSlug := slug.From(name)

	existing, err := service.authorRepo.FindAuthorBySlug(context, authorSlug)
	if err == nil {
		return existing, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	fresh := &metadata.Author{ID: uuidv7.New(), Name: name, Slug: authorSlug}
	if err := service.authorRepo.CreateAuthor(context, fresh); err != nil {
		if dberr.IsUniqueViolation(err) {
			return service.authorRepo.FindAuthorBySlug(context, authorSlug)
		}
		return nil, err
	}

	return fresh, nil
}

func (service *Service) findOrCreateGenre(context context.Context, name string) (*metadata.Genre, error) {
	genreSlug := slug.From(name)

	existing, err := service.genreRepo.FindGenreBySlug(context, genreSlug)
	if err == nil {
		return existing, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	fresh := &metadata.Genre{ID: uuidv7.New(), Name: name, Slug: genreSlug}
	if err := service.genreRepo.CreateGenre(context, fresh); err != nil {
		if dberr.IsUniqueViolation(err) {
			return service.genreRepo.FindGenreBySlug(context, genreSlug)
		}
		return nil, err
	}

	return fresh, nil
}

func (service *Service) findOrCreateTag(context context.Context, name, category string) (*metadata.Tag, error) {
	tagSlug := slug.From(name)

	existing, err := service.tagRepo.FindTagBySlug(context, tagSlug, category)
	if err == nil {
		return existing, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	fresh := &metadata.Tag{ID: uuidv7.New(), Name: name, Slug: tagSlug, Category: category}
	if err := service.tagRepo.CreateTag(context, fresh); err != nil {
		if dberr.IsUniqueViolation(err) {
			return service.tagRepo.FindTagBySlug(context, tagSlug, category)
		}
		return nil, err
	}

	return fresh, nil
}
