// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package aggregator_test

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/nvkhoa/tosho/internal/aggregator"
	"github.com/nvkhoa/tosho/internal/catalog/chapter"
	"github.com/nvkhoa/tosho/internal/catalog/metadata"
	"github.com/nvkhoa/tosho/internal/catalog/source"
	"github.com/nvkhoa/tosho/internal/catalog/work"
	"github.com/nvkhoa/tosho/internal/platform/apperr"
)

// # In-Memory Fakes
//
// The fakes enforce the same unique constraints the Postgres schema does,
// returning CONFLICT apperrs on duplicate keys, so all find-or-create race
// handling in the service is exercised for real.

func conflict(resource string) error {
	return apperr.Conflict(resource + " already exists")
}

// # Work Repository

type fakeWorkRepo struct {
	mu     sync.Mutex
	byID   map[string]*work.Work
	bySlug map[string]*work.Work
}

func newFakeWorkRepo() *fakeWorkRepo {
	return &fakeWorkRepo{byID: map[string]*work.Work{}, bySlug: map[string]*work.Work{}}
}

func (repo *fakeWorkRepo) FindByID(_ context.Context, id string) (*work.Work, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if found, ok := repo.byID[id]; ok {
		clone := *found
		return &clone, nil
	}
	return nil, apperr.NotFound("Work")
}

func (repo *fakeWorkRepo) FindBySlug(_ context.Context, slug string) (*work.Work, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if found, ok := repo.bySlug[slug]; ok {
		clone := *found
		return &clone, nil
	}
	return nil, apperr.NotFound("Work")
}

func (repo *fakeWorkRepo) Create(_ context.Context, entity *work.Work) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, exists := repo.bySlug[entity.Slug]; exists {
		return conflict("Work")
	}
	clone := *entity
	repo.byID[entity.ID] = &clone
	repo.bySlug[entity.Slug] = &clone
	return nil
}

func (repo *fakeWorkRepo) Update(_ context.Context, id string, update work.Update) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	stored, ok := repo.byID[id]
	if !ok {
		return apperr.NotFound("Work")
	}
	stored.Title = update.Title
	stored.Description = update.Description
	stored.Status = update.Status
	stored.CoverURL = update.CoverURL
	stored.AltTitles = update.AltTitles
	return nil
}

func (repo *fakeWorkRepo) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.byID)
}

// # Source Repository

type fakeSourceRepo struct {
	mu         sync.Mutex
	sources    map[string]*source.Source // by id
	mappings   map[string]*source.WorkSource
	byExternal map[string]*source.WorkSource // sourceID|externalID
	byWork     map[string]*source.WorkSource // workID|sourceID

	// beforeCreateMapping runs inside CreateWorkSource before the insert,
	// letting tests wedge a competing mapping in to force a conflict.
	beforeCreateMapping func()
}

func newFakeSourceRepo(sources ...*source.Source) *fakeSourceRepo {
	repo := &fakeSourceRepo{
		sources:    map[string]*source.Source{},
		mappings:   map[string]*source.WorkSource{},
		byExternal: map[string]*source.WorkSource{},
		byWork:     map[string]*source.WorkSource{},
	}
	for _, src := range sources {
		repo.sources[src.ID] = src
	}
	return repo
}

func (repo *fakeSourceRepo) FindByID(_ context.Context, id string) (*source.Source, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if found, ok := repo.sources[id]; ok {
		return found, nil
	}
	return nil, apperr.NotFound("Source")
}

func (repo *fakeSourceRepo) FindBySlug(_ context.Context, slug string) (*source.Source, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, src := range repo.sources {
		if src.Slug == slug {
			return src, nil
		}
	}
	return nil, apperr.NotFound("Source")
}

func (repo *fakeSourceRepo) FindWorkSource(_ context.Context, workID, sourceID string) (*source.WorkSource, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if found, ok := repo.byWork[workID+"|"+sourceID]; ok {
		clone := *found
		return &clone, nil
	}
	return nil, apperr.NotFound("WorkSource")
}

func (repo *fakeSourceRepo) FindWorkSourceByExternalID(_ context.Context, sourceID, externalID string) (*source.WorkSource, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if found, ok := repo.byExternal[sourceID+"|"+externalID]; ok {
		clone := *found
		return &clone, nil
	}
	return nil, apperr.NotFound("WorkSource")
}

func (repo *fakeSourceRepo) CreateWorkSource(_ context.Context, mapping *source.WorkSource) error {
	if repo.beforeCreateMapping != nil {
		hook := repo.beforeCreateMapping
		repo.beforeCreateMapping = nil
		hook()
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	key := mapping.SourceID + "|" + mapping.ExternalID
	if _, exists := repo.byExternal[key]; exists {
		return conflict("WorkSource")
	}
	clone := *mapping
	repo.mappings[mapping.ID] = &clone
	repo.byExternal[key] = &clone
	repo.byWork[mapping.WorkID+"|"+mapping.SourceID] = &clone
	return nil
}

func (repo *fakeSourceRepo) UpdateWorkSource(_ context.Context, id string, update source.WorkSourceUpdate) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	stored, ok := repo.mappings[id]
	if !ok {
		return apperr.NotFound("WorkSource")
	}
	stored.ExternalRating = update.ExternalRating
	stored.ExternalRatingCount = update.ExternalRatingCount
	stored.Metadata = update.Metadata
	return nil
}

func (repo *fakeSourceRepo) TouchSyncedAt(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	stored, ok := repo.mappings[id]
	if !ok {
		return apperr.NotFound("WorkSource")
	}
	now := time.Now()
	stored.SyncedAt = &now
	return nil
}

func (repo *fakeSourceRepo) mappingCount() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.mappings)
}

func (repo *fakeSourceRepo) mappingFor(workID, sourceID string) *source.WorkSource {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.byWork[workID+"|"+sourceID]
}

// # Metadata Repositories
//
// One fake serves the author, genre, and tag contracts, mirroring the
// production Postgres repository.

type fakeMetadataRepo struct {
	mu      sync.Mutex
	authors map[string]*metadata.Author // by slug
	genres  map[string]*metadata.Genre  // by slug
	tags    map[string]*metadata.Tag    // by slug|category

	authorLinks map[string][]string // workID -> authorIDs in position order
	genreLinks  map[string][]string
	tagLinks    map[string][]string

	// failLinks makes every Link call error, for testing that imports
	// tolerate metadata linking failures.
	failLinks bool
}

func newFakeMetadataRepo() *fakeMetadataRepo {
	return &fakeMetadataRepo{
		authors:     map[string]*metadata.Author{},
		genres:      map[string]*metadata.Genre{},
		tags:        map[string]*metadata.Tag{},
		authorLinks: map[string][]string{},
		genreLinks:  map[string][]string{},
		tagLinks:    map[string][]string{},
	}
}

func (repo *fakeMetadataRepo) FindAuthorBySlug(_ context.Context, slug string) (*metadata.Author, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if found, ok := repo.authors[slug]; ok {
		return found, nil
	}
	return nil, apperr.NotFound("Author")
}

func (repo *fakeMetadataRepo) CreateAuthor(_ context.Context, author *metadata.Author) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, exists := repo.authors[author.Slug]; exists {
		return conflict("Author")
	}
	repo.authors[author.Slug] = author
	return nil
}

func (repo *fakeMetadataRepo) LinkAuthorToWork(_ context.Context, workID, authorID string, position int) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.failLinks {
		return apperr.Internal(nil)
	}
	repo.authorLinks[workID] = append(repo.authorLinks[workID], authorID)
	return nil
}

func (repo *fakeMetadataRepo) UnlinkAuthorFromWork(_ context.Context, workID, authorID string) error {
	return nil
}

func (repo *fakeMetadataRepo) FindGenreBySlug(_ context.Context, slug string) (*metadata.Genre, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if found, ok := repo.genres[slug]; ok {
		return found, nil
	}
	return nil, apperr.NotFound("Genre")
}

func (repo *fakeMetadataRepo) CreateGenre(_ context.Context, genre *metadata.Genre) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, exists := repo.genres[genre.Slug]; exists {
		return conflict("Genre")
	}
	repo.genres[genre.Slug] = genre
	return nil
}

func (repo *fakeMetadataRepo) LinkGenreToWork(_ context.Context, workID, genreID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.failLinks {
		return apperr.Internal(nil)
	}
	repo.genreLinks[workID] = append(repo.genreLinks[workID], genreID)
	return nil
}

func (repo *fakeMetadataRepo) UnlinkGenreFromWork(_ context.Context, workID, genreID string) error {
	return nil
}

func (repo *fakeMetadataRepo) FindTagBySlug(_ context.Context, slug, category string) (*metadata.Tag, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if found, ok := repo.tags[slug+"|"+category]; ok {
		return found, nil
	}
	return nil, apperr.NotFound("Tag")
}

func (repo *fakeMetadataRepo) CreateTag(_ context.Context, tag *metadata.Tag) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, exists := repo.tags[tag.Slug+"|"+tag.Category]; exists {
		return conflict("Tag")
	}
	repo.tags[tag.Slug+"|"+tag.Category] = tag
	return nil
}

func (repo *fakeMetadataRepo) LinkTagToWork(_ context.Context, workID, tagID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.failLinks {
		return apperr.Internal(nil)
	}
	repo.tagLinks[workID] = append(repo.tagLinks[workID], tagID)
	return nil
}

func (repo *fakeMetadataRepo) UnlinkTagFromWork(_ context.Context, workID, tagID string) error {
	return nil
}

// # Chapter Repositories

func chapterKey(workID, sourceID string, number float64, translatorID *string) string {
	translator := "<none>"
	if translatorID != nil {
		translator = *translatorID
	}
	return workID + "|" + sourceID + "|" + translator + "|" + strconv.FormatFloat(number, 'f', -1, 64)
}

type fakeChapterRepo struct {
	mu       sync.Mutex
	chapters map[string]*chapter.Chapter
}

func newFakeChapterRepo() *fakeChapterRepo {
	return &fakeChapterRepo{chapters: map[string]*chapter.Chapter{}}
}

func (repo *fakeChapterRepo) FindByNumber(_ context.Context, workID, sourceID string, number float64, translatorID *string) (*chapter.Chapter, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if found, ok := repo.chapters[chapterKey(workID, sourceID, number, translatorID)]; ok {
		return found, nil
	}
	return nil, apperr.NotFound("Chapter")
}

func (repo *fakeChapterRepo) Create(_ context.Context, entity *chapter.Chapter) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	key := chapterKey(entity.WorkID, entity.SourceID, entity.Number, entity.TranslatorID)
	if _, exists := repo.chapters[key]; exists {
		return conflict("Chapter")
	}
	repo.chapters[key] = entity
	return nil
}

func (repo *fakeChapterRepo) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.chapters)
}

type fakeTranslatorRepo struct {
	mu          sync.Mutex
	translators map[string]*chapter.Translator // sourceID|slug
}

func newFakeTranslatorRepo() *fakeTranslatorRepo {
	return &fakeTranslatorRepo{translators: map[string]*chapter.Translator{}}
}

func (repo *fakeTranslatorRepo) FindBySlug(_ context.Context, sourceID, slug string) (*chapter.Translator, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if found, ok := repo.translators[sourceID+"|"+slug]; ok {
		return found, nil
	}
	return nil, apperr.NotFound("Translator")
}

func (repo *fakeTranslatorRepo) Create(_ context.Context, translator *chapter.Translator) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	key := translator.SourceID + "|" + translator.Slug
	if _, exists := repo.translators[key]; exists {
		return conflict("Translator")
	}
	repo.translators[key] = translator
	return nil
}

func (repo *fakeTranslatorRepo) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.translators)
}

// # Adapter Fake

type fakeAdapter struct {
	mu sync.Mutex

	workData   *aggregator.ExternalWorkData
	workErr    error
	chapters   []aggregator.ExternalChapterData
	chapterErr error
	searchHits []aggregator.ExternalWorkData
	searchErr  error

	fetchWorkCalls int
	searchCalls    int
}

func (adapter *fakeAdapter) FetchWork(_ context.Context, externalID string) (*aggregator.ExternalWorkData, error) {
	adapter.mu.Lock()
	adapter.fetchWorkCalls++
	adapter.mu.Unlock()
	if adapter.workErr != nil {
		return nil, adapter.workErr
	}
	clone := *adapter.workData
	return &clone, nil
}

func (adapter *fakeAdapter) FetchChapters(_ context.Context, externalID string) ([]aggregator.ExternalChapterData, error) {
	if adapter.chapterErr != nil {
		return nil, adapter.chapterErr
	}
	return adapter.chapters, nil
}

func (adapter *fakeAdapter) Search(_ context.Context, query string) ([]aggregator.ExternalWorkData, error) {
	adapter.mu.Lock()
	adapter.searchCalls++
	adapter.mu.Unlock()
	if adapter.searchErr != nil {
		return nil, adapter.searchErr
	}
	return adapter.searchHits, nil
}

func (adapter *fakeAdapter) calls() int {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()
	return adapter.fetchWorkCalls
}
