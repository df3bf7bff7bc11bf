// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package aggregator

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nvkhoa/tosho/internal/platform/constants"
	requestutil "github.com/nvkhoa/tosho/internal/platform/request"
	"github.com/nvkhoa/tosho/internal/platform/respond"
	"github.com/nvkhoa/tosho/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for the aggregation workflows. All
// endpoints are admin tooling; the surrounding router is expected to gate
// them before they are reachable.
type Handler struct {
	service *Service
}

// NewHandler constructs a new aggregation [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches aggregation endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Post("/sources/{sourceSlug}/import", handler.ImportWork)
	api.Get("/sources/{sourceSlug}/search", handler.SearchWorks)

	api.Post("/works/{workID}/sources/{sourceID}/sync", handler.SyncWork)
	api.Post("/works/{workID}/sources/{sourceID}/sync-chapters", handler.SyncChapters)
}

// # Import

// importWorkRequest defines the inbound JSON schema for an import.
type importWorkRequest struct {
	ExternalID string `json:"external_id"`
	ActorID    string `json:"actor_id"`
}

/*
POST /api/v1/sources/{sourceSlug}/import.

Description: Imports a work from the named external source. Re-importing an
already-known external id returns the existing work with 200 semantics
folded into the 201 body.

Request:
  - sourceSlug: string
  - body: importWorkRequest

Response:
  - 201: Work: The canonical work
  - 400: ErrInvalidJSON/Validation: Invalid payload
  - 404: Source or external entry not found
  - 422: Source disabled
  - 502: Source unreachable or misbehaving
*/
func (handler *Handler) ImportWork(writer http.ResponseWriter, request *http.Request) {
	sourceSlug := requestutil.ID(request, "sourceSlug")

	var body importWorkRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(constants.FieldSlug, sourceSlug).
		Required("external_id", body.ExternalID).
		Required("actor_id", body.ActorID).
		UUID("actor_id", body.ActorID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	imported, err := handler.service.ImportWorkFromSource(request.Context(), sourceSlug, body.ExternalID, body.ActorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, imported)
}

// # Sync

/*
POST /api/v1/works/{workID}/sources/{sourceID}/sync.

Description: Overwrites the work's mirrored fields with fresh external data.

Request:
  - workID: string (UUID)
  - sourceID: string (UUID)

Response:
  - 204: Sync applied
  - 404: No mapping between work and source
  - 502: Source unreachable or misbehaving
*/
func (handler *Handler) SyncWork(writer http.ResponseWriter, request *http.Request) {
	workID := requestutil.ID(request, "workID")
	sourceID := requestutil.ID(request, "sourceID")

	v := &validate.Validator{}
	v.UUID("work_id", workID).UUID("source_id", sourceID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SyncWorkFromSource(request.Context(), workID, sourceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/works/{workID}/sources/{sourceID}/sync-chapters.

Description: Appends newly discovered chapters from the source.

Request:
  - workID: string (UUID)
  - sourceID: string (UUID)

Response:
  - 200: {new_chapters: int}: Count of chapters created
  - 404: No mapping between work and source
  - 502: Source unreachable or misbehaving
*/
func (handler *Handler) SyncChapters(writer http.ResponseWriter, request *http.Request) {
	workID := requestutil.ID(request, "workID")
	sourceID := requestutil.ID(request, "sourceID")

	v := &validate.Validator{}
	v.UUID("work_id", workID).UUID("source_id", sourceID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.SyncChaptersFromSource(request.Context(), workID, sourceID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"new_chapters": created})
}

// # Search

/*
GET /api/v1/sources/{sourceSlug}/search?q=...

Description: Searches the external source's catalog for import candidates.

Request:
  - sourceSlug: string
  - q: string (Free-text query)

Response:
  - 200: {items: []ExternalWorkData}: Mapped search hits
  - 400: Missing query
  - 404: Source not found
  - 502: Source unreachable or misbehaving
*/
func (handler *Handler) SearchWorks(writer http.ResponseWriter, request *http.Request) {
	sourceSlug := requestutil.ID(request, "sourceSlug")
	query := request.URL.Query().Get("q")

	v := &validate.Validator{}
	v.Required(constants.FieldSlug, sourceSlug).Required("q", query)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	hits, err := handler.service.SearchWorks(request.Context(), sourceSlug, query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{constants.FieldItems: hits})
}
