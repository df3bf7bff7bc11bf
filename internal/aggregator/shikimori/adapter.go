// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

/*
Package shikimori adapts the Shikimori GraphQL API (shikimori.one) to the
catalog aggregation engine.

Architecture:
  - [Adapter] satisfies the aggregator.SourceAdapter contract.
  - [Manga] and friends in schema.go mirror the GraphQL response shapes.
  - mapper.go translates Shikimori vocabulary (kind, status, score stats)
    into the canonical external form.

All outbound requests pass through a shared outbound rate limiter before
hitting the network, honouring Shikimori's published 4 rps / 80 rpm caps.
The manga API exposes no chapter feed, so FetchChapters reports none.
*/
package shikimori

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nvkhoa/tosho/internal/aggregator"
	"github.com/nvkhoa/tosho/internal/aggregator/ratelimit"
)

// SourceName identifies this adapter in error payloads and the registry.
const SourceName = "shikimori"

const detailQuery = `
query GetManga($ids: String) {
  mangas(ids: $ids, limit: 1) {
    id
    name
    russian
    english
    japanese
    kind
    status
    score
    chapters
    volumes
    description
    airedOn { year month day }
    releasedOn { year month day }
    poster { originalUrl mainUrl }
    url
    genres { id name russian }
    publishers { id name }
    franchise
    externalLinks { kind url }
    scoresStats { score count }
    statusesStats { status count }
  }
}`

const searchQuery = `
query SearchMangas($search: String, $limit: PositiveInt) {
  mangas(search: $search, limit: $limit) {
    id
    name
    russian
    english
    japanese
    kind
    status
    score
    poster { originalUrl mainUrl }
    url
    genres { id name russian }
  }
}`

const searchLimit = 20

// # Adapter

// Config carries the transport settings for [New].
type Config struct {
	BaseURL    string
	GraphQLURL string

	// AppName is sent as the User-Agent, which Shikimori requires to
	// identify API clients.
	AppName string

	Timeout time.Duration
}

// Adapter implements aggregator.SourceAdapter against the Shikimori
// GraphQL endpoint.
type Adapter struct {
	config  Config
	client  *http.Client
	limiter *ratelimit.Limiter
}

// New constructs a Shikimori [Adapter] sharing the given outbound limiter.
func New(config Config, limiter *ratelimit.Limiter) *Adapter {
	return &Adapter{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: limiter,
	}
}

// FetchWork retrieves one manga by its Shikimori id.
func (adapter *Adapter) FetchWork(context context.Context, externalID string) (*aggregator.ExternalWorkData, error) {
	mangas, err := adapter.query(context, detailQuery, map[string]any{"ids": externalID})
	if err != nil {
		return nil, err
	}

	if len(mangas) == 0 {
		return nil, aggregator.ErrExternalNotFound(SourceName, externalID)
	}

	mapped := MapManga(mangas[0], adapter.config.BaseURL)
	return &mapped, nil
}

// FetchChapters reports no chapters. Shikimori is a metadata database and
// exposes no per-chapter feed.
func (adapter *Adapter) FetchChapters(context context.Context, externalID string) ([]aggregator.ExternalChapterData, error) {
	return []aggregator.ExternalChapterData{}, nil
}

// Search runs a free-text catalog search.
func (adapter *Adapter) Search(context context.Context, query string) ([]aggregator.ExternalWorkData, error) {
	mangas, err := adapter.query(context, searchQuery, map[string]any{"search": query, "limit": searchLimit})
	if err != nil {
		return nil, err
	}

	hits := make([]aggregator.ExternalWorkData, 0, len(mangas))
	for _, manga := range mangas {
		hits = append(hits, MapManga(manga, adapter.config.BaseURL))
	}

	return hits, nil
}

// # Transport

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// query runs one rate-limited GraphQL POST and decodes the manga list.
func (adapter *Adapter) query(context context.Context, query string, variables map[string]any) ([]Manga, error) {
	if err := adapter.limiter.WaitIfNeeded(context); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, aggregator.ErrSourceDataInvalid(SourceName, err)
	}

	request, err := http.NewRequestWithContext(context, http.MethodPost, adapter.config.GraphQLURL, bytes.NewReader(payload))
	if err != nil {
		return nil, aggregator.ErrSourceUnavailable(SourceName, err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", adapter.config.AppName)

	response, err := adapter.client.Do(request)
	if err != nil {
		return nil, aggregator.ErrSourceUnavailable(SourceName, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, aggregator.ErrSourceRequestFailed(SourceName, response.StatusCode)
	}

	var decoded mangaListResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, aggregator.ErrSourceDataInvalid(SourceName, err)
	}

	if len(decoded.Errors) > 0 {
		return nil, aggregator.ErrSourceDataInvalid(SourceName, graphqlError(decoded.Errors[0].Message))
	}

	return decoded.Data.Mangas, nil
}

// graphqlError wraps a GraphQL error message as a plain error.
type graphqlError string

func (message graphqlError) Error() string {
	return "graphql: " + string(message)
}
