// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package shikimori_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvkhoa/tosho/internal/aggregator/ratelimit"
	"github.com/nvkhoa/tosho/internal/aggregator/shikimori"
	"github.com/nvkhoa/tosho/internal/catalog/work"
	"github.com/nvkhoa/tosho/internal/platform/apperr"
)

func newAdapter(serverURL string) *shikimori.Adapter {
	return shikimori.New(shikimori.Config{
		BaseURL:    "https://shikimori.one",
		GraphQLURL: serverURL,
		AppName:    "tosho-test",
		Timeout:    5 * time.Second,
	}, ratelimit.New(1000, 60000))
}

func mangaPayload(mangas ...map[string]any) []byte {
	payload, _ := json.Marshal(map[string]any{
		"data": map[string]any{"mangas": mangas},
	})
	return payload
}

func sampleManga() map[string]any {
	return map[string]any{
		"id":      "1706",
		"name":    "Shingeki no Kyojin",
		"russian": "Атака Титанов",
		"kind":    "manga",
		"status":  "released",
		"url":     "/mangas/1706",
	}
}

func TestAdapter_FetchWork(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		captured = request.Clone(context.Background())

		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Contains(t, body.Query, "mangas(ids: $ids")
		assert.Equal(t, "1706", body.Variables["ids"])

		writer.Header().Set("Content-Type", "application/json")
		writer.Write(mangaPayload(sampleManga()))
	}))
	defer server.Close()

	adapter := newAdapter(server.URL)

	fetched, err := adapter.FetchWork(context.Background(), "1706")
	require.NoError(t, err)
	require.NotNil(t, fetched)

	assert.Equal(t, "1706", fetched.ExternalID)
	assert.Equal(t, "Атака Титанов", fetched.Title)
	assert.Equal(t, work.StatusCompleted, fetched.Status)
	assert.Equal(t, "https://shikimori.one/mangas/1706", fetched.ExternalURL)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "tosho-test", captured.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
}

func TestAdapter_FetchWork_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.Write(mangaPayload())
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).FetchWork(context.Background(), "99999999")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "EXTERNAL_NOT_FOUND", appError.Code)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

func TestAdapter_FetchWork_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).FetchWork(context.Background(), "1706")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "SOURCE_REQUEST_FAILED", appError.Code)
	assert.Equal(t, http.StatusBadGateway, appError.HTTPStatus)
}

func TestAdapter_FetchWork_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).FetchWork(context.Background(), "1706")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "SOURCE_DATA_INVALID", appError.Code)
}

func TestAdapter_FetchWork_GraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"data":{"mangas":[]},"errors":[{"message":"Field 'nope' doesn't exist"}]}`))
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).FetchWork(context.Background(), "1706")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "SOURCE_DATA_INVALID", appError.Code)
}

func TestAdapter_FetchWork_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := newAdapter(server.URL).FetchWork(context.Background(), "1706")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "SOURCE_UNAVAILABLE", appError.Code)
	assert.Equal(t, http.StatusBadGateway, appError.HTTPStatus)
}

func TestAdapter_FetchChapters_AlwaysEmpty(t *testing.T) {
	adapter := newAdapter("http://127.0.0.1:1") // never dialed

	chapters, err := adapter.FetchChapters(context.Background(), "1706")
	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestAdapter_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Contains(t, body.Query, "mangas(search: $search")
		assert.Equal(t, "титанов", body.Variables["search"])
		assert.EqualValues(t, 20, body.Variables["limit"])

		second := sampleManga()
		second["id"] = "2"
		second["name"] = "Before the Fall"
		second["russian"] = nil

		writer.Header().Set("Content-Type", "application/json")
		writer.Write(mangaPayload(sampleManga(), second))
	}))
	defer server.Close()

	hits, err := newAdapter(server.URL).Search(context.Background(), "титанов")
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "Атака Титанов", hits[0].Title)
	assert.Equal(t, "Before the Fall", hits[1].Title)
}
