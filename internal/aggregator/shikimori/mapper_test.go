// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package shikimori_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvkhoa/tosho/internal/aggregator/shikimori"
	"github.com/nvkhoa/tosho/internal/catalog/work"
	"github.com/nvkhoa/tosho/pkg/pointer"
)

func TestMapKind(t *testing.T) {
	tests := []struct {
		kind     string
		expected work.Type
	}{
		{"manga", work.TypeManga},
		{"manhwa", work.TypeManhwa},
		{"manhua", work.TypeManhua},
		{"one_shot", work.TypeManga},
		{"doujin", work.TypeManga},
		{"novel", work.TypeManga},
		{"light_novel", work.TypeManga},
		{"something_new", work.TypeManga},
		{"", work.TypeManga},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.expected, shikimori.MapKind(tt.kind))
		})
	}
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		status   string
		expected work.Status
	}{
		{"anons", work.StatusUpcoming},
		{"ongoing", work.StatusOngoing},
		{"released", work.StatusCompleted},
		{"paused", work.StatusHiatus},
		{"discontinued", work.StatusCancelled},
		{"unknown", work.StatusOngoing},
		{"", work.StatusOngoing},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.expected, shikimori.MapStatus(tt.status))
		})
	}
}

func TestTagsFromKind(t *testing.T) {
	tests := []struct {
		kind     string
		expected []string
	}{
		{"one_shot", []string{"one-shot"}},
		{"doujin", []string{"doujin"}},
		{"novel", []string{"novel"}},
		{"light_novel", []string{"light-novel"}},
		{"manga", nil},
		{"manhwa", nil},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.expected, shikimori.TagsFromKind(tt.kind))
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    *string
		expected *string
	}{
		{"nil", nil, nil},
		{"empty", pointer.To(""), nil},
		{"plain_text", pointer.To("A classic."), pointer.To("A classic.")},
		{"tags_removed", pointer.To("<b>Bold</b> statement"), pointer.To("Bold statement")},
		{"entities_unescaped", pointer.To("Tom &amp; Jerry &quot;forever&quot;"), pointer.To(`Tom & Jerry "forever"`)},
		{"nbsp_collapses", pointer.To("one&nbsp;two"), pointer.To("one two")},
		{"only_markup", pointer.To("<br/><br/>"), nil},
		{"whitespace_trimmed", pointer.To("  padded  "), pointer.To("padded")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shikimori.StripHTML(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestRatingCountFromStats(t *testing.T) {
	t.Run("empty_is_nil", func(t *testing.T) {
		assert.Nil(t, shikimori.RatingCountFromStats(nil))
		assert.Nil(t, shikimori.RatingCountFromStats([]shikimori.ScoreStat{}))
	})

	t.Run("sums_buckets", func(t *testing.T) {
		total := shikimori.RatingCountFromStats([]shikimori.ScoreStat{
			{Score: 10, Count: 1200},
			{Score: 9, Count: 800},
			{Score: 1, Count: 3},
		})
		require.NotNil(t, total)
		assert.Equal(t, 2003, *total)
	})
}

func TestMapManga(t *testing.T) {
	manga := shikimori.Manga{
		ID:          "1706",
		Name:        "Shingeki no Kyojin",
		Russian:     pointer.To("Атака Титанов"),
		English:     pointer.To("Attack on Titan"),
		Japanese:    pointer.To("進撃の巨人"),
		Kind:        "manga",
		Status:      "released",
		Score:       pointer.To(8.89),
		Chapters:    pointer.To(141),
		Volumes:     pointer.To(34),
		Description: pointer.To("<p>Humanity versus titans.</p>"),
		Poster: &shikimori.Poster{
			OriginalURL: "https://shikimori.one/original.jpg",
			MainURL:     "https://shikimori.one/main.jpg",
		},
		URL: "/mangas/1706",
		Genres: []shikimori.Genre{
			{ID: "1", Name: "Action", Russian: pointer.To("Экшен")},
			{ID: "8", Name: "Drama"},
		},
		Publishers:  []shikimori.Publisher{{ID: "15", Name: "Kodansha"}},
		ScoresStats: []shikimori.ScoreStat{{Score: 10, Count: 100}, {Score: 9, Count: 50}},
	}

	mapped := shikimori.MapManga(manga, "https://shikimori.one")

	assert.Equal(t, "1706", mapped.ExternalID)
	assert.Equal(t, "Атака Титанов", mapped.Title)
	assert.Equal(t, work.TypeManga, mapped.Type)
	assert.Equal(t, work.StatusCompleted, mapped.Status)
	assert.Equal(t, "https://shikimori.one/mangas/1706", mapped.ExternalURL)

	require.NotNil(t, mapped.AltTitles.Localized)
	assert.Equal(t, "Attack on Titan", *mapped.AltTitles.Localized)
	require.NotNil(t, mapped.AltTitles.Romanized)
	assert.Equal(t, "Shingeki no Kyojin", *mapped.AltTitles.Romanized)
	require.NotNil(t, mapped.AltTitles.Native)
	assert.Equal(t, "進撃の巨人", *mapped.AltTitles.Native)

	require.NotNil(t, mapped.Description)
	assert.Equal(t, "Humanity versus titans.", *mapped.Description)

	require.NotNil(t, mapped.CoverURL)
	assert.Equal(t, "https://shikimori.one/original.jpg", *mapped.CoverURL)

	require.NotNil(t, mapped.ExternalRating)
	assert.InDelta(t, 8.89, *mapped.ExternalRating, 0.001)
	require.NotNil(t, mapped.ExternalRatingCount)
	assert.Equal(t, 150, *mapped.ExternalRatingCount)

	assert.Equal(t, []string{"Экшен", "Drama"}, mapped.Genres)
	assert.Equal(t, []string{"Kodansha"}, mapped.Authors)
	assert.Empty(t, mapped.Tags)
}

func TestMapManga_FallbacksWithoutRussian(t *testing.T) {
	manga := shikimori.Manga{
		ID:     "42",
		Name:   "Solo Leveling",
		Kind:   "manhwa",
		Status: "ongoing",
		URL:    "/mangas/42",
	}

	mapped := shikimori.MapManga(manga, "https://shikimori.one")

	assert.Equal(t, "Solo Leveling", mapped.Title)
	assert.Equal(t, work.TypeManhwa, mapped.Type)
	assert.Nil(t, mapped.CoverURL)
	assert.Nil(t, mapped.Description)
	assert.Nil(t, mapped.ExternalRatingCount)
	assert.Empty(t, mapped.Genres)
	assert.Empty(t, mapped.Authors)
}
