// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package shikimori

import (
	"regexp"
	"strings"

	"github.com/nvkhoa/tosho/internal/aggregator"
	"github.com/nvkhoa/tosho/internal/catalog/work"
)

// # Mapping Tables

var kindToType = map[string]work.Type{
	"manga":       work.TypeManga,
	"manhwa":      work.TypeManhwa,
	"manhua":      work.TypeManhua,
	"one_shot":    work.TypeManga,
	"doujin":      work.TypeManga,
	"novel":       work.TypeManga,
	"light_novel": work.TypeManga,
}

var statusToStatus = map[string]work.Status{
	"anons":        work.StatusUpcoming,
	"ongoing":      work.StatusOngoing,
	"released":     work.StatusCompleted,
	"paused":       work.StatusHiatus,
	"discontinued": work.StatusCancelled,
}

var kindToTags = map[string][]string{
	"one_shot":    {"one-shot"},
	"doujin":      {"doujin"},
	"novel":       {"novel"},
	"light_novel": {"light-novel"},
}

// MapKind translates a Shikimori kind into a catalog work type. Unknown
// kinds default to manga.
func MapKind(kind string) work.Type {
	if mapped, known := kindToType[kind]; known {
		return mapped
	}
	return work.TypeManga
}

// MapStatus translates a Shikimori status into a catalog status. Unknown
// statuses default to ongoing.
func MapStatus(status string) work.Status {
	if mapped, known := statusToStatus[status]; known {
		return mapped
	}
	return work.StatusOngoing
}

// TagsFromKind derives platform format tags from the Shikimori kind.
// Plain serialized kinds carry no tags.
func TagsFromKind(kind string) []string {
	return kindToTags[kind]
}

// # Description Cleanup

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

var htmlEntityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// StripHTML removes markup and unescapes common entities from a Shikimori
// description. Empty results map to nil.
func StripHTML(html *string) *string {
	if html == nil || *html == "" {
		return nil
	}

	cleaned := htmlTagPattern.ReplaceAllString(*html, "")
	cleaned = htmlEntityReplacer.Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return nil
	}

	return &cleaned
}

// RatingCountFromStats folds the score histogram into a total vote count.
// A missing or empty histogram maps to nil, not zero.
func RatingCountFromStats(stats []ScoreStat) *int {
	if len(stats) == 0 {
		return nil
	}

	total := 0
	for _, stat := range stats {
		total += stat.Count
	}

	return &total
}

// # Canonical Mapping

// MapManga converts a fetched Shikimori manga into the canonical external
// form. The display title prefers the russian name, falling back to the
// romanized one; publishers stand in for authors since the manga API does
// not expose author credits.
func MapManga(manga Manga, sourceBaseURL string) aggregator.ExternalWorkData {
	title := manga.Name
	if manga.Russian != nil && *manga.Russian != "" {
		title = *manga.Russian
	}

	var coverURL *string
	if manga.Poster != nil {
		if manga.Poster.OriginalURL != "" {
			coverURL = &manga.Poster.OriginalURL
		} else if manga.Poster.MainURL != "" {
			coverURL = &manga.Poster.MainURL
		}
	}

	genres := make([]string, 0, len(manga.Genres))
	for _, genre := range manga.Genres {
		if genre.Russian != nil && *genre.Russian != "" {
			genres = append(genres, *genre.Russian)
			continue
		}
		genres = append(genres, genre.Name)
	}

	authors := make([]string, 0, len(manga.Publishers))
	for _, publisher := range manga.Publishers {
		authors = append(authors, publisher.Name)
	}

	romanized := manga.Name

	return aggregator.ExternalWorkData{
		ExternalID: manga.ID,
		Title:      title,
		AltTitles: work.AlternativeTitles{
			Localized: manga.English,
			Romanized: &romanized,
			Native:    manga.Japanese,
		},
		Type:                MapKind(manga.Kind),
		Status:              MapStatus(manga.Status),
		Description:         StripHTML(manga.Description),
		CoverURL:            coverURL,
		ExternalURL:         sourceBaseURL + manga.URL,
		ExternalRating:      manga.Score,
		ExternalRatingCount: RatingCountFromStats(manga.ScoresStats),
		Genres:              genres,
		Authors:             authors,
		Tags:                TagsFromKind(manga.Kind),
		Metadata: map[string]any{
			"chapters":      manga.Chapters,
			"volumes":       manga.Volumes,
			"airedOn":       manga.AiredOn,
			"releasedOn":    manga.ReleasedOn,
			"franchise":     manga.Franchise,
			"publishers":    manga.Publishers,
			"externalLinks": manga.ExternalLinks,
			"scoresStats":   manga.ScoresStats,
			"statusesStats": manga.StatusesStats,
		},
	}
}
