// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package shikimori

// # GraphQL Response Shapes
//
// These mirror the fields the adapter's queries request from the Shikimori
// GraphQL API. Optional API fields stay pointers so absent and empty can be
// told apart downstream.

// IncompleteDate is Shikimori's partial date. Any component may be null.
type IncompleteDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// Poster carries the cover art variants.
type Poster struct {
	OriginalURL string `json:"originalUrl"`
	MainURL     string `json:"mainUrl"`
}

// Genre is a Shikimori genre entry. Russian naming is preferred when set.
type Genre struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Russian *string `json:"russian"`
}

// Publisher is credited in place of authors, which the manga API does not
// expose without elevated scopes.
type Publisher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExternalLink points at the same title on another database (MAL, AniList).
type ExternalLink struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// ScoreStat is one bucket of the rating histogram.
type ScoreStat struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// StatusStat is one bucket of the reader-status histogram.
type StatusStat struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Manga is the full manga object the detail query requests.
type Manga struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Russian  *string `json:"russian"`
	English  *string `json:"english"`
	Japanese *string `json:"japanese"`

	Kind   string `json:"kind"`
	Status string `json:"status"`

	Score       *float64 `json:"score"`
	Chapters    *int     `json:"chapters"`
	Volumes     *int     `json:"volumes"`
	Description *string  `json:"description"`

	AiredOn    *IncompleteDate `json:"airedOn"`
	ReleasedOn *IncompleteDate `json:"releasedOn"`

	Poster *Poster `json:"poster"`
	URL    string  `json:"url"`

	Genres     []Genre  `json:"genres"`
	Publishers []Publisher `json:"publishers"`

	Franchise     *string        `json:"franchise"`
	ExternalLinks []ExternalLink `json:"externalLinks"`
	ScoresStats   []ScoreStat    `json:"scoresStats"`
	StatusesStats []StatusStat   `json:"statusesStats"`
}

// mangaListResponse is the GraphQL envelope both queries come back in.
type mangaListResponse struct {
	Data struct {
		Mangas []Manga `json:"mangas"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
