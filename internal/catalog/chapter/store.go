// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package chapter

import "context"

// Repository persists chapters discovered during sync.
//
// Create must surface unique-constraint violations on the chapter identity
// tuple as conflicts; the aggregation engine treats them as already-known
// chapters rather than failures.
type Repository interface {
	// FindByNumber resolves a chapter by its identity tuple. translatorID
	// nil matches only rows with no translator.
	FindByNumber(context context.Context, workID, sourceID string, number float64, translatorID *string) (*Chapter, error)
	Create(context context.Context, chapter *Chapter) error
}

// TranslatorRepository persists translation teams, created on demand when a
// synced chapter credits a translator the platform has not seen before.
type TranslatorRepository interface {
	FindBySlug(context context.Context, sourceID, slug string) (*Translator, error)
	Create(context context.Context, translator *Translator) error
}
