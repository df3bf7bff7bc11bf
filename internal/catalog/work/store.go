// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package work

import "context"

// Repository is the persistence contract for works consumed by the
// aggregation engine.
//
// Create must surface unique-constraint violations as conflicts (see
// dberr.IsUniqueViolation) — the engine relies on that signal to resolve
// concurrent duplicate-create races.
type Repository interface {
	FindByID(context context.Context, id string) (*Work, error)
	FindBySlug(context context.Context, slug string) (*Work, error)
	Create(context context.Context, work *Work) error
	Update(context context.Context, id string, update Update) error
}
