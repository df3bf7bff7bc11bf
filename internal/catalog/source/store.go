// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package source

import "context"

// Repository is the persistence contract for sources and work-source
// mappings consumed by the aggregation engine.
//
// CreateWorkSource must surface unique-constraint violations as conflicts so
// that two racing imports of the same external id converge on one mapping.
type Repository interface {
	FindByID(context context.Context, id string) (*Source, error)
	FindBySlug(context context.Context, slug string) (*Source, error)

	FindWorkSource(context context.Context, workID, sourceID string) (*WorkSource, error)
	FindWorkSourceByExternalID(context context.Context, sourceID, externalID string) (*WorkSource, error)
	CreateWorkSource(context context.Context, mapping *WorkSource) error
	UpdateWorkSource(context context.Context, id string, update WorkSourceUpdate) error

	// TouchSyncedAt stamps the mapping with the current time after a
	// successful sync pass.
	TouchSyncedAt(context context.Context, id string) error
}
