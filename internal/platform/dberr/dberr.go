// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Conflict Classification
//
// The aggregation engine resolves concurrent duplicate-create races by
// attempting an optimistic INSERT and falling back to a re-read when the
// database reports a unique-constraint violation. [IsUniqueViolation] is the
// native conflict signal (Postgres SQLSTATE 23505) that triggers that
// fallback; it must never be swallowed into a generic internal error.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nvkhoa/tosho/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505), either raw or already wrapped by [Wrap].
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == pgerrcode.UniqueViolation
	}

	if appError := apperr.As(err); appError != nil {
		return appError.Code == "CONFLICT"
	}

	return false
}

// IsNotFound reports whether err represents a missing row, either as raw
// pgx.ErrNoRows or as an already-mapped NOT_FOUND [apperr.AppError].
func IsNotFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}

	if appError := apperr.As(err); appError != nil {
		return appError.Code == "NOT_FOUND"
	}

	return false
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Unique violations become Conflicts. Callers running a find-or-create
	// sequence treat this as "someone else won the race" and re-read.
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		conflict := apperr.Conflict(resource + " already exists")
		conflict.Cause = err
		return conflict
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}
