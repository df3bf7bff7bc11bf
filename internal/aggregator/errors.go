// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package aggregator

import (
	"fmt"
	"net/http"

	"github.com/nvkhoa/tosho/internal/platform/apperr"
)

// # Error Taxonomy
//
// Workflow errors carry enough context (source slug, external id) for a
// caller to retry manually. Duplicate-key races are NOT part of this
// taxonomy: they are caught inside the engine, resolved by a re-read, and
// never surfaced.

// ErrSourceNotFound builds the error for an unknown source slug.
func ErrSourceNotFound(sourceSlug string) *apperr.AppError {
	return &apperr.AppError{
		Code:       "SOURCE_NOT_FOUND",
		Message:    fmt.Sprintf("Source %q not found", sourceSlug),
		HTTPStatus: http.StatusNotFound,
	}
}

// ErrSourceInactive builds the error for a source an admin has disabled.
func ErrSourceInactive(sourceSlug string) *apperr.AppError {
	return &apperr.AppError{
		Code:       "SOURCE_INACTIVE",
		Message:    fmt.Sprintf("Source %q is not active", sourceSlug),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// ErrAdapterNotRegistered builds the error for a source with no adapter in
// the registry. This is a deployment misconfiguration, not client error.
func ErrAdapterNotRegistered(sourceSlug string) *apperr.AppError {
	return &apperr.AppError{
		Code:       "ADAPTER_NOT_REGISTERED",
		Message:    fmt.Sprintf("No adapter registered for source %q", sourceSlug),
		HTTPStatus: http.StatusNotImplemented,
	}
}

// ErrMappingNotFound builds the error for a sync requested before import.
func ErrMappingNotFound() *apperr.AppError {
	return &apperr.AppError{
		Code:       "MAPPING_NOT_FOUND",
		Message:    "Work is not linked to this source; import it first",
		HTTPStatus: http.StatusNotFound,
	}
}

// # Adapter Failure Modes

// ErrSourceUnavailable classifies a transport-level failure (connection
// refused, timeout) against an external source.
func ErrSourceUnavailable(sourceName string, cause error) *apperr.AppError {
	return apperr.Upstream(
		"SOURCE_UNAVAILABLE",
		fmt.Sprintf("Source %q is unreachable", sourceName),
		cause,
	)
}

// ErrSourceRequestFailed classifies a non-success HTTP status from a source.
func ErrSourceRequestFailed(sourceName string, statusCode int) *apperr.AppError {
	return apperr.Upstream(
		"SOURCE_REQUEST_FAILED",
		fmt.Sprintf("Source %q responded with status %d", sourceName, statusCode),
		nil,
	)
}

// ErrSourceDataInvalid classifies a response that failed schema validation.
func ErrSourceDataInvalid(sourceName string, cause error) *apperr.AppError {
	return apperr.Upstream(
		"SOURCE_DATA_INVALID",
		fmt.Sprintf("Source %q returned a malformed payload", sourceName),
		cause,
	)
}

// ErrExternalNotFound builds the error for an external id absent from the
// source's result set.
func ErrExternalNotFound(sourceName, externalID string) *apperr.AppError {
	return &apperr.AppError{
		Code:       "EXTERNAL_NOT_FOUND",
		Message:    fmt.Sprintf("Entry %q does not exist on source %q", externalID, sourceName),
		HTTPStatus: http.StatusNotFound,
	}
}
