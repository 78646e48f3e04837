// Package services defines the business logic for racks and status checks.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrRackNotFound indicates that the requested rack does not exist.
	ErrRackNotFound = errors.New("rack not found")

	// ErrEmptyQuery is returned when a search is attempted with an empty
	// query string. It is a validation failure, not an empty-result search.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrInvalidPage is returned when the listing page number is below 1.
	ErrInvalidPage = errors.New("page must be >= 1")

	// ErrInvalidLimit is returned when the floors-per-page limit is outside
	// the accepted [1, 20] range.
	ErrInvalidLimit = errors.New("limit must be between 1 and 20")

	// ErrEmptyClientName is returned when a status check is created without
	// a client name.
	ErrEmptyClientName = errors.New("client_name is empty")
)
