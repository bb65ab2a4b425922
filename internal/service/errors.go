package service

import "errors"

var (
	// ErrMalformedReport marks a submission rejected before any store
	// mutation: severity out of range, missing description or category,
	// negative amount.
	ErrMalformedReport = errors.New("malformed report")

	// ErrStoreUnavailable marks a write the backing store could not
	// confirm. The report may be retried by the caller.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidFilter marks an unknown category or severity bucket in a
	// search request.
	ErrInvalidFilter = errors.New("invalid filter")
)
