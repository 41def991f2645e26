package domain

import "errors"

// Issuance failures. Callers tell them apart with errors.Is; a denial must
// never be reported as a failure or the other way round, since clients retry
// the latter but not the former.
var (
	// ErrUnauthorized means the permission service answered and the user
	// may not edit the record.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable means the permission service could not be asked:
	// network error, timeout or cancellation.
	ErrServiceUnavailable = errors.New("permission service unavailable")

	// ErrTokenGenerationFailed means no token could be produced, either
	// because the permission check itself errored or because signing failed.
	ErrTokenGenerationFailed = errors.New("token generation failed")

	// ErrInvalidIdentifier is a blank or malformed user or record id.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)
