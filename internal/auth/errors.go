package auth

import "errors"

// Failure taxonomy for the authentication pipeline. Every gate stage failure
// is terminal for the request; callers map these to HTTP statuses.
var (
	// ErrNoCredential means the request carried no bearer credential at all.
	// Distinct from verification failures: OptionalAuth degrades this to an
	// anonymous principal instead of rejecting.
	ErrNoCredential = errors.New("no credential provided")

	// ErrTokenMalformed means the token could not be parsed or its signature
	// did not verify.
	ErrTokenMalformed = errors.New("malformed token")

	// ErrTokenExpired means the token parsed and verified but is past expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrNotFound is returned by directory implementations when no record
	// exists for an identifier.
	ErrNotFound = errors.New("identity not found")

	// ErrSubjectNotFound means the verified subject exists in neither directory.
	ErrSubjectNotFound = errors.New("subject not found in any directory")

	// ErrStoreUnavailable means a directory lookup failed for reasons
	// unrelated to the credential. Surfaced as a server error, never as an
	// authorization decision.
	ErrStoreUnavailable = errors.New("identity store unavailable")
)
