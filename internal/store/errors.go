package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrIdentityAlreadyExists is returned when an attempt to register a new
	// account fails because the username or email is already taken.
	ErrIdentityAlreadyExists = errors.New("username or email already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least
	// one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrNoPendingEmail is returned when an email-change promotion targets an
	// account that has no pending address set.
	ErrNoPendingEmail = errors.New("no pending email to promote")
)
