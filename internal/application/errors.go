package application

import "errors"

// Error taxonomy shared by every service. Handlers translate these to
// HTTP statuses; repositories and collaborators never return them
// directly.
var (
	// ErrNotFound covers absent or soft-destroyed references. Board reads
	// by non-members also surface as ErrNotFound so existence never
	// leaks.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers duplicate email on register, already-a-member
	// invitation acceptance, and invalid verification tokens.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized is an authentication failure (bad credentials,
	// bad token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is a valid identity that is not allowed to act
	// (inactive account).
	ErrForbidden = errors.New("forbidden")

	// ErrUpstream is a mail/upload/search collaborator failure. It never
	// unwinds writes that already committed.
	ErrUpstream = errors.New("upstream unavailable")
)
