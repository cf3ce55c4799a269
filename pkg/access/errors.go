package access

import "errors"

var (
	// ErrAcademyNotFound is returned by providers when no academy matches.
	ErrAcademyNotFound = errors.New("academy not found")

	// ErrGroupNotFound is returned by providers when no group matches.
	ErrGroupNotFound = errors.New("group not found")

	// ErrLookupFailed wraps storage failures during verification.
	ErrLookupFailed = errors.New("access lookup failed")
)
