package apperr

import "errors"

// Fatal input conditions. Any of these aborts a run with exit code 1.
var (
	ErrUsage          = errors.New("usage")
	ErrRootUnreadable = errors.New("root document unreadable")
	ErrMarkerNotFound = errors.New("start-of-guide marker not found")
)
