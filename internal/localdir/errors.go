package localdir

import "errors"

var (
	// ErrPermissionDenied is returned when access to the referenced
	// directory is not granted, or the reference itself has been revoked.
	// Recoverable: the caller may prompt the user again.
	ErrPermissionDenied = errors.New("directory access not granted")
	// ErrPathNotFound is returned when a recorded relative path no longer
	// resolves under an authorized directory. The directory structure
	// changed since import; not retryable and never conflated with a
	// permission failure.
	ErrPathNotFound = errors.New("path not found under directory")
)
