package storage

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrQuotaExceeded is returned when embedding content would exceed the
	// storage allowance. Callers should suggest switching the course to
	// local-reference storage.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrUsageUnavailable is returned when the storage usage estimate is not
	// supported on this host. It marks an optional feature, not a failure.
	ErrUsageUnavailable = errors.New("storage usage estimate unavailable")
)

// mapDriverError translates low-level SQLite failures into the package's
// error taxonomy. A full database surfaces as ErrQuotaExceeded.
func mapDriverError(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) && (se.Code == sqlite3.ErrFull || se.Code == sqlite3.ErrTooBig) {
		return ErrQuotaExceeded
	}
	return err
}
