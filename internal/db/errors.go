package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates the record exists but is not in a state that
// permits the requested transition.
var ErrConflict = errors.New("conflict")

// IsNotFound reports whether err means a record was absent, covering
// both the package sentinel and raw pgx row lookups.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}
