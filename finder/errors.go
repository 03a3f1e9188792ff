package finder

import (
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrInvalidTable is returned by NewSQLFinder when no table is given.
	ErrInvalidTable = errors.New("sql finder requires a table name")

	// ErrEmptyCriteria is returned when a lookup has no criteria, which would
	// otherwise match an arbitrary row.
	ErrEmptyCriteria = errors.New("finder requires at least one criteria entry")

	// ErrUnsupportedValue is returned when a criteria value is a list.
	ErrUnsupportedValue = errors.New("criteria values must be scalar")
)

// IsNotFound reports whether err means the lookup matched no record.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var gerr *goerrors.Error
	if errors.As(err, &gerr) {
		return gerr.Category == goerrors.CategoryNotFound
	}
	return false
}

func queryError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithTextCode("FINDER_QUERY_FAILED")
}
