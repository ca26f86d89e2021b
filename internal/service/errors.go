package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrBadRequest         = errors.New("bad request")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateConflict  = errors.New("destination already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrDestinationNotFound  = fmt.Errorf("destination %w", ErrNotFound)
	ErrPhotoNotFound        = fmt.Errorf("photo %w", ErrNotFound)
	ErrProposalNotFound     = fmt.Errorf("proposal %w", ErrNotFound)
	ErrTripNotFound         = fmt.Errorf("trip %w", ErrNotFound)
	ErrTreasureHuntNotFound = fmt.Errorf("treasure hunt %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == "23503"
}

// storageErr classifies a repository error that is neither "not found" nor a
// handled constraint violation.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}

// lookupErr maps sql.ErrNoRows to notFound and anything else to a storage
// failure.
func lookupErr(op string, err error, notFound error) error {
	if isNotFound(err) {
		return notFound
	}
	return storageErr(op, err)
}
