package repositories

import (
	"errors"

	"github.com/jackc/pgconn"
)

// ErrDuplicateKey is returned by Create when a unique constraint rejects the row.
var ErrDuplicateKey = errors.New("duplicate_key")

const pgUniqueViolation = "23505"

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateKey
	}
	return err
}
