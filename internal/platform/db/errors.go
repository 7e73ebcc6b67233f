package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const codeForeignKeyViolation = "23503"

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation, e.g. inserting a row that references a missing patient.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
