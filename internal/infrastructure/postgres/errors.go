package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/oksasatya/vital-identity/pkg/apperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// dbError translates driver errors into domain kinds. subject names the row kind for
// NotFound and AlreadyExists messages; other failures carry no kind.
func dbError(err error, op, subject string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.New(apperr.NotFound, "%s not found", subject)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.New(apperr.AlreadyExists, "%s already exists", subject)
		case pgForeignKeyViolation:
			return apperr.New(apperr.NotFound, "referenced %s not found", subject)
		}
	}
	return oops.With("operation", op).Wrap(err)
}

// affected turns an update that matched nothing into NotFound.
func affected(tag pgconn.CommandTag, subject string) error {
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "%s not found", subject)
	}
	return nil
}
