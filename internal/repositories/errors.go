package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/avdm2017/microblog/internal/middlewares"
)

// ErrDuplicate is returned when an insert or update hits a unique
// constraint (username, email). Callers translate it into their own
// duplicate sentinel instead of surfacing a generic storage fault.
var ErrDuplicate = errors.New("unique constraint violation")

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// classify maps driver-level constraint violations to ErrDuplicate and
// passes everything else through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// executor returns the per-request transaction when one was opened by the
// tx middleware, falling back to the shared pool otherwise.
func executor(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx := middlewares.GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

// collapse flattens a multi-line query for single-line logging.
func collapse(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
