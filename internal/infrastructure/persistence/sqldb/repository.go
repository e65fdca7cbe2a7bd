package sqldb

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// repository carries the shared handle and dialect-aware helpers for the
// per-entity repositories in this package.
type repository struct {
	db *DB
}

func (r *repository) rebind(query string) string {
	return r.db.Dialect.Rebind(query)
}

// isUniqueViolation detects a unique constraint violation for either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// ORA-00001: unique constraint violated
	return strings.Contains(err.Error(), "ORA-00001")
}
