package sqldb

import (
	"context"
	"database/sql"
)

// Dialect isolates the driver-specific parts: schema migration and bind
// placeholder syntax. Queries are written with $n placeholders and rebound
// per dialect.
type Dialect interface {
	Name() string
	Migrate(ctx context.Context, db *sql.DB) error
	Rebind(query string) string
}
