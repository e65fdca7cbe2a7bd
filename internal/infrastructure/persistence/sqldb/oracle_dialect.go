package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/minsukang/kstock-tracker/internal/infrastructure/persistence/sqldb/migrations"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) Migrate(ctx context.Context, db *sql.DB) error {
	// Goose has no Oracle support, so the init script is executed directly.
	// Statements are separated by '/' as is standard in Oracle scripts.
	content, err := migrations.OracleFS.ReadFile("oracle/00001_init.sql")
	if err != nil {
		return fmt.Errorf("reading migration file: %w", err)
	}

	statements := strings.Split(string(content), "/")

	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// ORA-00955: name is already used by an existing object
			if !strings.Contains(err.Error(), "ORA-00955") {
				return fmt.Errorf("migrating: %s: %w", stmt, err)
			}
		}
	}
	return nil
}

// Rebind converts $n placeholders into Oracle's :n form.
func (d *OracleDialect) Rebind(query string) string {
	for i := 20; i >= 1; i-- {
		query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), fmt.Sprintf(":%d", i))
	}
	return query
}
