// Command loadstocks seeds the instrument directory from a CSV file of
// code,name rows (KRX listing export).
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/sijms/go-ora/v2"

	"github.com/minsukang/kstock-tracker/internal/domain"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/config"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/persistence/sqldb"
)

func run() error {
	path := flag.String("file", "stocks.csv", "CSV file with code,name rows")
	skipHeader := flag.Bool("skip-header", true, "skip the first row")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	instruments, err := readCSV(*path, *skipHeader)
	if err != nil {
		return err
	}

	var db *sql.DB
	var dialect sqldb.Dialect
	switch cfg.DBDriver {
	case "postgres":
		db, err = sql.Open("pgx", cfg.DBDSN)
		dialect = &sqldb.PostgresDialect{}
	case "oracle":
		db, err = sql.Open("oracle", cfg.DBDSN)
		dialect = &sqldb.OracleDialect{}
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	wrapper := sqldb.New(db, dialect)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := wrapper.Dialect.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := sqldb.NewInstrumentRepository(wrapper)
	if err := repo.UpsertInstruments(ctx, instruments); err != nil {
		return fmt.Errorf("loading instruments: %w", err)
	}

	slog.Info("Instruments loaded", "count", len(instruments), "file", *path)
	return nil
}

func readCSV(path string, skipHeader bool) ([]domain.Instrument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if skipHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	instruments := make([]domain.Instrument, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected code,name", i+1)
		}
		inst := domain.Instrument{Code: row[0], Name: row[1]}
		if !inst.IsValid() {
			return nil, fmt.Errorf("row %d: invalid instrument %q", i+1, row[0])
		}
		instruments = append(instruments, inst)
	}
	return instruments, nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Load failed", "error", err)
		os.Exit(1)
	}
}
