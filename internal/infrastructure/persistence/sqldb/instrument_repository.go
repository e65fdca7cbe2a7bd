package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minsukang/kstock-tracker/internal/domain"
)

// InstrumentRepository serves the instrument directory.
type InstrumentRepository struct {
	repository
}

func NewInstrumentRepository(db *DB) *InstrumentRepository {
	return &InstrumentRepository{repository{db: db}}
}

func (r *InstrumentRepository) FindByCode(ctx context.Context, code string) (*domain.Instrument, error) {
	query := r.rebind(`SELECT code, name FROM instruments WHERE code = $1`)

	var inst domain.Instrument
	err := r.db.QueryRowContext(ctx, query, code).Scan(&inst.Code, &inst.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnknownInstrument
	}
	if err != nil {
		return nil, fmt.Errorf("querying instrument: %w", err)
	}
	return &inst, nil
}

// Search ranks matches in four tiers: name prefix, code prefix, name
// substring, code substring; names sort ascending inside a tier. The same
// bind value appears under several placeholder numbers because the oracle
// driver binds strictly by position.
func (r *InstrumentRepository) Search(ctx context.Context, query string, limit int) ([]domain.Instrument, error) {
	stmt := r.rebind(`
		SELECT code, name FROM instruments
		WHERE name LIKE '%' || $1 || '%' OR code LIKE '%' || $2 || '%'
		ORDER BY CASE
			WHEN name LIKE $3 || '%' THEN 1
			WHEN code LIKE $4 || '%' THEN 2
			WHEN name LIKE '%' || $5 || '%' THEN 3
			ELSE 4
		END, name
		FETCH FIRST $6 ROWS ONLY
	`)

	rows, err := r.db.QueryContext(ctx, stmt, query, query, query, query, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching instruments: %w", err)
	}
	return collectInstruments(rows)
}

func (r *InstrumentRepository) List(ctx context.Context, offset, limit int) ([]domain.Instrument, error) {
	stmt := r.rebind(`
		SELECT code, name FROM instruments
		ORDER BY code
		OFFSET $1 ROWS FETCH NEXT $2 ROWS ONLY
	`)

	rows, err := r.db.QueryContext(ctx, stmt, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("listing instruments: %w", err)
	}
	return collectInstruments(rows)
}

func (r *InstrumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM instruments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting instruments: %w", err)
	}
	return count, nil
}

// UpsertInstruments loads reference data, replacing names of already known
// codes. Used by the directory loader, not by request paths.
func (r *InstrumentRepository) UpsertInstruments(ctx context.Context, instruments []domain.Instrument) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		update := r.rebind(`UPDATE instruments SET name = $1 WHERE code = $2`)
		insert := r.rebind(`INSERT INTO instruments (code, name) VALUES ($1, $2)`)

		for _, inst := range instruments {
			res, err := tx.ExecContext(ctx, update, inst.Name, inst.Code)
			if err != nil {
				return fmt.Errorf("updating instrument %s: %w", inst.Code, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("upserting instrument %s: %w", inst.Code, err)
			}
			if affected == 0 {
				if _, err := tx.ExecContext(ctx, insert, inst.Code, inst.Name); err != nil {
					return fmt.Errorf("inserting instrument %s: %w", inst.Code, err)
				}
			}
		}
		return nil
	})
}

func collectInstruments(rows *sql.Rows) ([]domain.Instrument, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("Failed to close rows", "error", err)
		}
	}()

	var instruments []domain.Instrument
	for rows.Next() {
		var inst domain.Instrument
		if err := rows.Scan(&inst.Code, &inst.Name); err != nil {
			return nil, fmt.Errorf("scanning instrument: %w", err)
		}
		instruments = append(instruments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return instruments, nil
}
