package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minsukang/kstock-tracker/internal/domain"
)

// WatchlistRepository persists per-user watched codes.
type WatchlistRepository struct {
	repository
}

func NewWatchlistRepository(db *DB) *WatchlistRepository {
	return &WatchlistRepository{repository{db: db}}
}

func (r *WatchlistRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.WatchlistEntry, error) {
	query := r.rebind(`
		SELECT watchlist_id, user_id, code, added_at, alert_enabled, target_price
		FROM watchlist
		WHERE user_id = $1
		ORDER BY added_at DESC
	`)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing watchlist: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("Failed to close rows", "error", err)
		}
	}()

	var entries []domain.WatchlistEntry
	for rows.Next() {
		entry, err := scanWatchlistEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WatchlistRepository) FindByOwnerAndCode(ctx context.Context, ownerID, code string) (*domain.WatchlistEntry, error) {
	query := r.rebind(`
		SELECT watchlist_id, user_id, code, added_at, alert_enabled, target_price
		FROM watchlist
		WHERE user_id = $1 AND code = $2
	`)

	entry, err := scanWatchlistEntry(r.db.QueryRowContext(ctx, query, ownerID, code).Scan)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *WatchlistRepository) Add(ctx context.Context, entry *domain.WatchlistEntry) error {
	insert := r.rebind(`
		INSERT INTO watchlist (user_id, code, added_at, alert_enabled, target_price)
		VALUES ($1, $2, $3, $4, $5)
	`)

	if _, err := r.db.ExecContext(ctx, insert,
		entry.OwnerID, entry.Code, entry.AddedAt, entry.AlertEnabled, entry.TargetPrice); err != nil {
		return fmt.Errorf("inserting watchlist entry: %w", err)
	}

	// read back the generated key; (user_id, code) is unique
	idQuery := r.rebind(`SELECT watchlist_id FROM watchlist WHERE user_id = $1 AND code = $2`)
	if err := r.db.QueryRowContext(ctx, idQuery, entry.OwnerID, entry.Code).Scan(&entry.ID); err != nil {
		return fmt.Errorf("reading watchlist id: %w", err)
	}
	return nil
}

func (r *WatchlistRepository) Remove(ctx context.Context, ownerID, code string) error {
	query := r.rebind(`DELETE FROM watchlist WHERE user_id = $1 AND code = $2`)

	res, err := r.db.ExecContext(ctx, query, ownerID, code)
	if err != nil {
		return fmt.Errorf("deleting watchlist entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting watchlist entry: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanWatchlistEntry(scan func(dest ...any) error) (*domain.WatchlistEntry, error) {
	var entry domain.WatchlistEntry
	var target sql.NullInt64

	err := scan(&entry.ID, &entry.OwnerID, &entry.Code, &entry.AddedAt, &entry.AlertEnabled, &target)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning watchlist entry: %w", err)
	}
	if target.Valid {
		entry.TargetPrice = &target.Int64
	}
	return &entry, nil
}
