package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minsukang/kstock-tracker/internal/domain"
)

// LotRepository persists portfolio lots, one row per (user, code).
type LotRepository struct {
	repository
}

func NewLotRepository(db *DB) *LotRepository {
	return &LotRepository{repository{db: db}}
}

func (r *LotRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Lot, error) {
	query := r.rebind(`
		SELECT portfolio_id, user_id, code, quantity, avg_price, purchase_date, created_at
		FROM portfolio
		WHERE user_id = $1
		ORDER BY created_at DESC
	`)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("Failed to close rows", "error", err)
		}
	}()

	var lots []domain.Lot
	for rows.Next() {
		var lot domain.Lot
		if err := rows.Scan(&lot.ID, &lot.OwnerID, &lot.Code, &lot.Quantity,
			&lot.AvgPrice, &lot.PurchaseDate, &lot.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning lot: %w", err)
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lots, nil
}

func (r *LotRepository) FindByOwnerAndID(ctx context.Context, ownerID string, id int64) (*domain.Lot, error) {
	query := r.rebind(`
		SELECT portfolio_id, user_id, code, quantity, avg_price, purchase_date, created_at
		FROM portfolio
		WHERE user_id = $1 AND portfolio_id = $2
	`)

	var lot domain.Lot
	err := r.db.QueryRowContext(ctx, query, ownerID, id).Scan(&lot.ID, &lot.OwnerID,
		&lot.Code, &lot.Quantity, &lot.AvgPrice, &lot.PurchaseDate, &lot.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying lot: %w", err)
	}
	return &lot, nil
}

// AddOrMerge inserts a new lot or folds the purchase into an existing one.
// The existing row is locked for the duration of the transaction so two
// simultaneous purchases of the same code serialize instead of racing the
// read-then-write.
func (r *LotRepository) AddOrMerge(ctx context.Context, lot *domain.Lot) (int64, error) {
	var id int64

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		lock := r.rebind(`
			SELECT portfolio_id, quantity, avg_price
			FROM portfolio
			WHERE user_id = $1 AND code = $2
			FOR UPDATE
		`)

		var existing domain.Lot
		err := tx.QueryRowContext(ctx, lock, lot.OwnerID, lot.Code).
			Scan(&existing.ID, &existing.Quantity, &existing.AvgPrice)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			insert := r.rebind(`
				INSERT INTO portfolio (user_id, code, quantity, avg_price, purchase_date, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`)
			if _, err := tx.ExecContext(ctx, insert, lot.OwnerID, lot.Code,
				lot.Quantity, lot.AvgPrice, lot.PurchaseDate, lot.CreatedAt); err != nil {
				return fmt.Errorf("inserting lot: %w", err)
			}

			idQuery := r.rebind(`SELECT portfolio_id FROM portfolio WHERE user_id = $1 AND code = $2`)
			if err := tx.QueryRowContext(ctx, idQuery, lot.OwnerID, lot.Code).Scan(&id); err != nil {
				return fmt.Errorf("reading lot id: %w", err)
			}
			return nil

		case err != nil:
			return fmt.Errorf("locking lot: %w", err)

		default:
			if err := existing.Merge(lot.Quantity, lot.AvgPrice); err != nil {
				return err
			}

			update := r.rebind(`UPDATE portfolio SET quantity = $1, avg_price = $2 WHERE portfolio_id = $3`)
			if _, err := tx.ExecContext(ctx, update, existing.Quantity, existing.AvgPrice, existing.ID); err != nil {
				return fmt.Errorf("updating lot: %w", err)
			}
			id = existing.ID
			return nil
		}
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *LotRepository) Update(ctx context.Context, ownerID string, id int64, quantity, avgPrice *int64) error {
	if quantity == nil && avgPrice == nil {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		lock := r.rebind(`
			SELECT quantity, avg_price
			FROM portfolio
			WHERE user_id = $1 AND portfolio_id = $2
			FOR UPDATE
		`)

		var currentQty, currentAvg int64
		err := tx.QueryRowContext(ctx, lock, ownerID, id).Scan(&currentQty, &currentAvg)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("locking lot: %w", err)
		}

		if quantity != nil {
			if *quantity <= 0 {
				return domain.ErrInvalidQuantity
			}
			currentQty = *quantity
		}
		if avgPrice != nil {
			currentAvg = *avgPrice
		}

		update := r.rebind(`UPDATE portfolio SET quantity = $1, avg_price = $2 WHERE portfolio_id = $3`)
		if _, err := tx.ExecContext(ctx, update, currentQty, currentAvg, id); err != nil {
			return fmt.Errorf("updating lot: %w", err)
		}
		return nil
	})
}

func (r *LotRepository) Remove(ctx context.Context, ownerID string, id int64) error {
	query := r.rebind(`DELETE FROM portfolio WHERE user_id = $1 AND portfolio_id = $2`)

	res, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("deleting lot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting lot: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
