package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minsukang/kstock-tracker/internal/domain"
)

// WatchlistItem is a watchlist entry joined with the instrument name.
type WatchlistItem struct {
	ID           int64     `json:"watchlist_id"`
	Code         string    `json:"stock_code"`
	Name         string    `json:"stock_name"`
	AddedAt      time.Time `json:"added_at"`
	AlertEnabled bool      `json:"alert_enabled"`
	TargetPrice  *int64    `json:"target_price"`
}

type WatchlistService struct {
	watchlist   domain.WatchlistRepository
	instruments domain.InstrumentRepository
}

func NewWatchlistService(watchlist domain.WatchlistRepository, instruments domain.InstrumentRepository) *WatchlistService {
	return &WatchlistService{watchlist: watchlist, instruments: instruments}
}

func (s *WatchlistService) List(ctx context.Context, ownerID string) ([]WatchlistItem, error) {
	entries, err := s.watchlist.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing watchlist: %w", err)
	}

	items := make([]WatchlistItem, 0, len(entries))
	for _, entry := range entries {
		item := WatchlistItem{
			ID:           entry.ID,
			Code:         entry.Code,
			AddedAt:      entry.AddedAt,
			AlertEnabled: entry.AlertEnabled,
			TargetPrice:  entry.TargetPrice,
		}
		if inst, err := s.instruments.FindByCode(ctx, entry.Code); err == nil {
			item.Name = inst.Name
		}
		items = append(items, item)
	}
	return items, nil
}

// Add puts the code on the owner's watchlist. Adding a code already present
// is not an error; the existing entry is returned with added=false.
func (s *WatchlistService) Add(ctx context.Context, ownerID, code string) (*domain.WatchlistEntry, bool, error) {
	if _, err := s.instruments.FindByCode(ctx, code); err != nil {
		return nil, false, err
	}

	existing, err := s.watchlist.FindByOwnerAndCode(ctx, ownerID, code)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("checking watchlist: %w", err)
	}

	entry := domain.NewWatchlistEntry(ownerID, code)
	if err := s.watchlist.Add(ctx, &entry); err != nil {
		return nil, false, fmt.Errorf("adding watchlist entry: %w", err)
	}
	return &entry, true, nil
}

func (s *WatchlistService) Remove(ctx context.Context, ownerID, code string) error {
	return s.watchlist.Remove(ctx, ownerID, code)
}

// Check reports whether the code is on the owner's watchlist.
func (s *WatchlistService) Check(ctx context.Context, ownerID, code string) (bool, error) {
	_, err := s.watchlist.FindByOwnerAndCode(ctx, ownerID, code)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking watchlist: %w", err)
	}
	return true, nil
}
