package domain

import "time"

// WatchlistEntry is set membership keyed by (owner, instrument). It carries
// alert settings but no valuation logic.
type WatchlistEntry struct {
	ID           int64     `json:"watchlist_id"`
	OwnerID      string    `json:"-"`
	Code         string    `json:"stock_code"`
	AddedAt      time.Time `json:"added_at"`
	AlertEnabled bool      `json:"alert_enabled"`
	TargetPrice  *int64    `json:"target_price"`
}

func NewWatchlistEntry(ownerID, code string) WatchlistEntry {
	return WatchlistEntry{
		OwnerID: ownerID,
		Code:    code,
		AddedAt: time.Now().UTC(),
	}
}
