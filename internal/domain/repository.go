package domain

import "context"

// Repository interfaces follow the DDD repository pattern. All methods take a
// context.Context for timeout handling and cancellation propagation.

type UserRepository interface {
	// Create persists a new user; ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

type InstrumentRepository interface {
	// FindByCode returns ErrUnknownInstrument on a miss. Every component uses
	// this as a gate before issuing an upstream call or accepting a write.
	FindByCode(ctx context.Context, code string) (*Instrument, error)
	// Search ranks matches: name prefix, code prefix, name substring, code
	// substring; name ascending within a tier. The query is matched as stored.
	Search(ctx context.Context, query string, limit int) ([]Instrument, error)
	List(ctx context.Context, offset, limit int) ([]Instrument, error)
	Count(ctx context.Context) (int64, error)
}

type WatchlistRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]WatchlistEntry, error)
	FindByOwnerAndCode(ctx context.Context, ownerID, code string) (*WatchlistEntry, error)
	Add(ctx context.Context, entry *WatchlistEntry) error
	Remove(ctx context.Context, ownerID, code string) error
}

type LotRepository interface {
	// ListByOwner returns lots most recently created first.
	ListByOwner(ctx context.Context, ownerID string) ([]Lot, error)
	FindByOwnerAndID(ctx context.Context, ownerID string, id int64) (*Lot, error)
	// AddOrMerge inserts the lot, or, when the owner already holds the code,
	// merges quantity and weighted average price into the existing row. The
	// read-then-write runs in one transaction so concurrent purchases of the
	// same code cannot produce duplicate rows.
	AddOrMerge(ctx context.Context, lot *Lot) (int64, error)
	Update(ctx context.Context, ownerID string, id int64, quantity, avgPrice *int64) error
	Remove(ctx context.Context, ownerID string, id int64) error
}
