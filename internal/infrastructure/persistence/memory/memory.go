// Package memory holds mutex-guarded, map-backed implementations of the
// domain repositories. They mirror the SQL semantics closely enough to back
// the application layer in tests and in environments without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/minsukang/kstock-tracker/internal/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	found := u
	return &found, nil
}

type InstrumentRepository struct {
	mu          sync.RWMutex
	instruments map[string]domain.Instrument
}

func NewInstrumentRepository(instruments ...domain.Instrument) *InstrumentRepository {
	r := &InstrumentRepository{instruments: make(map[string]domain.Instrument)}
	for _, inst := range instruments {
		r.instruments[inst.Code] = inst
	}
	return r
}

func (r *InstrumentRepository) FindByCode(_ context.Context, code string) (*domain.Instrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inst, ok := r.instruments[code]
	if !ok {
		return nil, domain.ErrUnknownInstrument
	}
	found := inst
	return &found, nil
}

// Search ranks like the SQL repository: name prefix, code prefix, name
// substring, code substring, names ascending within a tier.
func (r *InstrumentRepository) Search(_ context.Context, query string, limit int) ([]domain.Instrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type ranked struct {
		inst domain.Instrument
		tier int
	}
	var matches []ranked
	for _, inst := range r.instruments {
		var tier int
		switch {
		case strings.HasPrefix(inst.Name, query):
			tier = 1
		case strings.HasPrefix(inst.Code, query):
			tier = 2
		case strings.Contains(inst.Name, query):
			tier = 3
		case strings.Contains(inst.Code, query):
			tier = 4
		default:
			continue
		}
		matches = append(matches, ranked{inst: inst, tier: tier})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].tier != matches[j].tier {
			return matches[i].tier < matches[j].tier
		}
		return matches[i].inst.Name < matches[j].inst.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	result := make([]domain.Instrument, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.inst)
	}
	return result, nil
}

func (r *InstrumentRepository) List(_ context.Context, offset, limit int) ([]domain.Instrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Instrument, 0, len(r.instruments))
	for _, inst := range r.instruments {
		all = append(all, inst)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *InstrumentRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.instruments)), nil
}

type WatchlistRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[string][]domain.WatchlistEntry
}

func NewWatchlistRepository() *WatchlistRepository {
	return &WatchlistRepository{entries: make(map[string][]domain.WatchlistEntry)}
}

func (r *WatchlistRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.WatchlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.entries[ownerID]
	result := make([]domain.WatchlistEntry, len(owned))
	copy(result, owned)
	sort.Slice(result, func(i, j int) bool {
		if result[i].AddedAt.Equal(result[j].AddedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].AddedAt.After(result[j].AddedAt)
	})
	return result, nil
}

func (r *WatchlistRepository) FindByOwnerAndCode(_ context.Context, ownerID, code string) (*domain.WatchlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries[ownerID] {
		if e.Code == code {
			found := e
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *WatchlistRepository) Add(_ context.Context, entry *domain.WatchlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	r.entries[entry.OwnerID] = append(r.entries[entry.OwnerID], *entry)
	return nil
}

func (r *WatchlistRepository) Remove(_ context.Context, ownerID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.entries[ownerID]
	for i, e := range owned {
		if e.Code == code {
			r.entries[ownerID] = append(owned[:i], owned[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type LotRepository struct {
	mu     sync.Mutex
	nextID int64
	lots   map[string][]domain.Lot
}

func NewLotRepository() *LotRepository {
	return &LotRepository{lots: make(map[string][]domain.Lot)}
}

func (r *LotRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Lot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.lots[ownerID]
	result := make([]domain.Lot, len(owned))
	copy(result, owned)
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *LotRepository) FindByOwnerAndID(_ context.Context, ownerID string, id int64) (*domain.Lot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.lots[ownerID] {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *LotRepository) AddOrMerge(_ context.Context, lot *domain.Lot) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.lots[lot.OwnerID]
	for i := range owned {
		if owned[i].Code == lot.Code {
			if err := owned[i].Merge(lot.Quantity, lot.AvgPrice); err != nil {
				return 0, err
			}
			return owned[i].ID, nil
		}
	}

	r.nextID++
	stored := *lot
	stored.ID = r.nextID
	r.lots[lot.OwnerID] = append(owned, stored)
	return stored.ID, nil
}

func (r *LotRepository) Update(_ context.Context, ownerID string, id int64, quantity, avgPrice *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.lots[ownerID]
	for i := range owned {
		if owned[i].ID != id {
			continue
		}
		if quantity != nil {
			if *quantity <= 0 {
				return domain.ErrInvalidQuantity
			}
			owned[i].Quantity = *quantity
		}
		if avgPrice != nil {
			owned[i].AvgPrice = *avgPrice
		}
		return nil
	}
	return domain.ErrNotFound
}

func (r *LotRepository) Remove(_ context.Context, ownerID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.lots[ownerID]
	for i, l := range owned {
		if l.ID == id {
			r.lots[ownerID] = append(owned[:i], owned[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
