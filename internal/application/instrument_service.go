package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/minsukang/kstock-tracker/internal/domain"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
	defaultPageSize    = 50
)

// InstrumentPage is one page of the directory listing.
type InstrumentPage struct {
	Items []domain.Instrument `json:"stocks"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

type InstrumentService struct {
	instruments domain.InstrumentRepository
}

func NewInstrumentService(instruments domain.InstrumentRepository) *InstrumentService {
	return &InstrumentService{instruments: instruments}
}

func (s *InstrumentService) Get(ctx context.Context, code string) (*domain.Instrument, error) {
	return s.instruments.FindByCode(ctx, code)
}

// Search trims the query and returns ranked matches. An empty query matches
// nothing rather than everything.
func (s *InstrumentService) Search(ctx context.Context, query string, limit int) ([]domain.Instrument, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Instrument{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := s.instruments.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching instruments: %w", err)
	}
	if results == nil {
		results = []domain.Instrument{}
	}
	return results, nil
}

func (s *InstrumentService) List(ctx context.Context, page, limit int) (*InstrumentPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	total, err := s.instruments.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting instruments: %w", err)
	}

	items, err := s.instruments.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("listing instruments: %w", err)
	}
	if items == nil {
		items = []domain.Instrument{}
	}

	return &InstrumentPage{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}
