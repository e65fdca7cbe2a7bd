package application

import (
	"context"
	"fmt"

	"github.com/minsukang/kstock-tracker/internal/domain"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/news/googlenews"
)

// HeadlineFetcher is implemented by googlenews.Client.
type HeadlineFetcher interface {
	Headlines(ctx context.Context, name string) ([]googlenews.Headline, error)
}

// StockNews is the headline response for one instrument.
type StockNews struct {
	Code      string                `json:"stock_code"`
	Name      string                `json:"stock_name"`
	Headlines []googlenews.Headline `json:"news"`
}

// NewsService fetches headlines by the instrument's name, so the code must
// resolve through the directory first.
type NewsService struct {
	instruments domain.InstrumentRepository
	fetcher     HeadlineFetcher
}

func NewNewsService(instruments domain.InstrumentRepository, fetcher HeadlineFetcher) *NewsService {
	return &NewsService{instruments: instruments, fetcher: fetcher}
}

func (s *NewsService) GetNews(ctx context.Context, code string) (*StockNews, error) {
	inst, err := s.instruments.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	headlines, err := s.fetcher.Headlines(ctx, inst.Name)
	if err != nil {
		return nil, fmt.Errorf("fetching headlines for %s: %w", code, err)
	}
	if headlines == nil {
		headlines = []googlenews.Headline{}
	}

	return &StockNews{
		Code:      inst.Code,
		Name:      inst.Name,
		Headlines: headlines,
	}, nil
}
