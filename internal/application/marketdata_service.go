package application

import (
	"context"

	"github.com/minsukang/kstock-tracker/internal/domain"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/marketdata"
)

// MarketDataService fronts the upstream gateway for read endpoints. Every
// call is gated on directory membership, so unknown codes are rejected
// without spending an upstream request.
type MarketDataService struct {
	instruments domain.InstrumentRepository
	provider    marketdata.Provider
}

func NewMarketDataService(instruments domain.InstrumentRepository, provider marketdata.Provider) *MarketDataService {
	return &MarketDataService{instruments: instruments, provider: provider}
}

func (s *MarketDataService) GetQuote(ctx context.Context, code string) (*marketdata.Quote, error) {
	if _, err := s.instruments.FindByCode(ctx, code); err != nil {
		return nil, err
	}
	return s.provider.GetQuote(ctx, code)
}

// GetChart returns daily candles oldest-first for the period's lookback
// window.
func (s *MarketDataService) GetChart(ctx context.Context, code string, period marketdata.Period) ([]marketdata.Candle, error) {
	if _, err := s.instruments.FindByCode(ctx, code); err != nil {
		return nil, err
	}
	return s.provider.GetChart(ctx, code, period)
}

func (s *MarketDataService) GetSummary(ctx context.Context, code string) (*marketdata.Summary, error) {
	if _, err := s.instruments.FindByCode(ctx, code); err != nil {
		return nil, err
	}
	return s.provider.GetInstrumentSummary(ctx, code)
}
