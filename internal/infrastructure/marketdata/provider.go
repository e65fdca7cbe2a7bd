package marketdata

import (
	"context"

	"github.com/minsukang/kstock-tracker/internal/domain"
)

// Period selects the chart lookback window.
type Period string

const (
	PeriodDay   Period = "D" // 30 days
	PeriodWeek  Period = "W" // 90 days
	PeriodMonth Period = "M" // 365 days
	PeriodYear  Period = "Y" // 3 years
)

// Quote is an upstream-sourced snapshot. Never persisted; fetched at read time.
type Quote struct {
	Code         string         `json:"stock_code"`
	CurrentPrice int64          `json:"current_price"`
	Change       int64          `json:"change"`
	ChangeRate   domain.Decimal `json:"change_rate"`
	DayOpen      int64          `json:"day_open"`
	DayHigh      int64          `json:"day_high"`
	DayLow       int64          `json:"day_low"`
	Volume       int64          `json:"volume"`
	MarketCap    int64          `json:"market_cap"`
}

// Summary is the reduced quote projection used for ranking views.
type Summary struct {
	Code         string         `json:"stock_code"`
	CurrentPrice int64          `json:"current_price"`
	Change       int64          `json:"change"`
	ChangeRate   domain.Decimal `json:"change_rate"`
	Volume       int64          `json:"volume"`
	MarketCap    int64          `json:"market_cap"`
}

// Candle is one daily bar of a chart series.
type Candle struct {
	Date   string `json:"date"`
	Open   int64  `json:"open"`
	High   int64  `json:"high"`
	Low    int64  `json:"low"`
	Close  int64  `json:"close"`
	Volume int64  `json:"volume"`
}

// Provider issues market data calls against the upstream brokerage API.
// Chart series are returned oldest-first; implementations normalize the
// upstream ordering so no caller has to reorder.
type Provider interface {
	GetQuote(ctx context.Context, code string) (*Quote, error)
	GetChart(ctx context.Context, code string, period Period) ([]Candle, error)
	GetInstrumentSummary(ctx context.Context, code string) (*Summary, error)
}
