package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minsukang/kstock-tracker/internal/domain"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/marketdata"
)

const purchaseDateLayout = "2006-01-02"

// Position is one valued lot. When the live quote could not be fetched the
// position is valued at cost and flagged degraded, so one upstream failure
// never sinks the whole portfolio view.
type Position struct {
	LotID        int64          `json:"portfolio_id"`
	Code         string         `json:"stock_code"`
	Name         string         `json:"stock_name"`
	Quantity     int64          `json:"quantity"`
	AvgPrice     int64          `json:"avg_price"`
	CurrentPrice int64          `json:"current_price"`
	PurchaseDate string         `json:"purchase_date"`
	Cost         int64          `json:"total_cost"`
	Value        int64          `json:"total_value"`
	PnL          int64          `json:"profit_loss"`
	PnLRate      domain.Decimal `json:"profit_loss_rate"`
	Degraded     bool           `json:"degraded,omitempty"`
}

type ValuationSummary struct {
	TotalCost     int64          `json:"total_cost"`
	TotalValue    int64          `json:"total_value"`
	TotalPnL      int64          `json:"total_profit_loss"`
	PnLRate       domain.Decimal `json:"total_profit_loss_rate"`
	PositionCount int            `json:"position_count"`
}

type Valuation struct {
	Positions []Position       `json:"portfolio"`
	Summary   ValuationSummary `json:"summary"`
}

type PortfolioService struct {
	lots        domain.LotRepository
	instruments domain.InstrumentRepository
	marketData  marketdata.Provider
}

func NewPortfolioService(lots domain.LotRepository, instruments domain.InstrumentRepository, marketData marketdata.Provider) *PortfolioService {
	return &PortfolioService{
		lots:        lots,
		instruments: instruments,
		marketData:  marketData,
	}
}

// AddLot records a purchase. A code absent from the directory is rejected
// before anything is written. A second purchase of the same code merges into
// the existing lot with a quantity-weighted average price.
func (s *PortfolioService) AddLot(ctx context.Context, ownerID, code string, quantity, avgPrice int64, purchaseDate string) (*domain.Lot, error) {
	if _, err := s.instruments.FindByCode(ctx, code); err != nil {
		return nil, err
	}
	if avgPrice < 0 {
		return nil, domain.ErrInvalidPrice
	}

	date, err := time.Parse(purchaseDateLayout, purchaseDate)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	lot, err := domain.NewLot(ownerID, code, quantity, avgPrice, date)
	if err != nil {
		return nil, err
	}

	id, err := s.lots.AddOrMerge(ctx, &lot)
	if err != nil {
		return nil, fmt.Errorf("storing lot: %w", err)
	}

	// Re-read so a merged lot reflects the combined quantity and price.
	return s.lots.FindByOwnerAndID(ctx, ownerID, id)
}

func (s *PortfolioService) UpdateLot(ctx context.Context, ownerID string, lotID int64, quantity, avgPrice *int64) (*domain.Lot, error) {
	if quantity != nil && *quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if avgPrice != nil && *avgPrice < 0 {
		return nil, domain.ErrInvalidPrice
	}

	if err := s.lots.Update(ctx, ownerID, lotID, quantity, avgPrice); err != nil {
		return nil, err
	}
	return s.lots.FindByOwnerAndID(ctx, ownerID, lotID)
}

func (s *PortfolioService) RemoveLot(ctx context.Context, ownerID string, lotID int64) error {
	return s.lots.Remove(ctx, ownerID, lotID)
}

// Valuate prices every lot with a live quote and aggregates the totals.
// The summary sums integer cost and value exactly and derives its rate from
// the sums, so it is consistent with the positions regardless of rounding.
func (s *PortfolioService) Valuate(ctx context.Context, ownerID string) (*Valuation, error) {
	lots, err := s.lots.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}

	positions := make([]Position, 0, len(lots))
	var totalCost, totalValue int64

	for _, lot := range lots {
		pos := Position{
			LotID:        lot.ID,
			Code:         lot.Code,
			Quantity:     lot.Quantity,
			AvgPrice:     lot.AvgPrice,
			PurchaseDate: lot.PurchaseDate.Format(purchaseDateLayout),
		}
		if inst, err := s.instruments.FindByCode(ctx, lot.Code); err == nil {
			pos.Name = inst.Name
		}

		quote, err := s.marketData.GetQuote(ctx, lot.Code)
		if err != nil {
			slog.WarnContext(ctx, "Quote fetch failed, valuing position at cost",
				"code", lot.Code, "error", err)
			pos.CurrentPrice = lot.AvgPrice
			pos.Degraded = true
		} else {
			pos.CurrentPrice = quote.CurrentPrice
		}

		pos.Cost = lot.Quantity * lot.AvgPrice
		pos.Value = lot.Quantity * pos.CurrentPrice
		pos.PnL = pos.Value - pos.Cost
		pos.PnLRate = domain.RatePercent(pos.PnL, pos.Cost)

		totalCost += pos.Cost
		totalValue += pos.Value
		positions = append(positions, pos)
	}

	return &Valuation{
		Positions: positions,
		Summary: ValuationSummary{
			TotalCost:     totalCost,
			TotalValue:    totalValue,
			TotalPnL:      totalValue - totalCost,
			PnLRate:       domain.RatePercent(totalValue-totalCost, totalCost),
			PositionCount: len(positions),
		},
	}, nil
}
