package domain

import "time"

// Lot is a user's recorded holding of a single instrument: quantity plus cost
// basis. A user holds at most one lot per instrument; buying more of the same
// code merges into the existing lot. A lot never carries a live market price.
type Lot struct {
	ID           int64     `json:"portfolio_id"`
	OwnerID      string    `json:"-"`
	Code         string    `json:"stock_code"`
	Quantity     int64     `json:"quantity"`
	AvgPrice     int64     `json:"avg_price"`
	PurchaseDate time.Time `json:"purchase_date"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewLot(ownerID, code string, quantity, avgPrice int64, purchaseDate time.Time) (Lot, error) {
	if quantity <= 0 {
		return Lot{}, ErrInvalidQuantity
	}
	return Lot{
		OwnerID:      ownerID,
		Code:         code,
		Quantity:     quantity,
		AvgPrice:     avgPrice,
		PurchaseDate: purchaseDate,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Merge folds an additional purchase into the lot. The new average price is
// the quantity-weighted mean of both purchases with integer truncation:
// floor((q1*p1 + q2*p2) / (q1+q2)).
func (l *Lot) Merge(quantity, avgPrice int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	total := l.Quantity + quantity
	l.AvgPrice = (l.Quantity*l.AvgPrice + quantity*avgPrice) / total
	l.Quantity = total
	return nil
}

// CostBasis is the total purchase amount of the lot.
func (l Lot) CostBasis() int64 {
	return l.Quantity * l.AvgPrice
}
