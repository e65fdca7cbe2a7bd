package domain

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Decimal wraps apd.Decimal for the few non-integer figures in the domain:
// daily change rates quoted by the exchange and profit/loss rates derived
// from integer KRW amounts. Prices and amounts themselves stay int64.
type Decimal struct {
	apd.Decimal
}

// arithmetic context for rate math; 20 digits is far beyond KRX tick sizes.
var decimalCtx = apd.BaseContext.WithPrecision(20)

var ZeroDecimal = NewDecimalFromInt(0)

func NewDecimalFromInt(v int64) Decimal {
	d := Decimal{}
	d.SetInt64(v)
	return d
}

func NewDecimalFromString(v string) (Decimal, error) {
	d := Decimal{}
	if _, _, err := d.SetString(v); err != nil {
		return d, fmt.Errorf("invalid decimal string %q: %w", v, err)
	}
	return d, nil
}

// RatePercent computes part/whole*100 rounded half-up to two decimal places.
// A zero whole yields zero, so callers never divide by zero on empty cost.
func RatePercent(part, whole int64) Decimal {
	if whole == 0 {
		return ZeroDecimal
	}
	p := NewDecimalFromInt(part)
	w := NewDecimalFromInt(whole)
	hundred := NewDecimalFromInt(100)

	res := Decimal{}
	// errors are impossible for finite operands within the context precision
	_, _ = decimalCtx.Quo(&res.Decimal, &p.Decimal, &w.Decimal)
	_, _ = decimalCtx.Mul(&res.Decimal, &res.Decimal, &hundred.Decimal)
	return res.Round(2)
}

// Round rounds half-up to the given number of decimal places.
func (d Decimal) Round(places int32) Decimal {
	ctx := apd.BaseContext.WithPrecision(20)
	ctx.Rounding = apd.RoundHalfUp

	res := Decimal{}
	_, _ = ctx.Quantize(&res.Decimal, &d.Decimal, -places)
	return res
}

func (d Decimal) String() string {
	return d.Decimal.String()
}

func (d Decimal) IsZero() bool {
	return d.Decimal.IsZero()
}

func (d Decimal) Equal(other Decimal) bool {
	return d.Decimal.Cmp(&other.Decimal) == 0
}

// MarshalJSON emits the bare number, not a quoted string.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	_, _, err := d.SetString(s)
	return err
}
