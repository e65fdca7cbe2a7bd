package domain

import (
	"testing"
	"time"
)

func TestNewLot_RejectsNonPositiveQuantity(t *testing.T) {
	testCases := []struct {
		name     string
		quantity int64
	}{
		{"zero", 0},
		{"negative", -5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLot("user-1", "005930", tc.quantity, 70000, time.Now())
			if err != ErrInvalidQuantity {
				t.Errorf("expected ErrInvalidQuantity, got %v", err)
			}
		})
	}
}

func TestLot_Merge_WeightedAverage(t *testing.T) {
	lot, err := NewLot("user-1", "005930", 10, 100, time.Now())
	if err != nil {
		t.Fatalf("NewLot failed: %v", err)
	}

	if err := lot.Merge(10, 200); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if lot.Quantity != 20 {
		t.Errorf("expected quantity 20, got %d", lot.Quantity)
	}
	if lot.AvgPrice != 150 {
		t.Errorf("expected avg price 150, got %d", lot.AvgPrice)
	}
}

func TestLot_Merge_TruncatesNotRounds(t *testing.T) {
	lot, err := NewLot("user-1", "005930", 3, 100, time.Now())
	if err != nil {
		t.Fatalf("NewLot failed: %v", err)
	}

	// (3*100 + 1*99) / 4 = 99.75, truncated to 99
	if err := lot.Merge(1, 99); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if lot.AvgPrice != 99 {
		t.Errorf("expected truncated avg price 99, got %d", lot.AvgPrice)
	}
}

func TestLot_Merge_RejectsNonPositiveQuantity(t *testing.T) {
	lot, err := NewLot("user-1", "005930", 10, 100, time.Now())
	if err != nil {
		t.Fatalf("NewLot failed: %v", err)
	}

	if err := lot.Merge(0, 100); err != ErrInvalidQuantity {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
	if lot.Quantity != 10 || lot.AvgPrice != 100 {
		t.Errorf("lot mutated by rejected merge: qty=%d avg=%d", lot.Quantity, lot.AvgPrice)
	}
}

func TestLot_CostBasis(t *testing.T) {
	lot, err := NewLot("user-1", "005930", 5, 70000, time.Now())
	if err != nil {
		t.Fatalf("NewLot failed: %v", err)
	}

	if got := lot.CostBasis(); got != 350000 {
		t.Errorf("expected cost basis 350000, got %d", got)
	}
}
