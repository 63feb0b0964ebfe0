package entities

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
)

// fixedRand returns the same draw every time; IntN is clamped to n-1
type fixedRand struct {
	float float64
	intn  int
}

func (r fixedRand) Float64() float64 { return r.float }

func (r fixedRand) IntN(n int) int {
	if r.intn >= n {
		return n - 1
	}
	return r.intn
}

func mustSupplier(t *testing.T, name string, reliability, multiplier float64, minDays, maxDays int, price, shipping int64) *Supplier {
	t.Helper()
	supplier, err := NewSupplier(
		SupplierName(name),
		reliability,
		multiplier,
		minDays,
		maxDays,
		decimal.NewFromInt(price),
		decimal.NewFromInt(shipping),
		false,
	)
	if err != nil {
		t.Fatalf("Expected valid supplier creation to succeed: %v", err)
	}
	return supplier
}

func TestSupplier_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		supplier    SupplierName
		reliability float64
		multiplier  float64
		minDays     int
		maxDays     int
		price       int64
		shipping    int64
	}{
		{"empty name", "", 0.9, 1, 2, 4, 10, 5},
		{"reliability above one", "S", 1.1, 1, 2, 4, 10, 5},
		{"negative reliability", "S", -0.1, 1, 2, 4, 10, 5},
		{"zero multiplier", "S", 0.9, 0, 2, 4, 10, 5},
		{"zero minimum days", "S", 0.9, 1, 0, 4, 10, 5},
		{"inverted range", "S", 0.9, 1, 5, 4, 10, 5},
		{"negative price", "S", 0.9, 1, 2, 4, -10, 5},
		{"negative shipping", "S", 0.9, 1, 2, 4, 10, -5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSupplier(tc.supplier, tc.reliability, tc.multiplier, tc.minDays, tc.maxDays,
				decimal.NewFromInt(tc.price), decimal.NewFromInt(tc.shipping), false)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !errors.Is(err, ErrInvalidSupplier) {
				t.Errorf("Expected ErrInvalidSupplier, got %v", err)
			}
		})
	}
}

func TestSupplier_DeliveryTime_ReliableBranch(t *testing.T) {
	supplier := mustSupplier(t, "Normal", 0.85, 1.0, 4, 7, 20, 80)

	// Draw below reliability: quoted range
	if got := supplier.DeliveryTime(fixedRand{float: 0.5, intn: 0}); got != 4 {
		t.Errorf("Expected minimum quoted delay 4, got %d", got)
	}
	if got := supplier.DeliveryTime(fixedRand{float: 0.5, intn: 100}); got != 7 {
		t.Errorf("Expected maximum quoted delay 7, got %d", got)
	}
}

func TestSupplier_DeliveryTime_UnreliableBranch(t *testing.T) {
	supplier := mustSupplier(t, "Normal", 0.85, 1.0, 4, 7, 20, 80)

	// Draw above reliability: shifted range [6, 12]
	if got := supplier.DeliveryTime(fixedRand{float: 0.9, intn: 0}); got != 6 {
		t.Errorf("Expected minimum late delay 6, got %d", got)
	}
	if got := supplier.DeliveryTime(fixedRand{float: 0.9, intn: 100}); got != 12 {
		t.Errorf("Expected maximum late delay 12, got %d", got)
	}
}

func TestSupplier_DeliveryTime_StaysInRange(t *testing.T) {
	supplier := mustSupplier(t, "Cheap", 0.6, 0.8, 7, 10, 15, 100)
	rng := rand.New(rand.NewPCG(7, 7))

	for i := 0; i < 1000; i++ {
		delay := supplier.DeliveryTime(rng)
		if delay < 7 || delay > 15 {
			t.Fatalf("Delay %d outside [7,15]", delay)
		}
	}
}

func TestSupplier_PerfectReliabilityNeverLate(t *testing.T) {
	supplier := mustSupplier(t, "Expedited", 1.0, 2.0, 1, 2, 40, 200)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 1000; i++ {
		delay := supplier.DeliveryTime(rng)
		if delay < 1 || delay > 2 {
			t.Fatalf("Delay %d outside quoted range [1,2]", delay)
		}
	}
}

func TestSupplier_Cost(t *testing.T) {
	supplier := mustSupplier(t, "Normal", 0.85, 1.0, 4, 7, 20, 80)

	testCases := []struct {
		quantity Quantity
		expected string
	}{
		{0, "80"},
		{1, "100"},
		{99, "2060"},
		{100, "1880"},
		{150, "2780"},
	}

	for _, tc := range testCases {
		got := supplier.Cost(tc.quantity)
		if !got.Equal(decimal.RequireFromString(tc.expected)) {
			t.Errorf("Cost(%d): expected %s, got %s", tc.quantity, tc.expected, got)
		}
	}
}

func TestSupplier_BulkDiscountIsTenPercentPerUnit(t *testing.T) {
	supplier := mustSupplier(t, "Premium", 0.95, 1.3, 2, 5, 25, 50)

	perUnit99 := supplier.Cost(99).Sub(supplier.ShippingCost).Div(decimal.NewFromInt(99))
	perUnit100 := supplier.Cost(100).Sub(supplier.ShippingCost).Div(decimal.NewFromInt(100))

	expected := perUnit99.Mul(decimal.RequireFromString("0.9"))
	if !perUnit100.Equal(expected) {
		t.Errorf("Expected bulk unit cost %s, got %s", expected, perUnit100)
	}
}

func TestSupplier_MeanDeliveryTime(t *testing.T) {
	supplier := mustSupplier(t, "Expedited", 1.0, 2.0, 1, 2, 40, 200)
	if got := supplier.MeanDeliveryTime(); got != 1.5 {
		t.Errorf("Expected mean delivery time 1.5, got %g", got)
	}
}
