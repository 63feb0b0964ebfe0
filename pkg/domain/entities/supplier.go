package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// BulkDiscountQuantity is the order size from which the bulk discount applies
	BulkDiscountQuantity Quantity = 100

	// unreliable deliveries are drawn from [min+2, max+5]
	lateShiftMin = 2
	lateShiftMax = 5
)

// bulkDiscountFactor is applied to the pre-shipping cost of bulk orders
var bulkDiscountFactor = decimal.RequireFromString("0.9")

// Supplier is an immutable supplier profile
type Supplier struct {
	Name            SupplierName
	Reliability     float64
	CostMultiplier  float64
	MinDeliveryDays int
	MaxDeliveryDays int
	PerUnitPrice    decimal.Decimal
	ShippingCost    decimal.Decimal
	Expedited       bool
}

// NewSupplier creates a validated Supplier
func NewSupplier(
	name SupplierName,
	reliability, costMultiplier float64,
	minDays, maxDays int,
	perUnitPrice, shippingCost decimal.Decimal,
	expedited bool,
) (*Supplier, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidSupplier)
	}
	if reliability < 0 || reliability > 1 {
		return nil, fmt.Errorf("%w: %s reliability must be in [0,1], got %g", ErrInvalidSupplier, name, reliability)
	}
	if costMultiplier <= 0 {
		return nil, fmt.Errorf("%w: %s cost multiplier must be positive, got %g", ErrInvalidSupplier, name, costMultiplier)
	}
	if minDays < 1 {
		return nil, fmt.Errorf("%w: %s minimum delivery days must be at least 1, got %d", ErrInvalidSupplier, name, minDays)
	}
	if maxDays < minDays {
		return nil, fmt.Errorf("%w: %s delivery range (%d,%d) is inverted", ErrInvalidSupplier, name, minDays, maxDays)
	}
	if perUnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: %s per-unit price cannot be negative", ErrInvalidSupplier, name)
	}
	if shippingCost.IsNegative() {
		return nil, fmt.Errorf("%w: %s shipping cost cannot be negative", ErrInvalidSupplier, name)
	}

	return &Supplier{
		Name:            name,
		Reliability:     reliability,
		CostMultiplier:  costMultiplier,
		MinDeliveryDays: minDays,
		MaxDeliveryDays: maxDays,
		PerUnitPrice:    perUnitPrice,
		ShippingCost:    shippingCost,
		Expedited:       expedited,
	}, nil
}

// DeliveryTime draws the delivery delay in days for a new order.
// With probability Reliability the delay is uniform over the quoted range,
// otherwise it is uniform over the later, wider range [min+2, max+5].
func (s *Supplier) DeliveryTime(rng RandomSource) int {
	if rng.Float64() < s.Reliability {
		return uniformInt(rng, s.MinDeliveryDays, s.MaxDeliveryDays)
	}
	return uniformInt(rng, s.MinDeliveryDays+lateShiftMin, s.MaxDeliveryDays+lateShiftMax)
}

// Cost returns the total price of an order: units at the multiplied unit
// price, 10% off from BulkDiscountQuantity units, plus shipping once per order.
func (s *Supplier) Cost(quantity Quantity) decimal.Decimal {
	base := s.PerUnitPrice.
		Mul(decimal.NewFromFloat(s.CostMultiplier)).
		Mul(decimal.NewFromInt(int64(quantity)))
	if quantity >= BulkDiscountQuantity {
		base = base.Mul(bulkDiscountFactor)
	}
	return base.Add(s.ShippingCost)
}

// MeanDeliveryTime is the midpoint of the quoted delivery range
func (s *Supplier) MeanDeliveryTime() float64 {
	return float64(s.MinDeliveryDays+s.MaxDeliveryDays) / 2
}

func (s *Supplier) String() string {
	return fmt.Sprintf("%s(rel=%.2f, x%.2f, %d-%dd)", s.Name, s.Reliability, s.CostMultiplier, s.MinDeliveryDays, s.MaxDeliveryDays)
}

// uniformInt draws an integer uniformly from the closed interval [lo, hi]
func uniformInt(rng RandomSource, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
