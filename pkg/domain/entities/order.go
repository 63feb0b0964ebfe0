package entities

import (
	"fmt"
)

// OrderClass distinguishes routine replenishment from expedited orders
type OrderClass int

const (
	NormalOrder OrderClass = iota
	EmergencyOrder
)

// String method for OrderClass enum
func (c OrderClass) String() string {
	switch c {
	case NormalOrder:
		return "Normal"
	case EmergencyOrder:
		return "Emergency"
	default:
		return "Unknown"
	}
}

// OrderRequest is a policy's request to buy stock from a supplier
type OrderRequest struct {
	Quantity Quantity
	Supplier *Supplier
	Class    OrderClass
}

// PendingOrder is an order placed but not yet delivered
type PendingOrder struct {
	ID        int
	PlacedDay Day
	DueDay    Day
	Quantity  Quantity
	Supplier  *Supplier
	Class     OrderClass
}

// NewPendingOrder creates a validated PendingOrder due delay days after placement
func NewPendingOrder(
	id int,
	placedDay Day,
	delay int,
	quantity Quantity,
	supplier *Supplier,
	class OrderClass,
) (*PendingOrder, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidOrder, quantity)
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: supplier cannot be nil", ErrInvalidOrder)
	}
	if delay < 1 {
		return nil, fmt.Errorf("%w: delivery delay must be at least 1 day, got %d", ErrInvalidOrder, delay)
	}

	return &PendingOrder{
		ID:        id,
		PlacedDay: placedDay,
		DueDay:    placedDay + Day(delay),
		Quantity:  quantity,
		Supplier:  supplier,
		Class:     class,
	}, nil
}

// Delay is the number of days between placement and delivery
func (o *PendingOrder) Delay() int {
	return int(o.DueDay - o.PlacedDay)
}

// IsDue reports whether the order is deliverable on the given day
func (o *PendingOrder) IsDue(today Day) bool {
	return o.DueDay <= today
}
