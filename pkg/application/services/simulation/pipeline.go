package simulation

import (
	"github.com/vsinha/supplysim/pkg/application/services/policy"
	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// OrderPipeline holds placed orders until their due day.
// Orders are kept in placement order and each is released exactly once.
type OrderPipeline struct {
	pending []*entities.PendingOrder
	nextID  int
}

// NewOrderPipeline creates an empty pipeline
func NewOrderPipeline() *OrderPipeline {
	return &OrderPipeline{
		pending: make([]*entities.PendingOrder, 0),
		nextID:  1,
	}
}

// Place records an order placed today that arrives delay days later
func (p *OrderPipeline) Place(today entities.Day, request entities.OrderRequest, delay int) (*entities.PendingOrder, error) {
	order, err := entities.NewPendingOrder(p.nextID, today, delay, request.Quantity, request.Supplier, request.Class)
	if err != nil {
		return nil, err
	}
	p.nextID++
	p.pending = append(p.pending, order)
	return order, nil
}

// ReleaseDue removes and returns every order due on or before today.
// Orders not yet due stay in placement order.
func (p *OrderPipeline) ReleaseDue(today entities.Day) []*entities.PendingOrder {
	due := make([]*entities.PendingOrder, 0)
	remaining := p.pending[:0]
	for _, order := range p.pending {
		if order.IsDue(today) {
			due = append(due, order)
		} else {
			remaining = append(remaining, order)
		}
	}
	for i := len(remaining); i < len(p.pending); i++ {
		p.pending[i] = nil
	}
	p.pending = remaining
	return due
}

// Pending returns a copy of the undelivered orders
func (p *OrderPipeline) Pending() []*entities.PendingOrder {
	pending := make([]*entities.PendingOrder, len(p.pending))
	copy(pending, p.pending)
	return pending
}

// Counts returns the number of undelivered orders per class
func (p *OrderPipeline) Counts() policy.PendingCounts {
	var counts policy.PendingCounts
	for _, order := range p.pending {
		switch order.Class {
		case entities.EmergencyOrder:
			counts.Emergency++
		default:
			counts.Normal++
		}
	}
	return counts
}

// Len returns the number of undelivered orders
func (p *OrderPipeline) Len() int {
	return len(p.pending)
}
