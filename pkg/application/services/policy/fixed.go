package policy

import (
	"fmt"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// FixedThresholdConfig holds the parameters of the fixed reorder-point policy
type FixedThresholdConfig struct {
	ReorderThreshold entities.Quantity
	OrderQuantity    entities.Quantity
}

// FixedThreshold orders a fixed quantity from one designated supplier
// whenever stock is below the threshold and nothing is on order
type FixedThreshold struct {
	config   FixedThresholdConfig
	supplier *entities.Supplier
}

// NewFixedThreshold creates a fixed-threshold policy
func NewFixedThreshold(config FixedThresholdConfig, supplier *entities.Supplier) (*FixedThreshold, error) {
	if supplier == nil {
		return nil, fmt.Errorf("fixed policy requires a supplier")
	}
	if config.OrderQuantity <= 0 {
		return nil, fmt.Errorf("fixed policy order quantity must be positive, got %d", config.OrderQuantity)
	}
	if config.ReorderThreshold < 0 {
		return nil, fmt.Errorf("fixed policy threshold cannot be negative, got %d", config.ReorderThreshold)
	}
	return &FixedThreshold{config: config, supplier: supplier}, nil
}

// Name returns the policy kind
func (p *FixedThreshold) Name() string {
	return string(KindFixed)
}

// Decide implements ReorderPolicy
func (p *FixedThreshold) Decide(ledger LedgerView, pending PendingCounts, day entities.Day) []entities.OrderRequest {
	if pending.Total() > 0 || ledger.Stock() >= p.config.ReorderThreshold {
		return nil
	}
	return []entities.OrderRequest{{
		Quantity: p.config.OrderQuantity,
		Supplier: p.supplier,
		Class:    entities.NormalOrder,
	}}
}

// OnOrderPlaced implements ReorderPolicy; the fixed policy keeps no state
func (p *FixedThreshold) OnOrderPlaced(order *entities.PendingOrder) {}
