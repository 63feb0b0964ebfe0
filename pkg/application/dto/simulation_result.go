package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// SimulationResult contains the complete output of one policy run
type SimulationResult struct {
	RunID      string               `json:"run_id"`
	Policy     string               `json:"policy"`
	Records    []entities.DayRecord `json:"records"`
	Orders     []OrderRecord        `json:"orders"`
	Deliveries []DeliveryRecord     `json:"deliveries"`
	Summary    entities.RunSummary  `json:"summary"`
	Duration   time.Duration        `json:"duration_ns"`
}

// OrderRecord describes one placed order
type OrderRecord struct {
	ID          int                   `json:"id"`
	PlacedDay   entities.Day          `json:"placed_day"`
	DueDay      entities.Day          `json:"due_day"`
	Delay       int                   `json:"delay"`
	Quantity    entities.Quantity     `json:"quantity"`
	Supplier    entities.SupplierName `json:"supplier"`
	Class       string                `json:"class"`
	Cost        decimal.Decimal       `json:"cost"`
	ModelScored bool                  `json:"model_scored"`
}

// DeliveryRecord describes one order applied to the ledger
type DeliveryRecord struct {
	OrderID   int                   `json:"order_id"`
	Day       entities.Day          `json:"day"`
	PlacedDay entities.Day          `json:"placed_day"`
	Supplier  entities.SupplierName `json:"supplier"`
	Quantity  entities.Quantity     `json:"quantity"`
	Accepted  entities.Quantity     `json:"accepted"`
	Discarded entities.Quantity     `json:"discarded"`
}

// Comparison holds several policy runs over one shared demand series
type Comparison struct {
	Demand  entities.DemandSeries `json:"demand"`
	Results []*SimulationResult   `json:"results"`
}

// Best returns the result with the highest profit, or nil when empty.
// Ties keep run order.
func (c *Comparison) Best() *SimulationResult {
	var best *SimulationResult
	for _, result := range c.Results {
		if best == nil || result.Summary.Profit.GreaterThan(best.Summary.Profit) {
			best = result
		}
	}
	return best
}
