package policy

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// AdaptiveConfig holds the parameters of the adaptive reorder policy
type AdaptiveConfig struct {
	Lookback               int
	SafetyMultiplier       float64
	TrendWeight            float64
	EmergencyFraction      float64
	EmergencyOrderQuantity entities.Quantity
	MinDaysBetweenOrders   int
	CoverageDays           float64
	MinOrderQuantity       entities.Quantity
	MissedRevenueThreshold decimal.Decimal
	ScalingFactor          float64
}

// Validate checks the adaptive parameters
func (c AdaptiveConfig) Validate() error {
	if c.Lookback < 1 {
		return fmt.Errorf("adaptive lookback must be at least 1, got %d", c.Lookback)
	}
	if c.SafetyMultiplier < 0 {
		return fmt.Errorf("adaptive safety multiplier cannot be negative, got %f", c.SafetyMultiplier)
	}
	if c.EmergencyFraction < 0 || c.EmergencyFraction > 1 {
		return fmt.Errorf("adaptive emergency fraction must be in [0,1], got %f", c.EmergencyFraction)
	}
	if c.EmergencyOrderQuantity <= 0 {
		return fmt.Errorf("adaptive emergency order quantity must be positive, got %d", c.EmergencyOrderQuantity)
	}
	if c.MinOrderQuantity <= 0 {
		return fmt.Errorf("adaptive minimum order quantity must be positive, got %d", c.MinOrderQuantity)
	}
	if c.MinDaysBetweenOrders < 0 {
		return fmt.Errorf("adaptive days between orders cannot be negative, got %d", c.MinDaysBetweenOrders)
	}
	if c.ScalingFactor < 1 {
		return fmt.Errorf("adaptive scaling factor must be at least 1, got %f", c.ScalingFactor)
	}
	return nil
}

// DecisionTrace describes the inputs and outcome of the latest Decide call
type DecisionTrace struct {
	Day        entities.Day
	AvgDemand  float64
	Depletion  float64
	Threshold  float64
	Emergency  bool
	Normal     bool
	Path       SelectionPath
	Supplier   entities.SupplierName
	Quantity   entities.Quantity
	ScaledUp   bool
	WindowFull bool
}

// Adaptive derives its reorder point from a rolling demand window and
// selects the supplier of normal orders through a SupplierSelector.
// Emergency orders always go to the expedited supplier.
type Adaptive struct {
	name       string
	config     AdaptiveConfig
	selector   SupplierSelector
	expedited  *entities.Supplier
	candidates []*entities.Supplier

	lastAvgDemand float64
	lastNormalDay entities.Day
	hasNormal     bool
	trace         DecisionTrace
}

// NewAdaptive creates an adaptive policy over the roster. The roster must
// contain an expedited supplier and at least one regular supplier.
func NewAdaptive(name string, config AdaptiveConfig, roster []*entities.Supplier, selector SupplierSelector) (*Adaptive, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if selector == nil {
		return nil, fmt.Errorf("adaptive policy requires a supplier selector")
	}

	var expedited *entities.Supplier
	candidates := make([]*entities.Supplier, 0, len(roster))
	for _, supplier := range roster {
		if supplier.Expedited {
			if expedited == nil {
				expedited = supplier
			}
			continue
		}
		candidates = append(candidates, supplier)
	}
	if expedited == nil {
		return nil, fmt.Errorf("%w: roster has no expedited supplier", entities.ErrSupplierNotFound)
	}
	if len(candidates) == 0 {
		return nil, entities.ErrNoCandidateSupplier
	}

	return &Adaptive{
		name:       name,
		config:     config,
		selector:   selector,
		expedited:  expedited,
		candidates: candidates,
	}, nil
}

// Name returns the policy kind
func (p *Adaptive) Name() string {
	return p.name
}

// Decide implements ReorderPolicy. Nothing is ordered until the demand
// window is full.
func (p *Adaptive) Decide(ledger LedgerView, pending PendingCounts, day entities.Day) []entities.OrderRequest {
	p.trace = DecisionTrace{Day: day, Supplier: entities.NoSupplier}

	window := ledger.RecentDemand(p.config.Lookback)
	if len(window) < p.config.Lookback {
		return nil
	}

	values := make([]float64, len(window))
	for i, q := range window {
		values[i] = float64(q)
	}
	avg := stat.Mean(values, nil)
	depletion := (values[len(values)-1] - values[0]) / float64(p.config.Lookback)
	threshold := avg*p.config.SafetyMultiplier + depletion*p.config.TrendWeight

	p.lastAvgDemand = avg
	p.trace.WindowFull = true
	p.trace.AvgDemand = avg
	p.trace.Depletion = depletion
	p.trace.Threshold = threshold

	stock := float64(ledger.Stock())
	var requests []entities.OrderRequest

	if stock < threshold*p.config.EmergencyFraction && pending.Total() == 0 {
		requests = append(requests, entities.OrderRequest{
			Quantity: p.config.EmergencyOrderQuantity,
			Supplier: p.expedited,
			Class:    entities.EmergencyOrder,
		})
		p.trace.Emergency = true
	}

	if stock < threshold && pending.Normal == 0 && p.normalCooldownElapsed(day) {
		supplier, path := p.selector.Select(avg, p.candidates)
		if supplier != nil {
			quantity := entities.Quantity(avg * p.config.CoverageDays)
			if quantity < p.config.MinOrderQuantity {
				quantity = p.config.MinOrderQuantity
			}
			if ledger.MissedRevenue().GreaterThan(p.config.MissedRevenueThreshold) {
				quantity = entities.Quantity(float64(quantity) * p.config.ScalingFactor)
				p.trace.ScaledUp = true
			}

			requests = append(requests, entities.OrderRequest{
				Quantity: quantity,
				Supplier: supplier,
				Class:    entities.NormalOrder,
			})
			p.trace.Normal = true
			p.trace.Path = path
			p.trace.Supplier = supplier.Name
			p.trace.Quantity = quantity
		}
	}

	return requests
}

func (p *Adaptive) normalCooldownElapsed(day entities.Day) bool {
	if !p.hasNormal {
		return true
	}
	return int(day-p.lastNormalDay) >= p.config.MinDaysBetweenOrders
}

// OnOrderPlaced implements ReorderPolicy. Every placed order, emergency
// included, becomes a training observation with its realised delay.
func (p *Adaptive) OnOrderPlaced(order *entities.PendingOrder) {
	if order.Class == entities.NormalOrder {
		p.lastNormalDay = order.PlacedDay
		p.hasNormal = true
	}
	p.selector.Observe(entities.NewTrainingObservation(p.lastAvgDemand, order.Supplier, order.Delay()))
}

// LastTrace returns the trace of the most recent Decide call
func (p *Adaptive) LastTrace() DecisionTrace {
	return p.trace
}

// Selector returns the supplier selector
func (p *Adaptive) Selector() SupplierSelector {
	return p.selector
}

// Candidates returns the suppliers eligible for normal orders in roster order
func (p *Adaptive) Candidates() []*entities.Supplier {
	candidates := make([]*entities.Supplier, len(p.candidates))
	copy(candidates, p.candidates)
	return candidates
}
