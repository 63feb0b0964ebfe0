package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LedgerConfig holds the store parameters fixed for a simulation run
type LedgerConfig struct {
	InitialStock           Quantity
	Capacity               Quantity
	HoldingCostPerUnit     decimal.Decimal
	StockoutPenaltyPerUnit decimal.Decimal
	SellingPricePerUnit    decimal.Decimal
}

// Validate checks the ledger parameters for consistency
func (c LedgerConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidLedgerConfig, c.Capacity)
	}
	if c.InitialStock < 0 || c.InitialStock > c.Capacity {
		return fmt.Errorf("%w: initial stock %d outside [0,%d]", ErrInvalidLedgerConfig, c.InitialStock, c.Capacity)
	}
	if c.HoldingCostPerUnit.IsNegative() {
		return fmt.Errorf("%w: holding cost cannot be negative", ErrInvalidLedgerConfig)
	}
	if c.StockoutPenaltyPerUnit.IsNegative() {
		return fmt.Errorf("%w: stockout penalty cannot be negative", ErrInvalidLedgerConfig)
	}
	if c.SellingPricePerUnit.IsNegative() {
		return fmt.Errorf("%w: selling price cannot be negative", ErrInvalidLedgerConfig)
	}
	return nil
}

// Receipt records one delivery applied to the ledger
type Receipt struct {
	Quantity  Quantity
	Supplier  SupplierName
	Accepted  Quantity
	Discarded Quantity
}

// LedgerTotals are the monotonically non-decreasing monetary accumulators
type LedgerTotals struct {
	HoldingCost  decimal.Decimal
	StockoutCost decimal.Decimal
	SupplierCost decimal.Decimal
	Revenue      decimal.Decimal
}

// TotalCost is the sum of all cost accumulators
func (t LedgerTotals) TotalCost() decimal.Decimal {
	return t.HoldingCost.Add(t.StockoutCost).Add(t.SupplierCost)
}

// InventoryLedger is the single source of truth for on-hand stock.
// It is mutated only by the simulation loop: once in the receipt phase and
// once in the fulfillment phase of each day.
type InventoryLedger struct {
	config LedgerConfig

	stock          Quantity
	stockoutUnits  Quantity
	fulfilledUnits Quantity
	overflowUnits  Quantity

	demandHistory []Quantity
	receiptLog    []Receipt
	totals        LedgerTotals
}

// NewInventoryLedger creates a ledger holding the configured initial stock
func NewInventoryLedger(config LedgerConfig) (*InventoryLedger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &InventoryLedger{
		config:        config,
		stock:         config.InitialStock,
		demandHistory: make([]Quantity, 0),
		receiptLog:    make([]Receipt, 0),
		totals: LedgerTotals{
			HoldingCost:  decimal.Zero,
			StockoutCost: decimal.Zero,
			SupplierCost: decimal.Zero,
			Revenue:      decimal.Zero,
		},
	}, nil
}

// Receive adds a delivery to stock, clamped at capacity.
// Units above capacity are discarded and counted as overflow.
func (l *InventoryLedger) Receive(quantity Quantity, supplier SupplierName) Receipt {
	if quantity < 0 {
		quantity = 0
	}

	accepted := MinQuantity(quantity, l.config.Capacity-l.stock)
	receipt := Receipt{
		Quantity:  quantity,
		Supplier:  supplier,
		Accepted:  accepted,
		Discarded: quantity - accepted,
	}

	l.stock += accepted
	l.overflowUnits += receipt.Discarded
	l.receiptLog = append(l.receiptLog, receipt)

	return receipt
}

// Fulfill serves as much of the demand as stock allows and returns the
// fulfilled units. Any shortfall is counted as stockout and penalised.
func (l *InventoryLedger) Fulfill(demand Quantity) Quantity {
	if demand < 0 {
		demand = 0
	}

	fulfilled := MinQuantity(l.stock, demand)
	shortfall := demand - fulfilled

	l.stock -= fulfilled
	l.fulfilledUnits += fulfilled
	l.stockoutUnits += shortfall
	l.demandHistory = append(l.demandHistory, demand)

	l.totals.Revenue = l.totals.Revenue.Add(l.RevenueFor(fulfilled))
	l.totals.StockoutCost = l.totals.StockoutCost.Add(l.StockoutCostFor(shortfall))

	return fulfilled
}

// HoldingCostToday is the holding cost of the current stock for one day
func (l *InventoryLedger) HoldingCostToday() decimal.Decimal {
	return l.config.HoldingCostPerUnit.Mul(decimal.NewFromInt(int64(l.stock)))
}

// AccrueHoldingCost adds a day's holding cost to the running total
func (l *InventoryLedger) AccrueHoldingCost(cost decimal.Decimal) {
	if cost.IsPositive() {
		l.totals.HoldingCost = l.totals.HoldingCost.Add(cost)
	}
}

// ChargeSupplierCost adds the price of a placed order to the running total
func (l *InventoryLedger) ChargeSupplierCost(cost decimal.Decimal) {
	if cost.IsPositive() {
		l.totals.SupplierCost = l.totals.SupplierCost.Add(cost)
	}
}

// RevenueFor prices fulfilled units at the selling price
func (l *InventoryLedger) RevenueFor(units Quantity) decimal.Decimal {
	return l.config.SellingPricePerUnit.Mul(decimal.NewFromInt(int64(units)))
}

// StockoutCostFor prices unmet units at the stockout penalty
func (l *InventoryLedger) StockoutCostFor(units Quantity) decimal.Decimal {
	return l.config.StockoutPenaltyPerUnit.Mul(decimal.NewFromInt(int64(units)))
}

// MissedRevenue is the revenue lost to all stockouts so far
func (l *InventoryLedger) MissedRevenue() decimal.Decimal {
	return l.RevenueFor(l.stockoutUnits)
}

// Stock returns the current on-hand stock
func (l *InventoryLedger) Stock() Quantity {
	return l.stock
}

// Capacity returns the storage capacity
func (l *InventoryLedger) Capacity() Quantity {
	return l.config.Capacity
}

// Config returns the ledger parameters
func (l *InventoryLedger) Config() LedgerConfig {
	return l.config
}

// StockoutUnits returns the cumulative unmet demand
func (l *InventoryLedger) StockoutUnits() Quantity {
	return l.stockoutUnits
}

// FulfilledUnits returns the cumulative fulfilled demand
func (l *InventoryLedger) FulfilledUnits() Quantity {
	return l.fulfilledUnits
}

// OverflowUnits returns the cumulative units discarded at capacity
func (l *InventoryLedger) OverflowUnits() Quantity {
	return l.overflowUnits
}

// Totals returns a copy of the running monetary totals
func (l *InventoryLedger) Totals() LedgerTotals {
	return l.totals
}

// DemandHistory returns a copy of all recorded demand in day order
func (l *InventoryLedger) DemandHistory() []Quantity {
	history := make([]Quantity, len(l.demandHistory))
	copy(history, l.demandHistory)
	return history
}

// RecentDemand returns up to n most recent demand entries, oldest first
func (l *InventoryLedger) RecentDemand(n int) []Quantity {
	if n <= 0 {
		return []Quantity{}
	}
	start := len(l.demandHistory) - n
	if start < 0 {
		start = 0
	}
	recent := make([]Quantity, len(l.demandHistory)-start)
	copy(recent, l.demandHistory[start:])
	return recent
}

// ReceiptLog returns a copy of all receipts in arrival order
func (l *InventoryLedger) ReceiptLog() []Receipt {
	log := make([]Receipt, len(l.receiptLog))
	copy(log, l.receiptLog)
	return log
}

// SupplierHistory lists the supplier of every receipt in arrival order
func (l *InventoryLedger) SupplierHistory() []SupplierName {
	names := make([]SupplierName, len(l.receiptLog))
	for i, receipt := range l.receiptLog {
		names[i] = receipt.Supplier
	}
	return names
}
