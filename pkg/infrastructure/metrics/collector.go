package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// Collector records simulation measurements on its own registry, labelled
// by policy so several runs can share one registry
type Collector struct {
	registry *prometheus.Registry
	policy   string

	stockLevel    *prometheus.GaugeVec
	simulatedDays *prometheus.CounterVec
	demandUnits   *prometheus.CounterVec
	stockoutUnits *prometheus.CounterVec
	overflowUnits *prometheus.CounterVec
	ordersPlaced  *prometheus.CounterVec
	unitsOrdered  *prometheus.CounterVec
	receipts      *prometheus.CounterVec
	money         *prometheus.CounterVec
}

// NewCollector creates a collector with a fresh registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		stockLevel: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "supplysim_stock_units",
				Help: "On-hand stock at the end of the latest simulated day",
			},
			[]string{"policy"},
		),
		simulatedDays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supplysim_days_total",
				Help: "Simulated days",
			},
			[]string{"policy"},
		),
		demandUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supplysim_demand_units_total",
				Help: "Units demanded",
			},
			[]string{"policy"},
		),
		stockoutUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supplysim_stockout_units_total",
				Help: "Units of demand that could not be fulfilled",
			},
			[]string{"policy"},
		),
		overflowUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supplysim_overflow_units_total",
				Help: "Delivered units discarded at capacity",
			},
			[]string{"policy"},
		),
		ordersPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supplysim_orders_total",
				Help: "Orders placed by supplier and class",
			},
			[]string{"policy", "supplier", "class"},
		),
		unitsOrdered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supplysim_ordered_units_total",
				Help: "Units ordered by supplier",
			},
			[]string{"policy", "supplier"},
		),
		receipts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supplysim_receipts_total",
				Help: "Orders delivered by supplier",
			},
			[]string{"policy", "supplier"},
		),
		money: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supplysim_money_total",
				Help: "Accumulated revenue and costs",
			},
			[]string{"policy", "kind"},
		),
	}

	c.registry.MustRegister(
		c.stockLevel,
		c.simulatedDays,
		c.demandUnits,
		c.stockoutUnits,
		c.overflowUnits,
		c.ordersPlaced,
		c.unitsOrdered,
		c.receipts,
		c.money,
	)
	return c
}

// ForPolicy returns a recorder that labels measurements with the policy name
func (c *Collector) ForPolicy(name string) *Collector {
	scoped := *c
	scoped.policy = name
	return &scoped
}

// RecordDay records one day's outcome
func (c *Collector) RecordDay(record entities.DayRecord) {
	c.stockLevel.WithLabelValues(c.policy).Set(float64(record.Inventory))
	c.simulatedDays.WithLabelValues(c.policy).Inc()
	c.demandUnits.WithLabelValues(c.policy).Add(float64(record.Demand))
	c.stockoutUnits.WithLabelValues(c.policy).Add(float64(record.Stockouts))

	c.addMoney("revenue", record.Revenue)
	c.addMoney("holding_cost", record.HoldingCost)
	c.addMoney("stockout_cost", record.StockoutCost)
}

// RecordOrder records a placed order and its cost
func (c *Collector) RecordOrder(order *entities.PendingOrder, cost decimal.Decimal) {
	supplier := string(order.Supplier.Name)
	c.ordersPlaced.WithLabelValues(c.policy, supplier, order.Class.String()).Inc()
	c.unitsOrdered.WithLabelValues(c.policy, supplier).Add(float64(order.Quantity))
	c.addMoney("supplier_cost", cost)
}

// RecordReceipt records a delivery
func (c *Collector) RecordReceipt(receipt entities.Receipt) {
	c.receipts.WithLabelValues(c.policy, string(receipt.Supplier)).Inc()
	if receipt.Discarded > 0 {
		c.overflowUnits.WithLabelValues(c.policy).Add(float64(receipt.Discarded))
	}
}

func (c *Collector) addMoney(kind string, amount decimal.Decimal) {
	value, _ := amount.Float64()
	if value > 0 {
		c.money.WithLabelValues(c.policy, kind).Add(value)
	}
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes every metric in the text exposition format
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
