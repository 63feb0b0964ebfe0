package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/application/dto"
	"github.com/vsinha/supplysim/pkg/application/services/policy"
	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/repositories"
	"github.com/vsinha/supplysim/pkg/infrastructure/events"
)

// ErrEngineUsed is returned when Run is called on an engine that already stepped
var ErrEngineUsed = errors.New("simulation engine already used")

// MetricsRecorder receives run measurements as the engine produces them
type MetricsRecorder interface {
	RecordDay(record entities.DayRecord)
	RecordOrder(order *entities.PendingOrder, cost decimal.Decimal)
	RecordReceipt(receipt entities.Receipt)
}

// tracedPolicy is implemented by policies that expose their last decision
type tracedPolicy interface {
	LastTrace() policy.DecisionTrace
}

// Option configures an Engine
type Option func(*Engine)

// WithSink streams every DayRecord to sink as it is produced
func WithSink(sink repositories.ResultSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithEvents publishes order lifecycle events to store
func WithEvents(store events.EventStore) Option {
	return func(e *Engine) { e.events = store }
}

// WithMetrics reports measurements to recorder
func WithMetrics(recorder MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = recorder }
}

// WithLogger sets the engine logger
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRandomSource sets the source of delivery-time draws
func WithRandomSource(rng entities.RandomSource) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithSeed seeds a PCG source for delivery-time draws
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithRunID tags the result with a run identifier
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// Engine drives one simulation run one day at a time. Within a day the
// order is fixed for every policy: receive due orders, fulfill demand,
// accrue holding cost, decide and place orders, emit the day record.
type Engine struct {
	policy   policy.ReorderPolicy
	ledger   *entities.InventoryLedger
	pipeline *OrderPipeline

	rng     entities.RandomSource
	sink    repositories.ResultSink
	events  events.EventStore
	metrics MetricsRecorder
	logger  *log.Logger
	runID   string

	nextDay    entities.Day
	records    []entities.DayRecord
	orders     []dto.OrderRecord
	deliveries []dto.DeliveryRecord
}

// NewEngine creates an engine with a fresh ledger for one run
func NewEngine(config entities.LedgerConfig, reorderPolicy policy.ReorderPolicy, opts ...Option) (*Engine, error) {
	if reorderPolicy == nil {
		return nil, fmt.Errorf("simulation requires a reorder policy")
	}
	ledger, err := entities.NewInventoryLedger(config)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		policy:     reorderPolicy,
		ledger:     ledger,
		pipeline:   NewOrderPipeline(),
		records:    make([]entities.DayRecord, 0),
		orders:     make([]dto.OrderRecord, 0),
		deliveries: make([]dto.DeliveryRecord, 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(1, 2))
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}

	return e, nil
}

// Run simulates every day of the series, starting at day 0
func (e *Engine) Run(ctx context.Context, demand entities.DemandSeries) (*dto.SimulationResult, error) {
	if e.nextDay != 0 {
		return nil, ErrEngineUsed
	}
	if err := demand.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	e.logger.Info("simulation started",
		"policy", e.policy.Name(), "days", demand.Horizon(), "run", e.runID,
	)

	for day := 0; day < demand.Horizon(); day++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := e.Step(ctx, demand.At(entities.Day(day))); err != nil {
			return nil, fmt.Errorf("day %d: %w", day, err)
		}
	}

	result := e.Result(time.Since(start))
	e.logger.Info("simulation finished",
		"policy", e.policy.Name(),
		"profit", result.Summary.Profit.StringFixed(2),
		"stockouts", result.Summary.StockoutUnits,
		"orders", result.Summary.OrdersPlaced,
	)

	return result, nil
}

// Step simulates the next day against the given demand and returns its record
func (e *Engine) Step(ctx context.Context, demand entities.Quantity) (entities.DayRecord, error) {
	day := e.nextDay
	e.nextDay++

	e.receiveDue(day)

	fulfilled := e.ledger.Fulfill(demand)
	stockouts := demand - fulfilled
	if stockouts > 0 {
		e.logger.Debug("stockout", "day", day, "demand", demand, "fulfilled", fulfilled)
		e.publish(events.InventoryStream, events.NewStockoutOccurredEvent(day, demand, fulfilled))
	}

	holding := e.ledger.HoldingCostToday()
	e.ledger.AccrueHoldingCost(holding)

	orderQuantity, supplierName, supplierCost := e.placeOrders(day)

	revenue := e.ledger.RevenueFor(fulfilled)
	stockoutCost := e.ledger.StockoutCostFor(stockouts)
	costs := holding.Add(stockoutCost).Add(supplierCost)
	record := entities.DayRecord{
		Day:           day,
		Inventory:     e.ledger.Stock(),
		Demand:        demand,
		Fulfilled:     fulfilled,
		Stockouts:     stockouts,
		OrderQuantity: orderQuantity,
		SupplierName:  supplierName,
		HoldingCost:   holding,
		StockoutCost:  stockoutCost,
		SupplierCost:  supplierCost,
		Revenue:       revenue,
		Profit:        revenue.Sub(costs),
		ROI:           entities.ROI(revenue, costs),
	}
	e.records = append(e.records, record)

	if e.metrics != nil {
		e.metrics.RecordDay(record)
	}
	if e.sink != nil {
		if err := e.sink.Append(ctx, record); err != nil {
			return record, fmt.Errorf("failed to write day record: %w", err)
		}
	}

	e.logger.Debug("day complete",
		"day", day, "stock", record.Inventory, "demand", demand,
		"fulfilled", fulfilled, "pending", e.pipeline.Len(),
	)

	return record, nil
}

func (e *Engine) receiveDue(day entities.Day) {
	for _, order := range e.pipeline.ReleaseDue(day) {
		receipt := e.ledger.Receive(order.Quantity, order.Supplier.Name)
		e.deliveries = append(e.deliveries, dto.DeliveryRecord{
			OrderID:   order.ID,
			Day:       day,
			PlacedDay: order.PlacedDay,
			Supplier:  receipt.Supplier,
			Quantity:  receipt.Quantity,
			Accepted:  receipt.Accepted,
			Discarded: receipt.Discarded,
		})

		e.logger.Info("order received",
			"day", day, "order", order.ID, "supplier", receipt.Supplier,
			"quantity", receipt.Quantity, "delay", order.Delay(),
		)
		if receipt.Discarded > 0 {
			e.logger.Warn("receipt clamped at capacity",
				"day", day, "supplier", receipt.Supplier,
				"discarded", receipt.Discarded, "capacity", e.ledger.Capacity(),
			)
			e.publish(events.InventoryStream, events.NewInventoryOverflowEvent(day, receipt))
		}

		e.publish(events.OrderStream(order.ID), events.NewOrderReceivedEvent(order, day, receipt))
		if e.metrics != nil {
			e.metrics.RecordReceipt(receipt)
		}
	}
}

// placeOrders asks the policy for today's orders and places them. It returns
// the day's ordered units, supplier label and charged cost.
func (e *Engine) placeOrders(day entities.Day) (entities.Quantity, string, decimal.Decimal) {
	requests := e.policy.Decide(e.ledger, e.pipeline.Counts(), day)

	modelScored := false
	if traced, ok := e.policy.(tracedPolicy); ok {
		modelScored = traced.LastTrace().Path == policy.ModelScoredPath
	}

	var quantity entities.Quantity
	label := ""
	cost := decimal.Zero
	for _, request := range requests {
		delay := request.Supplier.DeliveryTime(e.rng)
		order, err := e.pipeline.Place(day, request, delay)
		if err != nil {
			// A policy never requests an invalid order
			e.logger.Error("order rejected", "day", day, "supplier", request.Supplier.Name, "err", err)
			continue
		}

		orderCost := request.Supplier.Cost(order.Quantity)
		e.ledger.ChargeSupplierCost(orderCost)
		e.policy.OnOrderPlaced(order)

		scored := modelScored && order.Class == entities.NormalOrder
		e.orders = append(e.orders, dto.OrderRecord{
			ID:          order.ID,
			PlacedDay:   order.PlacedDay,
			DueDay:      order.DueDay,
			Delay:       order.Delay(),
			Quantity:    order.Quantity,
			Supplier:    order.Supplier.Name,
			Class:       order.Class.String(),
			Cost:        orderCost,
			ModelScored: scored,
		})

		e.logger.Info("order placed",
			"day", day, "order", order.ID, "class", order.Class,
			"supplier", order.Supplier.Name, "quantity", order.Quantity,
			"due", order.DueDay, "cost", orderCost.StringFixed(2),
		)
		e.publish(events.OrderStream(order.ID), events.NewOrderPlacedEvent(order, orderCost.StringFixed(2), scored))
		if e.metrics != nil {
			e.metrics.RecordOrder(order, orderCost)
		}

		quantity += order.Quantity
		if label != "" {
			label += "+"
		}
		label += string(order.Supplier.Name)
		cost = cost.Add(orderCost)
	}

	if label == "" {
		label = entities.NoSupplier
	}
	return quantity, label, cost
}

func (e *Engine) publish(streamID string, event events.Event) {
	if e.events == nil {
		return
	}
	if err := e.events.AppendEvent(streamID, event); err != nil {
		e.logger.Warn("failed to publish event", "type", event.Type(), "err", err)
	}
}

// Result assembles the run result from everything simulated so far
func (e *Engine) Result(duration time.Duration) *dto.SimulationResult {
	return &dto.SimulationResult{
		RunID:      e.runID,
		Policy:     e.policy.Name(),
		Records:    append([]entities.DayRecord(nil), e.records...),
		Orders:     append([]dto.OrderRecord(nil), e.orders...),
		Deliveries: append([]dto.DeliveryRecord(nil), e.deliveries...),
		Summary:    e.Summary(),
		Duration:   duration,
	}
}

// Summary aggregates the ledger and order log
func (e *Engine) Summary() entities.RunSummary {
	totals := e.ledger.Totals()
	totalCost := totals.TotalCost()

	var totalDemand entities.Quantity
	for _, d := range e.ledger.DemandHistory() {
		totalDemand += d
	}

	usage := make(map[entities.SupplierName]int)
	emergency := 0
	for _, order := range e.orders {
		usage[order.Supplier]++
		if order.Class == entities.EmergencyOrder.String() {
			emergency++
		}
	}

	fillRate := 1.0
	if totalDemand > 0 {
		fillRate = float64(e.ledger.FulfilledUnits()) / float64(totalDemand)
	}

	return entities.RunSummary{
		Days:            len(e.records),
		FinalInventory:  e.ledger.Stock(),
		TotalDemand:     totalDemand,
		FulfilledUnits:  e.ledger.FulfilledUnits(),
		StockoutUnits:   e.ledger.StockoutUnits(),
		OverflowUnits:   e.ledger.OverflowUnits(),
		OrdersPlaced:    len(e.orders),
		EmergencyOrders: emergency,
		OrdersReceived:  len(e.deliveries),
		SupplierUsage:   usage,
		SupplierHistory: e.ledger.SupplierHistory(),
		Revenue:         totals.Revenue,
		HoldingCost:     totals.HoldingCost,
		StockoutCost:    totals.StockoutCost,
		SupplierCost:    totals.SupplierCost,
		TotalCost:       totalCost,
		Profit:          totals.Revenue.Sub(totalCost),
		ROI:             entities.ROI(totals.Revenue, totalCost),
		FillRate:        fillRate,
	}
}

// Ledger exposes the run's inventory ledger
func (e *Engine) Ledger() *entities.InventoryLedger {
	return e.ledger
}

// Pipeline exposes the run's pending orders
func (e *Engine) Pipeline() *OrderPipeline {
	return e.pipeline
}

// Day returns the index of the next day to simulate
func (e *Engine) Day() entities.Day {
	return e.nextDay
}
