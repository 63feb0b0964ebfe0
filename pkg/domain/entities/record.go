package entities

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// NoSupplier marks a day on which no order was placed
const NoSupplier = "None"

// DayRecordHeader is the stable column order of exported day records
var DayRecordHeader = []string{
	"day", "inventory", "demand", "fulfilled", "stockouts", "order_quantity",
	"supplier_name", "holding_cost", "stockout_cost", "supplier_cost",
	"revenue", "profit", "roi",
}

var hundred = decimal.NewFromInt(100)

// DayRecord is the flat per-day result emitted to result sinks
type DayRecord struct {
	Day           Day             `json:"day"`
	Inventory     Quantity        `json:"inventory"`
	Demand        Quantity        `json:"demand"`
	Fulfilled     Quantity        `json:"fulfilled"`
	Stockouts     Quantity        `json:"stockouts"`
	OrderQuantity Quantity        `json:"order_quantity"`
	SupplierName  string          `json:"supplier_name"`
	HoldingCost   decimal.Decimal `json:"holding_cost"`
	StockoutCost  decimal.Decimal `json:"stockout_cost"`
	SupplierCost  decimal.Decimal `json:"supplier_cost"`
	Revenue       decimal.Decimal `json:"revenue"`
	Profit        decimal.Decimal `json:"profit"`
	ROI           decimal.Decimal `json:"roi"`
}

// TotalCost is the sum of the day's cost columns
func (r DayRecord) TotalCost() decimal.Decimal {
	return r.HoldingCost.Add(r.StockoutCost).Add(r.SupplierCost)
}

// Row renders the record in DayRecordHeader order
func (r DayRecord) Row() []string {
	return []string{
		strconv.Itoa(int(r.Day)),
		strconv.FormatInt(int64(r.Inventory), 10),
		strconv.FormatInt(int64(r.Demand), 10),
		strconv.FormatInt(int64(r.Fulfilled), 10),
		strconv.FormatInt(int64(r.Stockouts), 10),
		strconv.FormatInt(int64(r.OrderQuantity), 10),
		r.SupplierName,
		r.HoldingCost.StringFixed(2),
		r.StockoutCost.StringFixed(2),
		r.SupplierCost.StringFixed(2),
		r.Revenue.StringFixed(2),
		r.Profit.StringFixed(2),
		r.ROI.StringFixed(2),
	}
}

// ROI returns (revenue - costs) / costs * 100, or zero when costs are zero
func ROI(revenue, costs decimal.Decimal) decimal.Decimal {
	if costs.IsZero() {
		return decimal.Zero
	}
	return revenue.Sub(costs).Div(costs).Mul(hundred)
}

// RunSummary aggregates a finished simulation run
type RunSummary struct {
	Days            int                  `json:"days"`
	FinalInventory  Quantity             `json:"final_inventory"`
	TotalDemand     Quantity             `json:"total_demand"`
	FulfilledUnits  Quantity             `json:"fulfilled_units"`
	StockoutUnits   Quantity             `json:"stockout_units"`
	OverflowUnits   Quantity             `json:"overflow_units"`
	OrdersPlaced    int                  `json:"orders_placed"`
	EmergencyOrders int                  `json:"emergency_orders"`
	OrdersReceived  int                  `json:"orders_received"`
	SupplierUsage   map[SupplierName]int `json:"supplier_usage"`
	SupplierHistory []SupplierName       `json:"supplier_history"`
	Revenue         decimal.Decimal      `json:"revenue"`
	HoldingCost     decimal.Decimal      `json:"holding_cost"`
	StockoutCost    decimal.Decimal      `json:"stockout_cost"`
	SupplierCost    decimal.Decimal      `json:"supplier_cost"`
	TotalCost       decimal.Decimal      `json:"total_cost"`
	Profit          decimal.Decimal      `json:"profit"`
	ROI             decimal.Decimal      `json:"roi"`
	FillRate        float64              `json:"fill_rate"`
}
