package events

import (
	"fmt"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

const (
	OrderPlacedEvent   = "order.placed"
	OrderReceivedEvent = "order.received"

	StockoutOccurredEvent  = "stockout.occurred"
	InventoryOverflowEvent = "inventory.overflow"
)

// InventoryStream is the stream of ledger-level events
const InventoryStream = "inventory"

type OrderPlaced struct {
	OrderID   int                   `json:"order_id"`
	Day       entities.Day          `json:"day"`
	DueDay    entities.Day          `json:"due_day"`
	Quantity  entities.Quantity     `json:"quantity"`
	Supplier  entities.SupplierName `json:"supplier"`
	Class     string                `json:"class"`
	Cost      string                `json:"cost"`
	Predicted bool                  `json:"model_scored"`
}

type OrderReceived struct {
	OrderID   int                   `json:"order_id"`
	Day       entities.Day          `json:"day"`
	PlacedDay entities.Day          `json:"placed_day"`
	Supplier  entities.SupplierName `json:"supplier"`
	Accepted  entities.Quantity     `json:"accepted"`
	Discarded entities.Quantity     `json:"discarded"`
}

type StockoutOccurred struct {
	Day       entities.Day      `json:"day"`
	Demand    entities.Quantity `json:"demand"`
	Fulfilled entities.Quantity `json:"fulfilled"`
	Shortfall entities.Quantity `json:"shortfall"`
}

type InventoryOverflow struct {
	Day       entities.Day          `json:"day"`
	Supplier  entities.SupplierName `json:"supplier"`
	Discarded entities.Quantity     `json:"discarded"`
}

// OrderStream names the stream holding one order's lifecycle
func OrderStream(orderID int) string {
	return fmt.Sprintf("order-%d", orderID)
}

func NewOrderPlacedEvent(order *entities.PendingOrder, cost string, modelScored bool) Event {
	return NewEvent(OrderPlacedEvent, OrderStream(order.ID), order.PlacedDay, OrderPlaced{
		OrderID:   order.ID,
		Day:       order.PlacedDay,
		DueDay:    order.DueDay,
		Quantity:  order.Quantity,
		Supplier:  order.Supplier.Name,
		Class:     order.Class.String(),
		Cost:      cost,
		Predicted: modelScored,
	})
}

func NewOrderReceivedEvent(order *entities.PendingOrder, day entities.Day, receipt entities.Receipt) Event {
	return NewEvent(OrderReceivedEvent, OrderStream(order.ID), day, OrderReceived{
		OrderID:   order.ID,
		Day:       day,
		PlacedDay: order.PlacedDay,
		Supplier:  receipt.Supplier,
		Accepted:  receipt.Accepted,
		Discarded: receipt.Discarded,
	})
}

func NewStockoutOccurredEvent(day entities.Day, demand, fulfilled entities.Quantity) Event {
	return NewEvent(StockoutOccurredEvent, InventoryStream, day, StockoutOccurred{
		Day:       day,
		Demand:    demand,
		Fulfilled: fulfilled,
		Shortfall: demand - fulfilled,
	})
}

func NewInventoryOverflowEvent(day entities.Day, receipt entities.Receipt) Event {
	return NewEvent(InventoryOverflowEvent, InventoryStream, day, InventoryOverflow{
		Day:       day,
		Supplier:  receipt.Supplier,
		Discarded: receipt.Discarded,
	})
}
