package policy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// Kind names a reorder strategy
type Kind string

const (
	KindFixed    Kind = "fixed"
	KindAdaptive Kind = "adaptive"
	KindLearned  Kind = "learned"
)

// AllKinds lists every strategy in comparison order
var AllKinds = []Kind{KindFixed, KindAdaptive, KindLearned}

// ParseKind validates a strategy name
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindFixed, KindAdaptive, KindLearned:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown policy %q (expected: fixed, adaptive, learned)", s)
	}
}

// LedgerView is the read-only ledger state a policy inspects.
// *entities.InventoryLedger satisfies it.
type LedgerView interface {
	Stock() entities.Quantity
	RecentDemand(n int) []entities.Quantity
	MissedRevenue() decimal.Decimal
}

// PendingCounts is the number of undelivered orders per class
type PendingCounts struct {
	Normal    int
	Emergency int
}

// Total is the number of undelivered orders of any class
func (c PendingCounts) Total() int {
	return c.Normal + c.Emergency
}

// ReorderPolicy decides once per day whether to order, how much, and from whom.
// Decide returns requests in placement order; an empty result means no order.
// OnOrderPlaced is called for every request the simulation actually placed,
// with the realised delivery delay.
type ReorderPolicy interface {
	Name() string
	Decide(ledger LedgerView, pending PendingCounts, day entities.Day) []entities.OrderRequest
	OnOrderPlaced(order *entities.PendingOrder)
}
