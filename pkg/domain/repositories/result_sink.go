package repositories

import (
	"context"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// ResultSink consumes one record per simulated day, in day order.
// The record schema is identical for every reorder policy.
type ResultSink interface {
	Append(ctx context.Context, record entities.DayRecord) error
	Close() error
}
