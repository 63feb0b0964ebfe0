package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/repositories"
)

// ResultSink keeps day records in memory
type ResultSink struct {
	mutex   sync.RWMutex
	records []entities.DayRecord
	closed  bool
}

// NewResultSink creates an empty in-memory sink
func NewResultSink() *ResultSink {
	return &ResultSink{records: make([]entities.DayRecord, 0)}
}

// Verify interface compliance
var _ repositories.ResultSink = (*ResultSink)(nil)

// Append implements repositories.ResultSink. Records must arrive in day order.
func (s *ResultSink) Append(ctx context.Context, record entities.DayRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return fmt.Errorf("result sink is closed")
	}
	if n := len(s.records); n > 0 && record.Day <= s.records[n-1].Day {
		return fmt.Errorf("day %d appended after day %d", record.Day, s.records[n-1].Day)
	}
	s.records = append(s.records, record)
	return nil
}

// Close implements repositories.ResultSink
func (s *ResultSink) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
	return nil
}

// Records returns a copy of everything appended
func (s *ResultSink) Records() []entities.DayRecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]entities.DayRecord(nil), s.records...)
}
