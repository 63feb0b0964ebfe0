package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/repositories"
)

// ResultWriter streams day records as CSV rows, header first
type ResultWriter struct {
	writer        *csv.Writer
	closer        io.Closer
	headerWritten bool
}

// Verify interface compliance
var _ repositories.ResultSink = (*ResultWriter)(nil)

// NewResultWriter writes records to w. Close flushes but does not close w.
func NewResultWriter(w io.Writer) *ResultWriter {
	return &ResultWriter{writer: csv.NewWriter(w)}
}

// CreateResultFile creates (or truncates) a CSV results file
func CreateResultFile(path string) (*ResultWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create results file %s: %w", path, err)
	}
	writer := NewResultWriter(file)
	writer.closer = file
	return writer, nil
}

// Append implements repositories.ResultSink
func (w *ResultWriter) Append(ctx context.Context, record entities.DayRecord) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	if err := w.writer.Write(record.Row()); err != nil {
		return fmt.Errorf("failed to write day %d: %w", record.Day, err)
	}
	return nil
}

// Close flushes buffered rows and closes the underlying file, if any
func (w *ResultWriter) Close() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush results: %w", err)
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

func (w *ResultWriter) writeHeader() error {
	if w.headerWritten {
		return nil
	}
	w.headerWritten = true
	if err := w.writer.Write(entities.DayRecordHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// WriteDemandSeries writes a series in the day,demand format read by ReadDemand
func WriteDemandSeries(w io.Writer, series entities.DemandSeries) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(demandHeader); err != nil {
		return fmt.Errorf("failed to write demand header: %w", err)
	}
	for day, demand := range series {
		row := []string{strconv.Itoa(day), strconv.FormatInt(int64(demand), 10)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write demand day %d: %w", day, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSuppliers writes a roster in the format read by ReadSuppliers
func WriteSuppliers(w io.Writer, suppliers []*entities.Supplier) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(supplierHeader); err != nil {
		return fmt.Errorf("failed to write supplier header: %w", err)
	}
	for _, s := range suppliers {
		row := []string{
			string(s.Name),
			strconv.FormatFloat(s.Reliability, 'f', -1, 64),
			strconv.FormatFloat(s.CostMultiplier, 'f', -1, 64),
			strconv.Itoa(s.MinDeliveryDays),
			strconv.Itoa(s.MaxDeliveryDays),
			s.PerUnitPrice.String(),
			s.ShippingCost.String(),
			strconv.FormatBool(s.Expedited),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write supplier %s: %w", s.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
