package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

var (
	supplierHeader = []string{"name", "reliability", "cost_multiplier", "min_days", "max_days", "per_unit_price", "shipping_cost", "expedited"}
	demandHeader   = []string{"day", "demand"}
)

// Loader handles loading simulation inputs from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadSuppliers loads a supplier roster from a CSV file
func (l *Loader) LoadSuppliers(filename string) ([]*entities.Supplier, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open suppliers file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadSuppliers(file)
}

// ReadSuppliers parses a supplier roster
func (l *Loader) ReadSuppliers(r io.Reader) ([]*entities.Supplier, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read suppliers CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("suppliers CSV must have header and at least one data row")
	}

	// Validate header
	header := records[0]
	if !validateHeader(header, supplierHeader) {
		return nil, fmt.Errorf("suppliers CSV header mismatch. Expected: %v, Got: %v", supplierHeader, header)
	}

	var suppliers []*entities.Supplier
	for i, record := range records[1:] {
		if len(record) != len(supplierHeader) {
			return nil, fmt.Errorf("suppliers CSV row %d: expected %d columns, got %d", i+2, len(supplierHeader), len(record))
		}

		supplier, err := parseSupplier(record)
		if err != nil {
			return nil, fmt.Errorf("suppliers CSV row %d: %w", i+2, err)
		}

		suppliers = append(suppliers, supplier)
	}

	return suppliers, nil
}

// LoadDemand loads a demand series from a CSV file
func (l *Loader) LoadDemand(filename string) (entities.DemandSeries, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open demand file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadDemand(file)
}

// ReadDemand parses a demand series. Days must start at 0 and be consecutive.
func (l *Loader) ReadDemand(r io.Reader) (entities.DemandSeries, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read demand CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("demand CSV must have header and at least one data row")
	}

	// Validate header
	header := records[0]
	if !validateHeader(header, demandHeader) {
		return nil, fmt.Errorf("demand CSV header mismatch. Expected: %v, Got: %v", demandHeader, header)
	}

	series := make(entities.DemandSeries, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(demandHeader) {
			return nil, fmt.Errorf("demand CSV row %d: expected %d columns, got %d", i+2, len(demandHeader), len(record))
		}

		day, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: invalid day: %w", i+2, err)
		}
		if day != i {
			return nil, fmt.Errorf("demand CSV row %d: expected day %d, got %d", i+2, i, day)
		}

		demand, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: invalid demand: %w", i+2, err)
		}
		if demand < 0 {
			return nil, fmt.Errorf("demand CSV row %d: %w: negative demand %d", i+2, entities.ErrInvalidDemand, demand)
		}

		series = append(series, entities.Quantity(demand))
	}

	return series, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseSupplier(record []string) (*entities.Supplier, error) {
	name := strings.TrimSpace(record[0])

	reliability, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid reliability: %w", err)
	}

	multiplier, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cost multiplier: %w", err)
	}

	minDays, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid min days: %w", err)
	}

	maxDays, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid max days: %w", err)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(record[5]))
	if err != nil {
		return nil, fmt.Errorf("invalid per-unit price: %w", err)
	}

	shipping, err := decimal.NewFromString(strings.TrimSpace(record[6]))
	if err != nil {
		return nil, fmt.Errorf("invalid shipping cost: %w", err)
	}

	expedited, err := parseBool(record[7])
	if err != nil {
		return nil, err
	}

	return entities.NewSupplier(entities.SupplierName(name), reliability, multiplier, minDays, maxDays, price, shipping, expedited)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid expedited flag: %s", s)
	}
}
