/*
Package sqlite persists simulation runs and their day records.

TABLES:

	runs:        one row per policy run, with its summary once finished
	day_records: append-only, one row per (run, day)

Monetary values are stored as decimal strings so they round-trip exactly.
Use ":memory:" for a throwaway database.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/repositories"
)

// ErrRunNotFound is returned for an unknown run id
var ErrRunNotFound = errors.New("run not found")

// Store implements run persistence using SQLite
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// RunInfo describes a stored run
type RunInfo struct {
	ID         string
	Policy     string
	StartedAt  time.Time
	FinishedAt *time.Time
	Summary    *entities.RunSummary
}

// New opens (or creates) a SQLite database at dbPath
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on"
	if dbPath != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		policy TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		summary_json TEXT
	);

	CREATE TABLE IF NOT EXISTS day_records (
		run_id TEXT NOT NULL REFERENCES runs(id),
		day INTEGER NOT NULL,
		inventory INTEGER NOT NULL,
		demand INTEGER NOT NULL,
		fulfilled INTEGER NOT NULL,
		stockouts INTEGER NOT NULL,
		order_quantity INTEGER NOT NULL,
		supplier_name TEXT NOT NULL,
		holding_cost TEXT NOT NULL,
		stockout_cost TEXT NOT NULL,
		supplier_cost TEXT NOT NULL,
		revenue TEXT NOT NULL,
		profit TEXT NOT NULL,
		roi TEXT NOT NULL,
		PRIMARY KEY (run_id, day)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_policy ON runs(policy);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun registers a new run
func (s *Store) CreateRun(ctx context.Context, runID, policy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, policy, started_at) VALUES (?, ?, ?)",
		runID, policy, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create run %s: %w", runID, err)
	}
	return nil
}

// CompleteRun stores the summary of a finished run
func (s *Store) CompleteRun(ctx context.Context, runID string, summary entities.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = ?, summary_json = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339), string(summaryJSON), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run %s: %w", runID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

func (s *Store) appendRecord(ctx context.Context, runID string, record entities.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO day_records
		(run_id, day, inventory, demand, fulfilled, stockouts, order_quantity, supplier_name,
		 holding_cost, stockout_cost, supplier_cost, revenue, profit, roi)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		runID,
		int(record.Day),
		int64(record.Inventory),
		int64(record.Demand),
		int64(record.Fulfilled),
		int64(record.Stockouts),
		int64(record.OrderQuantity),
		record.SupplierName,
		record.HoldingCost.String(),
		record.StockoutCost.String(),
		record.SupplierCost.String(),
		record.Revenue.String(),
		record.Profit.String(),
		record.ROI.String(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("day %d already recorded for run %s", record.Day, runID)
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return fmt.Errorf("failed to append day record: %w", err)
	}
	return nil
}

// GetDayRecords returns the records of a run in day order
func (s *Store) GetDayRecords(ctx context.Context, runID string) ([]entities.DayRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, inventory, demand, fulfilled, stockouts, order_quantity, supplier_name,
		       holding_cost, stockout_cost, supplier_cost, revenue, profit, roi
		FROM day_records WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query day records: %w", err)
	}
	defer rows.Close()

	var records []entities.DayRecord
	for rows.Next() {
		record, err := scanDayRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// ListRuns returns every stored run, oldest first
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, policy, started_at, finished_at, summary_json FROM runs ORDER BY started_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			run         RunInfo
			startedAt   string
			finishedAt  sql.NullString
			summaryJSON sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Policy, &startedAt, &finishedAt, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		if finishedAt.Valid {
			t, _ := time.Parse(time.RFC3339, finishedAt.String)
			run.FinishedAt = &t
		}
		if summaryJSON.Valid && summaryJSON.String != "" {
			var summary entities.RunSummary
			if err := json.Unmarshal([]byte(summaryJSON.String), &summary); err != nil {
				return nil, fmt.Errorf("failed to decode summary of run %s: %w", run.ID, err)
			}
			run.Summary = &summary
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func scanDayRecord(rows *sql.Rows) (entities.DayRecord, error) {
	var (
		record                                                        entities.DayRecord
		day                                                           int
		inventory, demand, fulfilled, stockouts, orderQuantity        int64
		holdingCost, stockoutCost, supplierCost, revenue, profit, roi string
	)

	err := rows.Scan(
		&day, &inventory, &demand, &fulfilled, &stockouts, &orderQuantity, &record.SupplierName,
		&holdingCost, &stockoutCost, &supplierCost, &revenue, &profit, &roi,
	)
	if err != nil {
		return record, fmt.Errorf("failed to scan day record: %w", err)
	}

	record.Day = entities.Day(day)
	record.Inventory = entities.Quantity(inventory)
	record.Demand = entities.Quantity(demand)
	record.Fulfilled = entities.Quantity(fulfilled)
	record.Stockouts = entities.Quantity(stockouts)
	record.OrderQuantity = entities.Quantity(orderQuantity)

	amounts := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{holdingCost, &record.HoldingCost},
		{stockoutCost, &record.StockoutCost},
		{supplierCost, &record.SupplierCost},
		{revenue, &record.Revenue},
		{profit, &record.Profit},
		{roi, &record.ROI},
	}
	for _, amount := range amounts {
		value, err := decimal.NewFromString(amount.raw)
		if err != nil {
			return record, fmt.Errorf("invalid amount %q on day %d: %w", amount.raw, day, err)
		}
		*amount.dst = value
	}

	return record, nil
}

// RunSink streams the day records of one run into the store
type RunSink struct {
	store *Store
	runID string
}

// Verify interface compliance
var _ repositories.ResultSink = (*RunSink)(nil)

// Sink returns a ResultSink writing to runID. The run must exist.
func (s *Store) Sink(runID string) *RunSink {
	return &RunSink{store: s, runID: runID}
}

// Append implements repositories.ResultSink
func (k *RunSink) Append(ctx context.Context, record entities.DayRecord) error {
	return k.store.appendRecord(ctx, k.runID, record)
}

// Close implements repositories.ResultSink. The store stays open.
func (k *RunSink) Close() error {
	return nil
}

// Complete stores the run summary once the run has finished
func (k *RunSink) Complete(ctx context.Context, summary entities.RunSummary) error {
	return k.store.CompleteRun(ctx, k.runID, summary)
}
