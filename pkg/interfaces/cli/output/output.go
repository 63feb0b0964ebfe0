package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/vsinha/supplysim/pkg/application/dto"
	"github.com/vsinha/supplysim/pkg/domain/entities"
	resultcsv "github.com/vsinha/supplysim/pkg/infrastructure/repositories/csv"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	RunTime   time.Duration
}

var summaryHeader = []string{
	"run_id", "policy", "days", "final_inventory", "total_demand", "fulfilled",
	"stockouts", "overflow", "orders", "emergency_orders", "revenue",
	"holding_cost", "stockout_cost", "supplier_cost", "total_cost", "profit",
	"roi", "fill_rate",
}

var ordersHeader = []string{
	"id", "placed_day", "due_day", "delay", "quantity", "supplier", "class",
	"cost", "model_scored",
}

// Generate writes the comparison in the configured format. Text and JSON go
// to w unless an output directory is set; CSV always needs a directory.
func Generate(w io.Writer, comparison *dto.Comparison, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(w, comparison, config)
	case "json":
		return generateJSONOutput(w, comparison, config)
	case "csv":
		return generateCSVOutput(w, comparison, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(w io.Writer, comparison *dto.Comparison, config Config) error {
	fmt.Fprintf(w, "📊 Simulation Results\n")
	fmt.Fprintf(w, "=====================\n\n")

	fmt.Fprintf(w, "Days: %d\n", comparison.Demand.Horizon())
	fmt.Fprintf(w, "Total Demand: %d\n", comparison.Demand.Total())
	fmt.Fprintf(w, "Policies: %d\n", len(comparison.Results))
	if config.RunTime > 0 {
		fmt.Fprintf(w, "Run Time: %v\n", config.RunTime)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-10s %-10s %-10s %-8s %-10s %-12s %-12s %-10s\n",
		"Policy", "Fill Rate", "Stockouts", "Orders", "Emergency", "Total Cost", "Profit", "ROI %")
	fmt.Fprintf(w, "%-10s %-10s %-10s %-8s %-10s %-12s %-12s %-10s\n",
		"----------", "----------", "----------", "--------", "----------", "------------", "------------", "----------")
	for _, result := range comparison.Results {
		s := result.Summary
		fmt.Fprintf(w, "%-10s %-10s %-10d %-8d %-10d %-12s %-12s %-10s\n",
			result.Policy,
			fmt.Sprintf("%.1f%%", s.FillRate*100),
			s.StockoutUnits,
			s.OrdersPlaced,
			s.EmergencyOrders,
			s.TotalCost.StringFixed(2),
			s.Profit.StringFixed(2),
			s.ROI.StringFixed(2))
	}
	fmt.Fprintln(w)

	for _, result := range comparison.Results {
		if len(result.Summary.SupplierUsage) == 0 {
			continue
		}
		fmt.Fprintf(w, "🚚 %s supplier usage:", result.Policy)
		for _, name := range usageOrder(result) {
			fmt.Fprintf(w, " %s=%d", name, result.Summary.SupplierUsage[name])
		}
		fmt.Fprintln(w)
	}

	if best := comparison.Best(); best != nil && len(comparison.Results) > 1 {
		fmt.Fprintf(w, "\n🏆 Most profitable policy: %s (%s)\n", best.Policy, best.Summary.Profit.StringFixed(2))
	}

	if config.Verbose {
		for _, result := range comparison.Results {
			if len(result.Orders) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n📋 %s orders:\n", result.Policy)
			fmt.Fprintf(w, "%-5s %-7s %-7s %-8s %-10s %-10s %-10s\n",
				"ID", "Placed", "Due", "Qty", "Supplier", "Class", "Cost")
			for _, order := range result.Orders {
				fmt.Fprintf(w, "%-5d %-7d %-7d %-8d %-10s %-10s %-10s\n",
					order.ID, order.PlacedDay, order.DueDay, order.Quantity,
					order.Supplier, order.Class, order.Cost.StringFixed(2))
			}
		}
	}

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := filepath.Join(config.OutputDir, "summary.csv")
		if err := writeSummaryCSV(comparison, filename); err != nil {
			return err
		}
		if config.Verbose {
			fmt.Fprintf(w, "💾 Summary saved to: %s\n", filename)
		}
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(w io.Writer, comparison *dto.Comparison, config Config) error {
	jsonData, err := json.MarshalIndent(comparison, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(w, string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, "simulation_results.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(w, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes one day-record file and one order file per
// policy, plus a summary file
func generateCSVOutput(w io.Writer, comparison *dto.Comparison, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0, 2*len(comparison.Results)+1)
	for _, result := range comparison.Results {
		recordsFile := filepath.Join(config.OutputDir, fmt.Sprintf("day_records_%s.csv", result.Policy))
		if err := writeRecordsCSV(result, recordsFile); err != nil {
			return err
		}
		ordersFile := filepath.Join(config.OutputDir, fmt.Sprintf("orders_%s.csv", result.Policy))
		if err := writeOrdersCSV(result, ordersFile); err != nil {
			return err
		}
		written = append(written, recordsFile, ordersFile)
	}

	summaryFile := filepath.Join(config.OutputDir, "summary.csv")
	if err := writeSummaryCSV(comparison, summaryFile); err != nil {
		return err
	}
	written = append(written, summaryFile)

	if config.Verbose {
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		for _, filename := range written {
			fmt.Fprintf(w, "  %s\n", filename)
		}
	}
	return nil
}

func writeRecordsCSV(result *dto.SimulationResult, filename string) error {
	writer, err := resultcsv.CreateResultFile(filename)
	if err != nil {
		return err
	}
	for _, record := range result.Records {
		if err := writer.Append(context.Background(), record); err != nil {
			writer.Close()
			return err
		}
	}
	return writer.Close()
}

func writeOrdersCSV(result *dto.SimulationResult, filename string) error {
	rows := make([][]string, 0, len(result.Orders))
	for _, order := range result.Orders {
		rows = append(rows, []string{
			strconv.Itoa(order.ID),
			strconv.Itoa(int(order.PlacedDay)),
			strconv.Itoa(int(order.DueDay)),
			strconv.Itoa(order.Delay),
			strconv.FormatInt(int64(order.Quantity), 10),
			string(order.Supplier),
			order.Class,
			order.Cost.StringFixed(2),
			strconv.FormatBool(order.ModelScored),
		})
	}
	return writeCSVFile(filename, ordersHeader, rows)
}

func writeSummaryCSV(comparison *dto.Comparison, filename string) error {
	rows := make([][]string, 0, len(comparison.Results))
	for _, result := range comparison.Results {
		s := result.Summary
		rows = append(rows, []string{
			result.RunID,
			result.Policy,
			strconv.Itoa(s.Days),
			strconv.FormatInt(int64(s.FinalInventory), 10),
			strconv.FormatInt(int64(s.TotalDemand), 10),
			strconv.FormatInt(int64(s.FulfilledUnits), 10),
			strconv.FormatInt(int64(s.StockoutUnits), 10),
			strconv.FormatInt(int64(s.OverflowUnits), 10),
			strconv.Itoa(s.OrdersPlaced),
			strconv.Itoa(s.EmergencyOrders),
			s.Revenue.StringFixed(2),
			s.HoldingCost.StringFixed(2),
			s.StockoutCost.StringFixed(2),
			s.SupplierCost.StringFixed(2),
			s.TotalCost.StringFixed(2),
			s.Profit.StringFixed(2),
			s.ROI.StringFixed(2),
			strconv.FormatFloat(s.FillRate, 'f', 4, 64),
		})
	}
	return writeCSVFile(filename, summaryHeader, rows)
}

func writeCSVFile(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}

// usageOrder lists the suppliers a run used, most used first
func usageOrder(result *dto.SimulationResult) []entities.SupplierName {
	names := make([]entities.SupplierName, 0, len(result.Summary.SupplierUsage))
	for name := range result.Summary.SupplierUsage {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := result.Summary.SupplierUsage[names[i]], result.Summary.SupplierUsage[names[j]]
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	return names
}
