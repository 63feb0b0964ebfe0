package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vsinha/supplysim/pkg/application/services/demand"
	"github.com/vsinha/supplysim/pkg/application/services/orchestration"
	"github.com/vsinha/supplysim/pkg/infrastructure/config"
	"github.com/vsinha/supplysim/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Days             int     // Length of the demand series
	BaseDemand       float64 // Mean daily demand before seasonality and trend
	Seasonality      float64 // Amplitude of the seasonal swing
	Trend            float64 // Units added per day
	Volatility       float64 // Standard deviation of daily noise
	ShockProbability float64 // Chance of a demand shock on any day
	Seed             uint64  // Random seed for reproducible generation
	OutputDir        string  // Output directory for generated files
	Help             bool    // Show help
	Verbose          bool    // Verbose output

	// Stdout receives progress messages; nil means os.Stdout
	Stdout io.Writer
}

// GenerateCommand writes a scenario directory: a demand series, the supplier
// roster and a config file that reproduces both
type GenerateCommand struct {
	config GenerateConfig
	out    io.Writer
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	out := config.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &GenerateCommand{config: config, out: out}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("validation error: -output directory is required")
	}
	if cmd.config.Days <= 0 {
		return fmt.Errorf("validation error: days must be positive, got %d", cmd.config.Days)
	}

	cfg := cmd.scenarioConfig()
	params := orchestration.DemandParamsFromConfig(cfg)
	if err := params.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out,
			"🔧 Generating %d days of demand (base %.1f, seasonality %.1f, trend %.2f, volatility %.1f, shocks %.0f%%)\n",
			cmd.config.Days, params.BaseDemand, params.Seasonality, params.Trend,
			params.Volatility, params.ShockProbability*100)
		fmt.Fprintf(cmd.out, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Generate demand.csv
	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "📈 Generating demand.csv...")
	}
	series, err := demand.Generate(cmd.config.Days, params)
	if err != nil {
		return fmt.Errorf("failed to generate demand: %w", err)
	}
	demandPath := filepath.Join(cmd.config.OutputDir, "demand.csv")
	if err := writeFile(demandPath, func(w io.Writer) error { return csv.WriteDemandSeries(w, series) }); err != nil {
		return fmt.Errorf("failed to write demand: %w", err)
	}

	// Generate suppliers.csv
	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "🚚 Generating suppliers.csv...")
	}
	suppliers, err := cfg.BuildSuppliers()
	if err != nil {
		return err
	}
	suppliersPath := filepath.Join(cmd.config.OutputDir, "suppliers.csv")
	if err := writeFile(suppliersPath, func(w io.Writer) error { return csv.WriteSuppliers(w, suppliers) }); err != nil {
		return fmt.Errorf("failed to write suppliers: %w", err)
	}

	// Generate config.yaml pointing at the demand file
	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "⚙️  Generating config.yaml...")
	}
	cfg.Demand.File = demandPath
	configPath := filepath.Join(cmd.config.OutputDir, "config.yaml")
	if err := writeFile(configPath, cfg.Encode); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "✅ Scenario generated: %d days, %d units of demand\n", series.Horizon(), series.Total())
	}
	return nil
}

// scenarioConfig returns the defaults with the generation flags applied
func (cmd *GenerateCommand) scenarioConfig() *config.Config {
	cfg := config.Default()
	cfg.Run.Horizon = cmd.config.Days
	cfg.Run.Seed = cmd.config.Seed
	cfg.Run.Policy = "all"
	cfg.Demand.BaseDemand = cmd.config.BaseDemand
	cfg.Demand.Seasonality = cmd.config.Seasonality
	cfg.Demand.Trend = cmd.config.Trend
	cfg.Demand.Volatility = cmd.config.Volatility
	cfg.Demand.ShockProbability = cmd.config.ShockProbability
	cfg.Demand.Seed = cmd.config.Seed
	return cfg
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// printHelp displays the help message for generate
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintf(cmd.out, `Generate a simulation scenario

USAGE:
    supplysim generate -output <dir> [options]

OPTIONS:
    -output <dir>         Output directory for generated files (required)
    -days <n>             Number of days of demand (default: 100)
    -base <units>         Base daily demand (default: 10)
    -seasonality <units>  Seasonal amplitude (default: 5)
    -trend <units>        Demand added per day (default: 0.05)
    -volatility <units>   Standard deviation of daily noise (default: 5)
    -shock <p>            Daily shock probability (default: 0.15)
    -seed <n>             Random seed (default: 1)
    -verbose              Enable verbose output
    -help                 Show this help message

GENERATED FILES:
    demand.csv      day,demand
    suppliers.csv   the default supplier roster
    config.yaml     configuration that runs every policy on demand.csv

EXAMPLE:
    supplysim generate -output scenarios/volatile -volatility 8 -shock 0.3
    supplysim simulate -config scenarios/volatile/config.yaml -verbose
`)
}
