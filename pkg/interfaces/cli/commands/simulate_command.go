package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vsinha/supplysim/pkg/application/dto"
	"github.com/vsinha/supplysim/pkg/application/services/demand"
	"github.com/vsinha/supplysim/pkg/application/services/orchestration"
	"github.com/vsinha/supplysim/pkg/application/services/policy"
	"github.com/vsinha/supplysim/pkg/application/services/simulation"
	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/repositories"
	"github.com/vsinha/supplysim/pkg/infrastructure/config"
	"github.com/vsinha/supplysim/pkg/infrastructure/events"
	"github.com/vsinha/supplysim/pkg/infrastructure/logging"
	"github.com/vsinha/supplysim/pkg/infrastructure/metrics"
	"github.com/vsinha/supplysim/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/supplysim/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/supplysim/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/supplysim/pkg/interfaces/cli/output"
)

// Config holds configuration for the simulate command
type Config struct {
	ConfigFile    string
	SuppliersFile string
	DemandFile    string
	Policy        string // fixed, adaptive, learned or all
	Horizon       int    // 0 keeps the configured horizon
	Seed          uint64
	SeedSet       bool
	OutputDir     string
	Format        string
	DBPath        string
	MetricsFile   string
	LogLevel      string
	Verbose       bool
	Help          bool

	// Stdout receives the report; nil means os.Stdout
	Stdout io.Writer
}

// SimulateCommand runs reorder policies over one demand series
type SimulateCommand struct {
	config Config
	out    io.Writer
}

// NewSimulateCommand creates a new simulate command with the given configuration
func NewSimulateCommand(config Config) *SimulateCommand {
	out := config.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &SimulateCommand{config: config, out: out}
}

// Execute runs the simulate command
func (c *SimulateCommand) Execute(ctx context.Context) (err error) {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	kinds, err := c.resolvePolicies(cfg.Run.Policy)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(cfg, kinds)
	}

	logger, err := c.newLogger()
	if err != nil {
		return err
	}

	// Load suppliers and demand
	supplierRepo, err := c.loadSuppliers(cfg)
	if err != nil {
		return err
	}
	demandRepo, err := c.loadDemand(cfg)
	if err != nil {
		return err
	}

	settings, err := orchestration.SettingsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	eventStore := events.NewInMemoryEventStore()
	stockoutDays := 0
	stockoutCounter := &events.HandlerFunc{
		Types: []string{events.StockoutOccurredEvent},
		Fn: func(events.Event) error {
			stockoutDays++
			return nil
		},
	}
	if err := eventStore.Subscribe(stockoutCounter.Types, stockoutCounter); err != nil {
		return fmt.Errorf("failed to subscribe to events: %w", err)
	}

	opts := []orchestration.Option{
		orchestration.WithLogger(logger),
		orchestration.WithEventStore(eventStore),
	}

	var collector *metrics.Collector
	if c.config.MetricsFile != "" {
		collector = metrics.NewCollector()
		opts = append(opts, orchestration.WithMetricsFactory(func(policyName string) simulation.MetricsRecorder {
			return collector.ForPolicy(policyName)
		}))
	}

	if c.config.DBPath != "" {
		store, openErr := sqlite.New(c.config.DBPath)
		if openErr != nil {
			return openErr
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close database: %w", closeErr)
			}
		}()
		opts = append(opts, orchestration.WithSinkFactory(
			func(ctx context.Context, runID, policyName string) (repositories.ResultSink, error) {
				if err := store.CreateRun(ctx, runID, policyName); err != nil {
					return nil, err
				}
				return store.Sink(runID), nil
			}))
	}

	orchestrator := orchestration.NewRunOrchestrator(settings, supplierRepo, demandRepo, opts...)

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🔄 Running simulation...")
	}

	startTime := time.Now()
	comparison, err := orchestrator.Compare(ctx, kinds)
	runTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error running simulation: %w", err)
	}
	if err := eventStore.Unsubscribe(stockoutCounter); err != nil {
		return fmt.Errorf("failed to unsubscribe from events: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Simulation completed in %v\n", runTime)
		fmt.Fprintf(c.out, "⚠️  Stockout days across all runs: %d\n\n", stockoutDays)
	}

	err = output.Generate(c.out, comparison, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		RunTime:   runTime,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if collector != nil {
		if err := collector.WriteTextfile(c.config.MetricsFile); err != nil {
			return err
		}
		if c.config.Verbose {
			fmt.Fprintf(c.out, "📈 Metrics saved to: %s\n", c.config.MetricsFile)
		}
	}
	if c.config.Verbose && c.config.DBPath != "" {
		c.printStoredRuns(comparison)
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🏁 Simulation complete!")
	}
	return nil
}

// loadConfig reads the config file, if any, and applies flag overrides
func (c *SimulateCommand) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if c.config.ConfigFile != "" {
		loaded, err := config.Load(c.config.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.config.Policy != "" {
		cfg.Run.Policy = c.config.Policy
	}
	if c.config.Horizon > 0 {
		cfg.Run.Horizon = c.config.Horizon
	}
	if c.config.SeedSet {
		cfg.Run.Seed = c.config.Seed
		cfg.Demand.Seed = c.config.Seed
	}
	if c.config.DemandFile != "" {
		cfg.Demand.File = c.config.DemandFile
	}
	if c.config.Format == "" {
		c.config.Format = "text"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePolicies expands the policy selection into the kinds to run
func (c *SimulateCommand) resolvePolicies(selection string) ([]policy.Kind, error) {
	if selection == "all" {
		return policy.AllKinds, nil
	}
	kind, err := policy.ParseKind(selection)
	if err != nil {
		return nil, err
	}
	return []policy.Kind{kind}, nil
}

func (c *SimulateCommand) newLogger() (*log.Logger, error) {
	if c.config.LogLevel == "" {
		return logging.New(os.Stderr, c.config.Verbose), nil
	}
	logger, err := logging.NewWithLevel(os.Stderr, c.config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return logger, nil
}

func (c *SimulateCommand) loadSuppliers(cfg *config.Config) (*memory.SupplierRepository, error) {
	var (
		suppliers []*entities.Supplier
		err       error
	)
	if c.config.SuppliersFile != "" {
		if c.config.Verbose {
			fmt.Fprintf(c.out, "📂 Loading suppliers from %s...\n", c.config.SuppliersFile)
		}
		suppliers, err = csv.NewLoader().LoadSuppliers(c.config.SuppliersFile)
	} else {
		suppliers, err = cfg.BuildSuppliers()
	}
	if err != nil {
		return nil, fmt.Errorf("error loading suppliers: %w", err)
	}

	repo := memory.NewSupplierRepository()
	if err := repo.LoadSuppliers(suppliers); err != nil {
		return nil, fmt.Errorf("failed to load suppliers into repository: %w", err)
	}
	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Suppliers loaded: %d\n", len(suppliers))
	}
	return repo, nil
}

func (c *SimulateCommand) loadDemand(cfg *config.Config) (*memory.DemandRepository, error) {
	var (
		series entities.DemandSeries
		err    error
	)
	if cfg.Demand.File != "" {
		if c.config.Verbose {
			fmt.Fprintf(c.out, "📂 Loading demand from %s...\n", cfg.Demand.File)
		}
		series, err = csv.NewLoader().LoadDemand(cfg.Demand.File)
		if err == nil && c.config.Horizon > 0 && c.config.Horizon < series.Horizon() {
			series = series[:c.config.Horizon]
		}
	} else {
		if c.config.Verbose {
			fmt.Fprintln(c.out, "🎲 Generating demand series...")
		}
		series, err = demand.Generate(cfg.Run.Horizon, orchestration.DemandParamsFromConfig(cfg))
	}
	if err != nil {
		return nil, fmt.Errorf("error loading demand: %w", err)
	}

	repo := memory.NewDemandRepository()
	if err := repo.LoadDemandSeries(series); err != nil {
		return nil, fmt.Errorf("failed to load demand into repository: %w", err)
	}
	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Demand loaded: %d days, %d units\n\n", series.Horizon(), series.Total())
	}
	return repo, nil
}

// printHeader prints the command header information
func (c *SimulateCommand) printHeader(cfg *config.Config, kinds []policy.Kind) {
	fmt.Fprintf(c.out, "🚀 Supply Chain Simulator\n")
	fmt.Fprintf(c.out, "Policies: %v\n", kinds)
	fmt.Fprintf(c.out, "Horizon: %d days\n", cfg.Run.Horizon)
	fmt.Fprintf(c.out, "Seed: %d\n", cfg.Run.Seed)
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	if c.config.DBPath != "" {
		fmt.Fprintf(c.out, "Database: %s\n", c.config.DBPath)
	}
	fmt.Fprintln(c.out)
}

func (c *SimulateCommand) printStoredRuns(comparison *dto.Comparison) {
	fmt.Fprintf(c.out, "💾 Runs stored in %s:\n", c.config.DBPath)
	for _, result := range comparison.Results {
		fmt.Fprintf(c.out, "  %s  %s\n", result.RunID, result.Policy)
	}
}

// showHelp displays the help message
func (c *SimulateCommand) showHelp() {
	fmt.Fprintf(c.out, `Supply Chain Simulator - compare inventory reorder policies

USAGE:
    supplysim simulate [options]
    supplysim generate [options]

OPTIONS:
    -config <file>      YAML configuration file (optional)
    -suppliers <file>   Supplier roster CSV file (overrides the configured roster)
    -demand <file>      Demand CSV file (default: generate a synthetic series)
    -policy <name>      fixed, adaptive, learned or all (default: from config)
    -horizon <days>     Number of days to simulate
    -seed <n>           Seed for delivery times and demand generation
    -format <fmt>       Output format: text, json, csv (default: text)
    -output <dir>       Output directory for results (required for csv)
    -db <file>          Store day records in a SQLite database
    -metrics <file>     Write Prometheus metrics in text format
    -log-level <lvl>    debug, info, warn or error
    -verbose            Enable verbose output
    -help               Show this help message

CSV FILE FORMATS:

suppliers.csv:
    name,reliability,cost_multiplier,min_days,max_days,per_unit_price,shipping_cost,expedited
    Normal,0.85,1.0,4,7,20,80,false
    Expedited,1.0,2.0,1,2,40,200,true

demand.csv:
    day,demand
    0,12
    1,9

EXAMPLES:
    # Compare every policy on a generated series
    supplysim simulate -policy all -verbose

    # Run the learned policy on recorded demand and keep the day records
    supplysim simulate -policy learned -demand data/demand.csv -db runs.db

    # Write CSV results for every policy
    supplysim simulate -policy all -format csv -output results/
`)
}
