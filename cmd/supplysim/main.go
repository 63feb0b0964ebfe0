package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/vsinha/supplysim/pkg/interfaces/cli/commands"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "simulate":
		err = runSimulate(ctx, os.Args[2:])
	case "generate":
		err = runGenerate(ctx, os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func runSimulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	var (
		configFile    = fs.String("config", "", "Path to YAML configuration file")
		suppliersFile = fs.String("suppliers", "", "Path to suppliers CSV file")
		demandFile    = fs.String("demand", "", "Path to demand CSV file")
		policyName    = fs.String("policy", "", "Policy to run: fixed, adaptive, learned, all")
		horizon       = fs.Int("horizon", 0, "Number of days to simulate")
		seed          = fs.Uint64("seed", 0, "Random seed for delivery times and demand")
		outputDir     = fs.String("output", "", "Output directory for results (optional)")
		format        = fs.String("format", "text", "Output format: text, json, csv")
		dbPath        = fs.String("db", "", "SQLite database for day records (optional)")
		metricsFile   = fs.String("metrics", "", "Prometheus text file for run metrics (optional)")
		logLevel      = fs.String("log-level", "", "Log level: debug, info, warn, error")
		verbose       = fs.Bool("verbose", false, "Enable verbose output")
		help          = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	seedSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	config := commands.Config{
		ConfigFile:    *configFile,
		SuppliersFile: *suppliersFile,
		DemandFile:    *demandFile,
		Policy:        *policyName,
		Horizon:       *horizon,
		Seed:          *seed,
		SeedSet:       seedSet,
		OutputDir:     *outputDir,
		Format:        *format,
		DBPath:        *dbPath,
		MetricsFile:   *metricsFile,
		LogLevel:      *logLevel,
		Verbose:       *verbose,
		Help:          *help,
	}

	return commands.NewSimulateCommand(config).Execute(ctx)
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		outputDir   = fs.String("output", "", "Output directory for generated files")
		days        = fs.Int("days", 100, "Number of days of demand")
		base        = fs.Float64("base", 10, "Base daily demand")
		seasonality = fs.Float64("seasonality", 5, "Seasonal amplitude")
		trend       = fs.Float64("trend", 0.05, "Demand added per day")
		volatility  = fs.Float64("volatility", 5, "Standard deviation of daily noise")
		shock       = fs.Float64("shock", 0.15, "Daily shock probability")
		seed        = fs.Uint64("seed", 1, "Random seed")
		verbose     = fs.Bool("verbose", false, "Enable verbose output")
		help        = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	config := commands.GenerateConfig{
		Days:             *days,
		BaseDemand:       *base,
		Seasonality:      *seasonality,
		Trend:            *trend,
		Volatility:       *volatility,
		ShockProbability: *shock,
		Seed:             *seed,
		OutputDir:        *outputDir,
		Verbose:          *verbose,
		Help:             *help,
	}

	return commands.NewGenerateCommand(config).Execute(ctx)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Supply Chain Simulator

USAGE:
    supplysim <command> [options]

COMMANDS:
    simulate    Run reorder policies over a demand series
    generate    Write a demand series, supplier roster and config file

Run 'supplysim <command> -help' for command options.
`)
}
