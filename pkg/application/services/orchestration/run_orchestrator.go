package orchestration

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vsinha/supplysim/pkg/application/dto"
	"github.com/vsinha/supplysim/pkg/application/services/policy"
	"github.com/vsinha/supplysim/pkg/application/services/simulation"
	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/repositories"
	"github.com/vsinha/supplysim/pkg/domain/services"
	"github.com/vsinha/supplysim/pkg/infrastructure/events"
)

// RunSettings are the parameters shared by every run of an orchestrator
type RunSettings struct {
	Ledger        entities.LedgerConfig
	Policy        policy.Parameters
	Seed          uint64
	MinRosterSize int
}

// SinkFactory opens the result sink of a new run
type SinkFactory func(ctx context.Context, runID, policyName string) (repositories.ResultSink, error)

// MetricsFactory returns the recorder for a policy's run
type MetricsFactory func(policyName string) simulation.MetricsRecorder

// RunCompleter is implemented by sinks that store the run summary
type RunCompleter interface {
	Complete(ctx context.Context, summary entities.RunSummary) error
}

// Option configures a RunOrchestrator
type Option func(*RunOrchestrator)

// WithSinkFactory streams every run into a sink from factory
func WithSinkFactory(factory SinkFactory) Option {
	return func(o *RunOrchestrator) { o.sinkFactory = factory }
}

// WithMetricsFactory reports every run to a recorder from factory
func WithMetricsFactory(factory MetricsFactory) Option {
	return func(o *RunOrchestrator) { o.metricsFactory = factory }
}

// WithEventStore publishes every run's order events to store
func WithEventStore(store events.EventStore) Option {
	return func(o *RunOrchestrator) { o.eventStore = store }
}

// WithLogger sets the logger handed to every engine
func WithLogger(logger *log.Logger) Option {
	return func(o *RunOrchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// RunOrchestrator runs reorder policies against the roster and demand held
// by its repositories
type RunOrchestrator struct {
	settings     RunSettings
	supplierRepo repositories.SupplierRepository
	demandRepo   repositories.DemandRepository

	sinkFactory    SinkFactory
	metricsFactory MetricsFactory
	eventStore     events.EventStore
	logger         *log.Logger
}

// NewRunOrchestrator creates a new run orchestrator
func NewRunOrchestrator(
	settings RunSettings,
	supplierRepo repositories.SupplierRepository,
	demandRepo repositories.DemandRepository,
	opts ...Option,
) *RunOrchestrator {
	o := &RunOrchestrator{
		settings:     settings,
		supplierRepo: supplierRepo,
		demandRepo:   demandRepo,
		logger:       log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Roster returns the validated supplier roster
func (o *RunOrchestrator) Roster() ([]*entities.Supplier, error) {
	suppliers, err := o.supplierRepo.GetSuppliers()
	if err != nil {
		return nil, fmt.Errorf("failed to load suppliers: %w", err)
	}

	validation := services.ValidateRoster(suppliers, o.settings.MinRosterSize)
	if !validation.Valid() {
		return nil, fmt.Errorf("%w: %s", entities.ErrInvalidSupplier, strings.Join(validation.Errors, "; "))
	}
	return suppliers, nil
}

// BuildPolicy creates a fresh policy instance of the given kind
func (o *RunOrchestrator) BuildPolicy(kind policy.Kind) (policy.ReorderPolicy, error) {
	roster, err := o.Roster()
	if err != nil {
		return nil, err
	}
	return policy.New(kind, o.settings.Policy, roster)
}

// Run simulates one policy over the stored demand series
func (o *RunOrchestrator) Run(ctx context.Context, kind policy.Kind) (*dto.SimulationResult, error) {
	demand, err := o.demandRepo.GetDemandSeries()
	if err != nil {
		return nil, fmt.Errorf("failed to load demand: %w", err)
	}
	if demand.Horizon() == 0 {
		return nil, fmt.Errorf("no demand to simulate")
	}
	return o.run(ctx, kind, demand)
}

// Compare simulates every policy in kinds over the same demand series and
// the same delivery-time seed
func (o *RunOrchestrator) Compare(ctx context.Context, kinds []policy.Kind) (*dto.Comparison, error) {
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no policies to compare")
	}
	demand, err := o.demandRepo.GetDemandSeries()
	if err != nil {
		return nil, fmt.Errorf("failed to load demand: %w", err)
	}
	if demand.Horizon() == 0 {
		return nil, fmt.Errorf("no demand to simulate")
	}

	comparison := &dto.Comparison{
		Demand:  demand,
		Results: make([]*dto.SimulationResult, 0, len(kinds)),
	}
	for _, kind := range kinds {
		result, err := o.run(ctx, kind, demand)
		if err != nil {
			return nil, fmt.Errorf("%s policy: %w", kind, err)
		}
		comparison.Results = append(comparison.Results, result)
	}
	return comparison, nil
}

func (o *RunOrchestrator) run(ctx context.Context, kind policy.Kind, demand entities.DemandSeries) (result *dto.SimulationResult, err error) {
	reorderPolicy, err := o.BuildPolicy(kind)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	opts := []simulation.Option{
		simulation.WithSeed(o.settings.Seed),
		simulation.WithRunID(runID),
		simulation.WithLogger(o.logger.With("policy", kind)),
	}

	var sink repositories.ResultSink
	if o.sinkFactory != nil {
		sink, err = o.sinkFactory(ctx, runID, string(kind))
		if err != nil {
			return nil, fmt.Errorf("failed to open result sink: %w", err)
		}
		defer func() {
			if closeErr := sink.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close result sink: %w", closeErr)
			}
		}()
		opts = append(opts, simulation.WithSink(sink))
	}
	if o.metricsFactory != nil {
		opts = append(opts, simulation.WithMetrics(o.metricsFactory(string(kind))))
	}
	if o.eventStore != nil {
		opts = append(opts, simulation.WithEvents(o.eventStore))
	}

	engine, err := simulation.NewEngine(o.settings.Ledger, reorderPolicy, opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err = engine.Run(ctx, demand)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)

	if completer, ok := sink.(RunCompleter); ok {
		if err := completer.Complete(ctx, result.Summary); err != nil {
			return nil, fmt.Errorf("failed to record run summary: %w", err)
		}
	}

	return result, nil
}
