package orchestration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/supplysim/pkg/application/services/demand"
	"github.com/vsinha/supplysim/pkg/application/services/policy"
	"github.com/vsinha/supplysim/pkg/application/services/simulation"
	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/repositories"
	"github.com/vsinha/supplysim/pkg/infrastructure/config"
	"github.com/vsinha/supplysim/pkg/infrastructure/events"
	"github.com/vsinha/supplysim/pkg/infrastructure/metrics"
	"github.com/vsinha/supplysim/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/supplysim/pkg/infrastructure/repositories/sqlite"
	testhelpers "github.com/vsinha/supplysim/pkg/infrastructure/testing"
)

func newTestOrchestrator(t *testing.T, opts ...Option) (*RunOrchestrator, entities.DemandSeries) {
	t.Helper()
	cfg := config.Default()

	suppliers, err := cfg.BuildSuppliers()
	require.NoError(t, err)
	supplierRepo := memory.NewSupplierRepository()
	require.NoError(t, supplierRepo.LoadSuppliers(suppliers))

	series, err := demand.Generate(cfg.Run.Horizon, demand.DefaultParams())
	require.NoError(t, err)
	demandRepo := memory.NewDemandRepository()
	require.NoError(t, demandRepo.LoadDemandSeries(series))

	settings, err := SettingsFromConfig(cfg)
	require.NoError(t, err)
	return NewRunOrchestrator(settings, supplierRepo, demandRepo, opts...), series
}

func TestRunOrchestrator_CompareSharesDemand(t *testing.T) {
	orchestrator, series := newTestOrchestrator(t)

	comparison, err := orchestrator.Compare(context.Background(), policy.AllKinds)
	require.NoError(t, err)
	require.Len(t, comparison.Results, 3)
	assert.Equal(t, series, comparison.Demand)

	ids := make(map[string]bool)
	for i, result := range comparison.Results {
		assert.Equal(t, string(policy.AllKinds[i]), result.Policy)
		assert.Len(t, result.Records, series.Horizon())
		assert.Equal(t, series.Total(), result.Summary.TotalDemand)

		_, err := uuid.Parse(result.RunID)
		assert.NoError(t, err)
		ids[result.RunID] = true

		for day, record := range result.Records {
			assert.Equal(t, series[day], record.Demand)
		}
	}
	assert.Len(t, ids, 3, "every run gets its own id")
	assert.NotNil(t, comparison.Best())
}

func TestRunOrchestrator_RunIsReproducible(t *testing.T) {
	orchestrator, _ := newTestOrchestrator(t)

	first, err := orchestrator.Run(context.Background(), policy.KindLearned)
	require.NoError(t, err)
	second, err := orchestrator.Run(context.Background(), policy.KindLearned)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Orders, second.Orders)
}

func TestRunOrchestrator_StreamsToSinks(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	collector := metrics.NewCollector()
	eventStore := events.NewInMemoryEventStore()

	orchestrator, series := newTestOrchestrator(t,
		WithSinkFactory(func(ctx context.Context, runID, policyName string) (repositories.ResultSink, error) {
			if err := store.CreateRun(ctx, runID, policyName); err != nil {
				return nil, err
			}
			return store.Sink(runID), nil
		}),
		WithMetricsFactory(func(policyName string) simulation.MetricsRecorder {
			return collector.ForPolicy(policyName)
		}),
		WithEventStore(eventStore),
	)

	result, err := orchestrator.Run(ctx, policy.KindFixed)
	require.NoError(t, err)

	records, err := store.GetDayRecords(ctx, result.RunID)
	require.NoError(t, err)
	require.Len(t, records, series.Horizon())
	for i := range records {
		assert.Equal(t, result.Records[i].Row(), records[i].Row())
	}

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].Summary)
	assert.Equal(t, result.Summary.StockoutUnits, runs[0].Summary.StockoutUnits)

	placed := eventStore.EventsOfType(events.OrderPlacedEvent)
	assert.Len(t, placed, result.Summary.OrdersPlaced)
}

func TestRunOrchestrator_SinkFactoryError(t *testing.T) {
	sinkErr := errors.New("no space")
	orchestrator, _ := newTestOrchestrator(t,
		WithSinkFactory(func(ctx context.Context, runID, policyName string) (repositories.ResultSink, error) {
			return nil, sinkErr
		}),
	)

	_, err := orchestrator.Run(context.Background(), policy.KindAdaptive)
	assert.ErrorIs(t, err, sinkErr)
}

func TestRunOrchestrator_RejectsInvalidRoster(t *testing.T) {
	supplierRepo := memory.NewSupplierRepository()
	only, err := entities.NewSupplier("Only", 1, 1, 1, 2, decimal.NewFromInt(1), decimal.Zero, false)
	require.NoError(t, err)
	require.NoError(t, supplierRepo.LoadSuppliers([]*entities.Supplier{only}))

	demandRepo := memory.NewDemandRepository()
	require.NoError(t, demandRepo.LoadDemandSeries(entities.DemandSeries{10, 10}))

	settings, err := SettingsFromConfig(config.Default())
	require.NoError(t, err)
	orchestrator := NewRunOrchestrator(settings, supplierRepo, demandRepo)

	_, err = orchestrator.Run(context.Background(), policy.KindFixed)
	assert.ErrorIs(t, err, entities.ErrInvalidSupplier)
}

func TestRunOrchestrator_RequiresDemand(t *testing.T) {
	cfg := config.Default()
	suppliers, err := cfg.BuildSuppliers()
	require.NoError(t, err)
	supplierRepo := memory.NewSupplierRepository()
	require.NoError(t, supplierRepo.LoadSuppliers(suppliers))

	settings, err := SettingsFromConfig(cfg)
	require.NoError(t, err)
	orchestrator := NewRunOrchestrator(settings, supplierRepo, memory.NewDemandRepository())

	_, err = orchestrator.Run(context.Background(), policy.KindFixed)
	assert.Error(t, err)
	_, err = orchestrator.Compare(context.Background(), nil)
	assert.Error(t, err)
}

func TestRunOrchestrator_FixedPolicyNeverStocksOutOnTimelyDeliveries(t *testing.T) {
	supplierRepo, demandRepo := testhelpers.BuildDeterministicScenario(10, 60)
	settings, err := SettingsFromConfig(config.Default())
	require.NoError(t, err)
	orchestrator := NewRunOrchestrator(settings, supplierRepo, demandRepo)

	result, err := orchestrator.Run(context.Background(), policy.KindFixed)
	require.NoError(t, err)

	assert.Equal(t, entities.Quantity(0), result.Summary.StockoutUnits)
	assert.Equal(t, entities.Quantity(0), result.Summary.OverflowUnits)
	require.Len(t, result.Orders, 6)
	for i, order := range result.Orders {
		assert.Equal(t, entities.Day(5+10*i), order.PlacedDay)
		assert.Equal(t, 4, order.Delay)
		assert.Equal(t, entities.SupplierName("Normal"), order.Supplier)
	}
}
