package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

func mustSupplier(t *testing.T, name string, expedited bool) *entities.Supplier {
	t.Helper()
	supplier, err := entities.NewSupplier(entities.SupplierName(name), 0.9, 1, 2, 4,
		decimal.NewFromInt(10), decimal.NewFromInt(5), expedited)
	if err != nil {
		t.Fatalf("Failed to create supplier: %v", err)
	}
	return supplier
}

func TestSupplierRepository_LoadAndGet(t *testing.T) {
	repo := NewSupplierRepository()
	err := repo.LoadSuppliers([]*entities.Supplier{
		mustSupplier(t, "Cheap", false),
		mustSupplier(t, "Expedited", true),
		mustSupplier(t, "Normal", false),
	})
	if err != nil {
		t.Fatalf("Failed to load suppliers: %v", err)
	}

	suppliers, _ := repo.GetSuppliers()
	if len(suppliers) != 3 || suppliers[2].Name != "Normal" {
		t.Errorf("Expected roster in load order, got %v", suppliers)
	}

	normal, err := repo.GetSupplier("Normal")
	if err != nil || normal.Name != "Normal" {
		t.Errorf("Expected to find Normal, got %v (%v)", normal, err)
	}

	expedited, err := repo.GetExpeditedSupplier()
	if err != nil || expedited.Name != "Expedited" {
		t.Errorf("Expected Expedited supplier, got %v (%v)", expedited, err)
	}

	if _, err := repo.GetSupplier("Missing"); !errors.Is(err, entities.ErrSupplierNotFound) {
		t.Errorf("Expected ErrSupplierNotFound, got %v", err)
	}
}

func TestSupplierRepository_Duplicate(t *testing.T) {
	repo := NewSupplierRepository()
	err := repo.LoadSuppliers([]*entities.Supplier{mustSupplier(t, "Cheap", false), mustSupplier(t, "Cheap", false)})
	if !errors.Is(err, entities.ErrInvalidSupplier) {
		t.Errorf("Expected duplicate supplier to be rejected, got %v", err)
	}
}

func TestSupplierRepository_NoExpedited(t *testing.T) {
	repo := NewSupplierRepository()
	_ = repo.LoadSuppliers([]*entities.Supplier{mustSupplier(t, "Cheap", false)})
	if _, err := repo.GetExpeditedSupplier(); !errors.Is(err, entities.ErrSupplierNotFound) {
		t.Errorf("Expected ErrSupplierNotFound, got %v", err)
	}
}

func TestDemandRepository(t *testing.T) {
	repo := NewDemandRepository()
	series := entities.DemandSeries{1, 2, 3}
	if err := repo.LoadDemandSeries(series); err != nil {
		t.Fatalf("Failed to load demand: %v", err)
	}
	series[0] = 99

	stored, _ := repo.GetDemandSeries()
	if stored[0] != 1 {
		t.Errorf("Expected stored series to be isolated from caller, got %d", stored[0])
	}

	if err := repo.LoadDemandSeries(entities.DemandSeries{-1}); !errors.Is(err, entities.ErrInvalidDemand) {
		t.Errorf("Expected negative demand to be rejected, got %v", err)
	}
}

func TestResultSink_DayOrder(t *testing.T) {
	sink := NewResultSink()
	ctx := context.Background()

	if err := sink.Append(ctx, entities.DayRecord{Day: 0}); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	if err := sink.Append(ctx, entities.DayRecord{Day: 1}); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	if err := sink.Append(ctx, entities.DayRecord{Day: 1}); err == nil {
		t.Error("Expected out-of-order day to be rejected")
	}
	if len(sink.Records()) != 2 {
		t.Errorf("Expected 2 records, got %d", len(sink.Records()))
	}

	_ = sink.Close()
	if err := sink.Append(ctx, entities.DayRecord{Day: 2}); err == nil {
		t.Error("Expected append after close to fail")
	}
}
