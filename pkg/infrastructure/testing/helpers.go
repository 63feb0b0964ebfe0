package testing

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/infrastructure/config"
	"github.com/vsinha/supplysim/pkg/infrastructure/repositories/memory"
)

func mustCreateSupplier(
	name string,
	reliability, costMultiplier float64,
	minDays, maxDays int,
	perUnitPrice, shippingCost int64,
	expedited bool,
) *entities.Supplier {
	supplier, err := entities.NewSupplier(
		entities.SupplierName(name),
		reliability,
		costMultiplier,
		minDays,
		maxDays,
		decimal.NewFromInt(perUnitPrice),
		decimal.NewFromInt(shippingCost),
		expedited,
	)
	if err != nil {
		panic(err)
	}
	return supplier
}

// BuildReferenceRoster returns the reference roster of three regular
// suppliers and one expedited supplier
func BuildReferenceRoster() []*entities.Supplier {
	suppliers, err := config.Default().BuildSuppliers()
	if err != nil {
		panic(err)
	}
	return suppliers
}

// BuildReferenceScenario builds repositories holding the reference roster and
// the given demand series
func BuildReferenceScenario(series entities.DemandSeries) (*memory.SupplierRepository, *memory.DemandRepository) {
	supplierRepo := memory.NewSupplierRepository()
	if err := supplierRepo.LoadSuppliers(BuildReferenceRoster()); err != nil {
		panic(err)
	}

	demandRepo := memory.NewDemandRepository()
	if err := demandRepo.LoadDemandSeries(series); err != nil {
		panic(err)
	}
	return supplierRepo, demandRepo
}

// BuildDeterministicScenario builds a roster whose suppliers always deliver
// on a fixed day, with constant daily demand over the horizon
func BuildDeterministicScenario(dailyDemand entities.Quantity, horizon int) (*memory.SupplierRepository, *memory.DemandRepository) {
	supplierRepo := memory.NewSupplierRepository()
	err := supplierRepo.LoadSuppliers([]*entities.Supplier{
		mustCreateSupplier("Cheap", 1.0, 0.8, 6, 6, 15, 100, false),
		mustCreateSupplier("Normal", 1.0, 1.0, 4, 4, 20, 80, false),
		mustCreateSupplier("Premium", 1.0, 1.3, 2, 2, 25, 50, false),
		mustCreateSupplier("Expedited", 1.0, 2.0, 1, 1, 40, 200, true),
	})
	if err != nil {
		panic(err)
	}

	series := make(entities.DemandSeries, horizon)
	for day := range series {
		series[day] = dailyDemand
	}
	demandRepo := memory.NewDemandRepository()
	if err := demandRepo.LoadDemandSeries(series); err != nil {
		panic(err)
	}
	return supplierRepo, demandRepo
}
