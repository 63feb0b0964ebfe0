package orchestration

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/application/services/demand"
	"github.com/vsinha/supplysim/pkg/application/services/policy"
	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/services"
	"github.com/vsinha/supplysim/pkg/infrastructure/config"
)

// SettingsFromConfig converts a loaded configuration into run settings
func SettingsFromConfig(cfg *config.Config) (RunSettings, error) {
	settings := RunSettings{
		Ledger: cfg.LedgerConfig(),
		Policy: policy.Parameters{
			Fixed: policy.FixedThresholdConfig{
				ReorderThreshold: entities.Quantity(cfg.Fixed.ReorderThreshold),
				OrderQuantity:    entities.Quantity(cfg.Fixed.OrderQuantity),
			},
			FixedSupplier: entities.SupplierName(cfg.Fixed.Supplier),
			Adaptive: policy.AdaptiveConfig{
				Lookback:               cfg.Adaptive.Lookback,
				SafetyMultiplier:       cfg.Adaptive.SafetyMultiplier,
				TrendWeight:            cfg.Adaptive.TrendWeight,
				EmergencyFraction:      cfg.Adaptive.EmergencyFraction,
				EmergencyOrderQuantity: entities.Quantity(cfg.Adaptive.EmergencyOrderQuantity),
				MinDaysBetweenOrders:   cfg.Adaptive.MinDaysBetweenOrders,
				CoverageDays:           cfg.Adaptive.CoverageDays,
				MinOrderQuantity:       entities.Quantity(cfg.Adaptive.MinOrderQuantity),
				MissedRevenueThreshold: decimal.NewFromFloat(cfg.Adaptive.MissedRevenueThreshold),
				ScalingFactor:          cfg.Adaptive.ScalingFactor,
			},
			Learned: policy.LearnedSelectorConfig{
				MinObservations:   cfg.Learned.MinObservations,
				PenaltyMultiplier: decimal.NewFromFloat(cfg.Learned.PenaltyMultiplier),
				ScoringQuantity:   entities.Quantity(cfg.Learned.ScoringQuantity),
				RidgeLambda:       cfg.Learned.RidgeLambda,
			},
		},
		Seed:          cfg.Run.Seed,
		MinRosterSize: services.MinRosterSize,
	}

	if err := settings.Ledger.Validate(); err != nil {
		return RunSettings{}, err
	}
	if err := settings.Policy.Adaptive.Validate(); err != nil {
		return RunSettings{}, err
	}
	return settings, nil
}

// DemandParamsFromConfig returns the generator parameters of the demand
// section, keeping the default season and shock ranges
func DemandParamsFromConfig(cfg *config.Config) demand.Params {
	params := demand.DefaultParams()
	params.BaseDemand = cfg.Demand.BaseDemand
	params.Seasonality = cfg.Demand.Seasonality
	params.Trend = cfg.Demand.Trend
	params.Volatility = cfg.Demand.Volatility
	params.ShockProbability = cfg.Demand.ShockProbability
	params.Seed = cfg.Demand.Seed
	return params
}
