package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// Config is the complete run configuration
type Config struct {
	Run       RunConfig        `yaml:"run"`
	Store     StoreConfig      `yaml:"store"`
	Fixed     FixedConfig      `yaml:"fixed"`
	Adaptive  AdaptiveConfig   `yaml:"adaptive"`
	Learned   LearnedConfig    `yaml:"learned"`
	Demand    DemandConfig     `yaml:"demand"`
	Suppliers []SupplierConfig `yaml:"suppliers"`
}

type RunConfig struct {
	Horizon int    `yaml:"horizon"`
	Seed    uint64 `yaml:"seed"`
	Policy  string `yaml:"policy"`
}

type StoreConfig struct {
	InitialStock    int64   `yaml:"initial_stock"`
	Capacity        int64   `yaml:"capacity"`
	HoldingCost     float64 `yaml:"holding_cost"`
	StockoutPenalty float64 `yaml:"stockout_penalty"`
	SellingPrice    float64 `yaml:"selling_price"`
}

type FixedConfig struct {
	ReorderThreshold int64  `yaml:"reorder_threshold"`
	OrderQuantity    int64  `yaml:"order_quantity"`
	Supplier         string `yaml:"supplier"`
}

type AdaptiveConfig struct {
	Lookback               int     `yaml:"lookback"`
	SafetyMultiplier       float64 `yaml:"safety_multiplier"`
	TrendWeight            float64 `yaml:"trend_weight"`
	EmergencyFraction      float64 `yaml:"emergency_fraction"`
	EmergencyOrderQuantity int64   `yaml:"emergency_order_quantity"`
	MinDaysBetweenOrders   int     `yaml:"min_days_between_orders"`
	CoverageDays           float64 `yaml:"coverage_days"`
	MinOrderQuantity       int64   `yaml:"min_order_quantity"`
	MissedRevenueThreshold float64 `yaml:"missed_revenue_threshold"`
	ScalingFactor          float64 `yaml:"scaling_factor"`
}

type LearnedConfig struct {
	MinObservations   int     `yaml:"min_observations"`
	PenaltyMultiplier float64 `yaml:"penalty_multiplier"`
	ScoringQuantity   int64   `yaml:"scoring_quantity"`
	RidgeLambda       float64 `yaml:"ridge_lambda"`
}

type DemandConfig struct {
	File             string  `yaml:"file"`
	BaseDemand       float64 `yaml:"base_demand"`
	Seasonality      float64 `yaml:"seasonality"`
	Trend            float64 `yaml:"trend"`
	Volatility       float64 `yaml:"volatility"`
	ShockProbability float64 `yaml:"shock_probability"`
	Seed             uint64  `yaml:"seed"`
}

type SupplierConfig struct {
	Name           string  `yaml:"name"`
	Reliability    float64 `yaml:"reliability"`
	CostMultiplier float64 `yaml:"cost_multiplier"`
	MinDays        int     `yaml:"min_days"`
	MaxDays        int     `yaml:"max_days"`
	PerUnitPrice   float64 `yaml:"per_unit_price"`
	ShippingCost   float64 `yaml:"shipping_cost"`
	Expedited      bool    `yaml:"expedited,omitempty"`
}

// Default returns the reference configuration
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Horizon: 100,
			Seed:    1,
			Policy:  "adaptive",
		},
		Store: StoreConfig{
			InitialStock:    100,
			Capacity:        200,
			HoldingCost:     0.5,
			StockoutPenalty: 10,
			SellingPrice:    50,
		},
		Fixed: FixedConfig{
			ReorderThreshold: 50,
			OrderQuantity:    100,
			Supplier:         "Normal",
		},
		Adaptive: AdaptiveConfig{
			Lookback:               5,
			SafetyMultiplier:       6,
			TrendWeight:            3,
			EmergencyFraction:      0.2,
			EmergencyOrderQuantity: 50,
			MinDaysBetweenOrders:   7,
			CoverageDays:           5,
			MinOrderQuantity:       100,
			MissedRevenueThreshold: 5000,
			ScalingFactor:          1.2,
		},
		Learned: LearnedConfig{
			MinObservations:   10,
			PenaltyMultiplier: 150,
			ScoringQuantity:   100,
			RidgeLambda:       0.01,
		},
		Demand: DemandConfig{
			BaseDemand:       10,
			Seasonality:      5,
			Trend:            0.05,
			Volatility:       5,
			ShockProbability: 0.15,
			Seed:             1,
		},
		Suppliers: DefaultSuppliers(),
	}
}

// DefaultSuppliers returns the reference roster: three regular profiles of
// differing risk, cost and speed plus one expedited supplier
func DefaultSuppliers() []SupplierConfig {
	return []SupplierConfig{
		{Name: "Cheap", Reliability: 0.6, CostMultiplier: 0.8, MinDays: 7, MaxDays: 10, PerUnitPrice: 15, ShippingCost: 100},
		{Name: "Normal", Reliability: 0.85, CostMultiplier: 1.0, MinDays: 4, MaxDays: 7, PerUnitPrice: 20, ShippingCost: 80},
		{Name: "Premium", Reliability: 0.95, CostMultiplier: 1.3, MinDays: 2, MaxDays: 5, PerUnitPrice: 25, ShippingCost: 50},
		{Name: "Expedited", Reliability: 1.0, CostMultiplier: 2.0, MinDays: 1, MaxDays: 2, PerUnitPrice: 40, ShippingCost: 200, Expedited: true},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values; a suppliers list replaces the default roster.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads YAML configuration from r over the defaults
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	cfg.Suppliers = nil

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Suppliers) == 0 {
		cfg.Suppliers = DefaultSuppliers()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes the configuration as YAML
func (c *Config) Encode(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return encoder.Close()
}

// Validate checks the configuration for values no run can use
func (c *Config) Validate() error {
	if c.Run.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.Run.Horizon)
	}
	switch c.Run.Policy {
	case "fixed", "adaptive", "learned", "all":
	default:
		return fmt.Errorf("unknown policy %q (expected: fixed, adaptive, learned, all)", c.Run.Policy)
	}
	if err := c.LedgerConfig().Validate(); err != nil {
		return err
	}
	if c.Fixed.OrderQuantity <= 0 {
		return fmt.Errorf("fixed order quantity must be positive, got %d", c.Fixed.OrderQuantity)
	}
	if c.Adaptive.Lookback < 1 {
		return fmt.Errorf("adaptive lookback must be at least 1, got %d", c.Adaptive.Lookback)
	}
	if c.Learned.MinObservations < 1 {
		return fmt.Errorf("learned minimum observations must be at least 1, got %d", c.Learned.MinObservations)
	}
	if c.Learned.ScoringQuantity <= 0 {
		return fmt.Errorf("learned scoring quantity must be positive, got %d", c.Learned.ScoringQuantity)
	}
	if c.Learned.PenaltyMultiplier <= 0 {
		return fmt.Errorf("learned penalty multiplier must be positive, got %g", c.Learned.PenaltyMultiplier)
	}
	if len(c.Suppliers) == 0 {
		return fmt.Errorf("supplier roster cannot be empty")
	}
	if _, err := c.BuildSuppliers(); err != nil {
		return err
	}
	return nil
}

// LedgerConfig converts the store section into ledger parameters
func (c *Config) LedgerConfig() entities.LedgerConfig {
	return entities.LedgerConfig{
		InitialStock:           entities.Quantity(c.Store.InitialStock),
		Capacity:               entities.Quantity(c.Store.Capacity),
		HoldingCostPerUnit:     decimal.NewFromFloat(c.Store.HoldingCost),
		StockoutPenaltyPerUnit: decimal.NewFromFloat(c.Store.StockoutPenalty),
		SellingPricePerUnit:    decimal.NewFromFloat(c.Store.SellingPrice),
	}
}

// BuildSuppliers converts the roster into validated supplier profiles
func (c *Config) BuildSuppliers() ([]*entities.Supplier, error) {
	suppliers := make([]*entities.Supplier, 0, len(c.Suppliers))
	for _, s := range c.Suppliers {
		supplier, err := s.Build()
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, nil
}

// Build converts one roster entry into a supplier profile
func (s SupplierConfig) Build() (*entities.Supplier, error) {
	return entities.NewSupplier(
		entities.SupplierName(s.Name),
		s.Reliability,
		s.CostMultiplier,
		s.MinDays,
		s.MaxDays,
		decimal.NewFromFloat(s.PerUnitPrice),
		decimal.NewFromFloat(s.ShippingCost),
		s.Expedited,
	)
}
