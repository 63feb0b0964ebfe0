package demand

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// Params shapes a synthetic demand series
type Params struct {
	BaseDemand       float64 `yaml:"base_demand"`
	Seasonality      float64 `yaml:"seasonality"`
	Trend            float64 `yaml:"trend"`
	Volatility       float64 `yaml:"volatility"`
	ShockProbability float64 `yaml:"shock_probability"`
	Seed             uint64  `yaml:"seed"`

	// Season length in days is redrawn each day from [MinPeriod, MaxPeriod)
	MinPeriod int `yaml:"min_period"`
	MaxPeriod int `yaml:"max_period"`

	// Shock magnitude is drawn from [ShockMin, ShockMax) with a random sign
	ShockMin int `yaml:"shock_min"`
	ShockMax int `yaml:"shock_max"`
}

// DefaultParams returns the reference demand shape
func DefaultParams() Params {
	return Params{
		BaseDemand:       10,
		Seasonality:      5,
		Trend:            0.05,
		Volatility:       5,
		ShockProbability: 0.15,
		Seed:             1,
		MinPeriod:        25,
		MaxPeriod:        35,
		ShockMin:         10,
		ShockMax:         30,
	}
}

// Validate checks the parameters
func (p Params) Validate() error {
	if p.Volatility < 0 {
		return fmt.Errorf("volatility cannot be negative, got %f", p.Volatility)
	}
	if p.ShockProbability < 0 || p.ShockProbability > 1 {
		return fmt.Errorf("shock probability must be in [0,1], got %f", p.ShockProbability)
	}
	if p.MinPeriod < 1 || p.MaxPeriod <= p.MinPeriod {
		return fmt.Errorf("invalid season period range [%d,%d)", p.MinPeriod, p.MaxPeriod)
	}
	if p.ShockMin < 0 || p.ShockMax <= p.ShockMin {
		return fmt.Errorf("invalid shock range [%d,%d)", p.ShockMin, p.ShockMax)
	}
	return nil
}

// Generator produces demand series from a seeded PCG source
type Generator struct {
	params Params
	rng    *rand.Rand
}

// NewGenerator creates a generator for the parameters
func NewGenerator(params Params) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		params: params,
		rng:    rand.New(rand.NewPCG(params.Seed, params.Seed+1)),
	}, nil
}

// Generate returns horizon days of non-negative integer demand. The same
// parameters always produce the same series.
func Generate(horizon int, params Params) (entities.DemandSeries, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("horizon cannot be negative, got %d", horizon)
	}
	g, err := NewGenerator(params)
	if err != nil {
		return nil, err
	}

	series := make(entities.DemandSeries, horizon)
	for day := range series {
		series[day] = g.Next(day)
	}
	return series, nil
}

// Next draws the demand for one day: a seasonal base, gaussian noise,
// a linear trend and an occasional shock, truncated and floored at zero
func (g *Generator) Next(day int) entities.Quantity {
	p := g.params

	period := p.MinPeriod + g.rng.IntN(p.MaxPeriod-p.MinPeriod)
	base := p.BaseDemand + p.Seasonality*math.Sin(2*math.Pi*float64(day)/float64(period))
	noise := g.rng.NormFloat64() * p.Volatility
	trend := p.Trend * float64(day)

	shock := 0.0
	if g.rng.Float64() < p.ShockProbability {
		sign := 1.0
		if g.rng.IntN(2) == 0 {
			sign = -1
		}
		shock = sign * float64(p.ShockMin+g.rng.IntN(p.ShockMax-p.ShockMin))
	}

	value := int64(base + noise + trend + shock)
	if value < 0 {
		return 0
	}
	return entities.Quantity(value)
}
