package policy

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/services"
)

// SelectionPath records which rule chose a supplier
type SelectionPath int

const (
	FastestPath SelectionPath = iota
	ModelScoredPath
)

// String method for SelectionPath enum
func (p SelectionPath) String() string {
	switch p {
	case FastestPath:
		return "Fastest"
	case ModelScoredPath:
		return "ModelScored"
	default:
		return "Unknown"
	}
}

// SupplierSelector chooses the supplier for a normal order.
// Observe is fed one observation per placed order.
type SupplierSelector interface {
	Select(avgDemand float64, candidates []*entities.Supplier) (*entities.Supplier, SelectionPath)
	Observe(observation entities.TrainingObservation)
}

// SelectFastestSupplier returns the candidate with the shortest minimum
// delivery time. Ties keep roster order. Returns nil for no candidates.
func SelectFastestSupplier(candidates []*entities.Supplier) *entities.Supplier {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]*entities.Supplier, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinDeliveryDays < sorted[j].MinDeliveryDays
	})

	return sorted[0]
}

// FastestSelector always picks the fastest quoted supplier
type FastestSelector struct{}

// NewFastestSelector creates a heuristic selector
func NewFastestSelector() *FastestSelector {
	return &FastestSelector{}
}

// Select implements SupplierSelector
func (s *FastestSelector) Select(avgDemand float64, candidates []*entities.Supplier) (*entities.Supplier, SelectionPath) {
	return SelectFastestSupplier(candidates), FastestPath
}

// Observe implements SupplierSelector; the heuristic does not learn
func (s *FastestSelector) Observe(observation entities.TrainingObservation) {}

// LearnedSelectorConfig holds the parameters of model-scored selection
type LearnedSelectorConfig struct {
	MinObservations   int
	PenaltyMultiplier decimal.Decimal
	ScoringQuantity   entities.Quantity
	RidgeLambda       float64
}

// LearnedSelector scores suppliers by price plus a quadratic penalty on the
// delay predicted by a model fit on every order placed so far. Until
// MinObservations exist it falls back to the fastest supplier.
type LearnedSelector struct {
	config       LearnedSelectorConfig
	model        *services.DelayModel
	observations []entities.TrainingObservation
	lastScores   map[entities.SupplierName]decimal.Decimal
}

// NewLearnedSelector creates a model-scored selector
func NewLearnedSelector(config LearnedSelectorConfig) *LearnedSelector {
	return &LearnedSelector{
		config:       config,
		model:        services.NewDelayModel(config.RidgeLambda),
		observations: make([]entities.TrainingObservation, 0),
		lastScores:   make(map[entities.SupplierName]decimal.Decimal),
	}
}

// Select implements SupplierSelector
func (s *LearnedSelector) Select(avgDemand float64, candidates []*entities.Supplier) (*entities.Supplier, SelectionPath) {
	if len(candidates) == 0 {
		return nil, FastestPath
	}
	if len(s.observations) < s.config.MinObservations {
		return SelectFastestSupplier(candidates), FastestPath
	}
	if err := s.model.Fit(s.observations); err != nil {
		return SelectFastestSupplier(candidates), FastestPath
	}

	scores := make(map[entities.SupplierName]decimal.Decimal, len(candidates))
	var best *entities.Supplier
	var bestScore decimal.Decimal
	for _, supplier := range candidates {
		score := s.Score(avgDemand, supplier)
		scores[supplier.Name] = score
		if best == nil || score.LessThan(bestScore) {
			best = supplier
			bestScore = score
		}
	}
	s.lastScores = scores

	return best, ModelScoredPath
}

// Score is cost(ScoringQuantity) + shipping + predictedDelay² × penalty.
// The model must have been fit.
func (s *LearnedSelector) Score(avgDemand float64, supplier *entities.Supplier) decimal.Decimal {
	predicted := s.PredictDelay(avgDemand, supplier)
	penalty := s.config.PenaltyMultiplier.Mul(decimal.NewFromFloat(predicted * predicted))
	return supplier.Cost(s.config.ScoringQuantity).Add(supplier.ShippingCost).Add(penalty)
}

// PredictDelay predicts the delivery delay of a supplier under avgDemand
func (s *LearnedSelector) PredictDelay(avgDemand float64, supplier *entities.Supplier) float64 {
	return s.model.Predict(entities.SupplierFeatures(
		avgDemand,
		supplier.Reliability,
		supplier.CostMultiplier,
		supplier.MeanDeliveryTime(),
	))
}

// Observe implements SupplierSelector. The training set only grows.
func (s *LearnedSelector) Observe(observation entities.TrainingObservation) {
	s.observations = append(s.observations, observation)
}

// Observations returns the number of recorded observations
func (s *LearnedSelector) Observations() int {
	return len(s.observations)
}

// LastScores returns the scores of the most recent model-scored selection
func (s *LearnedSelector) LastScores() map[entities.SupplierName]decimal.Decimal {
	scores := make(map[entities.SupplierName]decimal.Decimal, len(s.lastScores))
	for name, score := range s.lastScores {
		scores[name] = score
	}
	return scores
}
