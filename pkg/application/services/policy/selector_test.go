package policy

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

func testLearnedConfig() LearnedSelectorConfig {
	return LearnedSelectorConfig{
		MinObservations:   10,
		PenaltyMultiplier: decimal.NewFromInt(150),
		ScoringQuantity:   100,
		RidgeLambda:       0.01,
	}
}

// feedObservations cycles through the candidates, recording a fixed delay
// per supplier
func feedObservations(selector SupplierSelector, candidates []*entities.Supplier, delays map[entities.SupplierName]int, n int) {
	for i := 0; i < n; i++ {
		supplier := candidates[i%len(candidates)]
		selector.Observe(entities.NewTrainingObservation(float64(8+i%4), supplier, delays[supplier.Name]))
	}
}

func TestSelectFastestSupplier(t *testing.T) {
	roster := testRoster(t)

	if got := SelectFastestSupplier(nil); got != nil {
		t.Errorf("Expected nil for no candidates, got %s", got.Name)
	}
	if got := SelectFastestSupplier(roster[:3]); got.Name != "Premium" {
		t.Errorf("Expected Premium, got %s", got.Name)
	}

	// ties keep roster order
	twin, err := entities.NewSupplier("Twin", 0.5, 1.0, 2, 9, decimal.NewFromInt(1), decimal.Zero, false)
	if err != nil {
		t.Fatalf("Expected supplier to be valid: %v", err)
	}
	if got := SelectFastestSupplier([]*entities.Supplier{roster[2], twin}); got.Name != "Premium" {
		t.Errorf("Expected Premium to win the tie, got %s", got.Name)
	}
	if got := SelectFastestSupplier([]*entities.Supplier{twin, roster[2]}); got.Name != "Twin" {
		t.Errorf("Expected Twin to win the tie, got %s", got.Name)
	}
}

func TestLearnedSelector_FallsBackUntilEnoughObservations(t *testing.T) {
	candidates := testRoster(t)[:3]
	delays := map[entities.SupplierName]int{"Cheap": 9, "Normal": 6, "Premium": 12}
	selector := NewLearnedSelector(testLearnedConfig())

	for i := 0; i < 10; i++ {
		supplier, path := selector.Select(10, candidates)
		if path != FastestPath {
			t.Errorf("Expected fastest path with %d observations, got %s", selector.Observations(), path)
		}
		if supplier.Name != "Premium" {
			t.Errorf("Expected Premium with %d observations, got %s", selector.Observations(), supplier.Name)
		}
		feedObservations(selector, candidates[i%3:i%3+1], delays, 1)
	}
	if selector.Observations() != 10 {
		t.Fatalf("Expected 10 observations, got %d", selector.Observations())
	}

	feedObservations(selector, candidates, delays, 1)
	if selector.Observations() != 11 {
		t.Fatalf("Expected 11 observations, got %d", selector.Observations())
	}

	supplier, path := selector.Select(10, candidates)
	if path != ModelScoredPath {
		t.Errorf("Expected model-scored path, got %s", path)
	}
	if supplier == nil {
		t.Fatal("Expected a supplier on the model-scored path")
	}
}

func TestLearnedSelector_PenalisesPredictedDelay(t *testing.T) {
	candidates := testRoster(t)[:3]
	// Premium is the fastest on paper but keeps arriving late
	delays := map[entities.SupplierName]int{"Cheap": 9, "Normal": 6, "Premium": 12}
	selector := NewLearnedSelector(testLearnedConfig())
	feedObservations(selector, candidates, delays, 30)

	supplier, path := selector.Select(10, candidates)
	if path != ModelScoredPath {
		t.Fatalf("Expected model-scored path, got %s", path)
	}
	if supplier.Name != "Normal" {
		t.Errorf("Expected Normal, got %s", supplier.Name)
	}

	if got := selector.PredictDelay(10, candidates[2]); math.Abs(got-12) > 0.5 {
		t.Errorf("Expected Premium delay near 12, got %.2f", got)
	}
	if got := selector.PredictDelay(10, candidates[1]); math.Abs(got-6) > 0.5 {
		t.Errorf("Expected Normal delay near 6, got %.2f", got)
	}

	scores := selector.LastScores()
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if !scores["Normal"].LessThan(scores["Cheap"]) || !scores["Normal"].LessThan(scores["Premium"]) {
		t.Errorf("Expected Normal to score lowest, got %v", scores)
	}
}

func TestLearnedSelector_ScoreFormula(t *testing.T) {
	candidates := testRoster(t)[:3]
	delays := map[entities.SupplierName]int{"Cheap": 9, "Normal": 6, "Premium": 4}
	selector := NewLearnedSelector(testLearnedConfig())
	feedObservations(selector, candidates, delays, 30)
	_, _ = selector.Select(10, candidates)

	normal := candidates[1]
	predicted := selector.PredictDelay(10, normal)
	expected := normal.Cost(100).Add(normal.ShippingCost).
		Add(decimal.NewFromInt(150).Mul(decimal.NewFromFloat(predicted * predicted)))
	if got := selector.Score(10, normal); !expected.Equal(got) {
		t.Errorf("Expected score %s, got %s", expected, got)
	}
}

func TestAdaptive_LearnsFromPlacedOrders(t *testing.T) {
	roster := testRoster(t)
	selector := NewLearnedSelector(testLearnedConfig())
	p, err := NewAdaptive(string(KindLearned), testAdaptiveConfig(), roster, selector)
	if err != nil {
		t.Fatalf("Expected adaptive policy to build: %v", err)
	}

	ledger := &stubLedger{stock: 5, demand: constantDemand(10, 5)}
	day := entities.Day(5)
	for selector.Observations() < 10 {
		requests := p.Decide(ledger, PendingCounts{}, day)
		if len(requests) == 0 {
			t.Fatalf("Expected an order on day %d", day)
		}
		if p.LastTrace().Path != FastestPath {
			t.Errorf("Expected fastest path on day %d, got %s", day, p.LastTrace().Path)
		}
		for _, req := range requests {
			p.OnOrderPlaced(placed(t, day, 3, req))
		}
		day += 7
	}

	if requests := p.Decide(ledger, PendingCounts{}, day); len(requests) == 0 {
		t.Fatalf("Expected an order on day %d", day)
	}
	if p.LastTrace().Path != ModelScoredPath {
		t.Errorf("Expected model-scored path once trained, got %s", p.LastTrace().Path)
	}
}
