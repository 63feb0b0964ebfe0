package policy

import (
	"fmt"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// Parameters gathers the configuration of every policy variant
type Parameters struct {
	Fixed         FixedThresholdConfig
	FixedSupplier entities.SupplierName
	Adaptive      AdaptiveConfig
	Learned       LearnedSelectorConfig
}

// New builds a fresh policy of the given kind over the roster.
// Policies carry per-run state, so each run needs its own instance.
func New(kind Kind, params Parameters, roster []*entities.Supplier) (ReorderPolicy, error) {
	switch kind {
	case KindFixed:
		supplier := findSupplier(roster, params.FixedSupplier)
		if supplier == nil {
			return nil, fmt.Errorf("%w: %s", entities.ErrSupplierNotFound, params.FixedSupplier)
		}
		return NewFixedThreshold(params.Fixed, supplier)
	case KindAdaptive:
		return NewAdaptive(string(KindAdaptive), params.Adaptive, roster, NewFastestSelector())
	case KindLearned:
		return NewAdaptive(string(KindLearned), params.Adaptive, roster, NewLearnedSelector(params.Learned))
	default:
		return nil, fmt.Errorf("unknown policy %q", kind)
	}
}

func findSupplier(roster []*entities.Supplier, name entities.SupplierName) *entities.Supplier {
	for _, supplier := range roster {
		if supplier.Name == name {
			return supplier
		}
	}
	return nil
}
