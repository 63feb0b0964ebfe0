package services

import (
	"fmt"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// MinRosterSize is the minimum number of supplier profiles in a full roster
const MinRosterSize = 4

// RosterValidationResult contains the results of supplier roster validation
type RosterValidationResult struct {
	DuplicateNames []entities.SupplierName
	ExpeditedCount int
	CandidateCount int
	Errors         []string
}

// Valid reports whether the roster passed validation
func (r *RosterValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateRoster checks that supplier names are unique, that exactly one
// supplier is the expedited option, and that at least one regular supplier
// remains for normal replenishment
func ValidateRoster(suppliers []*entities.Supplier, minSize int) *RosterValidationResult {
	result := &RosterValidationResult{
		DuplicateNames: make([]entities.SupplierName, 0),
		Errors:         make([]string, 0),
	}

	seen := make(map[entities.SupplierName]bool, len(suppliers))
	for _, supplier := range suppliers {
		if supplier == nil {
			result.Errors = append(result.Errors, "roster contains a nil supplier")
			continue
		}
		if seen[supplier.Name] {
			result.DuplicateNames = append(result.DuplicateNames, supplier.Name)
		}
		seen[supplier.Name] = true

		if supplier.Expedited {
			result.ExpeditedCount++
		} else {
			result.CandidateCount++
		}
	}

	if len(suppliers) < minSize {
		result.Errors = append(result.Errors,
			fmt.Sprintf("roster has %d suppliers, need at least %d", len(suppliers), minSize))
	}
	if len(result.DuplicateNames) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("duplicate supplier names: %v", result.DuplicateNames))
	}
	if result.ExpeditedCount != 1 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("roster needs exactly one expedited supplier, found %d", result.ExpeditedCount))
	}
	if result.CandidateCount == 0 {
		result.Errors = append(result.Errors, "roster has no regular supplier")
	}

	return result
}
