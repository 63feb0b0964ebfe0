package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

func rosterSupplier(t *testing.T, name string, expedited bool) *entities.Supplier {
	t.Helper()
	s, err := entities.NewSupplier(entities.SupplierName(name), 0.9, 1.0, 2, 4, decimal.NewFromInt(20), decimal.NewFromInt(50), expedited)
	require.NoError(t, err)
	return s
}

func TestValidateRoster(t *testing.T) {
	cheap := rosterSupplier(t, "Cheap", false)
	normal := rosterSupplier(t, "Normal", false)
	premium := rosterSupplier(t, "Premium", false)
	expedited := rosterSupplier(t, "Expedited", true)
	rush := rosterSupplier(t, "Rush", true)

	testCases := []struct {
		name       string
		suppliers  []*entities.Supplier
		minSize    int
		wantValid  bool
		wantErrors int
	}{
		{"reference roster", []*entities.Supplier{cheap, normal, premium, expedited}, MinRosterSize, true, 0},
		{"too small", []*entities.Supplier{normal, expedited}, MinRosterSize, false, 1},
		{"small roster allowed", []*entities.Supplier{normal, expedited}, 2, true, 0},
		{"duplicate names", []*entities.Supplier{normal, normal, premium, expedited}, MinRosterSize, false, 1},
		{"no expedited", []*entities.Supplier{cheap, normal, premium}, 3, false, 1},
		{"two expedited", []*entities.Supplier{cheap, normal, expedited, rush}, MinRosterSize, false, 1},
		{"only expedited", []*entities.Supplier{expedited}, 1, false, 1},
		{"nil supplier", []*entities.Supplier{cheap, nil, premium, expedited}, MinRosterSize, false, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ValidateRoster(tc.suppliers, tc.minSize)
			assert.Equal(t, tc.wantValid, result.Valid(), result.Errors)
			assert.Len(t, result.Errors, tc.wantErrors, result.Errors)
		})
	}
}

func TestValidateRoster_Counts(t *testing.T) {
	roster := []*entities.Supplier{
		rosterSupplier(t, "Cheap", false),
		rosterSupplier(t, "Normal", false),
		rosterSupplier(t, "Cheap", false),
		rosterSupplier(t, "Expedited", true),
	}

	result := ValidateRoster(roster, MinRosterSize)
	assert.Equal(t, 3, result.CandidateCount)
	assert.Equal(t, 1, result.ExpeditedCount)
	assert.Equal(t, []entities.SupplierName{"Cheap"}, result.DuplicateNames)
}
