package memory

import (
	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/repositories"
)

// DemandRepository provides in-memory demand storage
type DemandRepository struct {
	series entities.DemandSeries
}

// NewDemandRepository creates a new in-memory demand repository
func NewDemandRepository() *DemandRepository {
	return &DemandRepository{
		series: entities.DemandSeries{},
	}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandRepository)(nil)

// LoadDemandSeries replaces the stored series
func (r *DemandRepository) LoadDemandSeries(series entities.DemandSeries) error {
	if err := series.Validate(); err != nil {
		return err
	}
	r.series = append(entities.DemandSeries(nil), series...)
	return nil
}

// GetDemandSeries returns a copy of the stored series
func (r *DemandRepository) GetDemandSeries() (entities.DemandSeries, error) {
	return append(entities.DemandSeries(nil), r.series...), nil
}
