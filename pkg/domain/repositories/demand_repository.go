package repositories

import "github.com/vsinha/supplysim/pkg/domain/entities"

// DemandRepository provides access to the daily demand series
type DemandRepository interface {
	GetDemandSeries() (entities.DemandSeries, error)
	LoadDemandSeries(series entities.DemandSeries) error
}
