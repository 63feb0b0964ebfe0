package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

func observation(avgDemand, reliability, multiplier, meanDelivery, delay float64) entities.TrainingObservation {
	return entities.TrainingObservation{
		AvgRecentDemand:  avgDemand,
		Reliability:      reliability,
		CostMultiplier:   multiplier,
		MeanDeliveryTime: meanDelivery,
		ObservedDelay:    delay,
	}
}

func TestDelayModel_FitRequiresObservations(t *testing.T) {
	model := NewDelayModel(0.01)
	assert.ErrorIs(t, model.Fit(nil), ErrNoObservations)
	assert.False(t, model.Fitted())
	assert.Equal(t, 0.0, model.Predict([]float64{1, 1, 1, 1}))
}

func TestDelayModel_LearnsLinearRelationship(t *testing.T) {
	// delay = 2 * meanDelivery + 1, other features vary independently
	var observations []entities.TrainingObservation
	for i := 0; i < 30; i++ {
		meanDelivery := float64(1 + i%8)
		observations = append(observations, observation(
			float64(8+i%5),
			0.5+float64(i%4)*0.1,
			0.8+float64(i%3)*0.2,
			meanDelivery,
			2*meanDelivery+1,
		))
	}

	model := NewDelayModel(1e-6)
	require.NoError(t, model.Fit(observations))
	assert.True(t, model.Fitted())
	assert.Equal(t, 30, model.TrainedOn())

	prediction := model.Predict(entities.SupplierFeatures(10, 0.7, 1.0, 5))
	assert.InDelta(t, 11.0, prediction, 0.05)
}

func TestDelayModel_CollinearFeaturesStillSolve(t *testing.T) {
	// Supplier features are fully determined by the supplier, so with few
	// suppliers the design matrix is rank deficient
	var observations []entities.TrainingObservation
	for i := 0; i < 12; i++ {
		if i%2 == 0 {
			observations = append(observations, observation(10, 0.85, 1.0, 5.5, 6))
		} else {
			observations = append(observations, observation(10, 0.95, 1.3, 3.5, 3))
		}
	}

	model := NewDelayModel(0.01)
	require.NoError(t, model.Fit(observations))

	slow := model.Predict(entities.SupplierFeatures(10, 0.85, 1.0, 5.5))
	fast := model.Predict(entities.SupplierFeatures(10, 0.95, 1.3, 3.5))
	assert.False(t, math.IsNaN(slow))
	assert.Greater(t, slow, fast)
	assert.InDelta(t, 6.0, slow, 0.1)
	assert.InDelta(t, 3.0, fast, 0.1)
}

func TestDelayModel_PredictionsAreNonNegative(t *testing.T) {
	observations := []entities.TrainingObservation{
		observation(10, 0.9, 1.0, 1, 1),
		observation(10, 0.9, 1.0, 2, 0),
		observation(10, 0.9, 1.0, 3, 0),
	}
	model := NewDelayModel(1e-6)
	require.NoError(t, model.Fit(observations))
	assert.GreaterOrEqual(t, model.Predict(entities.SupplierFeatures(10, 0.9, 1.0, 50)), 0.0)
}
