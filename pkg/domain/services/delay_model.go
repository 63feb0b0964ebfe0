package services

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// ErrNoObservations is returned when fitting on an empty training set
var ErrNoObservations = errors.New("no training observations")

// DelayModel predicts a supplier's realised delivery delay from the order
// context. It is a ridge-regularised linear regression on standardised
// features, refit from the full observation history before each use.
type DelayModel struct {
	lambda float64

	means  []float64
	scales []float64
	coef   []float64 // coef[0] is the intercept

	trainedOn int
}

// NewDelayModel creates an unfitted model with the given ridge penalty
func NewDelayModel(lambda float64) *DelayModel {
	if lambda <= 0 {
		lambda = 1e-6
	}
	return &DelayModel{lambda: lambda}
}

// Fit solves (XᵀX + λI')β = Xᵀy over all observations, where I' leaves the
// intercept unpenalised
func (m *DelayModel) Fit(observations []entities.TrainingObservation) error {
	n := len(observations)
	if n == 0 {
		return ErrNoObservations
	}

	features := len(observations[0].Features())
	p := features + 1

	// Standardise each feature column
	means := make([]float64, features)
	scales := make([]float64, features)
	column := make([]float64, n)
	for j := 0; j < features; j++ {
		for i, obs := range observations {
			column[i] = obs.Features()[j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		means[j] = mean
		scales[j] = std
	}

	design := mat.NewDense(n, p, nil)
	target := mat.NewVecDense(n, nil)
	for i, obs := range observations {
		design.Set(i, 0, 1)
		for j, value := range obs.Features() {
			design.Set(i, j+1, (value-means[j])/scales[j])
		}
		target.SetVec(i, obs.ObservedDelay)
	}

	var gram mat.Dense
	gram.Mul(design.T(), design)
	for j := 1; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+m.lambda)
	}

	var moment mat.VecDense
	moment.MulVec(design.T(), target)

	var beta mat.VecDense
	if err := beta.SolveVec(&gram, &moment); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return fmt.Errorf("failed to solve delay regression: %w", err)
		}
	}

	coef := make([]float64, p)
	for j := 0; j < p; j++ {
		coef[j] = beta.AtVec(j)
	}

	m.means = means
	m.scales = scales
	m.coef = coef
	m.trainedOn = n
	return nil
}

// Predict returns the expected delay in days for a feature vector.
// Predictions are floored at zero.
func (m *DelayModel) Predict(features []float64) float64 {
	if !m.Fitted() {
		return 0
	}

	prediction := m.coef[0]
	for j, value := range features {
		if j >= len(m.means) {
			break
		}
		prediction += m.coef[j+1] * (value - m.means[j]) / m.scales[j]
	}
	return math.Max(0, prediction)
}

// Fitted reports whether Fit has succeeded at least once
func (m *DelayModel) Fitted() bool {
	return m.coef != nil
}

// TrainedOn returns the number of observations used by the last fit
func (m *DelayModel) TrainedOn() int {
	return m.trainedOn
}
