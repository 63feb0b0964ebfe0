package entities

// TrainingObservation pairs the conditions of a placed order with the
// delivery delay it actually realised
type TrainingObservation struct {
	AvgRecentDemand  float64
	Reliability      float64
	CostMultiplier   float64
	MeanDeliveryTime float64
	ObservedDelay    float64
}

// NewTrainingObservation captures an order placed with supplier under the
// given recent average demand
func NewTrainingObservation(avgDemand float64, supplier *Supplier, delay int) TrainingObservation {
	return TrainingObservation{
		AvgRecentDemand:  avgDemand,
		Reliability:      supplier.Reliability,
		CostMultiplier:   supplier.CostMultiplier,
		MeanDeliveryTime: supplier.MeanDeliveryTime(),
		ObservedDelay:    float64(delay),
	}
}

// Features returns the regressor vector in a fixed order
func (o TrainingObservation) Features() []float64 {
	return SupplierFeatures(o.AvgRecentDemand, o.Reliability, o.CostMultiplier, o.MeanDeliveryTime)
}

// SupplierFeatures builds the regressor vector used to predict delivery delay
func SupplierFeatures(avgDemand, reliability, costMultiplier, meanDeliveryTime float64) []float64 {
	return []float64{avgDemand, reliability, costMultiplier, meanDeliveryTime}
}
