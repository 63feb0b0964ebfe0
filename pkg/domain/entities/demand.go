package entities

import "fmt"

// DemandSeries is the daily demand for each simulated day, in day order
type DemandSeries []Quantity

// Validate checks that every day's demand is non-negative
func (s DemandSeries) Validate() error {
	for day, demand := range s {
		if demand < 0 {
			return fmt.Errorf("%w: day %d has negative demand %d", ErrInvalidDemand, day, demand)
		}
	}
	return nil
}

// Horizon is the number of days covered by the series
func (s DemandSeries) Horizon() int {
	return len(s)
}

// At returns the demand for a day, or zero past the end of the series
func (s DemandSeries) At(day Day) Quantity {
	if int(day) < 0 || int(day) >= len(s) {
		return 0
	}
	return s[day]
}

// Total sums demand over the whole series
func (s DemandSeries) Total() Quantity {
	var total Quantity
	for _, demand := range s {
		total += demand
	}
	return total
}
