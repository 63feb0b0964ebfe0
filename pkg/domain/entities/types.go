package entities

// Quantity represents an integer quantity of stock units
type Quantity int64

// Day is a zero-based simulation day index
type Day int

// SupplierName uniquely identifies a supplier profile
type SupplierName string

// RandomSource is the subset of math/rand/v2 used by the simulation.
// *rand.Rand satisfies it; tests substitute scripted sources.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// MinQuantity returns the smaller of two quantities
func MinQuantity(a, b Quantity) Quantity {
	if a < b {
		return a
	}
	return b
}
