package entities

import "errors"

var (
	// ErrInvalidSupplier is returned when a supplier profile fails validation.
	ErrInvalidSupplier = errors.New("invalid supplier")

	// ErrInvalidOrder is returned when a pending order fails validation.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrInvalidLedgerConfig is returned when ledger parameters are inconsistent.
	ErrInvalidLedgerConfig = errors.New("invalid ledger config")

	// ErrInvalidDemand is returned when a demand series contains negative values.
	ErrInvalidDemand = errors.New("invalid demand series")

	// ErrSupplierNotFound is returned when a roster lookup misses.
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrNoCandidateSupplier is returned when no non-expedited supplier exists.
	ErrNoCandidateSupplier = errors.New("no candidate supplier")
)
