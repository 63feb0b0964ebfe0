package repositories

import "github.com/vsinha/supplysim/pkg/domain/entities"

// SupplierRepository provides access to the supplier roster
type SupplierRepository interface {
	GetSuppliers() ([]*entities.Supplier, error)
	GetSupplier(name entities.SupplierName) (*entities.Supplier, error)
	GetExpeditedSupplier() (*entities.Supplier, error)
	LoadSuppliers(suppliers []*entities.Supplier) error
}
