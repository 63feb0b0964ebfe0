package memory

import (
	"fmt"

	"github.com/vsinha/supplysim/pkg/domain/entities"
	"github.com/vsinha/supplysim/pkg/domain/repositories"
)

// SupplierRepository provides in-memory roster storage in load order
type SupplierRepository struct {
	suppliers    []*entities.Supplier
	suppliersMap map[entities.SupplierName]int
}

// NewSupplierRepository creates a new in-memory supplier repository
func NewSupplierRepository() *SupplierRepository {
	return &SupplierRepository{
		suppliers:    make([]*entities.Supplier, 0),
		suppliersMap: make(map[entities.SupplierName]int),
	}
}

// Verify interface compliance
var _ repositories.SupplierRepository = (*SupplierRepository)(nil)

// LoadSuppliers adds suppliers to the roster. Names must be unique.
func (r *SupplierRepository) LoadSuppliers(suppliers []*entities.Supplier) error {
	for _, supplier := range suppliers {
		if _, exists := r.suppliersMap[supplier.Name]; exists {
			return fmt.Errorf("%w: duplicate supplier %s", entities.ErrInvalidSupplier, supplier.Name)
		}
		r.suppliersMap[supplier.Name] = len(r.suppliers)
		r.suppliers = append(r.suppliers, supplier)
	}
	return nil
}

// GetSupplier returns a supplier by name
func (r *SupplierRepository) GetSupplier(name entities.SupplierName) (*entities.Supplier, error) {
	index, exists := r.suppliersMap[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrSupplierNotFound, name)
	}
	return r.suppliers[index], nil
}

// GetSuppliers returns the roster in load order
func (r *SupplierRepository) GetSuppliers() ([]*entities.Supplier, error) {
	suppliers := make([]*entities.Supplier, len(r.suppliers))
	copy(suppliers, r.suppliers)
	return suppliers, nil
}

// GetExpeditedSupplier returns the first expedited supplier of the roster
func (r *SupplierRepository) GetExpeditedSupplier() (*entities.Supplier, error) {
	for _, supplier := range r.suppliers {
		if supplier.Expedited {
			return supplier, nil
		}
	}
	return nil, fmt.Errorf("%w: no expedited supplier", entities.ErrSupplierNotFound)
}
