package repository

import "github.com/dcastillo/puntoventa-api/internal/domain/entity"

// ProductRepository puerto de persistencia para el catálogo. Todas las
// operaciones van acotadas al tenant.
type ProductRepository interface {
	// Create persiste un producto. Devuelve domain.ErrDuplicate si ya existe
	// uno con el mismo nombre en el tenant (case-insensitive).
	Create(product *entity.Product) error
	// GetByID devuelve nil, nil si el producto no existe en ese tenant.
	GetByID(tenantID, id string) (*entity.Product, error)
	// GetByTenantAndName busca por nombre exacto case-insensitive, para el
	// chequeo de unicidad en create/rename. nil, nil si no existe.
	GetByTenantAndName(tenantID, name string) (*entity.Product, error)
	// FindByIDs resuelve un conjunto de IDs dentro del tenant. Los IDs que no
	// existen (o son de otro tenant) simplemente no aparecen en el resultado.
	FindByIDs(tenantID string, ids []string) ([]*entity.Product, error)
	// DecrementStock aplica el decremento condicional
	// (stock = stock - qty WHERE stock >= qty) y devuelve si afectó la fila.
	// Es la única vía de escritura de stock durante una venta.
	DecrementStock(tenantID, productID string, quantity int64) (bool, error)
	Update(product *entity.Product) error
	Delete(tenantID, id string) error
	ListByTenant(tenantID string, limit, offset int) ([]*entity.Product, error)
}
