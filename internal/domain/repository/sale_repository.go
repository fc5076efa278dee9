package repository

import "github.com/dcastillo/puntoventa-api/internal/domain/entity"

// SaleRepository puerto de persistencia para ventas. Las ventas solo se crean
// (dentro de la transacción del coordinador); no hay update ni delete: no se
// modelan devoluciones ni cancelaciones.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	// GetByID devuelve nil, nil si la venta no existe en ese tenant.
	GetByID(tenantID, id string) (*entity.Sale, error)
	ListItems(saleID string) ([]*entity.SaleItem, error)
	ListByTenant(tenantID string, limit, offset int) ([]*entity.Sale, error)
}
