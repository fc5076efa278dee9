package repository

import "github.com/dcastillo/puntoventa-api/internal/domain/entity"

// TenantRepository puerto de persistencia para tiendas.
type TenantRepository interface {
	// Create persiste una tienda nueva. Devuelve domain.ErrTenantExists si el
	// nombre o el dominio ya están registrados.
	Create(tenant *entity.Tenant) error
	// GetByID devuelve nil, nil si la tienda no existe.
	GetByID(id string) (*entity.Tenant, error)
}
