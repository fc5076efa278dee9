package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastillo/puntoventa-api/internal/application/dto"
	"github.com/dcastillo/puntoventa-api/internal/domain"
	"github.com/dcastillo/puntoventa-api/internal/domain/entity"
	"github.com/dcastillo/puntoventa-api/internal/domain/repository"
)

// ProductUseCase aplica las reglas de catálogo: unicidad de nombre por tienda
// (case-insensitive), precio positivo, y las puertas de rol sobre stock y
// eliminación.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso con el puerto de persistencia.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create da de alta un producto en la tienda del llamador. Cualquier rol puede
// crear productos, pero un stock inicial distinto de cero exige la puerta de
// ajuste de stock (DIRECTEUR, GERANT, MAGASINIER).
func (uc *ProductUseCase) Create(principal entity.Principal, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || !in.Price.GreaterThan(decimal.Zero) || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Stock != 0 && !principal.Role.CanAdjustStock() {
		return nil, domain.ErrForbidden
	}
	existing, err := uc.repo.GetByTenantAndName(principal.TenantID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		TenantID:  principal.TenantID,
		Name:      name,
		Price:     in.Price,
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update modifica nombre, precio y/o stock. Si la petición incluye stock y el
// rol no puede ajustarlo, se rechaza completa: aceptar el resto en silencio
// está prohibido.
func (uc *ProductUseCase) Update(principal entity.Principal, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == nil && in.Price == nil && in.Stock == nil {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByID(principal.TenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Stock != nil && !principal.Role.CanAdjustStock() {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if !strings.EqualFold(name, product.Name) {
			other, err := uc.repo.GetByTenantAndName(principal.TenantID, name)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != product.ID {
				return nil, domain.ErrDuplicate
			}
		}
		product.Name = name
	}
	if in.Price != nil {
		if !in.Price.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.Stock = *in.Stock
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto. Solo DIRECTEUR y GERANT; las líneas de venta
// históricas caen en cascada pero los totales sobreviven (precio y cantidad
// están fotografiados en la línea).
func (uc *ProductUseCase) Delete(principal entity.Principal, productID string) error {
	product, err := uc.repo.GetByID(principal.TenantID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if !principal.Role.CanDeleteProduct() {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(principal.TenantID, productID)
}

// GetByID obtiene un producto de la tienda del llamador.
func (uc *ProductUseCase) GetByID(principal entity.Principal, productID string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(principal.TenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// ListByTenant lista el catálogo con paginación.
func (uc *ProductUseCase) ListByTenant(principal entity.Principal, limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.repo.ListByTenant(principal.TenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		list = append(list, toProductResponse(p))
	}
	return list, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
