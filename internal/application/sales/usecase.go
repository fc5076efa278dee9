package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastillo/puntoventa-api/internal/application/dto"
	"github.com/dcastillo/puntoventa-api/internal/domain"
	"github.com/dcastillo/puntoventa-api/internal/domain/entity"
	"github.com/dcastillo/puntoventa-api/internal/domain/repository"
	"github.com/dcastillo/puntoventa-api/pkg/logger"
)

// CreateSaleUseCase registra una venta y descuenta el stock en una sola
// transacción: o los cinco pasos (resolver productos, re-verificar stock,
// calcular total, persistir venta e ítems, decrementar stock) quedan visibles
// juntos, o ninguno.
type CreateSaleUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	log      *logger.Logger
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(txRunner TxRunner, saleRepo repository.SaleRepository, log *logger.Logger) *CreateSaleUseCase {
	return &CreateSaleUseCase{txRunner: txRunner, saleRepo: saleRepo, log: log}
}

// CreateSale valida el carrito, aplica la puerta de rol y ejecuta el protocolo
// atómico. La verificación de stock usa el decremento condicional
// (stock = stock - qty WHERE stock >= qty) verificado por filas afectadas:
// dos ventas concurrentes sobre el mismo producto nunca pasan ambas por más
// unidades de las que hay.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, principal entity.Principal, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	// Validación antes de tocar la BD
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if !item.Price.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	if !principal.Role.CanCreateSale() {
		return nil, domain.ErrForbidden
	}

	// IDs distintos referenciados por el carrito
	distinct := make([]string, 0, len(in.Items))
	seen := make(map[string]bool, len(in.Items))
	for _, item := range in.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			distinct = append(distinct, item.ProductID)
		}
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		TenantID:  principal.TenantID,
		UserID:    principal.ID,
		CreatedAt: now,
	}
	var items []*entity.SaleItem

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		// 1) Resolver productos dentro de la tx, acotados al tenant. Si falta
		// alguno (inexistente o de otra tienda), se aborta sin venta parcial.
		products, err := productRepo.FindByIDs(principal.TenantID, distinct)
		if err != nil {
			return err
		}
		if len(products) < len(distinct) {
			return domain.ErrNotFound
		}

		// 2) + 5) Re-verificar y decrementar en un solo paso por línea. Si el
		// decremento no aplica, se relee el stock dentro de la misma tx para
		// reportar lo disponible y se revierte la venta completa.
		for _, item := range in.Items {
			ok, err := productRepo.DecrementStock(principal.TenantID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				var available int64
				if p, err := productRepo.GetByID(principal.TenantID, item.ProductID); err == nil && p != nil {
					available = p.Stock
				}
				return &domain.InsufficientStockError{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: available,
				}
			}
		}

		// 3) Total calculado en servidor: Σ precio × cantidad
		total := decimal.Zero
		for _, item := range in.Items {
			total = total.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))
		}
		sale.TotalAmount = total

		// 4) Persistir cabecera y líneas (foto de precio por línea)
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range in.Items {
			it := &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
			if err := saleRepo.CreateItem(it); err != nil {
				return err
			}
			items = append(items, it)
		}
		return nil
	})
	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		// Fallo de la transacción (BD caída, deadlock, timeout): sin efectos
		// parciales; al llamador no se le filtra detalle interno.
		uc.log.Error().Err(err).Str("tenant_id", principal.TenantID).Msg("venta no confirmada")
		return nil, domain.ErrTxFailed
	}

	resp := &dto.SaleResponse{
		ID:          sale.ID,
		TotalAmount: sale.TotalAmount,
		CreatedAt:   sale.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Price.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	return resp, nil
}

// GetByID obtiene una venta con sus líneas, acotada al tenant del llamador.
func (uc *CreateSaleUseCase) GetByID(principal entity.Principal, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(principal.TenantID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.ListItems(sale.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleResponse{ID: sale.ID, TotalAmount: sale.TotalAmount, CreatedAt: sale.CreatedAt}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Price.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	return resp, nil
}

// ListByTenant lista las ventas de la tienda (solo cabeceras).
func (uc *CreateSaleUseCase) ListByTenant(principal entity.Principal, limit, offset int) ([]*dto.SaleResponse, error) {
	sales, err := uc.saleRepo.ListByTenant(principal.TenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		list = append(list, &dto.SaleResponse{ID: s.ID, TotalAmount: s.TotalAmount, CreatedAt: s.CreatedAt})
	}
	return list, nil
}

// isDomainErr distingue los errores de negocio (se devuelven tal cual) de los
// fallos de infraestructura (se colapsan en ErrTxFailed).
func isDomainErr(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrInsufficientStock)
}
