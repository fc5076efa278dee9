package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastillo/puntoventa-api/internal/application/dto"
	"github.com/dcastillo/puntoventa-api/internal/application/sales"
	"github.com/dcastillo/puntoventa-api/internal/domain"
	"github.com/dcastillo/puntoventa-api/internal/domain/entity"
	"github.com/dcastillo/puntoventa-api/internal/domain/repository"
	"github.com/dcastillo/puntoventa-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: el store aplica la misma semántica que PostgreSQL
// (decremento condicional, acotado por tenant) y el txRunner emula el
// rollback restaurando un snapshot cuando fn falla.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	sales     map[string]*entity.Sale
	items     []*entity.SaleItem
	readCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[string]*entity.Product),
		sales:    make(map[string]*entity.Sale),
	}
}

func (s *fakeStore) addProduct(p entity.Product) {
	s.products[p.ID] = &p
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for id, p := range s.products {
		c := *p
		cp.products[id] = &c
	}
	for id, sl := range s.sales {
		c := *sl
		cp.sales[id] = &c
	}
	cp.items = append([]*entity.SaleItem(nil), s.items...)
	return cp
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.products = snap.products
	s.sales = snap.sales
	s.items = snap.items
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }

func (r *fakeProductRepo) GetByID(tenantID, id string) (*entity.Product, error) {
	r.s.readCalls++
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *fakeProductRepo) GetByTenantAndName(tenantID, name string) (*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) FindByIDs(tenantID string, ids []string) ([]*entity.Product, error) {
	r.s.readCalls++
	var list []*entity.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && p.TenantID == tenantID {
			c := *p
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *fakeProductRepo) DecrementStock(tenantID, productID string, quantity int64) (bool, error) {
	p, ok := r.s.products[productID]
	if !ok || p.TenantID != tenantID || p.Stock < quantity {
		return false, nil
	}
	p.Stock -= quantity
	return true, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error   { return nil }
func (r *fakeProductRepo) Delete(tenantID, id string) error { return nil }
func (r *fakeProductRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeSaleRepo struct{ s *fakeStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	c := *sale
	r.s.sales[sale.ID] = &c
	return nil
}

func (r *fakeSaleRepo) CreateItem(item *entity.SaleItem) error {
	c := *item
	r.s.items = append(r.s.items, &c)
	return nil
}

func (r *fakeSaleRepo) GetByID(tenantID, id string) (*entity.Sale, error) {
	s, ok := r.s.sales[id]
	if !ok || s.TenantID != tenantID {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *fakeSaleRepo) ListItems(saleID string) ([]*entity.SaleItem, error) {
	var list []*entity.SaleItem
	for _, it := range r.s.items {
		if it.SaleID == saleID {
			c := *it
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *fakeSaleRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Sale, error) {
	var list []*entity.Sale
	for _, s := range r.s.sales {
		if s.TenantID == tenantID {
			c := *s
			list = append(list, &c)
		}
	}
	return list, nil
}

// fakeTxRunner serializa las transacciones con un mutex y restaura el estado
// previo si fn devuelve error, emulando el rollback de PostgreSQL.
type fakeTxRunner struct {
	s          *fakeStore
	failCommit bool
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	if err := fn(&fakeProductRepo{s: t.s}, &fakeSaleRepo{s: t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	if t.failCommit {
		t.s.restore(snap)
		return errors.New("commit transaction: conexión perdida")
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	tenantA  = "tenant-a"
	tenantB  = "tenant-b"
	sellerID = "user-vendeur"
)

func vendeur() entity.Principal {
	return entity.Principal{ID: sellerID, TenantID: tenantA, Role: entity.RoleVendeur}
}

func newUseCase(s *fakeStore) *sales.CreateSaleUseCase {
	return newUseCaseWithRunner(s, &fakeTxRunner{s: s})
}

func newUseCaseWithRunner(s *fakeStore, runner sales.TxRunner) *sales.CreateSaleUseCase {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return sales.NewCreateSaleUseCase(runner, &fakeSaleRepo{s: s}, log)
}

func price(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ──────────────────────────────────────────────────────────────────────────────
// Validación y autorización antes de tocar el store
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_CarritoVacio_RechazadoSinTocarStore(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)

	_, err := uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, s.readCalls, "el carrito vacío se rechaza antes de cualquier lectura")
}

func TestCreateSale_CantidadNoPositiva_Rechazada(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)

	_, err := uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 0, Price: price(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: -2, Price: price(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, s.readCalls)
}

func TestCreateSale_PrecioNoPositivo_Rechazado(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)

	_, err := uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1, Price: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_RolesSinPermisoDeVenta(t *testing.T) {
	s := newFakeStore()
	s.addProduct(entity.Product{ID: "p1", TenantID: tenantA, Name: "café", Price: price(10), Stock: 5})
	uc := newUseCase(s)
	req := dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1, Price: price(10)}},
	}

	for _, role := range []entity.Role{entity.RoleMagasinier, entity.RoleSuperadmin} {
		principal := entity.Principal{ID: "u1", TenantID: tenantA, Role: role}
		_, err := uc.CreateSale(context.Background(), principal, req)
		assert.ErrorIs(t, err, domain.ErrForbidden, string(role))
	}
	assert.Zero(t, s.readCalls, "la puerta de rol corre antes del store")
	assert.Equal(t, int64(5), s.products["p1"].Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de productos y aislamiento de tenant
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_ProductoInexistente_NotFoundSinVentaParcial(t *testing.T) {
	s := newFakeStore()
	s.addProduct(entity.Product{ID: "p1", TenantID: tenantA, Name: "café", Price: price(10), Stock: 5})
	uc := newUseCase(s)

	_, err := uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "p1", Quantity: 1, Price: price(10)},
			{ProductID: "no-existe", Quantity: 1, Price: price(5)},
		},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(5), s.products["p1"].Stock, "sin venta parcial: el stock de p1 no cambia")
	assert.Empty(t, s.sales)
}

func TestCreateSale_ProductoDeOtroTenant_NotFoundNuncaForbidden(t *testing.T) {
	s := newFakeStore()
	s.addProduct(entity.Product{ID: "p-ajeno", TenantID: tenantB, Name: "ron", Price: price(30), Stock: 10})
	uc := newUseCase(s)

	_, err := uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "p-ajeno", Quantity: 1, Price: price(30)}},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound, "la existencia de datos ajenos no se revela")
	assert.NotErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, int64(10), s.products["p-ajeno"].Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock insuficiente y atomicidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_StockInsuficiente_ErrorTipadoYRollbackCompleto(t *testing.T) {
	s := newFakeStore()
	s.addProduct(entity.Product{ID: "pa", TenantID: tenantA, Name: "a", Price: price(10), Stock: 9})
	s.addProduct(entity.Product{ID: "pb", TenantID: tenantA, Name: "b", Price: price(5), Stock: 2})
	uc := newUseCase(s)

	_, err := uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "pa", Quantity: 4, Price: price(10)}, // alcanza
			{ProductID: "pb", Quantity: 3, Price: price(5)},  // no alcanza
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "pb", stockErr.ProductID)
	assert.Equal(t, int64(3), stockErr.Requested)
	assert.Equal(t, int64(2), stockErr.Available)

	// Rollback total: el decremento ya aplicado a pa se revierte
	assert.Equal(t, int64(9), s.products["pa"].Stock)
	assert.Equal(t, int64(2), s.products["pb"].Stock)
	assert.Empty(t, s.sales, "venta fallida no deja filas Sale")
	assert.Empty(t, s.items, "venta fallida no deja filas SaleItem")
}

func TestCreateSale_FalloDeCommit_SinEfectosParciales(t *testing.T) {
	s := newFakeStore()
	s.addProduct(entity.Product{ID: "p1", TenantID: tenantA, Name: "café", Price: price(10), Stock: 5})
	uc := newUseCaseWithRunner(s, &fakeTxRunner{s: s, failCommit: true})

	_, err := uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 2, Price: price(10)}},
	})

	assert.ErrorIs(t, err, domain.ErrTxFailed, "el fallo de infraestructura se reporta genérico")
	assert.NotContains(t, err.Error(), "conexión", "sin detalle interno en el error al caller")
	assert.Equal(t, int64(5), s.products["p1"].Stock)
	assert.Empty(t, s.sales)
}

// ──────────────────────────────────────────────────────────────────────────────
// Venta exitosa: total en servidor, foto de precio, decrementos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_Exitosa_TotalYDecrementosAtomicos(t *testing.T) {
	s := newFakeStore()
	s.addProduct(entity.Product{ID: "pa", TenantID: tenantA, Name: "a", Price: price(10), Stock: 7})
	s.addProduct(entity.Product{ID: "pb", TenantID: tenantA, Name: "b", Price: price(5), Stock: 3})
	uc := newUseCase(s)

	resp, err := uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "pa", Quantity: 2, Price: price(10)},
			{ProductID: "pb", Quantity: 1, Price: price(5)},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, decimal.NewFromInt(25).Equal(resp.TotalAmount),
		"totalAmount = 2*10 + 1*5 = 25, calculado en servidor")
	assert.Len(t, resp.Items, 2)

	assert.Equal(t, int64(5), s.products["pa"].Stock, "pa decrementado en 2")
	assert.Equal(t, int64(2), s.products["pb"].Stock, "pb decrementado en 1")

	require.Len(t, s.sales, 1)
	sale := s.sales[resp.ID]
	require.NotNil(t, sale)
	assert.Equal(t, tenantA, sale.TenantID)
	assert.Equal(t, sellerID, sale.UserID)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(25)))
	assert.Len(t, s.items, 2, "una fila SaleItem por línea, con precio fotografiado")
}

func TestCreateSale_ProductoRepetidoEnCarrito_AmbasLineasDescuentan(t *testing.T) {
	s := newFakeStore()
	s.addProduct(entity.Product{ID: "p1", TenantID: tenantA, Name: "café", Price: price(10), Stock: 5})
	uc := newUseCase(s)

	resp, err := uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "p1", Quantity: 2, Price: price(10)},
			{ProductID: "p1", Quantity: 1, Price: price(10)},
		},
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(resp.TotalAmount))
	assert.Equal(t, int64(2), s.products["p1"].Stock)
	assert.Len(t, s.items, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: dos ventas simultáneas sobre el mismo producto
// ──────────────────────────────────────────────────────────────────────────────

// Producto con stock 5; dos ventas concurrentes piden 3 cada una. Exactamente
// una debe pasar (stock final 2); la otra falla con stock insuficiente.
func TestCreateSale_Concurrente_SoloUnaPasa(t *testing.T) {
	s := newFakeStore()
	s.addProduct(entity.Product{ID: "p1", TenantID: tenantA, Name: "café", Price: price(10), Stock: 5})
	uc := newUseCase(s)
	req := dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 3, Price: price(10)}},
	}

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CreateSale(context.Background(), vendeur(), req)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var okCount, stockErrCount int
	for err := range results {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			stockErrCount++
			var stockErr *domain.InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
			assert.Equal(t, int64(3), stockErr.Requested)
			assert.Equal(t, int64(2), stockErr.Available,
				"la venta perdedora ve el stock ya decrementado por la ganadora")
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}

	assert.Equal(t, 1, okCount, "exactamente una venta confirma")
	assert.Equal(t, 1, stockErrCount)
	assert.Equal(t, int64(2), s.products["p1"].Stock, "5 - 3 = 2, nunca negativo")
	assert.Len(t, s.sales, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_VentaDeOtroTenant_NotFound(t *testing.T) {
	s := newFakeStore()
	s.addProduct(entity.Product{ID: "p1", TenantID: tenantA, Name: "café", Price: price(10), Stock: 5})
	uc := newUseCase(s)

	resp, err := uc.CreateSale(context.Background(), vendeur(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1, Price: price(10)}},
	})
	require.NoError(t, err)

	otro := entity.Principal{ID: "u2", TenantID: tenantB, Role: entity.RoleDirecteur}
	_, err = uc.GetByID(otro, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := uc.GetByID(vendeur(), resp.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(resp.TotalAmount))
	assert.Len(t, got.Items, 1)
}
