package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dcastillo/puntoventa-api/internal/domain"
	"github.com/dcastillo/puntoventa-api/internal/domain/entity"
	"github.com/dcastillo/puntoventa-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL
// (usable con pool o tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create persiste una tienda nueva. Nombre y dominio son únicos globales.
func (r *TenantRepo) Create(tenant *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, domain, created_at)
		VALUES ($1, $2, $3, $4)`
	domainVal := sql.NullString{String: tenant.Domain, Valid: tenant.Domain != ""}
	_, err := r.q.Exec(context.Background(), query,
		tenant.ID, tenant.Name, domainVal, tenant.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTenantExists
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID.
func (r *TenantRepo) GetByID(id string) (*entity.Tenant, error) {
	query := `SELECT id, name, domain, created_at FROM tenants WHERE id = $1`
	var t entity.Tenant
	var domainVal sql.NullString
	err := r.q.QueryRow(context.Background(), query, id).Scan(&t.ID, &t.Name, &domainVal, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	t.Domain = domainVal.String
	return &t, nil
}
