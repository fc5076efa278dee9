package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcastillo/puntoventa-api/internal/domain/entity"
)

func TestRole_Level_OrdenTotal(t *testing.T) {
	assert.Equal(t, 5, entity.RoleSuperadmin.Level())
	assert.Equal(t, 4, entity.RoleDirecteur.Level())
	assert.Equal(t, 3, entity.RoleGerant.Level())
	assert.Equal(t, 2, entity.RoleVendeur.Level())
	assert.Equal(t, 1, entity.RoleMagasinier.Level())
	assert.Equal(t, 0, entity.Role("OTRO").Level(), "rol desconocido debe ser nivel 0")
}

func TestRole_CanManage_SoloNivelEstrictamenteMayor(t *testing.T) {
	assert.True(t, entity.RoleDirecteur.CanManage(entity.RoleGerant))
	assert.True(t, entity.RoleGerant.CanManage(entity.RoleMagasinier))
	assert.False(t, entity.RoleGerant.CanManage(entity.RoleGerant), "mismo nivel no puede gestionar")
	assert.False(t, entity.RoleVendeur.CanManage(entity.RoleDirecteur))
}

// Un DIRECTEUR no puede otorgar DIRECTEUR: 4 no es > 4.
func TestRole_CanAssign_NuncaNivelIgualOSuperior(t *testing.T) {
	assert.False(t, entity.RoleDirecteur.CanAssign(entity.RoleDirecteur))
	assert.False(t, entity.RoleDirecteur.CanAssign(entity.RoleSuperadmin))
	assert.True(t, entity.RoleDirecteur.CanAssign(entity.RoleGerant))
	assert.True(t, entity.RoleGerant.CanAssign(entity.RoleVendeur))
	assert.False(t, entity.RoleMagasinier.CanAssign(entity.RoleMagasinier))
}

func TestRole_CanCreateSale(t *testing.T) {
	assert.True(t, entity.RoleDirecteur.CanCreateSale())
	assert.True(t, entity.RoleGerant.CanCreateSale())
	assert.True(t, entity.RoleVendeur.CanCreateSale())
	assert.False(t, entity.RoleMagasinier.CanCreateSale(), "el magasinier registra inventario, no ventas")
	assert.False(t, entity.RoleSuperadmin.CanCreateSale(), "superadmin opera a nivel plataforma")
}

func TestRole_CanAdjustStock(t *testing.T) {
	assert.True(t, entity.RoleDirecteur.CanAdjustStock())
	assert.True(t, entity.RoleGerant.CanAdjustStock())
	assert.True(t, entity.RoleMagasinier.CanAdjustStock())
	assert.False(t, entity.RoleVendeur.CanAdjustStock())
	assert.False(t, entity.RoleSuperadmin.CanAdjustStock())
}

func TestRole_CanDeleteProduct(t *testing.T) {
	assert.True(t, entity.RoleDirecteur.CanDeleteProduct())
	assert.True(t, entity.RoleGerant.CanDeleteProduct())
	assert.False(t, entity.RoleVendeur.CanDeleteProduct())
	assert.False(t, entity.RoleMagasinier.CanDeleteProduct())
}

func TestRole_IsValid(t *testing.T) {
	for _, r := range []entity.Role{
		entity.RoleSuperadmin, entity.RoleDirecteur, entity.RoleGerant,
		entity.RoleVendeur, entity.RoleMagasinier,
	} {
		assert.True(t, r.IsValid(), string(r))
	}
	assert.False(t, entity.Role("").IsValid())
	assert.False(t, entity.Role("directeur").IsValid(), "el enum es case-sensitive")
}
