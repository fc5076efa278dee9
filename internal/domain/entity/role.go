package entity

// Role es el rol de un usuario dentro de su tienda. El orden de privilegio es
// total: SUPERADMIN(5) > DIRECTEUR(4) > GERANT(3) > VENDEUR(2) > MAGASINIER(1).
type Role string

// Roles válidos para User.
const (
	RoleSuperadmin Role = "SUPERADMIN"
	RoleDirecteur  Role = "DIRECTEUR"
	RoleGerant     Role = "GERANT"
	RoleVendeur    Role = "VENDEUR"
	RoleMagasinier Role = "MAGASINIER"
)

var roleLevels = map[Role]int{
	RoleSuperadmin: 5,
	RoleDirecteur:  4,
	RoleGerant:     3,
	RoleVendeur:    2,
	RoleMagasinier: 1,
}

// Level devuelve el nivel de privilegio del rol; 0 si el rol no existe.
func (r Role) Level() int {
	return roleLevels[r]
}

// IsValid indica si el rol pertenece al enum.
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// CanManage decide si este rol puede modificar o eliminar a un usuario con el
// rol target: solo con nivel estrictamente mayor. La prohibición de
// auto-modificación se verifica por ID en el caso de uso, no aquí.
func (r Role) CanManage(target Role) bool {
	return r.Level() > target.Level()
}

// CanAssign decide si este rol puede otorgar el rol newRole: nunca un rol de
// nivel igual o superior al propio.
func (r Role) CanAssign(newRole Role) bool {
	return r.Level() > newRole.Level()
}

// CanCreateSale indica si el rol registra ventas. MAGASINIER registra
// inventario, no ventas; SUPERADMIN opera a nivel plataforma, no de tienda.
func (r Role) CanCreateSale() bool {
	return r == RoleDirecteur || r == RoleGerant || r == RoleVendeur
}

// CanAdjustStock indica si el rol puede modificar el campo stock de un
// producto. Una petición que incluya stock desde otro rol se rechaza completa.
func (r Role) CanAdjustStock() bool {
	return r == RoleDirecteur || r == RoleGerant || r == RoleMagasinier
}

// CanDeleteProduct indica si el rol puede eliminar productos.
func (r Role) CanDeleteProduct() bool {
	return r == RoleDirecteur || r == RoleGerant
}

// Principal es el usuario autenticado que ejecuta una operación. Se resuelve
// en el middleware de auth y se pasa explícitamente a cada caso de uso: ningún
// componente del núcleo lee estado ambiente.
type Principal struct {
	ID       string
	TenantID string
	Role     Role
}
