package repository

import "github.com/dcastillo/puntoventa-api/internal/domain/entity"

// UserRepository puerto de persistencia para usuarios. Las lecturas por ID van
// acotadas al tenant del llamador: una fila de otro tenant se reporta como
// inexistente (nil, nil), nunca como prohibida. La única búsqueda global es
// por email, que es único a nivel plataforma.
type UserRepository interface {
	// Create persiste un usuario. Devuelve domain.ErrEmailAlreadyExists si el
	// email ya está registrado (en cualquier tenant, case-insensitive).
	Create(user *entity.User) error
	// GetByID devuelve nil, nil si el usuario no existe en ese tenant.
	GetByID(tenantID, id string) (*entity.User, error)
	// FindByEmail búsqueda global para login. nil, nil si no existe.
	FindByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	Delete(tenantID, id string) error
	ListByTenant(tenantID string, limit, offset int) ([]*entity.User, error)
}
