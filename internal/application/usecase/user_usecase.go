package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcastillo/puntoventa-api/internal/application/dto"
	"github.com/dcastillo/puntoventa-api/internal/domain"
	"github.com/dcastillo/puntoventa-api/internal/domain/entity"
	"github.com/dcastillo/puntoventa-api/internal/domain/repository"
)

const minPasswordLen = 8

// UserUseCase gestiona los usuarios de una tienda bajo la jerarquía de roles:
// un actor solo toca usuarios de nivel estrictamente menor, nunca a sí mismo,
// y nunca otorga un rol de su propio nivel o superior.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create da de alta un usuario en la tienda del llamador.
func (uc *UserUseCase) Create(principal entity.Principal, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	role := entity.Role(in.Role)
	if !role.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	if !principal.Role.CanAssign(role) {
		return nil, domain.ErrForbidden
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     principal.TenantID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// El índice único sobre LOWER(email) es global: una carrera sobre el mismo
	// email emerge como ErrEmailAlreadyExists del repositorio, no como caída.
	if err := uc.repo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Update modifica un usuario de la tienda. La auto-modificación se rechaza
// siempre, sin importar el rol: evita que un actor se bloquee o se escale
// privilegios editándose a sí mismo.
func (uc *UserUseCase) Update(principal entity.Principal, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if in.Name == nil && in.Email == nil && in.Role == nil && in.Password == nil {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.repo.GetByID(principal.TenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if user.ID == principal.ID {
		return nil, domain.ErrForbidden
	}
	if !principal.Role.CanManage(user.Role) {
		return nil, domain.ErrForbidden
	}
	if in.Role != nil {
		newRole := entity.Role(*in.Role)
		if !newRole.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		if !principal.Role.CanAssign(newRole) {
			return nil, domain.ErrForbidden
		}
		user.Role = newRole
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, domain.ErrInvalidInput
		}
		user.Email = email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		user.Name = name
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return nil, domain.ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Delete elimina un usuario de la tienda. Mismas reglas que Update: primero
// not-found (acotado al tenant), luego jerarquía, y nunca a sí mismo.
func (uc *UserUseCase) Delete(principal entity.Principal, userID string) error {
	user, err := uc.repo.GetByID(principal.TenantID, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if user.ID == principal.ID {
		return domain.ErrForbidden
	}
	if !principal.Role.CanManage(user.Role) {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(principal.TenantID, userID)
}

// GetByID obtiene un usuario de la tienda del llamador.
func (uc *UserUseCase) GetByID(principal entity.Principal, userID string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(principal.TenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return toUserResponse(user), nil
}

// ListByTenant lista los usuarios de la tienda con paginación.
func (uc *UserUseCase) ListByTenant(principal entity.Principal, limit, offset int) ([]*dto.UserResponse, error) {
	users, err := uc.repo.ListByTenant(principal.TenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		list = append(list, toUserResponse(u))
	}
	return list, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
