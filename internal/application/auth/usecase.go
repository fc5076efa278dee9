package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcastillo/puntoventa-api/internal/application/dto"
	"github.com/dcastillo/puntoventa-api/internal/domain"
	"github.com/dcastillo/puntoventa-api/internal/domain/entity"
	"github.com/dcastillo/puntoventa-api/internal/domain/repository"
	"github.com/dcastillo/puntoventa-api/pkg/jwt"
	"github.com/dcastillo/puntoventa-api/pkg/slug"
)

const minPasswordLen = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de tienda y login. Provee el
// "Identity Context": a partir de aquí toda operación del núcleo recibe el
// principal resuelto como argumento explícito.
type AuthUseCase struct {
	txRunner SignupTxRunner
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(txRunner SignupTxRunner, userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{txRunner: txRunner, userRepo: userRepo, jwtCfg: jwtCfg}
}

// Signup crea la tienda y su primer usuario con rol DIRECTEUR en una sola
// transacción. El nombre de la tienda y el dominio (slug opcional) son únicos
// a nivel global.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.SignupResponse, error) {
	tenantName := strings.TrimSpace(in.TenantName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if tenantName == "" || email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	domainSlug := ""
	if in.Domain != "" {
		domainSlug = slug.Normalize(in.Domain)
		if !slug.IsValid(domainSlug) {
			return nil, domain.ErrInvalidInput
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      tenantName,
		Domain:    domainSlug,
		CreatedAt: now,
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	director := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleDirecteur,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunSignup(ctx, func(
		tenantRepo repository.TenantRepository,
		userRepo repository.UserRepository,
	) error {
		if err := tenantRepo.Create(tenant); err != nil {
			return err
		}
		return userRepo.Create(director)
	})
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, director.ID, tenant.ID, string(director.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.SignupResponse{
		TenantID:  tenant.ID,
		Token:     token,
		User:      *toUserResponse(director),
		CreatedAt: now,
	}, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.TenantID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
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
