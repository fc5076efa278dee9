package auth

import (
	"context"

	"github.com/dcastillo/puntoventa-api/internal/domain/repository"
)

// SignupTxRunner ejecuta el alta de tienda + primer usuario dentro de una
// transacción: no puede quedar una tienda sin director ni un director huérfano.
type SignupTxRunner interface {
	RunSignup(ctx context.Context, fn func(
		tenantRepo repository.TenantRepository,
		userRepo repository.UserRepository,
	) error) error
}
