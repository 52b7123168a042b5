package ports

import (
	"context"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// RegisterInput carries the data for a new account. Role is restricted to
// USER and AGENT at registration; admin tiers are assigned later by a
// SUPER_ADMIN through the role endpoint.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     domain.Role
}

// AuthService is the session provider: it issues signed tokens carrying
// the {id, role} identity that the rest of the system trusts as-is.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
