package ports

import (
	"context"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// ListUsersFilter carries all query parameters for listing users.
type ListUsersFilter struct {
	Role     string // optional: filter by role
	Search   string // optional: case-insensitive partial match on name or email
	ActiveOnly bool
	Page     int    // 1-based
	Limit    int    // max rows per page (capped at 100 by the service)
	Sort     string // field name, defaults to created_at
	Order    string // "asc" or "desc"
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns a page of users matching filter and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	// Update persists profile fields and settings of an existing user.
	Update(ctx context.Context, u *domain.User) error
	SetRole(ctx context.Context, id string, role domain.Role) error
	// SetActive flips the soft-delete flag. Users are never hard-deleted.
	SetActive(ctx context.Context, id string, active bool) error
}
