package ports

import (
	"context"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// UpdateUserInput carries a partial profile update. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Name     *string
	Phone    *string
	Settings *domain.SettingsPatch
}

// ListUsersInput carries all parameters for the user list endpoint.
type ListUsersInput struct {
	Role   string
	Search string
	Page   int
	Limit  int
	Sort   string
	Order  string
}

// ListUsersResult is a page of projected user profiles.
type ListUsersResult struct {
	Items      []*domain.ProfileView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService defines use-case operations for user accounts.
type UserService interface {
	// GetProfile returns the view of target that viewer may see, applying
	// the visibility projection rules.
	GetProfile(ctx context.Context, viewer domain.Viewer, targetID string) (*domain.ProfileView, error)
	// List is admin-tier only and returns full (self-rule) projections.
	List(ctx context.Context, viewer domain.Viewer, input ListUsersInput) (*ListUsersResult, error)
	// UpdateProfile patches profile fields and settings of target.
	UpdateProfile(ctx context.Context, viewer domain.Viewer, targetID string, input UpdateUserInput) (*domain.User, error)
	// ChangeRole assigns a new role to target, subject to the hierarchy
	// rules (SUPER_ADMIN assigns anything, ADMIN only USER/AGENT).
	ChangeRole(ctx context.Context, viewer domain.Viewer, targetID string, role domain.Role) (*domain.User, error)
	// Deactivate soft-deletes target. Self-deletion is always forbidden.
	Deactivate(ctx context.Context, viewer domain.Viewer, targetID string) error
}
