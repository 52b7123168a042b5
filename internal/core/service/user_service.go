package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
)

const maxPageLimit = 100

// UserService implements profile access, role management, and soft deletes.
type UserService struct {
	users    ports.UserRepository
	bookings ports.BookingRepository
	audit    ports.AuditRepository
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, bookings ports.BookingRepository, audit ports.AuditRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, bookings: bookings, audit: audit, log: log}
}

// GetProfile returns the projection of target visible to viewer. The
// booking relationship needed by the projector is resolved here; the
// lookup is skipped when the projector cannot use it (self and admin views).
func (s *UserService) GetProfile(ctx context.Context, viewer domain.Viewer, targetID string) (*domain.ProfileView, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	hasBooking := false
	if !viewer.IsSelf(targetID) && !viewer.AdminTier() && target.Role == domain.RoleAgent {
		hasBooking, err = s.bookings.ExistsBetween(ctx, viewer.ID, targetID)
		if err != nil {
			return nil, err
		}
	}

	return domain.ProjectUser(target, viewer, hasBooking)
}

// List returns a page of users. Admin tier only; the full record is
// projected through the self rule for each item.
func (s *UserService) List(ctx context.Context, viewer domain.Viewer, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	if !viewer.AdminTier() {
		return nil, domain.ErrForbidden
	}

	page, limit := normalizePage(input.Page, input.Limit)
	users, total, err := s.users.List(ctx, ports.ListUsersFilter{
		Role:   input.Role,
		Search: input.Search,
		Page:   page,
		Limit:  limit,
		Sort:   input.Sort,
		Order:  input.Order,
	})
	if err != nil {
		return nil, err
	}

	items := make([]*domain.ProfileView, 0, len(users))
	for _, u := range users {
		view, err := domain.ProjectUser(u, viewer, false)
		if err != nil {
			return nil, err
		}
		items = append(items, view)
	}

	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// UpdateProfile patches profile fields and settings. Settings are merged
// as immutable values: only the fields present in the patch change.
func (s *UserService) UpdateProfile(ctx context.Context, viewer domain.Viewer, targetID string, input ports.UpdateUserInput) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !domain.CanModifyUser(viewer, target) {
		return nil, domain.ErrForbidden
	}

	changed := map[string]any{}
	if input.Name != nil && *input.Name != target.Name {
		changed["name"] = *input.Name
		target.Name = *input.Name
	}
	if input.Phone != nil && *input.Phone != target.Phone {
		changed["phone"] = *input.Phone
		target.Phone = *input.Phone
	}
	if input.Settings != nil {
		target.Settings = input.Settings.Apply(target.Settings)
		changed["settings"] = "patched"
	}
	if len(changed) == 0 {
		return target, nil
	}
	target.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}

	// Profile edits by another actor are privileged and audited.
	if !viewer.IsSelf(targetID) {
		s.appendAudit(ctx, viewer, domain.AuditUserUpdated, "user", targetID, changed)
	}

	s.log.Info().Str("user_id", targetID).Str("actor", viewer.ID).Msg("user profile updated")
	return target, nil
}

// ChangeRole assigns a new role to target. The actor must outrank the
// target's current role, and may only assign roles permitted by
// CanAssignRole (SUPER_ADMIN assigns anything, ADMIN only USER/AGENT).
func (s *UserService) ChangeRole(ctx context.Context, viewer domain.Viewer, targetID string, role domain.Role) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrValidation
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if viewer.Role != domain.RoleSuperAdmin && domain.RoleRank(target.Role) >= domain.RoleRank(viewer.Role) {
		return nil, domain.ErrForbidden
	}
	if !domain.CanAssignRole(viewer.Role, role) {
		return nil, domain.ErrForbidden
	}
	if target.Role == role {
		return target, nil
	}

	prev := target.Role
	if err := s.users.SetRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	target.Role = role

	s.appendAudit(ctx, viewer, domain.AuditUserRoleChanged, "user", targetID, map[string]any{
		"from": string(prev),
		"to":   string(role),
	})

	s.log.Info().Str("user_id", targetID).Str("from", string(prev)).Str("to", string(role)).Str("actor", viewer.ID).Msg("user role changed")
	return target, nil
}

// Deactivate soft-deletes target by flipping is_active. Self-deletion is
// blocked unconditionally; rows are never removed.
func (s *UserService) Deactivate(ctx context.Context, viewer domain.Viewer, targetID string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !domain.CanDeactivateUser(viewer, target) {
		return domain.ErrForbidden
	}

	if err := s.users.SetActive(ctx, targetID, false); err != nil {
		return err
	}

	s.appendAudit(ctx, viewer, domain.AuditUserDeactivated, "user", targetID, nil)

	s.log.Info().Str("user_id", targetID).Str("actor", viewer.ID).Msg("user deactivated")
	return nil
}

// appendAudit writes an audit entry. Failures are logged, never propagated:
// the primary mutation is already committed and is not rolled back.
func (s *UserService) appendAudit(ctx context.Context, viewer domain.Viewer, action, entityType, entityID string, details map[string]any) {
	entry := &domain.AuditEntry{
		UserID:     viewer.ID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("action", action).Str("entity_id", entityID).Msg("failed to append audit entry")
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
