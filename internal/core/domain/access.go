package domain

// Viewer identifies the actor behind a request, as supplied by the session
// provider. The core trusts these values as-is.
type Viewer struct {
	ID   string
	Role Role
}

// IsSelf reports whether the viewer is the user with the given id.
func (v Viewer) IsSelf(userID string) bool {
	return v.ID != "" && v.ID == userID
}

// AdminTier reports whether the viewer bypasses ownership checks.
func (v Viewer) AdminTier() bool {
	return IsAdminTier(v.Role)
}

// CanAssignRole reports whether actor may set target's role to newRole.
// SUPER_ADMIN may assign any role. Everyone else may only assign roles
// strictly below their own, which restricts ADMIN to USER and AGENT and
// leaves lower roles with nothing to assign.
func CanAssignRole(actor Role, newRole Role) bool {
	if !ValidRole(newRole) {
		return false
	}
	if actor == RoleSuperAdmin {
		return true
	}
	if !IsAdminTier(actor) {
		return false
	}
	return RoleRank(newRole) < RoleRank(actor)
}

// CanModifyUser reports whether the viewer may update target's profile.
// Role changes are governed separately by CanAssignRole.
func CanModifyUser(v Viewer, target *User) bool {
	if v.IsSelf(target.ID) {
		return true
	}
	// Admin-tier actors may edit anyone ranked below themselves.
	return v.AdminTier() && RoleRank(target.Role) < RoleRank(v.Role)
}

// CanDeactivateUser reports whether the viewer may soft-delete target.
// Self-deletion is blocked unconditionally, including for SUPER_ADMIN.
func CanDeactivateUser(v Viewer, target *User) bool {
	if v.IsSelf(target.ID) {
		return false
	}
	return v.AdminTier() && RoleRank(target.Role) < RoleRank(v.Role)
}

// CanManageService reports whether the viewer may edit or delete a service
// offering: its owning agent, or any admin-tier actor.
func CanManageService(v Viewer, svc *Service) bool {
	if v.AdminTier() {
		return true
	}
	return v.Role == RoleAgent && v.IsSelf(svc.AgentID)
}

// CanViewBooking reports whether the viewer may read a booking: its
// customer, its agent, or an admin-tier actor.
func CanViewBooking(v Viewer, b *Booking) bool {
	if v.AdminTier() {
		return true
	}
	return v.IsSelf(b.UserID) || v.IsSelf(b.AgentID)
}

// CanTransitionBooking reports whether the viewer may request the given
// status change on b. Admin-tier actors may perform corrective edits along
// any edge, including out of terminal states. Agents drive their own
// bookings through the regular state machine; customers may only cancel.
func CanTransitionBooking(v Viewer, b *Booking, next BookingStatus) bool {
	if v.AdminTier() {
		return true
	}
	if !b.Status.CanTransitionTo(next) {
		return false
	}
	if v.IsSelf(b.AgentID) {
		return true
	}
	return v.IsSelf(b.UserID) && next == StatusCancelled
}
