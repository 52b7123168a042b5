package domain

import "time"

// ProfileView is the subset of a user's record exposed to a given viewer.
// Every field outside the base {id, name, role} triple is emitted only when
// the matched projection rule explicitly allows it.
type ProfileView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Role      Role       `json:"role"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
	Settings  *Settings  `json:"settings,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ProjectUser computes the view of target that viewer is permitted to see.
// hasBooking reports whether a booking exists between viewer and target.
//
// Rules, in order:
//  1. Self or admin tier: full record (the password hash is excluded from
//     serialization at the type level and never appears in any view).
//  2. AGENT target: forbidden only when private and unrelated by booking.
//     Otherwise base fields, plus contact info when shared or related by
//     booking; a contacts-visibility agent who is not sharing appears to
//     strangers as the base triple alone.
//  3. USER target: forbidden when private, else base fields plus email
//     when contact sharing is on.
func ProjectUser(target *User, viewer Viewer, hasBooking bool) (*ProfileView, error) {
	if viewer.IsSelf(target.ID) || viewer.AdminTier() {
		active := target.IsActive
		settings := target.Settings
		created := target.CreatedAt
		return &ProfileView{
			ID:        target.ID,
			Name:      target.Name,
			Role:      target.Role,
			Email:     target.Email,
			Phone:     target.Phone,
			IsActive:  &active,
			Settings:  &settings,
			CreatedAt: &created,
		}, nil
	}

	base := ProfileView{
		ID:   target.ID,
		Name: target.Name,
		Role: target.Role,
	}
	privacy := target.Settings.Privacy

	if target.Role == RoleAgent {
		if !hasBooking && privacy.ProfileVisibility == VisibilityPrivate {
			return nil, ErrForbidden
		}
		if hasBooking || privacy.ShareContactInfo {
			base.Email = target.Email
			base.Phone = target.Phone
		}
		return &base, nil
	}

	if privacy.ProfileVisibility == VisibilityPrivate {
		return nil, ErrForbidden
	}
	if privacy.ShareContactInfo {
		base.Email = target.Email
	}
	return &base, nil
}
