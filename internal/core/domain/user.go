package domain

import "time"

// Role is the ordered privilege level of an actor.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAgent      Role = "AGENT"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// roleRanks orders roles by privilege. Unknown roles rank below USER.
var roleRanks = map[Role]int{
	RoleUser:       1,
	RoleAgent:      2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// RoleRank returns the privilege rank of a role, 0 for unknown values.
// All ordering comparisons between roles go through this function.
func RoleRank(r Role) int {
	return roleRanks[r]
}

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r Role) bool {
	_, ok := roleRanks[r]
	return ok
}

// IsAdminTier reports whether r is ADMIN or SUPER_ADMIN.
func IsAdminTier(r Role) bool {
	return RoleRank(r) >= RoleRank(RoleAdmin)
}

// ProfileVisibility controls who may view a user's profile.
type ProfileVisibility string

const (
	VisibilityPublic   ProfileVisibility = "public"
	VisibilityContacts ProfileVisibility = "contacts"
	VisibilityPrivate  ProfileVisibility = "private"
)

// PrivacySettings gate what profile fields other users may see.
type PrivacySettings struct {
	ProfileVisibility   ProfileVisibility `json:"profile_visibility" bson:"profile_visibility"`
	ShareContactInfo    bool              `json:"share_contact_info" bson:"share_contact_info"`
	ShareBookingHistory bool              `json:"share_booking_history" bson:"share_booking_history"`
}

// NotificationSettings select delivery channels for booking updates.
type NotificationSettings struct {
	Email          bool `json:"email" bson:"email"`
	SMS            bool `json:"sms" bson:"sms"`
	BookingUpdates bool `json:"booking_updates" bson:"booking_updates"`
}

// AppearanceSettings hold per-user UI preferences.
type AppearanceSettings struct {
	Theme    string `json:"theme" bson:"theme"`
	Language string `json:"language" bson:"language"`
}

// Settings is the full per-user settings document.
type Settings struct {
	Privacy       PrivacySettings      `json:"privacy" bson:"privacy"`
	Notifications NotificationSettings `json:"notifications" bson:"notifications"`
	Appearance    AppearanceSettings   `json:"appearance" bson:"appearance"`
}

// DefaultSettings returns the settings applied at registration.
func DefaultSettings() Settings {
	return Settings{
		Privacy: PrivacySettings{
			ProfileVisibility:   VisibilityContacts,
			ShareContactInfo:    false,
			ShareBookingHistory: false,
		},
		Notifications: NotificationSettings{
			Email:          true,
			SMS:            false,
			BookingUpdates: true,
		},
		Appearance: AppearanceSettings{
			Theme:    "light",
			Language: "en",
		},
	}
}

// SettingsPatch carries a partial settings update. Nil fields are left
// untouched by Apply, so a partial update never clobbers sibling values.
type SettingsPatch struct {
	Privacy       *PrivacyPatch      `json:"privacy,omitempty"`
	Notifications *NotificationPatch `json:"notifications,omitempty"`
	Appearance    *AppearancePatch   `json:"appearance,omitempty"`
}

type PrivacyPatch struct {
	ProfileVisibility   *ProfileVisibility `json:"profile_visibility,omitempty"`
	ShareContactInfo    *bool              `json:"share_contact_info,omitempty"`
	ShareBookingHistory *bool              `json:"share_booking_history,omitempty"`
}

type NotificationPatch struct {
	Email          *bool `json:"email,omitempty"`
	SMS            *bool `json:"sms,omitempty"`
	BookingUpdates *bool `json:"booking_updates,omitempty"`
}

type AppearancePatch struct {
	Theme    *string `json:"theme,omitempty"`
	Language *string `json:"language,omitempty"`
}

// Apply merges the patch into a copy of s and returns it. s is never mutated.
func (p SettingsPatch) Apply(s Settings) Settings {
	out := s
	if p.Privacy != nil {
		if p.Privacy.ProfileVisibility != nil {
			out.Privacy.ProfileVisibility = *p.Privacy.ProfileVisibility
		}
		if p.Privacy.ShareContactInfo != nil {
			out.Privacy.ShareContactInfo = *p.Privacy.ShareContactInfo
		}
		if p.Privacy.ShareBookingHistory != nil {
			out.Privacy.ShareBookingHistory = *p.Privacy.ShareBookingHistory
		}
	}
	if p.Notifications != nil {
		if p.Notifications.Email != nil {
			out.Notifications.Email = *p.Notifications.Email
		}
		if p.Notifications.SMS != nil {
			out.Notifications.SMS = *p.Notifications.SMS
		}
		if p.Notifications.BookingUpdates != nil {
			out.Notifications.BookingUpdates = *p.Notifications.BookingUpdates
		}
	}
	if p.Appearance != nil {
		if p.Appearance.Theme != nil {
			out.Appearance.Theme = *p.Appearance.Theme
		}
		if p.Appearance.Language != nil {
			out.Appearance.Language = *p.Appearance.Language
		}
	}
	return out
}

// User models an account in the platform. PasswordHash is never serialized
// to JSON and is only ever compared through bcrypt.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role         Role      `json:"role" bson:"role"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	Settings     Settings  `json:"settings" bson:"settings"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
