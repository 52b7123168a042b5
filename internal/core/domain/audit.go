package domain

import "time"

// Audit actions recorded for privileged mutations.
const (
	AuditBookingCreated   = "booking.created"
	AuditBookingStatus    = "booking.status_changed"
	AuditBookingNotes     = "booking.notes_updated"
	AuditBookingCancelled = "booking.cancelled"
	AuditBookingBulk      = "booking.bulk_action"
	AuditUserUpdated      = "user.updated"
	AuditUserRoleChanged  = "user.role_changed"
	AuditUserDeactivated  = "user.deactivated"
	AuditServiceCreated   = "service.created"
	AuditServiceUpdated   = "service.updated"
	AuditServiceDeleted   = "service.deleted"
)

// AuditEntry is an immutable append-only record of a privileged mutation.
// Entries are never updated or deleted.
type AuditEntry struct {
	ID         string         `json:"id" bson:"_id,omitempty"`
	UserID     string         `json:"user_id" bson:"user_id"`
	Action     string         `json:"action" bson:"action"`
	EntityType string         `json:"entity_type" bson:"entity_type"`
	EntityID   string         `json:"entity_id" bson:"entity_id"`
	Details    map[string]any `json:"details,omitempty" bson:"details,omitempty"`
	Timestamp  time.Time      `json:"timestamp" bson:"timestamp"`
}
