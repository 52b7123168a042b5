package ports

import (
	"context"
	"time"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// ListBookingsFilter carries all query parameters for listing bookings.
// UserID/AgentID scoping is always enforced by the service layer for
// non-admin viewers.
type ListBookingsFilter struct {
	UserID  string // non-empty = scoped to customer
	AgentID string // non-empty = scoped to agent
	Status  string // optional: filter by booking status
	Search  string // optional: case-insensitive partial match on reference
	Page    int    // 1-based
	Limit   int
	Sort    string
	Order   string
}

// BulkSet describes the field updates applied by a bulk operation.
// Nil fields are left untouched. The repository translates this into a
// single batched update across all matched IDs.
type BulkSet struct {
	Status        *domain.BookingStatus
	AgentID       *string
	PaymentStatus *domain.PaymentStatus
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter ListBookingsFilter) ([]*domain.Booking, int64, error)

	// UpdateStatus sets the booking status with a compare-and-set on the
	// expected current status, making concurrent transitions race-free.
	// An empty expect skips the precondition (admin corrective edits).
	// Returns false when the document exists but the precondition failed.
	UpdateStatus(ctx context.Context, id string, expect, next domain.BookingStatus, ts time.Time) (bool, error)

	// UpdateNotes sets customer notes and/or agent notes. Nil pointers are
	// left untouched. Notes updates are independent of booking status.
	UpdateNotes(ctx context.Context, id string, notes, agentNotes *string, ts time.Time) error

	// UpdateRating sets the customer rating and review after completion.
	UpdateRating(ctx context.Context, id string, rating int, review string, ts time.Time) error

	// UpdateMany applies set to all bookings in ids as one batched write.
	UpdateMany(ctx context.Context, ids []string, set BulkSet, ts time.Time) (int64, error)

	// DeleteMany hard-removes all bookings in ids as one batched delete.
	DeleteMany(ctx context.Context, ids []string) (int64, error)

	// ExistsBetween reports whether any booking joins the given customer
	// and agent. Used by the visibility projector.
	ExistsBetween(ctx context.Context, userID, agentID string) (bool, error)
}
