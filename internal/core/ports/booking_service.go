package ports

import (
	"context"
	"time"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// CreateBookingInput carries the data for a new booking. The agent and
// total amount are resolved from the service offering.
type CreateBookingInput struct {
	ServiceID     string
	ScheduledDate time.Time
	Notes         string
}

// RelatedUser is the minimal user shape embedded in a hydrated booking.
type RelatedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// RelatedService is the minimal service shape embedded in a hydrated booking.
type RelatedService struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// BookingDetail is a booking hydrated with its customer, agent, and
// service. The relation fields are always populated; a missing relation is
// a repository error, not a nil to chase at call sites.
type BookingDetail struct {
	domain.Booking
	Customer RelatedUser    `json:"customer"`
	Agent    RelatedUser    `json:"agent"`
	Service  RelatedService `json:"service"`
}

// ListBookingsInput carries all parameters for the booking list endpoint.
type ListBookingsInput struct {
	Status string
	Search string
	Page   int
	Limit  int
	Sort   string
	Order  string
}

// ListBookingsResult is returned by List.
type ListBookingsResult struct {
	Items      []*domain.Booking
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NotesInput carries a notes update. Nil fields are left untouched.
// Customers may set Notes; agents may set AgentNotes.
type NotesInput struct {
	Notes      *string
	AgentNotes *string
}

// RatingInput carries a post-completion rating and review.
type RatingInput struct {
	Rating int
	Review string
}

// Bulk actions accepted by ApplyBulk.
const (
	BulkConfirm             = "confirm"
	BulkComplete            = "complete"
	BulkCancel              = "cancel"
	BulkDelete              = "delete"
	BulkAssignAgent         = "assign_agent"
	BulkUpdatePaymentStatus = "update_payment_status"
)

// BulkInput carries one action applied across a set of booking IDs.
// Value is required by assign_agent (an agent ID) and
// update_payment_status (a payment status).
type BulkInput struct {
	Action string
	IDs    []string
	Value  string
}

// BulkResult reports the outcome of a bulk operation. Exactly one of the
// counts is meaningful depending on the action.
type BulkResult struct {
	UpdatedCount int64 `json:"updated_count,omitempty"`
	DeletedCount int64 `json:"deleted_count,omitempty"`
}

// BookingService defines use-case operations for bookings.
type BookingService interface {
	Create(ctx context.Context, viewer domain.Viewer, input CreateBookingInput) (*BookingDetail, error)
	Get(ctx context.Context, viewer domain.Viewer, id string) (*BookingDetail, error)
	// List is scoped to the viewer: customers see their own bookings,
	// agents their assigned ones, admin tiers everything.
	List(ctx context.Context, viewer domain.Viewer, input ListBookingsInput) (*ListBookingsResult, error)
	// Transition applies a status change through the state machine,
	// appends an audit entry, and returns the hydrated booking.
	Transition(ctx context.Context, viewer domain.Viewer, id string, next domain.BookingStatus) (*BookingDetail, error)
	UpdateNotes(ctx context.Context, viewer domain.Viewer, id string, input NotesInput) (*domain.Booking, error)
	// Rate records a customer rating on a completed booking.
	Rate(ctx context.Context, viewer domain.Viewer, id string, input RatingInput) (*domain.Booking, error)
	// SoftCancel is the admin single-record delete: a status flip to
	// CANCELLED, never a row removal.
	SoftCancel(ctx context.Context, viewer domain.Viewer, id string) error
	// ApplyBulk applies one action across many booking IDs as a single
	// batched store operation. Admin tier only.
	ApplyBulk(ctx context.Context, viewer domain.Viewer, input BulkInput) (*BulkResult, error)
}
