package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// validTransitions defines the allowed state machine transitions.
// COMPLETED and CANCELLED are terminal: they have no outgoing edges.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// ValidStatus reports whether s is a member of the status enum.
// Matching is case-sensitive.
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from s to next is valid for
// non-admin actors. Admin-tier actors bypass this table for corrective edits.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s permits no further non-admin transitions.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PaymentStatus represents the payment state of a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// ValidPaymentStatus reports whether p is a member of the payment enum.
func ValidPaymentStatus(p PaymentStatus) bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// Booking joins a customer, a service, and the service's agent
// (denormalized so agent-scoped queries need no join).
type Booking struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	Reference     string        `json:"reference" bson:"reference"`
	UserID        string        `json:"user_id" bson:"user_id"`
	ServiceID     string        `json:"service_id" bson:"service_id"`
	AgentID       string        `json:"agent_id" bson:"agent_id"`
	Status        BookingStatus `json:"status" bson:"status"`
	ScheduledDate time.Time     `json:"scheduled_date" bson:"scheduled_date"`
	Notes         string        `json:"notes,omitempty" bson:"notes,omitempty"`
	AgentNotes    string        `json:"agent_notes,omitempty" bson:"agent_notes,omitempty"`
	TotalAmount   float64       `json:"total_amount" bson:"total_amount"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`
	Rating        int           `json:"rating,omitempty" bson:"rating,omitempty"`
	Review        string        `json:"review,omitempty" bson:"review,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}
