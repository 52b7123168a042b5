package ports

import "context"

// Notification events emitted by the booking lifecycle.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCompleted = "booking.completed"
	EventBookingCancelled = "booking.cancelled"
)

// Notifier is a fire-and-forget hook for outbound notifications (email,
// SMS). Delivery failure never fails the originating request.
type Notifier interface {
	Notify(ctx context.Context, event string, payload map[string]any)
}

// NopNotifier discards all notifications. Used in tests and when no
// dispatcher is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, map[string]any) {}
