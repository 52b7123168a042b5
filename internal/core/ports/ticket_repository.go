package ports

import (
	"context"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// ListTicketsFilter carries all query parameters for listing tickets.
type ListTicketsFilter struct {
	UserID string // non-empty = scoped to the ticket owner
	Status string
	Page   int
	Limit  int
}

// TicketRepository defines persistence operations for support tickets.
type TicketRepository interface {
	Create(ctx context.Context, t *domain.Ticket) error
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter ListTicketsFilter) ([]*domain.Ticket, int64, error)
	// Update persists status, priority, and assignee changes.
	Update(ctx context.Context, t *domain.Ticket) error
	AddComment(ctx context.Context, ticketID string, c domain.TicketComment) error
}
