package ports

import (
	"context"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// CreateTicketInput carries the data for a new support ticket.
type CreateTicketInput struct {
	Subject  string
	Message  string
	Category string
	Priority domain.TicketPriority
}

// UpdateTicketInput carries a partial ticket update (admin tier only).
type UpdateTicketInput struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	AssigneeID *string
}

// ListTicketsInput carries all parameters for the ticket list endpoint.
type ListTicketsInput struct {
	Status string
	Page   int
	Limit  int
}

// ListTicketsResult is returned by List.
type ListTicketsResult struct {
	Items      []*domain.Ticket
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TicketService defines use-case operations for support tickets. Users see
// only their own tickets; agents and admin tiers see all of them.
type TicketService interface {
	Create(ctx context.Context, viewer domain.Viewer, input CreateTicketInput) (*domain.Ticket, error)
	Get(ctx context.Context, viewer domain.Viewer, id string) (*domain.Ticket, error)
	List(ctx context.Context, viewer domain.Viewer, input ListTicketsInput) (*ListTicketsResult, error)
	Update(ctx context.Context, viewer domain.Viewer, id string, input UpdateTicketInput) (*domain.Ticket, error)
	AddComment(ctx context.Context, viewer domain.Viewer, id, text string) (*domain.Ticket, error)
}
