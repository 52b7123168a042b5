package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
)

// TicketService implements support ticketing. Users see only their own
// tickets; agents and admin tiers see everything, and only admin tiers may
// change status or assignment.
type TicketService struct {
	tickets ports.TicketRepository
	log     zerolog.Logger
}

func NewTicketService(tickets ports.TicketRepository, log zerolog.Logger) *TicketService {
	return &TicketService{tickets: tickets, log: log}
}

func (s *TicketService) Create(ctx context.Context, viewer domain.Viewer, input ports.CreateTicketInput) (*domain.Ticket, error) {
	if input.Subject == "" || input.Message == "" {
		return nil, domain.Validation("subject and message are required")
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidTicketPriority(priority) {
		return nil, domain.Validation("invalid priority")
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:        uuid.NewString(),
		UserID:    viewer.ID,
		Subject:   input.Subject,
		Message:   input.Message,
		Category:  input.Category,
		Priority:  priority,
		Status:    domain.TicketOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.log.Info().Str("ticket_id", ticket.ID).Str("user_id", viewer.ID).Msg("ticket created")
	return ticket, nil
}

func (s *TicketService) Get(ctx context.Context, viewer domain.Viewer, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(viewer, ticket) {
		return nil, domain.ErrForbidden
	}
	return ticket, nil
}

func (s *TicketService) List(ctx context.Context, viewer domain.Viewer, input ports.ListTicketsInput) (*ports.ListTicketsResult, error) {
	if input.Status != "" && !domain.ValidTicketStatus(domain.TicketStatus(input.Status)) {
		return nil, domain.Validation("invalid status")
	}

	page, limit := normalizePage(input.Page, input.Limit)
	filter := ports.ListTicketsFilter{
		Status: input.Status,
		Page:   page,
		Limit:  limit,
	}
	if viewer.Role == domain.RoleUser {
		filter.UserID = viewer.ID
	}

	items, total, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListTicketsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Update changes status, priority, or assignment. Admin tier only.
func (s *TicketService) Update(ctx context.Context, viewer domain.Viewer, id string, input ports.UpdateTicketInput) (*domain.Ticket, error) {
	if !viewer.AdminTier() {
		return nil, domain.ErrForbidden
	}

	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !domain.ValidTicketStatus(*input.Status) {
			return nil, domain.Validation("invalid status")
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !domain.ValidTicketPriority(*input.Priority) {
			return nil, domain.Validation("invalid priority")
		}
		ticket.Priority = *input.Priority
	}
	if input.AssigneeID != nil {
		ticket.AssigneeID = *input.AssigneeID
	}
	ticket.UpdatedAt = time.Now().UTC()

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.log.Info().Str("ticket_id", id).Str("actor", viewer.ID).Msg("ticket updated")
	return ticket, nil
}

// AddComment appends a reply. The ticket owner and any agent/admin may
// comment; closed tickets accept no further replies.
func (s *TicketService) AddComment(ctx context.Context, viewer domain.Viewer, id, text string) (*domain.Ticket, error) {
	if text == "" {
		return nil, domain.Validation("comment text is required")
	}

	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(viewer, ticket) {
		return nil, domain.ErrForbidden
	}
	if ticket.Status == domain.TicketClosed {
		return nil, domain.Validation("ticket is closed")
	}

	comment := domain.TicketComment{
		ID:        uuid.NewString(),
		AuthorID:  viewer.ID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tickets.AddComment(ctx, id, comment); err != nil {
		return nil, err
	}

	return s.tickets.FindByID(ctx, id)
}

func (s *TicketService) canView(viewer domain.Viewer, t *domain.Ticket) bool {
	if viewer.AdminTier() || viewer.Role == domain.RoleAgent {
		return true
	}
	return viewer.IsSelf(t.UserID)
}
