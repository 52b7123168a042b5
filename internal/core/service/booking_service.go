package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
)

// BookingService implements the booking lifecycle: creation, state machine
// transitions, notes, ratings, and bulk operations.
type BookingService struct {
	bookings ports.BookingRepository
	services ports.ServiceRepository
	users    ports.UserRepository
	audit    ports.AuditRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewBookingService(
	bookings ports.BookingRepository,
	services ports.ServiceRepository,
	users ports.UserRepository,
	audit ports.AuditRepository,
	notifier ports.Notifier,
	log zerolog.Logger,
) *BookingService {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &BookingService{
		bookings: bookings,
		services: services,
		users:    users,
		audit:    audit,
		notifier: notifier,
		log:      log,
	}
}

// Create books a service for the viewer. Agent and price are resolved from
// the offering; the booking starts in PENDING with payment PENDING.
func (s *BookingService) Create(ctx context.Context, viewer domain.Viewer, input ports.CreateBookingInput) (*ports.BookingDetail, error) {
	if input.ServiceID == "" {
		return nil, domain.Validation("service id is required")
	}
	if input.ScheduledDate.IsZero() {
		return nil, domain.Validation("scheduled date is required")
	}

	svc, err := s.services.FindByID(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, domain.Validation("service is not available")
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		Reference:     generateReference(),
		UserID:        viewer.ID,
		ServiceID:     svc.ID,
		AgentID:       svc.AgentID,
		Status:        domain.StatusPending,
		ScheduledDate: input.ScheduledDate.UTC(),
		Notes:         input.Notes,
		TotalAmount:   svc.Price,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		s.log.Error().Err(err).Str("service_id", svc.ID).Msg("failed to create booking")
		return nil, err
	}

	s.appendAudit(ctx, viewer, domain.AuditBookingCreated, created.ID, map[string]any{
		"reference":  created.Reference,
		"service_id": svc.ID,
	})
	s.notifier.Notify(ctx, ports.EventBookingCreated, notifyPayload(created))

	s.log.Info().Str("booking_id", created.ID).Str("reference", created.Reference).Str("user_id", viewer.ID).Msg("booking created")
	return s.hydrate(ctx, created)
}

// Get returns the hydrated booking when the viewer is its customer, its
// agent, or an admin-tier actor.
func (s *BookingService) Get(ctx context.Context, viewer domain.Viewer, id string) (*ports.BookingDetail, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewBooking(viewer, booking) {
		return nil, domain.ErrForbidden
	}
	return s.hydrate(ctx, booking)
}

// List returns a page of bookings scoped to the viewer: customers see
// their own, agents their assigned ones, admin tiers everything.
func (s *BookingService) List(ctx context.Context, viewer domain.Viewer, input ports.ListBookingsInput) (*ports.ListBookingsResult, error) {
	if input.Status != "" && !domain.ValidStatus(domain.BookingStatus(input.Status)) {
		return nil, domain.Validation("invalid status")
	}

	page, limit := normalizePage(input.Page, input.Limit)
	filter := ports.ListBookingsFilter{
		Status: input.Status,
		Search: input.Search,
		Page:   page,
		Limit:  limit,
		Sort:   input.Sort,
		Order:  input.Order,
	}
	switch {
	case viewer.AdminTier():
		// unscoped
	case viewer.Role == domain.RoleAgent:
		filter.AgentID = viewer.ID
	default:
		filter.UserID = viewer.ID
	}

	items, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListBookingsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Transition applies a status change. The new status is validated against
// the enum (exact, case-sensitive); the edge is validated against the
// state machine unless the viewer is admin tier performing a corrective
// edit. The write is a compare-and-set on the status that was read, so a
// concurrent transition surfaces as ErrConflict instead of silently losing.
// Re-requesting the current status is a no-op: no write, no audit entry.
func (s *BookingService) Transition(ctx context.Context, viewer domain.Viewer, id string, next domain.BookingStatus) (*ports.BookingDetail, error) {
	if !domain.ValidStatus(next) {
		return nil, domain.Validation("invalid status")
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewBooking(viewer, booking) {
		return nil, domain.ErrForbidden
	}

	if booking.Status == next {
		return s.hydrate(ctx, booking)
	}

	if !viewer.AdminTier() {
		if !booking.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, booking.Status, next)
		}
		if !domain.CanTransitionBooking(viewer, booking, next) {
			return nil, domain.ErrForbidden
		}
	}

	prev := booking.Status
	now := time.Now().UTC()
	matched, err := s.bookings.UpdateStatus(ctx, id, prev, next, now)
	if err != nil {
		return nil, fmt.Errorf("transition booking: %w", err)
	}
	if !matched {
		return nil, domain.ErrConflict
	}

	s.appendAudit(ctx, viewer, domain.AuditBookingStatus, id, map[string]any{
		"status": map[string]string{"from": string(prev), "to": string(next)},
	})
	if event := transitionEvent(next); event != "" {
		booking.Status = next
		s.notifier.Notify(ctx, event, notifyPayload(booking))
	}

	s.log.Info().
		Str("booking_id", id).
		Str("from", string(prev)).
		Str("to", string(next)).
		Str("actor", viewer.ID).
		Msg("booking status changed")

	updated, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, updated)
}

// UpdateNotes sets customer notes and/or agent notes. Notes changes are
// independent of booking status and permitted in any state: customers own
// Notes, agents own AgentNotes, admin tiers may set both.
func (s *BookingService) UpdateNotes(ctx context.Context, viewer domain.Viewer, id string, input ports.NotesInput) (*domain.Booking, error) {
	if input.Notes == nil && input.AgentNotes == nil {
		return nil, domain.Validation("no notes fields provided")
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.AdminTier() {
		if input.Notes != nil && !viewer.IsSelf(booking.UserID) {
			return nil, domain.ErrForbidden
		}
		if input.AgentNotes != nil && !viewer.IsSelf(booking.AgentID) {
			return nil, domain.ErrForbidden
		}
	}

	now := time.Now().UTC()
	if err := s.bookings.UpdateNotes(ctx, id, input.Notes, input.AgentNotes, now); err != nil {
		return nil, err
	}

	s.appendAudit(ctx, viewer, domain.AuditBookingNotes, id, notesDiff(input))

	return s.bookings.FindByID(ctx, id)
}

// Rate records a customer rating on a completed booking.
func (s *BookingService) Rate(ctx context.Context, viewer domain.Viewer, id string, input ports.RatingInput) (*domain.Booking, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.Validation("rating must be between 1 and 5")
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsSelf(booking.UserID) {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.StatusCompleted {
		return nil, domain.Validation("only completed bookings can be rated")
	}

	now := time.Now().UTC()
	if err := s.bookings.UpdateRating(ctx, id, input.Rating, input.Review, now); err != nil {
		return nil, err
	}
	return s.bookings.FindByID(ctx, id)
}

// SoftCancel is the admin single-record delete: a status flip to
// CANCELLED, never a row removal. Distinct from the bulk hard delete.
func (s *BookingService) SoftCancel(ctx context.Context, viewer domain.Viewer, id string) error {
	if !viewer.AdminTier() {
		return domain.ErrForbidden
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status == domain.StatusCancelled {
		return nil
	}

	now := time.Now().UTC()
	matched, err := s.bookings.UpdateStatus(ctx, id, booking.Status, domain.StatusCancelled, now)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if !matched {
		return domain.ErrConflict
	}

	s.appendAudit(ctx, viewer, domain.AuditBookingCancelled, id, map[string]any{
		"status": map[string]string{"from": string(booking.Status), "to": string(domain.StatusCancelled)},
	})
	booking.Status = domain.StatusCancelled
	s.notifier.Notify(ctx, ports.EventBookingCancelled, notifyPayload(booking))

	s.log.Info().Str("booking_id", id).Str("actor", viewer.ID).Msg("booking cancelled by admin")
	return nil
}

// ApplyBulk applies one action across a set of booking IDs as a single
// batched store operation. The payload is validated before authorization:
// empty ID sets, unknown actions, and missing values are rejected as 400s
// for any caller, and only structurally valid requests from outside the
// admin tier are refused. Nothing reaches the store until both checks
// pass. One audit entry records the whole batch; its append is not
// transactional with the mutation (spilled appends are logged, not rolled
// back).
func (s *BookingService) ApplyBulk(ctx context.Context, viewer domain.Viewer, input ports.BulkInput) (*ports.BulkResult, error) {
	if len(input.IDs) == 0 {
		return nil, domain.Validation("ids are required")
	}

	var set ports.BulkSet
	remove := false

	switch input.Action {
	case ports.BulkConfirm:
		status := domain.StatusConfirmed
		set.Status = &status
	case ports.BulkComplete:
		status := domain.StatusCompleted
		set.Status = &status
	case ports.BulkCancel:
		status := domain.StatusCancelled
		set.Status = &status
	case ports.BulkDelete:
		remove = true
	case ports.BulkAssignAgent:
		if input.Value == "" {
			return nil, domain.Validation("Agent ID is required for assignment")
		}
		agentID := input.Value
		set.AgentID = &agentID
	case ports.BulkUpdatePaymentStatus:
		payment := domain.PaymentStatus(input.Value)
		if !domain.ValidPaymentStatus(payment) {
			return nil, domain.Validation("invalid payment status")
		}
		set.PaymentStatus = &payment
	default:
		return nil, domain.Validation("invalid action")
	}

	if !viewer.AdminTier() {
		return nil, domain.ErrForbidden
	}

	if remove {
		deleted, err := s.bookings.DeleteMany(ctx, input.IDs)
		if err != nil {
			return nil, fmt.Errorf("bulk delete: %w", err)
		}
		s.appendAudit(ctx, viewer, domain.AuditBookingBulk, "", map[string]any{
			"action": input.Action,
			"ids":    input.IDs,
			"count":  deleted,
		})
		s.log.Info().Str("action", input.Action).Int64("count", deleted).Str("actor", viewer.ID).Msg("bulk booking action applied")
		return &ports.BulkResult{DeletedCount: deleted}, nil
	}

	updated, err := s.bookings.UpdateMany(ctx, input.IDs, set, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("bulk update: %w", err)
	}

	s.appendAudit(ctx, viewer, domain.AuditBookingBulk, "", map[string]any{
		"action": input.Action,
		"ids":    input.IDs,
		"value":  input.Value,
		"count":  updated,
	})

	s.log.Info().Str("action", input.Action).Int64("count", updated).Str("actor", viewer.ID).Msg("bulk booking action applied")
	return &ports.BulkResult{UpdatedCount: updated}, nil
}

// hydrate populates the customer, agent, and service relations of a
// booking. A missing relation is surfaced as an error rather than a
// partially populated detail.
func (s *BookingService) hydrate(ctx context.Context, b *domain.Booking) (*ports.BookingDetail, error) {
	customer, err := s.users.FindByID(ctx, b.UserID)
	if err != nil {
		return nil, fmt.Errorf("hydrate booking %s: customer: %w", b.ID, err)
	}
	agent, err := s.users.FindByID(ctx, b.AgentID)
	if err != nil {
		return nil, fmt.Errorf("hydrate booking %s: agent: %w", b.ID, err)
	}
	svc, err := s.services.FindByID(ctx, b.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("hydrate booking %s: service: %w", b.ID, err)
	}

	return &ports.BookingDetail{
		Booking:  *b,
		Customer: ports.RelatedUser{ID: customer.ID, Name: customer.Name, Email: customer.Email},
		Agent:    ports.RelatedUser{ID: agent.ID, Name: agent.Name, Email: agent.Email},
		Service:  ports.RelatedService{ID: svc.ID, Title: svc.Title, Category: svc.Category, Price: svc.Price},
	}, nil
}

func (s *BookingService) appendAudit(ctx context.Context, viewer domain.Viewer, action, entityID string, details map[string]any) {
	entry := &domain.AuditEntry{
		UserID:     viewer.ID,
		Action:     action,
		EntityType: "booking",
		EntityID:   entityID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("action", action).Str("entity_id", entityID).Msg("failed to append audit entry")
	}
}

func transitionEvent(status domain.BookingStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return ports.EventBookingConfirmed
	case domain.StatusCompleted:
		return ports.EventBookingCompleted
	case domain.StatusCancelled:
		return ports.EventBookingCancelled
	}
	return ""
}

func notifyPayload(b *domain.Booking) map[string]any {
	return map[string]any{
		"booking_id": b.ID,
		"reference":  b.Reference,
		"user_id":    b.UserID,
		"agent_id":   b.AgentID,
		"status":     string(b.Status),
	}
}

func notesDiff(input ports.NotesInput) map[string]any {
	diff := map[string]any{}
	if input.Notes != nil {
		diff["notes"] = *input.Notes
	}
	if input.AgentNotes != nil {
		diff["agent_notes"] = *input.AgentNotes
	}
	return diff
}

// generateReference returns a booking reference in the format BK-XXXXXXXX.
func generateReference() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("BK-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("BK-%08X", b)
}
