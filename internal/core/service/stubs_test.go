package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

type stubUserRepo struct {
	byID      map[string]*domain.User
	nextID    int
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.byID[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := cloneUser(u)
	if clone.ID == "" {
		r.nextID++
		clone.ID = fmt.Sprintf("user_%d", r.nextID)
	}
	r.byID[clone.ID] = cloneUser(clone)
	return clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var matched []*domain.User
	for _, u := range r.byID {
		if f.Role != "" && string(u.Role) != f.Role {
			continue
		}
		if f.Search != "" {
			nameMatch := strings.Contains(strings.ToLower(u.Name), strings.ToLower(f.Search))
			emailMatch := strings.Contains(strings.ToLower(u.Email), strings.ToLower(f.Search))
			if !nameMatch && !emailMatch {
				continue
			}
		}
		if f.ActiveOnly && !u.IsActive {
			continue
		}
		matched = append(matched, cloneUser(u))
	}
	return matched, int64(len(matched)), nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) SetRole(_ context.Context, id string, role domain.Role) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

type stubServiceRepo struct {
	byID   map[string]*domain.Service
	nextID int
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{byID: make(map[string]*domain.Service)}
}

func cloneService(s *domain.Service) *domain.Service {
	clone := *s
	return &clone
}

func (r *stubServiceRepo) seed(s *domain.Service) *domain.Service {
	r.byID[s.ID] = cloneService(s)
	return s
}

func (r *stubServiceRepo) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	clone := cloneService(s)
	if clone.ID == "" {
		r.nextID++
		clone.ID = fmt.Sprintf("svc_%d", r.nextID)
	}
	r.byID[clone.ID] = cloneService(clone)
	return clone, nil
}

func (r *stubServiceRepo) FindByID(_ context.Context, id string) (*domain.Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return cloneService(s), nil
}

func (r *stubServiceRepo) List(_ context.Context, f ports.ListServicesFilter) ([]*domain.Service, int64, error) {
	var matched []*domain.Service
	for _, s := range r.byID {
		if f.AgentID != "" && s.AgentID != f.AgentID {
			continue
		}
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		if f.ActiveOnly && !s.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, cloneService(s))
	}
	return matched, int64(len(matched)), nil
}

func (r *stubServiceRepo) Update(_ context.Context, s *domain.Service) error {
	if _, ok := r.byID[s.ID]; !ok {
		return domain.ErrServiceNotFound
	}
	r.byID[s.ID] = cloneService(s)
	return nil
}

func (r *stubServiceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrServiceNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubBookingRepo struct {
	byID   map[string]*domain.Booking
	nextID int

	updateManyCalls int // batched writes issued
	deleteManyCalls int
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{byID: make(map[string]*domain.Booking)}
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	clone := *b
	return &clone
}

func (r *stubBookingRepo) seed(b *domain.Booking) *domain.Booking {
	r.byID[b.ID] = cloneBooking(b)
	return b
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	clone := cloneBooking(b)
	if clone.ID == "" {
		r.nextID++
		clone.ID = fmt.Sprintf("bk_%d", r.nextID)
	}
	r.byID[clone.ID] = cloneBooking(clone)
	return clone, nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *stubBookingRepo) List(_ context.Context, f ports.ListBookingsFilter) ([]*domain.Booking, int64, error) {
	var matched []*domain.Booking
	for _, b := range r.byID {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.AgentID != "" && b.AgentID != f.AgentID {
			continue
		}
		if f.Status != "" && string(b.Status) != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(b.Reference), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, cloneBooking(b))
	}
	return matched, int64(len(matched)), nil
}

// UpdateStatus mirrors the compare-and-set semantics of the real repo: a
// non-empty expect that no longer matches reports matched=false.
func (r *stubBookingRepo) UpdateStatus(_ context.Context, id string, expect, next domain.BookingStatus, ts time.Time) (bool, error) {
	b, ok := r.byID[id]
	if !ok {
		return false, domain.ErrBookingNotFound
	}
	if expect != "" && b.Status != expect {
		return false, nil
	}
	b.Status = next
	b.UpdatedAt = ts
	return true, nil
}

func (r *stubBookingRepo) UpdateNotes(_ context.Context, id string, notes, agentNotes *string, ts time.Time) error {
	b, ok := r.byID[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if notes != nil {
		b.Notes = *notes
	}
	if agentNotes != nil {
		b.AgentNotes = *agentNotes
	}
	b.UpdatedAt = ts
	return nil
}

func (r *stubBookingRepo) UpdateRating(_ context.Context, id string, rating int, review string, ts time.Time) error {
	b, ok := r.byID[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.Rating = rating
	b.Review = review
	b.UpdatedAt = ts
	return nil
}

func (r *stubBookingRepo) UpdateMany(_ context.Context, ids []string, set ports.BulkSet, ts time.Time) (int64, error) {
	r.updateManyCalls++
	var count int64
	for _, id := range ids {
		b, ok := r.byID[id]
		if !ok {
			continue
		}
		if set.Status != nil {
			b.Status = *set.Status
		}
		if set.AgentID != nil {
			b.AgentID = *set.AgentID
		}
		if set.PaymentStatus != nil {
			b.PaymentStatus = *set.PaymentStatus
		}
		b.UpdatedAt = ts
		count++
	}
	return count, nil
}

func (r *stubBookingRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.deleteManyCalls++
	var count int64
	for _, id := range ids {
		if _, ok := r.byID[id]; ok {
			delete(r.byID, id)
			count++
		}
	}
	return count, nil
}

func (r *stubBookingRepo) ExistsBetween(_ context.Context, userID, agentID string) (bool, error) {
	for _, b := range r.byID {
		if b.UserID == userID && b.AgentID == agentID {
			return true, nil
		}
	}
	return false, nil
}

type stubAuditRepo struct {
	entries   []*domain.AuditEntry
	appendErr error
}

func (r *stubAuditRepo) Append(_ context.Context, e *domain.AuditEntry) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.entries = append(r.entries, e)
	return nil
}

// byAction returns the recorded entries with the given action.
func (r *stubAuditRepo) byAction(action string) []*domain.AuditEntry {
	var matched []*domain.AuditEntry
	for _, e := range r.entries {
		if e.Action == action {
			matched = append(matched, e)
		}
	}
	return matched
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Notify(_ context.Context, event string, _ map[string]any) {
	n.events = append(n.events, event)
}

type stubTicketRepo struct {
	byID map[string]*domain.Ticket
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{byID: make(map[string]*domain.Ticket)}
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	clone.Comments = append([]domain.TicketComment(nil), t.Comments...)
	return &clone
}

func (r *stubTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	r.byID[t.ID] = cloneTicket(t)
	return nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return cloneTicket(t), nil
}

func (r *stubTicketRepo) List(_ context.Context, f ports.ListTicketsFilter) ([]*domain.Ticket, int64, error) {
	var matched []*domain.Ticket
	for _, t := range r.byID {
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		matched = append(matched, cloneTicket(t))
	}
	return matched, int64(len(matched)), nil
}

func (r *stubTicketRepo) Update(_ context.Context, t *domain.Ticket) error {
	if _, ok := r.byID[t.ID]; !ok {
		return domain.ErrTicketNotFound
	}
	r.byID[t.ID] = cloneTicket(t)
	return nil
}

func (r *stubTicketRepo) AddComment(_ context.Context, ticketID string, c domain.TicketComment) error {
	t, ok := r.byID[ticketID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	t.Comments = append(t.Comments, c)
	return nil
}
