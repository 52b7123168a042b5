package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
)

type bookingFixture struct {
	bookings *stubBookingRepo
	services *stubServiceRepo
	users    *stubUserRepo
	audit    *stubAuditRepo
	notifier *recordingNotifier
	svc      *BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings: newStubBookingRepo(),
		services: newStubServiceRepo(),
		users:    newStubUserRepo(),
		audit:    &stubAuditRepo{},
		notifier: &recordingNotifier{},
	}
	f.svc = NewBookingService(f.bookings, f.services, f.users, f.audit, f.notifier, discardLogger)

	f.users.seed(&domain.User{ID: "u1", Name: "Luis", Email: "luis@example.com", Role: domain.RoleUser, IsActive: true})
	f.users.seed(&domain.User{ID: "ag1", Name: "Carla", Email: "carla@example.com", Role: domain.RoleAgent, IsActive: true})
	f.services.seed(&domain.Service{
		ID: "svc_1", AgentID: "ag1", Title: "Deep Cleaning", Category: "cleaning", Price: 80, IsActive: true,
	})
	return f
}

func (f *bookingFixture) seedBooking(id string, status domain.BookingStatus) *domain.Booking {
	return f.bookings.seed(&domain.Booking{
		ID:            id,
		Reference:     "BK-TEST0001",
		UserID:        "u1",
		ServiceID:     "svc_1",
		AgentID:       "ag1",
		Status:        status,
		PaymentStatus: domain.PaymentPending,
		TotalAmount:   80,
		ScheduledDate: time.Now().UTC().AddDate(0, 0, 3),
	})
}

var (
	customer = domain.Viewer{ID: "u1", Role: domain.RoleUser}
	agent    = domain.Viewer{ID: "ag1", Role: domain.RoleAgent}
	admin    = domain.Viewer{ID: "adm1", Role: domain.RoleAdmin}
)

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestBookingService_Create_Success(t *testing.T) {
	f := newBookingFixture()

	detail, err := f.svc.Create(context.Background(), customer, ports.CreateBookingInput{
		ServiceID:     "svc_1",
		ScheduledDate: time.Now().UTC().AddDate(0, 0, 1),
		Notes:         "ring twice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok, _ := regexp.MatchString(`^BK-[0-9A-F]{8}$`, detail.Reference); !ok {
		t.Errorf("reference format wrong: %s", detail.Reference)
	}
	if detail.Status != domain.StatusPending {
		t.Errorf("new bookings must start PENDING, got %s", detail.Status)
	}
	if detail.PaymentStatus != domain.PaymentPending {
		t.Errorf("payment must start PENDING, got %s", detail.PaymentStatus)
	}
	if detail.AgentID != "ag1" || detail.TotalAmount != 80 {
		t.Error("agent and price must be resolved from the service offering")
	}
	if detail.Customer.Name != "Luis" || detail.Agent.Name != "Carla" || detail.Service.Title != "Deep Cleaning" {
		t.Error("created booking must be hydrated with its relations")
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0] != ports.EventBookingCreated {
		t.Errorf("expected one booking.created notification, got %v", f.notifier.events)
	}
	if len(f.audit.byAction(domain.AuditBookingCreated)) != 1 {
		t.Error("creation must append one audit entry")
	}
}

func TestBookingService_Create_InactiveService(t *testing.T) {
	f := newBookingFixture()
	f.services.seed(&domain.Service{ID: "svc_off", AgentID: "ag1", Title: "Gone", Price: 10, IsActive: false})

	_, err := f.svc.Create(context.Background(), customer, ports.CreateBookingInput{
		ServiceID:     "svc_off",
		ScheduledDate: time.Now().UTC().AddDate(0, 0, 1),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for inactive service, got %v", err)
	}
}

func TestBookingService_Create_UnknownService(t *testing.T) {
	f := newBookingFixture()

	_, err := f.svc.Create(context.Background(), customer, ports.CreateBookingInput{
		ServiceID:     "missing",
		ScheduledDate: time.Now().UTC().AddDate(0, 0, 1),
	})
	if !errors.Is(err, domain.ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Get / List scoping
// ---------------------------------------------------------------------------

func TestBookingService_Get_ForbiddenForStrangers(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)

	_, err := f.svc.Get(context.Background(), domain.Viewer{ID: "u99", Role: domain.RoleUser}, "b1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestBookingService_List_ScopedByRole(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)
	f.bookings.seed(&domain.Booking{ID: "b2", UserID: "u_other", AgentID: "ag_other", Status: domain.StatusPending})

	res, err := f.svc.List(context.Background(), customer, ports.ListBookingsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Errorf("customer must see only own bookings: expected 1, got %d", res.Total)
	}

	res, err = f.svc.List(context.Background(), agent, ports.ListBookingsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Errorf("agent must see only assigned bookings: expected 1, got %d", res.Total)
	}

	res, err = f.svc.List(context.Background(), admin, ports.ListBookingsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 {
		t.Errorf("admin must see everything: expected 2, got %d", res.Total)
	}
}

func TestBookingService_List_InvalidStatusRejected(t *testing.T) {
	f := newBookingFixture()

	_, err := f.svc.List(context.Background(), admin, ports.ListBookingsInput{Status: "confirmed"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("lowercase status must be rejected, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Transition
// ---------------------------------------------------------------------------

func TestBookingService_Transition_AgentConfirms(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)

	detail, err := f.svc.Transition(context.Background(), agent, "b1", domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Status != domain.StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", detail.Status)
	}

	entries := f.audit.byAction(domain.AuditBookingStatus)
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	diff, _ := entries[0].Details["status"].(map[string]string)
	if diff["from"] != "PENDING" || diff["to"] != "CONFIRMED" {
		t.Errorf("audit diff wrong: %v", entries[0].Details)
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0] != ports.EventBookingConfirmed {
		t.Errorf("expected booking.confirmed notification, got %v", f.notifier.events)
	}
}

func TestBookingService_Transition_InvalidStatusLeavesBookingUnmodified(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)

	_, err := f.svc.Transition(context.Background(), agent, "b1", "DONE")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	stored, _ := f.bookings.FindByID(context.Background(), "b1")
	if stored.Status != domain.StatusPending {
		t.Errorf("booking must stay PENDING after a rejected status, got %s", stored.Status)
	}
	if len(f.audit.entries) != 0 {
		t.Error("rejected transitions must not be audited")
	}
}

func TestBookingService_Transition_InvalidEdge(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)

	// PENDING -> COMPLETED skips CONFIRMED and is not a legal edge.
	_, err := f.svc.Transition(context.Background(), agent, "b1", domain.StatusCompleted)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestBookingService_Transition_CustomerMayOnlyCancel(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)

	if _, err := f.svc.Transition(context.Background(), customer, "b1", domain.StatusConfirmed); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("customer confirm: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Transition(context.Background(), customer, "b1", domain.StatusCancelled); err != nil {
		t.Errorf("customer cancel: unexpected error %v", err)
	}
}

func TestBookingService_Transition_TerminalBlockedForAgents(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusCompleted)

	_, err := f.svc.Transition(context.Background(), agent, "b1", domain.StatusCancelled)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition out of COMPLETED, got %v", err)
	}
}

func TestBookingService_Transition_AdminOverridesTerminal(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusCompleted)

	detail, err := f.svc.Transition(context.Background(), admin, "b1", domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("admin corrective edit must be allowed: %v", err)
	}
	if detail.Status != domain.StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", detail.Status)
	}
}

func TestBookingService_Transition_SameStatusIsNoOp(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusConfirmed)

	detail, err := f.svc.Transition(context.Background(), agent, "b1", domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("replaying the current status must succeed: %v", err)
	}
	if detail.Status != domain.StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", detail.Status)
	}
	if len(f.audit.entries) != 0 {
		t.Error("a same-status replay must not append an audit entry")
	}
	if len(f.notifier.events) != 0 {
		t.Error("a same-status replay must not notify")
	}
}

func TestBookingService_Transition_LostRaceIsConflict(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)

	// Another actor wins the race between the read and the write.
	f.bookings.byID["b1"].Status = domain.StatusCancelled

	_, err := f.svc.Transition(context.Background(), agent, "b1", domain.StatusConfirmed)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict on a lost compare-and-set, got %v", err)
	}
	if len(f.audit.entries) != 0 {
		t.Error("a lost race must not be audited")
	}
}

// ---------------------------------------------------------------------------
// Notes and rating
// ---------------------------------------------------------------------------

func TestBookingService_UpdateNotes_OwnershipPerField(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusConfirmed)

	txt := "please call ahead"
	if _, err := f.svc.UpdateNotes(context.Background(), customer, "b1", ports.NotesInput{Notes: &txt}); err != nil {
		t.Fatalf("customer updating own notes: %v", err)
	}
	if _, err := f.svc.UpdateNotes(context.Background(), customer, "b1", ports.NotesInput{AgentNotes: &txt}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("customer must not set agent notes, got %v", err)
	}
	if _, err := f.svc.UpdateNotes(context.Background(), agent, "b1", ports.NotesInput{AgentNotes: &txt}); err != nil {
		t.Fatalf("agent updating agent notes: %v", err)
	}
	if _, err := f.svc.UpdateNotes(context.Background(), agent, "b1", ports.NotesInput{Notes: &txt}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("agent must not set customer notes, got %v", err)
	}
	if _, err := f.svc.UpdateNotes(context.Background(), admin, "b1", ports.NotesInput{Notes: &txt, AgentNotes: &txt}); err != nil {
		t.Fatalf("admin may set both: %v", err)
	}
}

func TestBookingService_Rate_OnlyCompleted(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusConfirmed)

	_, err := f.svc.Rate(context.Background(), customer, "b1", ports.RatingInput{Rating: 5})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("rating a non-completed booking must fail, got %v", err)
	}
}

func TestBookingService_Rate_Success(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusCompleted)

	booking, err := f.svc.Rate(context.Background(), customer, "b1", ports.RatingInput{Rating: 4, Review: "solid work"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Rating != 4 || booking.Review != "solid work" {
		t.Errorf("rating not persisted: %+v", booking)
	}

	if _, err := f.svc.Rate(context.Background(), agent, "b1", ports.RatingInput{Rating: 5}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("only the customer may rate, got %v", err)
	}
	if _, err := f.svc.Rate(context.Background(), customer, "b1", ports.RatingInput{Rating: 6}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("rating must be 1-5, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// SoftCancel
// ---------------------------------------------------------------------------

func TestBookingService_SoftCancel_FlipsStatusInsteadOfDeleting(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusConfirmed)

	if err := f.svc.SoftCancel(context.Background(), admin, "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := f.bookings.FindByID(context.Background(), "b1")
	if err != nil {
		t.Fatal("the record must still exist after a soft cancel")
	}
	if stored.Status != domain.StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", stored.Status)
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0] != ports.EventBookingCancelled {
		t.Errorf("expected booking.cancelled notification, got %v", f.notifier.events)
	}
}

func TestBookingService_SoftCancel_AdminOnly(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusConfirmed)

	if err := f.svc.SoftCancel(context.Background(), agent, "b1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestBookingService_SoftCancel_AlreadyCancelledIsNoOp(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusCancelled)

	if err := f.svc.SoftCancel(context.Background(), admin, "b1"); err != nil {
		t.Fatalf("cancelling a cancelled booking must be a no-op: %v", err)
	}
	if len(f.audit.entries) != 0 {
		t.Error("a no-op cancel must not be audited")
	}
}

// ---------------------------------------------------------------------------
// ApplyBulk
// ---------------------------------------------------------------------------

func TestBookingService_ApplyBulk_AdminOnly(t *testing.T) {
	f := newBookingFixture()

	// Structurally valid payload from a non-admin: forbidden, no store call.
	_, err := f.svc.ApplyBulk(context.Background(), agent, ports.BulkInput{Action: ports.BulkConfirm, IDs: []string{"b1"}})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if f.bookings.updateManyCalls != 0 || f.bookings.deleteManyCalls != 0 {
		t.Error("a forbidden bulk request must never reach the store")
	}
}

func TestBookingService_ApplyBulk_ValidationPrecedesAuthorization(t *testing.T) {
	f := newBookingFixture()

	// A malformed payload is a 400 regardless of who sent it: an agent
	// omitting the assignee still gets the assignment message, not a 403.
	_, err := f.svc.ApplyBulk(context.Background(), agent, ports.BulkInput{
		Action: ports.BulkAssignAgent,
		IDs:    []string{"b1", "b2"},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "Agent ID is required for assignment" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	if _, err := f.svc.ApplyBulk(context.Background(), customer, ports.BulkInput{Action: "archive", IDs: []string{"b1"}}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for unknown action, got %v", err)
	}
	if _, err := f.svc.ApplyBulk(context.Background(), agent, ports.BulkInput{Action: ports.BulkConfirm}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for empty ids, got %v", err)
	}
	if f.bookings.updateManyCalls != 0 || f.bookings.deleteManyCalls != 0 {
		t.Error("rejected requests must never reach the store")
	}
}

func TestBookingService_ApplyBulk_EmptyIDsNeverReachStore(t *testing.T) {
	f := newBookingFixture()

	_, err := f.svc.ApplyBulk(context.Background(), admin, ports.BulkInput{Action: ports.BulkConfirm})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.bookings.updateManyCalls != 0 || f.bookings.deleteManyCalls != 0 {
		t.Error("validation must happen before the store is contacted")
	}
}

func TestBookingService_ApplyBulk_UnknownActionNeverReachesStore(t *testing.T) {
	f := newBookingFixture()

	_, err := f.svc.ApplyBulk(context.Background(), admin, ports.BulkInput{Action: "archive", IDs: []string{"b1"}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.bookings.updateManyCalls != 0 || f.bookings.deleteManyCalls != 0 {
		t.Error("unknown actions must never reach the store")
	}
}

func TestBookingService_ApplyBulk_AssignAgentRequiresValue(t *testing.T) {
	f := newBookingFixture()

	_, err := f.svc.ApplyBulk(context.Background(), admin, ports.BulkInput{Action: ports.BulkAssignAgent, IDs: []string{"b1"}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "Agent ID is required for assignment" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestBookingService_ApplyBulk_ConfirmBatchesOneWrite(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)
	f.seedBooking("b2", domain.StatusConfirmed)
	f.seedBooking("b3", domain.StatusPending)

	res, err := f.svc.ApplyBulk(context.Background(), admin, ports.BulkInput{
		Action: ports.BulkConfirm,
		IDs:    []string{"b1", "b2", "b3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The count covers every id acted on, including b2 which was already
	// CONFIRMED before the batch.
	if res.UpdatedCount != 3 {
		t.Errorf("expected updated_count 3, got %d", res.UpdatedCount)
	}
	if f.bookings.updateManyCalls != 1 {
		t.Errorf("the batch must be a single store write, got %d", f.bookings.updateManyCalls)
	}
	for _, id := range []string{"b1", "b2", "b3"} {
		b, _ := f.bookings.FindByID(context.Background(), id)
		if b.Status != domain.StatusConfirmed {
			t.Errorf("%s: expected CONFIRMED, got %s", id, b.Status)
		}
	}
	if len(f.audit.byAction(domain.AuditBookingBulk)) != 1 {
		t.Error("a bulk action must append exactly one audit entry")
	}
}

func TestBookingService_ApplyBulk_DeleteReportsDeletedCount(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)
	f.seedBooking("b2", domain.StatusPending)
	f.seedBooking("b3", domain.StatusPending)

	res, err := f.svc.ApplyBulk(context.Background(), admin, ports.BulkInput{
		Action: ports.BulkDelete,
		IDs:    []string{"b1", "b2", "b3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DeletedCount != 3 {
		t.Errorf("expected deleted_count 3, got %d", res.DeletedCount)
	}
	if f.bookings.deleteManyCalls != 1 {
		t.Errorf("the delete must be a single batched call, got %d", f.bookings.deleteManyCalls)
	}
	if _, err := f.bookings.FindByID(context.Background(), "b1"); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Error("bulk delete removes rows, unlike the single-record soft cancel")
	}
}

func TestBookingService_ApplyBulk_AssignAgent(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)

	res, err := f.svc.ApplyBulk(context.Background(), admin, ports.BulkInput{
		Action: ports.BulkAssignAgent,
		IDs:    []string{"b1"},
		Value:  "ag9",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UpdatedCount != 1 {
		t.Errorf("expected updated_count 1, got %d", res.UpdatedCount)
	}
	b, _ := f.bookings.FindByID(context.Background(), "b1")
	if b.AgentID != "ag9" {
		t.Errorf("expected agent ag9, got %s", b.AgentID)
	}
}

func TestBookingService_ApplyBulk_PaymentStatusValidated(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)

	_, err := f.svc.ApplyBulk(context.Background(), admin, ports.BulkInput{
		Action: ports.BulkUpdatePaymentStatus,
		IDs:    []string{"b1"},
		Value:  "VOID",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown payment status, got %v", err)
	}

	res, err := f.svc.ApplyBulk(context.Background(), admin, ports.BulkInput{
		Action: ports.BulkUpdatePaymentStatus,
		IDs:    []string{"b1"},
		Value:  "PAID",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UpdatedCount != 1 {
		t.Errorf("expected updated_count 1, got %d", res.UpdatedCount)
	}
	b, _ := f.bookings.FindByID(context.Background(), "b1")
	if b.PaymentStatus != domain.PaymentPaid {
		t.Errorf("expected PAID, got %s", b.PaymentStatus)
	}
}

func TestBookingService_AuditFailureDoesNotFailMutation(t *testing.T) {
	f := newBookingFixture()
	f.seedBooking("b1", domain.StatusPending)
	f.audit.appendErr = errors.New("audit store down")

	detail, err := f.svc.Transition(context.Background(), agent, "b1", domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("a failed audit append must not fail the transition: %v", err)
	}
	if detail.Status != domain.StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", detail.Status)
	}
}
