package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/servibook/booking-platform/internal/api/metrics"
	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
)

type BookingHandler struct {
	bookings ports.BookingService
}

func NewBookingHandler(bookings ports.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	ServiceID     string    `json:"service_id"     validate:"required"`
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Notes         string    `json:"notes"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type notesRequest struct {
	Notes      *string `json:"notes,omitempty"`
	AgentNotes *string `json:"agent_notes,omitempty"`
}

type ratingRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review"`
}

type bulkRequest struct {
	Action string   `json:"action" validate:"required"`
	IDs    []string `json:"ids"`
	Value  string   `json:"value"`
}

// Create handles POST /v1/bookings.
//
// @Summary      Book a service
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.bookings.Create(c.Request().Context(), viewer, ports.CreateBookingInput{
		ServiceID:     req.ServiceID,
		ScheduledDate: req.ScheduledDate,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.BookingsCreatedTotal.WithLabelValues(detail.Service.Category).Inc()
	return respond(c, http.StatusCreated, detail)
}

// List handles GET /v1/bookings — scoped to the viewer's role.
func (h *BookingHandler) List(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	result, err := h.bookings.List(c.Request().Context(), viewer, ports.ListBookingsInput{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
		Sort:   c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
	})
	if err != nil {
		return err
	}

	return respondPage(c, http.StatusOK, result.Items, paginationResponse{
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Get handles GET /v1/bookings/:id — hydrated with customer, agent, and service.
func (h *BookingHandler) Get(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	detail, err := h.bookings.Get(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, detail)
}

// Transition handles PATCH /v1/bookings/:id/status.
//
// @Summary      Change booking status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Booking ID"
// @Param        body  body      transitionRequest  true  "New status"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/bookings/{id}/status [patch]
func (h *BookingHandler) Transition(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.bookings.Transition(c.Request().Context(), viewer, c.Param("id"), domain.BookingStatus(req.Status))
	if err != nil {
		return err
	}

	metrics.TransitionsTotal.WithLabelValues(req.Status).Inc()
	return respond(c, http.StatusOK, detail)
}

// UpdateNotes handles PATCH /v1/bookings/:id/notes.
func (h *BookingHandler) UpdateNotes(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req notesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	booking, err := h.bookings.UpdateNotes(c.Request().Context(), viewer, c.Param("id"), ports.NotesInput{
		Notes:      req.Notes,
		AgentNotes: req.AgentNotes,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, booking)
}

// Rate handles POST /v1/bookings/:id/rating.
func (h *BookingHandler) Rate(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req ratingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.bookings.Rate(c.Request().Context(), viewer, c.Param("id"), ports.RatingInput{
		Rating: req.Rating,
		Review: req.Review,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, booking)
}

// Delete handles DELETE /v1/bookings/:id — the admin soft delete: the
// booking flips to CANCELLED and stays retrievable.
func (h *BookingHandler) Delete(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	if err := h.bookings.SoftCancel(c.Request().Context(), viewer, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, map[string]string{"status": "cancelled"})
}

// Bulk handles POST /v1/bookings/bulk — one action across many IDs.
//
// @Summary      Apply a bulk action to bookings
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkRequest  true  "Action, IDs, and optional value"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/bookings/bulk [post]
func (h *BookingHandler) Bulk(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.bookings.ApplyBulk(c.Request().Context(), viewer, ports.BulkInput{
		Action: req.Action,
		IDs:    req.IDs,
		Value:  req.Value,
	})
	if err != nil {
		return err
	}

	metrics.BulkOperationsTotal.WithLabelValues(req.Action).Inc()
	return respond(c, http.StatusOK, result)
}
