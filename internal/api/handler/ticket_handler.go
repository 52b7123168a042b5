package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
)

type TicketHandler struct {
	tickets ports.TicketService
}

func NewTicketHandler(tickets ports.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

type createTicketRequest struct {
	Subject  string `json:"subject"  validate:"required"`
	Message  string `json:"message"  validate:"required"`
	Category string `json:"category"`
	Priority string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

type updateTicketRequest struct {
	Status     *string `json:"status,omitempty"`
	Priority   *string `json:"priority,omitempty"`
	AssigneeID *string `json:"assignee_id,omitempty"`
}

type ticketCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// Create handles POST /v1/tickets.
func (h *TicketHandler) Create(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ticket, err := h.tickets.Create(c.Request().Context(), viewer, ports.CreateTicketInput{
		Subject:  req.Subject,
		Message:  req.Message,
		Category: req.Category,
		Priority: domain.TicketPriority(req.Priority),
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, ticket)
}

// List handles GET /v1/tickets — users see their own, staff see all.
func (h *TicketHandler) List(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	result, err := h.tickets.List(c.Request().Context(), viewer, ports.ListTicketsInput{
		Status: c.QueryParam("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
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

// Get handles GET /v1/tickets/:id.
func (h *TicketHandler) Get(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.Get(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, ticket)
}

// Update handles PATCH /v1/tickets/:id — admin tier only.
func (h *TicketHandler) Update(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req updateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	input := ports.UpdateTicketInput{AssigneeID: req.AssigneeID}
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TicketPriority(*req.Priority)
		input.Priority = &priority
	}

	ticket, err := h.tickets.Update(c.Request().Context(), viewer, c.Param("id"), input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, ticket)
}

// AddComment handles POST /v1/tickets/:id/comments.
func (h *TicketHandler) AddComment(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req ticketCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ticket, err := h.tickets.AddComment(c.Request().Context(), viewer, c.Param("id"), req.Text)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, ticket)
}
