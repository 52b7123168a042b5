package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateUserRequest struct {
	Name     *string               `json:"name,omitempty"`
	Phone    *string               `json:"phone,omitempty"`
	Settings *domain.SettingsPatch `json:"settings,omitempty"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER AGENT ADMIN SUPER_ADMIN"`
}

// List handles GET /v1/users — admin tier only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page (1-based)"
// @Param        limit   query  int     false  "Page size (max 100)"
// @Param        search  query  string  false  "Case-insensitive match on name or email"
// @Param        role    query  string  false  "Filter by role"
// @Success      200  {object}  envelope
// @Failure      403  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	result, err := h.users.List(c.Request().Context(), viewer, ports.ListUsersInput{
		Role:   c.QueryParam("role"),
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

// Get handles GET /v1/users/:id — returns the projection the viewer may see.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  envelope
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	view, err := h.users.GetProfile(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, view)
}

// Update handles PATCH /v1/users/:id — partial profile and settings update.
func (h *UserHandler) Update(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), viewer, c.Param("id"), ports.UpdateUserInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Settings: req.Settings,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, user)
}

// ChangeRole handles PATCH /v1/users/:id/role.
func (h *UserHandler) ChangeRole(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.ChangeRole(c.Request().Context(), viewer, c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:id — soft delete. Self-deletion is
// always rejected by the service.
func (h *UserHandler) Delete(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	if err := h.users.Deactivate(c.Request().Context(), viewer, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, map[string]string{"status": "deactivated"})
}
