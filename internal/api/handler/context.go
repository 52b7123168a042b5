package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// ctxViewer extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: both id and role
// must be present, proving the middleware ran.
func ctxViewer(c echo.Context) (domain.Viewer, error) {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" || role == "" {
		return domain.Viewer{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Viewer{ID: id, Role: domain.Role(role)}, nil
}
