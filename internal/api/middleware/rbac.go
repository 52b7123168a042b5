package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// RequireRole enforces a minimum role rank on a route group. Role ordering
// goes through domain.RoleRank, never ad hoc role lists.
func RequireRole(minimum domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if domain.RoleRank(domain.Role(role)) < domain.RoleRank(minimum) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
