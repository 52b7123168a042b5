package handler

import "github.com/labstack/echo/v4"

// envelope is the standard success body: {success, data, pagination?}.
// Errors never pass through here; they are rendered by the central error
// handler as {success:false, error}.
type envelope struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data"`
	Pagination *paginationResponse `json:"pagination,omitempty"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func respondPage(c echo.Context, status int, data any, p paginationResponse) error {
	return c.JSON(status, envelope{Success: true, Data: data, Pagination: &p})
}
