package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servibook/booking-platform/internal/core/ports"
)

type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type createServiceRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Category    string  `json:"category"    validate:"required"`
}

type updateServiceRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// Create handles POST /v1/services — agents register an offering.
func (h *CatalogHandler) Create(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	svc, err := h.catalog.Create(c.Request().Context(), viewer, ports.CreateServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, svc)
}

// List handles GET /v1/services — public catalog browsing.
func (h *CatalogHandler) List(c echo.Context) error {
	result, err := h.catalog.List(c.Request().Context(), ports.ListServicesInput{
		AgentID:  c.QueryParam("agent_id"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 20),
		Sort:     c.QueryParam("sort"),
		Order:    c.QueryParam("order"),
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

// Get handles GET /v1/services/:id.
func (h *CatalogHandler) Get(c echo.Context) error {
	svc, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, svc)
}

// Update handles PATCH /v1/services/:id — owner or admin tier.
func (h *CatalogHandler) Update(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	var req updateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	svc, err := h.catalog.Update(c.Request().Context(), viewer, c.Param("id"), ports.UpdateServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, svc)
}

// Delete handles DELETE /v1/services/:id — owner or admin tier.
func (h *CatalogHandler) Delete(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}

	if err := h.catalog.Delete(c.Request().Context(), viewer, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, map[string]string{"status": "deleted"})
}
