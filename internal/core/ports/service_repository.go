package ports

import (
	"context"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// ListServicesFilter carries all query parameters for listing services.
type ListServicesFilter struct {
	AgentID    string // optional: scope to one agent
	Category   string
	Search     string // case-insensitive partial match on title
	ActiveOnly bool
	Page       int
	Limit      int
	Sort       string
	Order      string
}

// ServiceRepository defines persistence operations for service offerings.
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, filter ListServicesFilter) ([]*domain.Service, int64, error)
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id string) error
}
