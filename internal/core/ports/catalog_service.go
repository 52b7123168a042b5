package ports

import (
	"context"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// CreateServiceInput carries the data for a new service offering.
type CreateServiceInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
}

// UpdateServiceInput carries a partial service update. Nil fields are left
// untouched.
type UpdateServiceInput struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	IsActive    *bool
}

// ListServicesInput carries all parameters for the service list endpoint.
type ListServicesInput struct {
	AgentID  string
	Category string
	Search   string
	Page     int
	Limit    int
	Sort     string
	Order    string
}

// ListServicesResult is returned by List.
type ListServicesResult struct {
	Items      []*domain.Service
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CatalogService defines use-case operations for service offerings.
// Creation requires the AGENT role; edits and deletes require ownership or
// an admin tier.
type CatalogService interface {
	Create(ctx context.Context, viewer domain.Viewer, input CreateServiceInput) (*domain.Service, error)
	Get(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, input ListServicesInput) (*ListServicesResult, error)
	Update(ctx context.Context, viewer domain.Viewer, id string, input UpdateServiceInput) (*domain.Service, error)
	Delete(ctx context.Context, viewer domain.Viewer, id string) error
}
