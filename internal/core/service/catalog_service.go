package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
)

// CatalogService implements CRUD for agent-owned service offerings.
type CatalogService struct {
	services ports.ServiceRepository
	audit    ports.AuditRepository
	log      zerolog.Logger
}

func NewCatalogService(services ports.ServiceRepository, audit ports.AuditRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{services: services, audit: audit, log: log}
}

// Create registers a new offering owned by the viewer, who must be an
// agent (admin tiers create on their own behalf as well).
func (s *CatalogService) Create(ctx context.Context, viewer domain.Viewer, input ports.CreateServiceInput) (*domain.Service, error) {
	if viewer.Role != domain.RoleAgent && !viewer.AdminTier() {
		return nil, domain.ErrForbidden
	}
	if input.Title == "" {
		return nil, domain.Validation("title is required")
	}
	if input.Price <= 0 {
		return nil, domain.Validation("price must be greater than 0")
	}

	now := time.Now().UTC()
	svc := &domain.Service{
		AgentID:     viewer.ID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.services.Create(ctx, svc)
	if err != nil {
		return nil, err
	}

	s.appendAudit(ctx, viewer, domain.AuditServiceCreated, created.ID, map[string]any{"title": created.Title})
	s.log.Info().Str("service_id", created.ID).Str("agent_id", viewer.ID).Msg("service created")
	return created, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	return s.services.FindByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context, input ports.ListServicesInput) (*ports.ListServicesResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)
	items, total, err := s.services.List(ctx, ports.ListServicesFilter{
		AgentID:    input.AgentID,
		Category:   input.Category,
		Search:     input.Search,
		ActiveOnly: true,
		Page:       page,
		Limit:      limit,
		Sort:       input.Sort,
		Order:      input.Order,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListServicesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Update patches an offering. Only its owning agent or an admin tier may
// edit it.
func (s *CatalogService) Update(ctx context.Context, viewer domain.Viewer, id string, input ports.UpdateServiceInput) (*domain.Service, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanManageService(viewer, svc) {
		return nil, domain.ErrForbidden
	}

	changed := map[string]any{}
	if input.Title != nil {
		svc.Title = *input.Title
		changed["title"] = *input.Title
	}
	if input.Description != nil {
		svc.Description = *input.Description
		changed["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, domain.Validation("price must be greater than 0")
		}
		svc.Price = *input.Price
		changed["price"] = *input.Price
	}
	if input.Category != nil {
		svc.Category = *input.Category
		changed["category"] = *input.Category
	}
	if input.IsActive != nil {
		svc.IsActive = *input.IsActive
		changed["is_active"] = *input.IsActive
	}
	if len(changed) == 0 {
		return svc, nil
	}
	svc.UpdatedAt = time.Now().UTC()

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}

	s.appendAudit(ctx, viewer, domain.AuditServiceUpdated, id, changed)
	return svc, nil
}

// Delete removes an offering. Only its owning agent or an admin tier.
func (s *CatalogService) Delete(ctx context.Context, viewer domain.Viewer, id string) error {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanManageService(viewer, svc) {
		return domain.ErrForbidden
	}

	if err := s.services.Delete(ctx, id); err != nil {
		return err
	}

	s.appendAudit(ctx, viewer, domain.AuditServiceDeleted, id, map[string]any{"title": svc.Title})
	s.log.Info().Str("service_id", id).Str("actor", viewer.ID).Msg("service deleted")
	return nil
}

func (s *CatalogService) appendAudit(ctx context.Context, viewer domain.Viewer, action, entityID string, details map[string]any) {
	entry := &domain.AuditEntry{
		UserID:     viewer.ID,
		Action:     action,
		EntityType: "service",
		EntityID:   entityID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("action", action).Str("entity_id", entityID).Msg("failed to append audit entry")
	}
}
