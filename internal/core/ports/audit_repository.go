package ports

import (
	"context"

	"github.com/servibook/booking-platform/internal/core/domain"
)

// AuditRepository appends to the immutable audit trail. There is no update
// or delete: entries are written once and kept forever.
type AuditRepository interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
}
