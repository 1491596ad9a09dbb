package ports

import (
	"context"

	"github.com/vertexlab/identity-api/internal/core/domain"
)

// AuditService exposes read access to the audit trail.
type AuditService interface {
	List(ctx context.Context) ([]domain.AuditRecord, error)
	ListByUsername(ctx context.Context, username string) ([]domain.AuditRecord, error)
}
