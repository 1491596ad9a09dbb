package ports

import (
	"context"

	"github.com/vertexlab/identity-api/internal/core/domain"
)

// AuditRepository persists the append-only audit trail.
type AuditRepository interface {
	Append(ctx context.Context, record domain.AuditRecord) error
	List(ctx context.Context) ([]domain.AuditRecord, error)
	ListByUsername(ctx context.Context, username string) ([]domain.AuditRecord, error)
}

// AuditSink records security-relevant actions without blocking the caller.
// Implementations are best-effort: a failed append is surfaced as a warning
// and a metric, never as an error on the primary operation.
type AuditSink interface {
	Record(username, description string)
}
