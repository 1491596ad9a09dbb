package service

import (
	"context"

	"github.com/vertexlab/identity-api/internal/core/domain"
	"github.com/vertexlab/identity-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
}

// NewAuditService returns the read side of the audit trail.
func NewAuditService(repo ports.AuditRepository) ports.AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) List(ctx context.Context) ([]domain.AuditRecord, error) {
	return s.repo.List(ctx)
}

func (s *auditService) ListByUsername(ctx context.Context, username string) ([]domain.AuditRecord, error) {
	return s.repo.ListByUsername(ctx, username)
}
