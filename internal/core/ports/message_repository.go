package ports

import (
	"context"

	"github.com/vertexlab/identity-api/internal/core/domain"
)

// MessageRepository persists user-to-user messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	List(ctx context.Context) ([]domain.Message, error)
	ListByParticipant(ctx context.Context, username string) ([]domain.Message, error)
}
