package ports

import (
	"context"

	"github.com/vertexlab/identity-api/internal/core/domain"
)

type MessageService interface {
	// Send delivers a message from sender to another registered user.
	// Returns domain.ErrSelfMessage when sender addresses themselves and
	// domain.ErrReceiverNotFound when the receiver is not registered.
	Send(ctx context.Context, sender, receiver, text string) (*domain.Message, error)

	List(ctx context.Context) ([]domain.Message, error)
	ListByParticipant(ctx context.Context, username string) ([]domain.Message, error)
}
