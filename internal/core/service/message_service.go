package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vertexlab/identity-api/internal/core/domain"
	"github.com/vertexlab/identity-api/internal/core/ports"
)

type messageService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	audit    ports.AuditSink
}

// NewMessageService wires the user-to-user message exchange.
func NewMessageService(messages ports.MessageRepository, users ports.UserRepository, audit ports.AuditSink) ports.MessageService {
	return &messageService{messages: messages, users: users, audit: audit}
}

func (s *messageService) Send(ctx context.Context, sender, receiver, text string) (*domain.Message, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", domain.ErrValidation)
	}
	if sender == receiver {
		return nil, domain.ErrSelfMessage
	}

	if _, err := s.users.FindByUsername(ctx, receiver); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrReceiverNotFound
		}
		return nil, err
	}

	created, err := s.messages.Create(ctx, &domain.Message{
		SenderUsername:   sender,
		ReceiverUsername: receiver,
		Text:             text,
	})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	s.audit.Record(sender, "New message sent to "+receiver)
	return created, nil
}

func (s *messageService) List(ctx context.Context) ([]domain.Message, error) {
	return s.messages.List(ctx)
}

func (s *messageService) ListByParticipant(ctx context.Context, username string) ([]domain.Message, error) {
	return s.messages.ListByParticipant(ctx, username)
}
