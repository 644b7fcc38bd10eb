package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
)

const maxChatMessageLen = 4000

type ChatService interface {
	Send(ctx context.Context, identity domain.Identity, req *domain.ChatSendReq) (*domain.ChatMessage, error)
	// Conversation returns the thread with another user and marks their
	// messages to the caller as read.
	Conversation(ctx context.Context, identity domain.Identity, otherUserID string, limit, offset int) ([]domain.ChatMessage, error)
	Recent(ctx context.Context, identity domain.Identity, limit int) ([]domain.ConversationHead, error)
}

type chatService struct {
	messages postgres.MessageRepo
	users    postgres.UserRepo
}

func NewChatService(messages postgres.MessageRepo, users postgres.UserRepo) ChatService {
	return &chatService{messages: messages, users: users}
}

func (s *chatService) Send(ctx context.Context, identity domain.Identity, req *domain.ChatSendReq) (*domain.ChatMessage, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("message content is required: %w", domain.ErrValidation)
	}
	if len(content) > maxChatMessageLen {
		return nil, fmt.Errorf("message exceeds %d characters: %w", maxChatMessageLen, domain.ErrValidation)
	}
	if req.ReceiverID == identity.UserID {
		return nil, fmt.Errorf("cannot message yourself: %w", domain.ErrValidation)
	}

	receiver, err := s.users.FindByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up receiver: %w", err)
	}
	if receiver == nil {
		return nil, fmt.Errorf("user %s: %w", req.ReceiverID, domain.ErrNotFound)
	}

	msg, err := s.messages.Create(ctx, identity.UserID, req.ReceiverID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}

func (s *chatService) Conversation(ctx context.Context, identity domain.Identity, otherUserID string, limit, offset int) ([]domain.ChatMessage, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	msgs, err := s.messages.Conversation(ctx, identity.UserID, otherUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	if err := s.messages.MarkRead(ctx, identity.UserID, otherUserID); err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return msgs, nil
}

func (s *chatService) Recent(ctx context.Context, identity domain.Identity, limit int) ([]domain.ConversationHead, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	return s.messages.RecentHeads(ctx, identity.UserID, limit)
}

var _ ChatService = (*chatService)(nil)
