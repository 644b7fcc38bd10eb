package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
)

type ContactService interface {
	Submit(ctx context.Context, req *domain.ContactReq) (*domain.ContactMessage, error)
	List(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.ContactMessage, error)
}

type contactService struct {
	contacts postgres.ContactRepo
}

func NewContactService(contacts postgres.ContactRepo) ContactService {
	return &contactService{contacts: contacts}
}

func (s *contactService) Submit(ctx context.Context, req *domain.ContactReq) (*domain.ContactMessage, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("invalid email address: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message is required: %w", domain.ErrValidation)
	}

	msg, err := s.contacts.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}
	return msg, nil
}

func (s *contactService) List(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.ContactMessage, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if !identity.IsAdmin() {
		return nil, fmt.Errorf("admin access required: %w", domain.ErrUnauthorized)
	}
	return s.contacts.List(ctx, limit, offset)
}

var _ ContactService = (*contactService)(nil)
