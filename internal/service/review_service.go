package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
)

type ReviewService interface {
	Create(ctx context.Context, identity domain.Identity, req *domain.ReviewReq) (*domain.Review, error)
	ListByProperty(ctx context.Context, propertyID string, limit, offset int) ([]domain.Review, error)
}

type reviewService struct {
	reviews    postgres.ReviewRepo
	properties postgres.PropertyRepo
}

func NewReviewService(reviews postgres.ReviewRepo, properties postgres.PropertyRepo) ReviewService {
	return &reviewService{reviews: reviews, properties: properties}
}

func (s *reviewService) Create(ctx context.Context, identity domain.Identity, req *domain.ReviewReq) (*domain.Review, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Comment) == "" {
		return nil, fmt.Errorf("comment is required: %w", domain.ErrValidation)
	}

	property, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", req.PropertyID, domain.ErrNotFound)
	}

	exists, err := s.reviews.ExistsForUser(ctx, req.PropertyID, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("property %s already reviewed by this resident: %w", req.PropertyID, domain.ErrConflict)
	}

	review, err := s.reviews.Create(ctx, req.PropertyID, identity.UserID, req.Rating, strings.TrimSpace(req.Comment))
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) ListByProperty(ctx context.Context, propertyID string, limit, offset int) ([]domain.Review, error) {
	return s.reviews.ListByProperty(ctx, propertyID, limit, offset)
}

var _ ReviewService = (*reviewService)(nil)
