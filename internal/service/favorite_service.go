package service

import (
	"context"
	"fmt"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
)

type FavoriteService interface {
	// Toggle saves the property for the caller, or removes it when already
	// saved. Returns the resulting state.
	Toggle(ctx context.Context, identity domain.Identity, propertyID string) (*domain.FavoriteToggleRes, error)
	List(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.Property, error)
}

type favoriteService struct {
	favorites  postgres.FavoriteRepo
	properties postgres.PropertyRepo
}

func NewFavoriteService(favorites postgres.FavoriteRepo, properties postgres.PropertyRepo) FavoriteService {
	return &favoriteService{favorites: favorites, properties: properties}
}

func (s *favoriteService) Toggle(ctx context.Context, identity domain.Identity, propertyID string) (*domain.FavoriteToggleRes, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", propertyID, domain.ErrNotFound)
	}

	// Remove wins when the row exists; otherwise the unique (user, property)
	// pair absorbs a concurrent double-add.
	removed, err := s.favorites.Remove(ctx, identity.UserID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove favorite: %w", err)
	}
	if removed {
		return &domain.FavoriteToggleRes{PropertyID: propertyID, Favorited: false}, nil
	}

	if _, err := s.favorites.Add(ctx, identity.UserID, propertyID); err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return &domain.FavoriteToggleRes{PropertyID: propertyID, Favorited: true}, nil
}

func (s *favoriteService) List(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.Property, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	return s.favorites.ListProperties(ctx, identity.UserID, limit, offset)
}

var _ FavoriteService = (*favoriteService)(nil)
