package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/service"
)

type fakeFavoriteRepo struct {
	mu    sync.Mutex
	pairs map[string]bool // userID|propertyID
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{pairs: map[string]bool{}}
}

func favKey(userID, propertyID string) string { return userID + "|" + propertyID }

func (r *fakeFavoriteRepo) Add(_ context.Context, userID, propertyID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := favKey(userID, propertyID)
	if r.pairs[k] {
		return false, nil
	}
	r.pairs[k] = true
	return true, nil
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID, propertyID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := favKey(userID, propertyID)
	if !r.pairs[k] {
		return false, nil
	}
	delete(r.pairs, k)
	return true, nil
}

func (r *fakeFavoriteRepo) Exists(_ context.Context, userID, propertyID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairs[favKey(userID, propertyID)], nil
}

func (r *fakeFavoriteRepo) ListProperties(context.Context, string, int, int) ([]domain.Property, error) {
	return nil, nil
}

func favoriteFixture(t *testing.T) (service.FavoriteService, *fakeFavoriteRepo) {
	t.Helper()
	favorites := newFakeFavoriteRepo()
	svc := service.NewFavoriteService(favorites, newFakePropertyRepo(testProperty()))
	return svc, favorites
}

func TestToggleFavoriteAddsThenRemoves(t *testing.T) {
	svc, favorites := favoriteFixture(t)

	res, err := svc.Toggle(context.Background(), resident, "prop-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !res.Favorited {
		t.Error("first toggle should save the property")
	}
	if saved, _ := favorites.Exists(context.Background(), resident.UserID, "prop-1"); !saved {
		t.Error("favorite row missing after first toggle")
	}

	res, err = svc.Toggle(context.Background(), resident, "prop-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if res.Favorited {
		t.Error("second toggle should remove the saved property")
	}
	if saved, _ := favorites.Exists(context.Background(), resident.UserID, "prop-1"); saved {
		t.Error("favorite row still present after second toggle")
	}
}

func TestToggleFavoritePerUser(t *testing.T) {
	svc, favorites := favoriteFixture(t)

	if _, err := svc.Toggle(context.Background(), resident, "prop-1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.Toggle(context.Background(), stranger, "prop-1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	// One resident removing their favorite leaves the other's untouched.
	if _, err := svc.Toggle(context.Background(), resident, "prop-1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if saved, _ := favorites.Exists(context.Background(), stranger.UserID, "prop-1"); !saved {
		t.Error("another resident's favorite was removed")
	}
}

func TestToggleFavoriteRequiresAuth(t *testing.T) {
	svc, _ := favoriteFixture(t)
	if _, err := svc.Toggle(context.Background(), domain.Identity{}, "prop-1"); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Errorf("expected authentication required, got %v", err)
	}
	if _, err := svc.List(context.Background(), domain.Identity{}, 0, 0); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Errorf("expected authentication required, got %v", err)
	}
}

func TestToggleFavoriteUnknownProperty(t *testing.T) {
	svc, _ := favoriteFixture(t)
	if _, err := svc.Toggle(context.Background(), resident, "prop-missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
