package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/service"
	"github.com/casaphilia/rentals-api/pkg/events"
)

func propertyFixture(t *testing.T) (service.PropertyService, *fakePropertyRepo, *fakeBookingRepo) {
	t.Helper()
	properties := newFakePropertyRepo()
	bookings := newFakeBookingRepo()
	svc := service.NewPropertyService(properties, bookings, &fakeActivityRepo{}, events.NoopEventBus{})
	return svc, properties, bookings
}

func validPropertyReq() *domain.PropertyReq {
	return &domain.PropertyReq{
		Title:         "Sea Breeze Apartment",
		Type:          domain.PropertyApartment,
		City:          "Lagos",
		Bedrooms:      2,
		Bathrooms:     1,
		PricePerMonth: 850,
	}
}

func TestCreatePropertyRequiresManagerRole(t *testing.T) {
	svc, _, _ := propertyFixture(t)

	if _, err := svc.Create(context.Background(), resident, validPropertyReq()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("resident create: expected unauthorized, got %v", err)
	}
	if _, err := svc.Create(context.Background(), manager, validPropertyReq()); err != nil {
		t.Errorf("manager create: %v", err)
	}
	if _, err := svc.Create(context.Background(), admin, validPropertyReq()); err != nil {
		t.Errorf("admin create: %v", err)
	}
}

func TestCreatePropertySlugFromTitle(t *testing.T) {
	svc, _, _ := propertyFixture(t)

	p, err := svc.Create(context.Background(), manager, validPropertyReq())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(p.Slug, "sea-breeze-apartment-") {
		t.Errorf("slug = %q, want sea-breeze-apartment-<suffix>", p.Slug)
	}
	if p.ManagerID != manager.UserID {
		t.Errorf("manager id = %q", p.ManagerID)
	}
}

func TestCreatePropertyValidation(t *testing.T) {
	svc, _, _ := propertyFixture(t)

	req := validPropertyReq()
	req.Title = "  "
	if _, err := svc.Create(context.Background(), manager, req); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank title: expected validation error, got %v", err)
	}

	req = validPropertyReq()
	req.PricePerMonth = 0
	if _, err := svc.Create(context.Background(), manager, req); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero price: expected validation error, got %v", err)
	}

	req = validPropertyReq()
	req.Type = "CASTLE"
	if _, err := svc.Create(context.Background(), manager, req); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown type: expected validation error, got %v", err)
	}
}

func TestUpdatePropertyOwnership(t *testing.T) {
	svc, _, _ := propertyFixture(t)
	p, err := svc.Create(context.Background(), manager, validPropertyReq())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	otherManager := domain.Identity{UserID: "mgr-2", Role: domain.RolePropertyManager}
	if _, err := svc.Update(context.Background(), otherManager, p.ID, validPropertyReq()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("foreign manager update: expected unauthorized, got %v", err)
	}
	if _, err := svc.Update(context.Background(), manager, p.ID, validPropertyReq()); err != nil {
		t.Errorf("owner update: %v", err)
	}
	if _, err := svc.Update(context.Background(), admin, p.ID, validPropertyReq()); err != nil {
		t.Errorf("admin update: %v", err)
	}
}

func TestDeletePropertyBlockedByActiveBookings(t *testing.T) {
	svc, _, bookings := propertyFixture(t)
	p, err := svc.Create(context.Background(), manager, validPropertyReq())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	checkIn, checkOut := futureStay(2)
	if _, err := bookings.Create(context.Background(), &domain.Booking{
		PropertyID: p.ID, UserID: resident.UserID, CheckIn: checkIn, CheckOut: checkOut, Guests: 1,
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	if err := svc.Delete(context.Background(), manager, p.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict deleting property with active booking, got %v", err)
	}

	// Once the booking is cancelled the listing can go.
	all, _ := bookings.ListAll(context.Background(), nil, 0, 0)
	for _, b := range all {
		if _, err := bookings.UpdateStatusIf(context.Background(), b.ID, b.Status, domain.BookingCancelled); err != nil {
			t.Fatalf("cancel: %v", err)
		}
	}
	if err := svc.Delete(context.Background(), manager, p.ID); err != nil {
		t.Fatalf("delete after cancel: %v", err)
	}
}

func TestGetPropertyNotFound(t *testing.T) {
	svc, _, _ := propertyFixture(t)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
