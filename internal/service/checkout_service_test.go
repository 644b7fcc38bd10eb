package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/service"
	"github.com/casaphilia/rentals-api/pkg/config"
	"github.com/casaphilia/rentals-api/pkg/events"
)

type checkoutFixture struct {
	checkout service.CheckoutService
	bookings service.BookingService
	repo     *fakeBookingRepo
	payments *fakePaymentRepo
	gateway  *fakeGateway
}

func newCheckoutFixture(t *testing.T, mode config.PaymentMode) *checkoutFixture {
	t.Helper()
	repo := newFakeBookingRepo()
	payments := newFakePaymentRepo()
	gateway := &fakeGateway{mode: mode, verifyOK: true}
	cfg := &config.Config{
		Booking:  config.BookingConfig{Overlap: config.OverlapReject},
		Paystack: config.PaystackConfig{Mode: mode, CallbackBaseURL: "http://localhost:3000"},
	}
	bookings := service.NewBookingService(repo, newFakePropertyRepo(testProperty()), &fakeActivityRepo{}, events.NoopEventBus{}, cfg)
	users := &fakeUserRepo{users: map[string]*domain.User{
		resident.UserID: {ID: resident.UserID, Email: resident.Email, FullName: "Res Ident"},
	}}
	checkout := service.NewCheckoutService(bookings, repo, payments, users, gateway, events.NoopEventBus{}, cfg)
	return &checkoutFixture{checkout: checkout, bookings: bookings, repo: repo, payments: payments, gateway: gateway}
}

func TestStartRecordsAttempt(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	b := createPending(t, f.bookings)

	res, err := f.checkout.Start(context.Background(), resident, b.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !strings.HasPrefix(res.Reference, "CPH-"+b.ID+"-") {
		t.Errorf("reference %q should embed the booking id", res.Reference)
	}
	if res.AuthorizationURL == "" {
		t.Error("authorization URL missing")
	}

	if len(f.gateway.initialized) != 1 {
		t.Fatalf("gateway initialized %d times, want 1", len(f.gateway.initialized))
	}
	got := f.gateway.initialized[0]
	if got.Amount != b.TotalPrice {
		t.Errorf("initialized amount %.2f, want %.2f", got.Amount, b.TotalPrice)
	}
	if want := fmt.Sprintf("http://localhost:3000/checkout/verify?bookingId=%s", b.ID); got.CallbackURL != want {
		t.Errorf("callback URL = %q, want %q", got.CallbackURL, want)
	}

	attempts, _ := f.payments.ListByBooking(context.Background(), b.ID)
	if len(attempts) != 1 || attempts[0].Status != domain.PaymentInitialized {
		t.Errorf("expected one INITIALIZED attempt, got %+v", attempts)
	}
}

func TestStartRejectsCancelledBooking(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	b := createPending(t, f.bookings)
	if _, err := f.bookings.UpdateStatus(context.Background(), manager, b.ID, domain.BookingCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := f.checkout.Start(context.Background(), resident, b.ID); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict starting checkout for cancelled booking, got %v", err)
	}
}

func TestStartRejectsForeignBooking(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	b := createPending(t, f.bookings)

	if _, err := f.checkout.Start(context.Background(), stranger, b.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestCompleteCallbackVerifiedConfirms(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	b := createPending(t, f.bookings)
	res, err := f.checkout.Start(context.Background(), resident, b.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	confirmed, err := f.checkout.CompleteCallback(context.Background(), b.ID, res.Reference, "")
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if !confirmed {
		t.Fatal("expected confirmed")
	}

	got, _ := f.repo.GetByID(context.Background(), b.ID)
	if got.Status != domain.BookingConfirmed {
		t.Errorf("booking status = %s, want CONFIRMED", got.Status)
	}
	attempt, _ := f.payments.GetByReference(context.Background(), res.Reference)
	if attempt.Status != domain.PaymentVerified {
		t.Errorf("attempt status = %s, want VERIFIED", attempt.Status)
	}
}

func TestCompleteCallbackRejectsForeignReference(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	paid := createPending(t, f.bookings)

	checkIn := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	other, err := f.bookings.Create(context.Background(), resident, &domain.BookingCreateReq{
		PropertyID: "prop-1", CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2), Guests: 1,
	})
	if err != nil {
		t.Fatalf("create second booking: %v", err)
	}

	res, err := f.checkout.Start(context.Background(), resident, paid.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// A reference initialized for one booking must not confirm another.
	_, err = f.checkout.CompleteCallback(context.Background(), other.ID, res.Reference, "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.gateway.verified) != 0 {
		t.Errorf("gateway verified %d references before the attempt check", len(f.gateway.verified))
	}
	got, _ := f.repo.GetByID(context.Background(), other.ID)
	if got.Status != domain.BookingPending {
		t.Errorf("booking status = %s, want PENDING", got.Status)
	}
}

func TestCompleteCallbackUnknownReference(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	b := createPending(t, f.bookings)

	_, err := f.checkout.CompleteCallback(context.Background(), b.ID, "CPH-nope-1", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	got, _ := f.repo.GetByID(context.Background(), b.ID)
	if got.Status != domain.BookingPending {
		t.Errorf("booking status = %s, want PENDING", got.Status)
	}
}

func TestCompleteCallbackRepeatedIsIdempotent(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	b := createPending(t, f.bookings)
	res, _ := f.checkout.Start(context.Background(), resident, b.ID)

	for i := 0; i < 3; i++ {
		confirmed, err := f.checkout.CompleteCallback(context.Background(), b.ID, res.Reference, "")
		if err != nil || !confirmed {
			t.Fatalf("callback %d: confirmed=%v err=%v", i, confirmed, err)
		}
	}
	got, _ := f.repo.GetByID(context.Background(), b.ID)
	if got.Status != domain.BookingConfirmed {
		t.Errorf("booking status = %s, want CONFIRMED", got.Status)
	}
}

func TestCompleteCallbackUnverifiedLeavesPending(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	f.gateway.verifyOK = false
	b := createPending(t, f.bookings)
	res, _ := f.checkout.Start(context.Background(), resident, b.ID)

	confirmed, err := f.checkout.CompleteCallback(context.Background(), b.ID, res.Reference, "")
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if confirmed {
		t.Fatal("unverified payment must not confirm")
	}

	got, _ := f.repo.GetByID(context.Background(), b.ID)
	if got.Status != domain.BookingPending {
		t.Errorf("booking status = %s, want PENDING", got.Status)
	}
	attempt, _ := f.payments.GetByReference(context.Background(), res.Reference)
	if attempt.Status != domain.PaymentFailed {
		t.Errorf("attempt status = %s, want FAILED", attempt.Status)
	}
}

func TestCompleteCallbackUpstreamFailureLeavesState(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	b := createPending(t, f.bookings)
	res, _ := f.checkout.Start(context.Background(), resident, b.ID)

	f.gateway.verifyErr = fmt.Errorf("gateway timeout: %w", domain.ErrUpstreamFailure)

	_, err := f.checkout.CompleteCallback(context.Background(), b.ID, res.Reference, "")
	if !errors.Is(err, domain.ErrUpstreamFailure) {
		t.Fatalf("expected upstream failure, got %v", err)
	}

	// Neither the booking nor the attempt may change on a verify outage, so
	// the resident can simply retry.
	got, _ := f.repo.GetByID(context.Background(), b.ID)
	if got.Status != domain.BookingPending {
		t.Errorf("booking status = %s, want PENDING", got.Status)
	}
	attempt, _ := f.payments.GetByReference(context.Background(), res.Reference)
	if attempt.Status != domain.PaymentInitialized {
		t.Errorf("attempt status = %s, want INITIALIZED", attempt.Status)
	}
}

func TestCompleteCallbackNeverRevivesCancelled(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	b := createPending(t, f.bookings)
	res, _ := f.checkout.Start(context.Background(), resident, b.ID)

	if _, err := f.bookings.UpdateStatus(context.Background(), manager, b.ID, domain.BookingCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := f.checkout.CompleteCallback(context.Background(), b.ID, res.Reference, "")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	got, _ := f.repo.GetByID(context.Background(), b.ID)
	if got.Status != domain.BookingCancelled {
		t.Errorf("cancelled booking became %s", got.Status)
	}
}

func TestCompleteCallbackMockMarker(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeMock)
	b := createPending(t, f.bookings)

	confirmed, err := f.checkout.CompleteCallback(context.Background(), b.ID, "", "success")
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if !confirmed {
		t.Fatal("mock success marker should confirm in mock mode")
	}
	got, _ := f.repo.GetByID(context.Background(), b.ID)
	if got.Status != domain.BookingConfirmed {
		t.Errorf("booking status = %s, want CONFIRMED", got.Status)
	}
}

func TestCompleteCallbackMockMarkerRejectedInLiveMode(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeLive)
	b := createPending(t, f.bookings)

	// A bare status=success with no reference must not be honored against
	// the live gateway.
	_, err := f.checkout.CompleteCallback(context.Background(), b.ID, "", "success")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, _ := f.repo.GetByID(context.Background(), b.ID)
	if got.Status != domain.BookingPending {
		t.Errorf("booking status = %s, want PENDING", got.Status)
	}
}

func TestCompleteCallbackRequiresBookingID(t *testing.T) {
	f := newCheckoutFixture(t, config.PaymentModeMock)
	if _, err := f.checkout.CompleteCallback(context.Background(), "", "", "success"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
