package service

import (
	"context"
	"fmt"
	"time"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/platform/paystack"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
	"github.com/casaphilia/rentals-api/pkg/config"
	"github.com/casaphilia/rentals-api/pkg/events"
	"github.com/casaphilia/rentals-api/pkg/logger"
)

type CheckoutService interface {
	// Start opens a payment transaction for the caller's booking and returns
	// the gateway redirect target.
	Start(ctx context.Context, identity domain.Identity, bookingID string) (*domain.CheckoutRes, error)
	// CompleteCallback handles the gateway redirect back into the app. The
	// mock flow carries status=success and no reference; the live flow
	// carries the processor reference. Returns whether the booking ended up
	// confirmed. Safe to invoke repeatedly for the same booking/reference.
	CompleteCallback(ctx context.Context, bookingID, reference, status string) (bool, error)
	Attempts(ctx context.Context, identity domain.Identity, bookingID string) ([]domain.PaymentAttempt, error)
}

type checkoutService struct {
	bookings    BookingService
	bookingRepo postgres.BookingRepo
	payments    postgres.PaymentRepo
	users       postgres.UserRepo
	gateway     paystack.Gateway
	eventBus    events.EventBus
	callback    string
	now         func() time.Time
}

func NewCheckoutService(
	bookings BookingService,
	bookingRepo postgres.BookingRepo,
	payments postgres.PaymentRepo,
	users postgres.UserRepo,
	gateway paystack.Gateway,
	eventBus events.EventBus,
	cfg *config.Config,
) CheckoutService {
	return &checkoutService{
		bookings:    bookings,
		bookingRepo: bookingRepo,
		payments:    payments,
		users:       users,
		gateway:     gateway,
		eventBus:    eventBus,
		callback:    cfg.Paystack.CallbackBaseURL,
		now:         time.Now,
	}
}

func (s *checkoutService) Start(ctx context.Context, identity domain.Identity, bookingID string) (*domain.CheckoutRes, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
	}
	if booking.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, fmt.Errorf("booking %s belongs to another resident: %w", bookingID, domain.ErrUnauthorized)
	}
	if booking.Status == domain.BookingCancelled {
		return nil, fmt.Errorf("booking %s is cancelled: %w", bookingID, domain.ErrConflict)
	}

	// The processor gets the booking owner's stored email, not the caller's
	// token claim; an admin can start checkout on a resident's behalf.
	owner, err := s.users.FindByID(ctx, booking.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking owner: %w", err)
	}
	payerEmail := identity.Email
	if owner != nil {
		payerEmail = owner.Email
	}

	reference := fmt.Sprintf("CPH-%s-%d", booking.ID, s.now().UnixMilli())
	callbackURL := fmt.Sprintf("%s/checkout/verify?bookingId=%s", s.callback, booking.ID)

	tx, err := s.gateway.Initialize(ctx, paystack.InitializeReq{
		Amount:      booking.TotalPrice,
		Email:       payerEmail,
		Reference:   reference,
		CallbackURL: callbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize payment for booking %s: %w", bookingID, err)
	}

	if _, err := s.payments.CreateAttempt(ctx, &domain.PaymentAttempt{
		BookingID:   booking.ID,
		Reference:   tx.Reference,
		Amount:      booking.TotalPrice,
		PayerEmail:  payerEmail,
		CallbackURL: callbackURL,
		Mode:        string(s.gateway.Mode()),
	}); err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	s.publishPayment(ctx, events.PaymentInitialized, booking.ID, tx.Reference, booking.TotalPrice, false)

	return &domain.CheckoutRes{
		AuthorizationURL: tx.AuthorizationURL,
		Reference:        tx.Reference,
	}, nil
}

func (s *checkoutService) CompleteCallback(ctx context.Context, bookingID, reference, status string) (bool, error) {
	if bookingID == "" {
		return false, fmt.Errorf("booking id is required: %w", domain.ErrValidation)
	}

	// Mock flow: a bare success marker, honored only when the adapter is
	// actually running in mock mode.
	if reference == "" {
		if status != "success" {
			return false, fmt.Errorf("missing payment reference: %w", domain.ErrValidation)
		}
		if s.gateway.Mode() != config.PaymentModeMock {
			return false, fmt.Errorf("mock success marker rejected outside mock mode: %w", domain.ErrValidation)
		}
		if _, err := s.bookings.MarkConfirmedByPayment(ctx, bookingID); err != nil {
			return false, err
		}
		s.publishPayment(ctx, events.PaymentVerified, bookingID, "", 0, true)
		return true, nil
	}

	// The reference must belong to the booking being confirmed. Without this
	// check a reference paid for one booking could confirm another.
	attempt, err := s.payments.GetByReference(ctx, reference)
	if err != nil {
		return false, fmt.Errorf("failed to load payment attempt: %w", err)
	}
	if attempt == nil {
		return false, fmt.Errorf("unknown payment reference %s: %w", reference, domain.ErrNotFound)
	}
	if attempt.BookingID != bookingID {
		return false, fmt.Errorf("payment reference %s targets another booking: %w", reference, domain.ErrValidation)
	}

	verified, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		// Upstream failure: report, leave the booking and the attempt as
		// they were so the resident can retry.
		s.publishPayment(ctx, events.PaymentFailed, bookingID, reference, 0, false)
		return false, fmt.Errorf("failed to verify payment %s: %w", reference, err)
	}
	if !verified {
		if _, err := s.payments.SetStatusByReference(ctx, reference, domain.PaymentFailed); err != nil {
			logger.ErrorContext(ctx, "failed to mark payment attempt failed", "error", err, "reference", reference)
		}
		s.publishPayment(ctx, events.PaymentFailed, bookingID, reference, 0, false)
		return false, nil
	}

	if _, err := s.bookings.MarkConfirmedByPayment(ctx, bookingID); err != nil {
		return false, err
	}
	if _, err := s.payments.SetStatusByReference(ctx, reference, domain.PaymentVerified); err != nil {
		logger.ErrorContext(ctx, "failed to mark payment attempt verified", "error", err, "reference", reference)
	}
	s.publishPayment(ctx, events.PaymentVerified, bookingID, reference, 0, true)

	return true, nil
}

func (s *checkoutService) Attempts(ctx context.Context, identity domain.Identity, bookingID string) ([]domain.PaymentAttempt, error) {
	// Reuses booking-level access control.
	if _, err := s.bookings.Get(ctx, identity, bookingID); err != nil {
		return nil, err
	}
	return s.payments.ListByBooking(ctx, bookingID)
}

func (s *checkoutService) publishPayment(ctx context.Context, subject, bookingID, reference string, amount float64, succeeded bool) {
	event := events.PaymentEvent{
		BookingID:  bookingID,
		Reference:  reference,
		Amount:     amount,
		Succeeded:  succeeded,
		Mode:       string(s.gateway.Mode()),
		OccurredAt: s.now(),
	}
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "failed to publish payment event",
			"error", err, "subject", subject, "booking_id", bookingID)
	}
}

var _ CheckoutService = (*checkoutService)(nil)
