package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
	"github.com/casaphilia/rentals-api/pkg/config"
	"github.com/casaphilia/rentals-api/pkg/events"
	"github.com/casaphilia/rentals-api/pkg/logger"
)

type BookingService interface {
	Create(ctx context.Context, identity domain.Identity, req *domain.BookingCreateReq) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, identity domain.Identity, bookingID string, newStatus domain.BookingStatus) (*domain.Booking, error)
	// MarkConfirmedByPayment is invoked by the checkout flow once a payment
	// reference verifies. Idempotent; a CANCELLED booking is never revived.
	MarkConfirmedByPayment(ctx context.Context, bookingID string) (*domain.Booking, error)
	Get(ctx context.Context, identity domain.Identity, id string) (*domain.Booking, error)
	ListForUser(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.Booking, error)
	ListForManager(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.Booking, error)
	ListAll(ctx context.Context, identity domain.Identity, status *domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	PropertyCalendar(ctx context.Context, propertyID string) ([]domain.BookingWindow, error)
}

type bookingService struct {
	bookings   postgres.BookingRepo
	properties postgres.PropertyRepo
	activity   postgres.ActivityRepo
	eventBus   events.EventBus
	overlap    config.OverlapPolicy
	now        func() time.Time
}

func NewBookingService(
	bookings postgres.BookingRepo,
	properties postgres.PropertyRepo,
	activity postgres.ActivityRepo,
	eventBus events.EventBus,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		bookings:   bookings,
		properties: properties,
		activity:   activity,
		eventBus:   eventBus,
		overlap:    cfg.Booking.Overlap,
		now:        time.Now,
	}
}

// priceTolerance is one minor unit; a client-supplied total further from the
// recomputed price than this is rejected.
const priceTolerance = 0.01

func (s *bookingService) Create(ctx context.Context, identity domain.Identity, req *domain.BookingCreateReq) (*domain.Booking, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if req.PropertyID == "" {
		return nil, fmt.Errorf("property id is required: %w", domain.ErrValidation)
	}
	if req.Guests < 1 {
		return nil, fmt.Errorf("at least one guest is required: %w", domain.ErrValidation)
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, fmt.Errorf("check-out must be after check-in: %w", domain.ErrValidation)
	}
	if req.CheckIn.Before(s.now().Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("check-in must not be in the past: %w", domain.ErrValidation)
	}

	property, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", req.PropertyID, domain.ErrNotFound)
	}

	// The stored total is recomputed here; the client copy is only accepted
	// as a cross-check.
	nights := domain.NightsBetween(req.CheckIn, req.CheckOut)
	total := float64(nights) * property.PricePerMonth
	if req.TotalPrice != 0 && math.Abs(req.TotalPrice-total) > priceTolerance {
		return nil, fmt.Errorf("total price mismatch: expected %.2f: %w", total, domain.ErrValidation)
	}

	if s.overlap == config.OverlapReject {
		taken, err := s.bookings.OverlapExists(ctx, req.PropertyID, req.CheckIn, req.CheckOut)
		if err != nil {
			return nil, fmt.Errorf("failed to check availability: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("dates are no longer available: %w", domain.ErrConflict)
		}
	}

	booking, err := s.bookings.Create(ctx, &domain.Booking{
		PropertyID: req.PropertyID,
		UserID:     identity.UserID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Guests:     req.Guests,
		TotalPrice: total,
		Message:    req.Message,
		Phone:      req.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.audit(ctx, identity.UserID, domain.ActionCreateBooking, "BOOKING", booking.ID,
		fmt.Sprintf("Booking requested for property %q.", property.Title))
	s.publishBooking(ctx, events.BookingCreated, booking)

	return booking, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, identity domain.Identity, bookingID string, newStatus domain.BookingStatus) (*domain.Booking, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
	}

	property, err := s.properties.GetByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	// Only the managing property's manager or an administrator may move a
	// booking between states.
	if !identity.IsAdmin() && (property == nil || property.ManagerID != identity.UserID) {
		return nil, fmt.Errorf("actor %s may not update booking %s: %w", identity.UserID, bookingID, domain.ErrUnauthorized)
	}

	if !booking.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("cannot transition %s from %s to %s: %w",
			bookingID, booking.Status, newStatus, domain.ErrConflict)
	}

	// Conditional on the observed status so a concurrent transition loses
	// cleanly instead of being overwritten.
	ok, err := s.bookings.UpdateStatusIf(ctx, bookingID, booking.Status, newStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("booking %s changed concurrently: %w", bookingID, domain.ErrConflict)
	}

	updated, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}

	s.audit(ctx, identity.UserID, domain.ActionUpdateBooking, "BOOKING", bookingID,
		fmt.Sprintf("Booking status set to %s.", newStatus))

	switch newStatus {
	case domain.BookingConfirmed:
		s.publishBooking(ctx, events.BookingConfirmed, updated)
	case domain.BookingCancelled:
		s.publishBooking(ctx, events.BookingCancelled, updated)
	}

	return updated, nil
}

func (s *bookingService) MarkConfirmedByPayment(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
	}
	if booking.Status == domain.BookingCancelled {
		return nil, fmt.Errorf("booking %s is cancelled and cannot be confirmed by payment: %w",
			bookingID, domain.ErrConflict)
	}
	if booking.Status == domain.BookingConfirmed {
		return booking, nil
	}

	// ConfirmPaid re-checks the cancelled guard in the statement itself, so
	// a concurrent cancellation between the read above and this write still
	// cannot be overridden.
	ok, err := s.bookings.ConfirmPaid(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("booking %s was cancelled concurrently: %w", bookingID, domain.ErrConflict)
	}

	updated, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}

	s.audit(ctx, booking.UserID, domain.ActionConfirmPayment, "BOOKING", bookingID,
		"Booking confirmed by verified payment.")
	s.publishBooking(ctx, events.BookingConfirmed, updated)

	return updated, nil
}

func (s *bookingService) Get(ctx context.Context, identity domain.Identity, id string) (*domain.Booking, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}

	if booking.UserID == identity.UserID || identity.IsAdmin() {
		return booking, nil
	}
	property, err := s.properties.GetByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property != nil && property.ManagerID == identity.UserID {
		return booking, nil
	}
	return nil, fmt.Errorf("actor %s may not view booking %s: %w", identity.UserID, id, domain.ErrUnauthorized)
}

func (s *bookingService) ListForUser(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.Booking, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	return s.bookings.ListByUser(ctx, identity.UserID, limit, offset)
}

func (s *bookingService) ListForManager(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.Booking, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if identity.Role != domain.RolePropertyManager && !identity.IsAdmin() {
		return nil, fmt.Errorf("manager access required: %w", domain.ErrUnauthorized)
	}
	return s.bookings.ListForManager(ctx, identity.UserID, limit, offset)
}

func (s *bookingService) ListAll(ctx context.Context, identity domain.Identity, status *domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if !identity.IsAdmin() {
		return nil, fmt.Errorf("admin access required: %w", domain.ErrUnauthorized)
	}
	return s.bookings.ListAll(ctx, status, limit, offset)
}

func (s *bookingService) PropertyCalendar(ctx context.Context, propertyID string) ([]domain.BookingWindow, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", propertyID, domain.ErrNotFound)
	}
	return s.bookings.Windows(ctx, propertyID)
}

func (s *bookingService) audit(ctx context.Context, userID, action, entityType, entityID, details string) {
	if err := s.activity.Append(ctx, userID, action, entityType, entityID, details); err != nil {
		logger.ErrorContext(ctx, "failed to append activity record",
			"error", err, "action", action, "entity_id", entityID)
	}
}

func (s *bookingService) publishBooking(ctx context.Context, subject string, b *domain.Booking) {
	event := events.BookingEvent{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		UserID:     b.UserID,
		Status:     string(b.Status),
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice,
		OccurredAt: s.now(),
	}
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "failed to publish booking event",
			"error", err, "subject", subject, "booking_id", b.ID)
	}
}

var _ BookingService = (*bookingService)(nil)
