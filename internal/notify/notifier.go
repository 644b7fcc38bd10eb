package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/platform/mailer"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
	"github.com/casaphilia/rentals-api/pkg/events"
	"github.com/casaphilia/rentals-api/pkg/logger"
)

// Notifier turns booking and payment events into email. It runs off the
// event bus so a slow or failing mail provider never blocks a request.
type Notifier struct {
	bus        events.Subscriber
	mail       mailer.Service
	users      postgres.UserRepo
	properties postgres.PropertyRepo
	bookings   postgres.BookingRepo
}

func New(
	bus events.Subscriber,
	mail mailer.Service,
	users postgres.UserRepo,
	properties postgres.PropertyRepo,
	bookings postgres.BookingRepo,
) *Notifier {
	return &Notifier{bus: bus, mail: mail, users: users, properties: properties, bookings: bookings}
}

const lookupTimeout = 5 * time.Second

// Start registers the subscriptions. Handlers run on the bus's dispatch
// goroutines.
func (n *Notifier) Start() error {
	if err := n.bus.Subscribe(events.BookingCreated, n.onBookingCreated); err != nil {
		return err
	}
	if err := n.bus.Subscribe(events.BookingConfirmed, n.onBookingDecision); err != nil {
		return err
	}
	if err := n.bus.Subscribe(events.BookingCancelled, n.onBookingDecision); err != nil {
		return err
	}
	return n.bus.Subscribe(events.PaymentVerified, n.onPaymentVerified)
}

func (n *Notifier) onBookingCreated(msg *events.Message) {
	var ev events.BookingEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		logger.Error("notifier: bad booking event payload", "error", err, "subject", msg.Subject)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	property, err := n.properties.GetByID(ctx, ev.PropertyID)
	if err != nil || property == nil {
		logger.Error("notifier: property lookup failed", "error", err, "property_id", ev.PropertyID)
		return
	}
	manager, err := n.users.FindByID(ctx, property.ManagerID)
	if err != nil || manager == nil {
		logger.Error("notifier: manager lookup failed", "error", err, "manager_id", property.ManagerID)
		return
	}

	if err := n.mail.SendBookingReceived(manager.Email, manager.FullName, property.Title, ev.BookingID); err != nil {
		logger.Error("notifier: booking-received mail failed", "error", err, "booking_id", ev.BookingID)
	}
}

func (n *Notifier) onBookingDecision(msg *events.Message) {
	var ev events.BookingEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		logger.Error("notifier: bad booking event payload", "error", err, "subject", msg.Subject)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	resident, property, ok := n.lookup(ctx, ev.UserID, ev.PropertyID)
	if !ok {
		return
	}

	if err := n.mail.SendBookingDecision(resident.Email, resident.FullName, property.Title, ev.Status); err != nil {
		logger.Error("notifier: booking-decision mail failed", "error", err, "booking_id", ev.BookingID)
	}
}

func (n *Notifier) onPaymentVerified(msg *events.Message) {
	var ev events.PaymentEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		logger.Error("notifier: bad payment event payload", "error", err, "subject", msg.Subject)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	booking, err := n.bookings.GetByID(ctx, ev.BookingID)
	if err != nil || booking == nil {
		logger.Error("notifier: booking lookup failed", "error", err, "booking_id", ev.BookingID)
		return
	}
	resident, property, ok := n.lookup(ctx, booking.UserID, booking.PropertyID)
	if !ok {
		return
	}

	if err := n.mail.SendPaymentConfirmed(resident.Email, resident.FullName, property.Title, ev.Reference); err != nil {
		logger.Error("notifier: payment-confirmed mail failed", "error", err, "booking_id", ev.BookingID)
	}
}

func (n *Notifier) lookup(ctx context.Context, userID, propertyID string) (*domain.User, *domain.Property, bool) {
	u, err := n.users.FindByID(ctx, userID)
	if err != nil || u == nil {
		logger.Error("notifier: resident lookup failed", "error", err, "user_id", userID)
		return nil, nil, false
	}
	p, err := n.properties.GetByID(ctx, propertyID)
	if err != nil || p == nil {
		logger.Error("notifier: property lookup failed", "error", err, "property_id", propertyID)
		return nil, nil, false
	}
	return u, p, true
}
