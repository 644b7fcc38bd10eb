package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/casaphilia/rentals-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{Subject: msg.Subject, Data: msg.Data, Timestamp: time.Now()})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{Subject: msg.Subject, Data: msg.Data, Timestamp: time.Now()})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Subjects
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"

	PaymentInitialized = "payment.initialized"
	PaymentVerified    = "payment.verified"
	PaymentFailed      = "payment.failed"

	PropertyCreated = "property.created"
	PropertyUpdated = "property.updated"
	PropertyDeleted = "property.deleted"

	ApplicationSubmitted = "application.submitted"
	ApplicationReviewed  = "application.reviewed"
)

// Event payloads

type BookingEvent struct {
	BookingID  string    `json:"booking_id"`
	PropertyID string    `json:"property_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PaymentEvent struct {
	BookingID  string    `json:"booking_id"`
	Reference  string    `json:"reference"`
	Amount     float64   `json:"amount"`
	Succeeded  bool      `json:"succeeded"`
	Mode       string    `json:"mode"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PropertyEvent struct {
	PropertyID string    `json:"property_id"`
	ManagerID  string    `json:"manager_id"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ApplicationEvent struct {
	ApplicationID string    `json:"application_id"`
	PropertyID    string    `json:"property_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NoopEventBus satisfies EventBus without a broker, for tests and for
// running the API standalone.
type NoopEventBus struct{}

func (NoopEventBus) Publish(context.Context, string, interface{}) error      { return nil }
func (NoopEventBus) Subscribe(string, func(msg *Message)) error              { return nil }
func (NoopEventBus) QueueSubscribe(string, string, func(msg *Message)) error { return nil }
func (NoopEventBus) Close() error                                            { return nil }

var _ EventBus = (*NATSEventBus)(nil)
var _ EventBus = NoopEventBus{}
