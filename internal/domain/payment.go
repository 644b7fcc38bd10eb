package domain

import "time"

type PaymentAttemptStatus string

const (
	PaymentInitialized PaymentAttemptStatus = "INITIALIZED"
	PaymentVerified    PaymentAttemptStatus = "VERIFIED"
	PaymentFailed      PaymentAttemptStatus = "FAILED"
)

// PaymentAttempt is one external-gateway transaction tied to a booking.
// Several attempts may target one booking (retries); only one can drive the
// booking to CONFIRMED, and confirmation stays idempotent regardless of how
// many references are verified.
type PaymentAttempt struct {
	ID          string               `json:"id"`
	BookingID   string               `json:"booking_id"`
	Reference   string               `json:"reference"`
	Amount      float64              `json:"amount"`
	PayerEmail  string               `json:"payer_email"`
	CallbackURL string               `json:"callback_url"`
	Status      PaymentAttemptStatus `json:"status"`
	Mode        string               `json:"mode"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type CheckoutRes struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}
