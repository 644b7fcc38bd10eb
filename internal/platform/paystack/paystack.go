// Package paystack bridges bookings to the external payment processor. The
// live client speaks the processor's transaction initialize/verify contract;
// the mock client synthesizes the same observable results without any
// network access. Both satisfy Gateway, so callers cannot tell them apart.
package paystack

import (
	"context"

	"github.com/casaphilia/rentals-api/pkg/config"
)

type InitializeReq struct {
	// Amount is in major units of the listing currency; the live client
	// applies the configured exchange multiplier and converts to the
	// processor's integer minor unit before transmission.
	Amount      float64
	Email       string
	Reference   string
	CallbackURL string
}

type Transaction struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type Gateway interface {
	Initialize(ctx context.Context, req InitializeReq) (*Transaction, error)
	// Verify reports whether the transaction behind reference completed.
	// Safe to call repeatedly for the same reference.
	Verify(ctx context.Context, reference string) (bool, error)
	Mode() config.PaymentMode
}

// New selects the gateway implementation from the explicit configured mode.
// config.Validate has already rejected live mode without a secret.
func New(cfg config.PaystackConfig) Gateway {
	if cfg.Mode == config.PaymentModeMock {
		return NewMock()
	}
	return NewClient(cfg)
}
