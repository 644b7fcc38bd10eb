package paystack

import (
	"context"

	"github.com/casaphilia/rentals-api/pkg/config"
)

// Mock synthesizes processor responses so the system runs without live
// credentials. Verification always reports success.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Initialize(_ context.Context, req InitializeReq) (*Transaction, error) {
	return &Transaction{
		AuthorizationURL: "https://checkout.paystack.com/mock-" + req.Reference,
		AccessCode:       "mock-code",
		Reference:        req.Reference,
	}, nil
}

func (m *Mock) Verify(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func (m *Mock) Mode() config.PaymentMode { return config.PaymentModeMock }

var _ Gateway = (*Mock)(nil)
