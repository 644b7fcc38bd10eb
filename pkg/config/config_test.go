package config_test

import (
	"errors"
	"testing"

	"github.com/casaphilia/rentals-api/pkg/config"
)

func TestValidateLiveModeRequiresSecret(t *testing.T) {
	cfg := &config.Config{
		Paystack: config.PaystackConfig{Mode: config.PaymentModeLive},
		Booking:  config.BookingConfig{Overlap: config.OverlapReject},
		Email:    config.EmailConfig{DevMode: true},
	}
	if err := cfg.Validate(); !errors.Is(err, config.ErrLiveModeWithoutSecret) {
		t.Fatalf("expected ErrLiveModeWithoutSecret, got %v", err)
	}

	cfg.Paystack.SecretKey = "sk_live_x"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("live mode with secret should validate, got %v", err)
	}
}

func TestValidateMockModeNeedsNoSecret(t *testing.T) {
	cfg := &config.Config{
		Paystack: config.PaystackConfig{Mode: config.PaymentModeMock},
		Booking:  config.BookingConfig{Overlap: config.OverlapAllow},
		Email:    config.EmailConfig{DevMode: true},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("mock mode should validate without a secret, got %v", err)
	}
}

func TestValidateMailOffDevModeRequiresKey(t *testing.T) {
	cfg := &config.Config{
		Paystack: config.PaystackConfig{Mode: config.PaymentModeMock},
		Booking:  config.BookingConfig{Overlap: config.OverlapReject},
		Email:    config.EmailConfig{DevMode: false},
	}
	if err := cfg.Validate(); !errors.Is(err, config.ErrMailWithoutKey) {
		t.Fatalf("expected ErrMailWithoutKey, got %v", err)
	}

	cfg.Email.MailerSendKey = "mlsn.x"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("real mail with a key should validate, got %v", err)
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := &config.Config{
		Paystack: config.PaystackConfig{Mode: "sandbox"},
		Booking:  config.BookingConfig{Overlap: config.OverlapReject},
		Email:    config.EmailConfig{DevMode: true},
	}
	if err := cfg.Validate(); !errors.Is(err, config.ErrUnknownPaymentMode) {
		t.Fatalf("expected ErrUnknownPaymentMode, got %v", err)
	}

	cfg.Paystack.Mode = config.PaymentModeMock
	cfg.Booking.Overlap = "maybe"
	if err := cfg.Validate(); !errors.Is(err, config.ErrUnknownOverlapPolicy) {
		t.Fatalf("expected ErrUnknownOverlapPolicy, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()
	if cfg.Paystack.Mode != config.PaymentModeMock {
		t.Errorf("default payment mode = %s, want mock", cfg.Paystack.Mode)
	}
	if cfg.Booking.Overlap != config.OverlapReject {
		t.Errorf("default overlap policy = %s, want reject", cfg.Booking.Overlap)
	}
	if cfg.Paystack.ExchangeMultiplier != 15 {
		t.Errorf("default exchange multiplier = %v, want 15", cfg.Paystack.ExchangeMultiplier)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}
