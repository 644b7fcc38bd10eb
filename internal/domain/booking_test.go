package domain_test

import (
	"testing"
	"time"

	"github.com/casaphilia/rentals-api/internal/domain"
)

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to domain.BookingStatus
		want     bool
	}{
		{domain.BookingPending, domain.BookingConfirmed, true},
		{domain.BookingPending, domain.BookingCancelled, true},
		{domain.BookingConfirmed, domain.BookingCancelled, true},
		{domain.BookingConfirmed, domain.BookingPending, false},
		{domain.BookingCancelled, domain.BookingConfirmed, false},
		{domain.BookingCancelled, domain.BookingPending, false},
		{domain.BookingPending, domain.BookingPending, false},
		{domain.BookingConfirmed, domain.BookingConfirmed, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	if !domain.BookingCancelled.Terminal() {
		t.Error("CANCELLED should be terminal")
	}
	if domain.BookingPending.Terminal() || domain.BookingConfirmed.Terminal() {
		t.Error("PENDING and CONFIRMED should not be terminal")
	}
}

func TestNightsBetween(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		checkOut time.Time
		want     int
	}{
		{"one night", base.AddDate(0, 0, 1), 1},
		{"one week", base.AddDate(0, 0, 7), 7},
		{"partial day rounds up", base.Add(36 * time.Hour), 2},
		{"under a day rounds up", base.Add(6 * time.Hour), 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := domain.NightsBetween(base, c.checkOut); got != c.want {
				t.Errorf("got %d nights, want %d", got, c.want)
			}
		})
	}
}

func TestParseBookingStatus(t *testing.T) {
	if _, ok := domain.ParseBookingStatus("CONFIRMED"); !ok {
		t.Error("CONFIRMED should parse")
	}
	if _, ok := domain.ParseBookingStatus("confirmed"); ok {
		t.Error("lowercase should not parse")
	}
	if _, ok := domain.ParseBookingStatus("DONE"); ok {
		t.Error("unknown status should not parse")
	}
}
