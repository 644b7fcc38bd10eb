package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// bookingTransitions is the forward-only status lattice. CANCELLED is
// terminal; a confirmed booking can still be cancelled by the manager.
var bookingTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingPending: {
		BookingConfirmed: true,
		BookingCancelled: true,
	},
	BookingConfirmed: {
		BookingCancelled: true,
	},
	BookingCancelled: {},
}

func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	return bookingTransitions[s][to]
}

func (s BookingStatus) Terminal() bool { return s == BookingCancelled }

type Booking struct {
	ID         string        `json:"id"`
	PropertyID string        `json:"property_id"`
	UserID     string        `json:"user_id"`
	CheckIn    time.Time     `json:"check_in"`
	CheckOut   time.Time     `json:"check_out"`
	Guests     int           `json:"guests"`
	TotalPrice float64       `json:"total_price"`
	Status     BookingStatus `json:"status"`
	Message    string        `json:"message,omitempty"`
	Phone      string        `json:"phone,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Nights is the stay length used for the authoritative price computation.
func (b *Booking) Nights() int {
	return NightsBetween(b.CheckIn, b.CheckOut)
}

func NightsBetween(checkIn, checkOut time.Time) int {
	n := int(checkOut.Sub(checkIn).Hours() / 24)
	if checkOut.Sub(checkIn)%(24*time.Hour) != 0 {
		n++
	}
	return n
}

type BookingCreateReq struct {
	PropertyID string    `json:"property_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"total_price"`
	Message    string    `json:"message,omitempty"`
	Phone      string    `json:"phone,omitempty"`
}

type BookingStatusReq struct {
	Status string `json:"status"`
}

// BookingWindow is the public calendar view of a booking: the occupied date
// range with no identifying detail.
type BookingWindow struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}
