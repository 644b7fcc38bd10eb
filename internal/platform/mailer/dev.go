package mailer

import "github.com/casaphilia/rentals-api/pkg/logger"

// DevMailer logs mail instead of sending it.
type DevMailer struct{}

func NewDev() *DevMailer { return &DevMailer{} }

func (d *DevMailer) SendBookingReceived(managerEmail, managerName, propertyTitle, bookingID string) error {
	logger.Info("dev mail: booking received",
		"to", managerEmail, "property", propertyTitle, "booking_id", bookingID)
	return nil
}

func (d *DevMailer) SendBookingDecision(residentEmail, residentName, propertyTitle, status string) error {
	logger.Info("dev mail: booking decision",
		"to", residentEmail, "property", propertyTitle, "status", status)
	return nil
}

func (d *DevMailer) SendPaymentConfirmed(residentEmail, residentName, propertyTitle, reference string) error {
	logger.Info("dev mail: payment confirmed",
		"to", residentEmail, "property", propertyTitle, "reference", reference)
	return nil
}

var _ Service = (*DevMailer)(nil)
