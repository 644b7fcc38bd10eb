package mailer

// Service sends marketplace notification mail. Implementations must be safe
// for concurrent use.
type Service interface {
	SendBookingReceived(managerEmail, managerName, propertyTitle, bookingID string) error
	SendBookingDecision(residentEmail, residentName, propertyTitle, status string) error
	SendPaymentConfirmed(residentEmail, residentName, propertyTitle, reference string) error
}
