package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	return &MailerSendClient{
		client: mailersend.NewMailersend(apiKey),
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
}

func (m *MailerSendClient) SendBookingReceived(managerEmail, managerName, propertyTitle, bookingID string) error {
	subject := "New booking request for " + propertyTitle
	html := fmt.Sprintf(`
		<h2>New booking request</h2>
		<p>Hi %s,</p>
		<p>A resident has requested to book <strong>%s</strong>.</p>
		<p>Review the request in your manager dashboard (booking %s).</p>
	`, managerName, propertyTitle, bookingID)
	text := fmt.Sprintf("A resident has requested to book %s. Booking id: %s", propertyTitle, bookingID)

	return m.send(managerEmail, managerName, subject, text, html)
}

func (m *MailerSendClient) SendBookingDecision(residentEmail, residentName, propertyTitle, status string) error {
	subject := fmt.Sprintf("Your booking for %s is %s", propertyTitle, status)
	html := fmt.Sprintf(`
		<h2>Booking update</h2>
		<p>Hi %s,</p>
		<p>Your booking for <strong>%s</strong> is now <strong>%s</strong>.</p>
	`, residentName, propertyTitle, status)
	text := fmt.Sprintf("Your booking for %s is now %s.", propertyTitle, status)

	return m.send(residentEmail, residentName, subject, text, html)
}

func (m *MailerSendClient) SendPaymentConfirmed(residentEmail, residentName, propertyTitle, reference string) error {
	subject := "Payment confirmed for " + propertyTitle
	html := fmt.Sprintf(`
		<h2>Payment confirmed</h2>
		<p>Hi %s,</p>
		<p>We received your payment for <strong>%s</strong>.</p>
		<p>Transaction reference: <strong>%s</strong></p>
	`, residentName, propertyTitle, reference)
	text := fmt.Sprintf("We received your payment for %s. Reference: %s", propertyTitle, reference)

	return m.send(residentEmail, residentName, subject, text, html)
}

func (m *MailerSendClient) send(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	msg.SetHTML(html)
	msg.SetText(text)

	_, err := m.client.Email.Send(ctx, msg)
	return err
}

var _ Service = (*MailerSendClient)(nil)
