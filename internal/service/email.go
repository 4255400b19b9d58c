package service

import (
	"context"
	"fmt"
	"time"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService builds a SendGrid-backed mailer. An empty API key disables
// sending (local development), which the send path logs and skips.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	if s.apiKey == "" {
		logger.Debug("Email sending disabled, skipping", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendRentalRequestNotification(ctx context.Context, ownerEmail, ownerName, renterName, productName string, start, end time.Time) error {
	subject := fmt.Sprintf("New rental request for %s", productName)
	body := fmt.Sprintf("Hello %s,\n\n%s requested to rent %s from %s to %s.\n\nOpen your rental inbox to accept or decline.",
		ownerName, renterName, productName, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return s.send(ownerEmail, ownerName, subject, body)
}

func (s *emailService) SendRentalStatusNotification(ctx context.Context, toEmail, toName, productName string, status domain.RentalStatus, reason string) error {
	subject := fmt.Sprintf("Rental request %s - %s", status, productName)
	body := fmt.Sprintf("Hello %s,\n\nThe rental request for %s is now %s.", toName, productName, status)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	return s.send(toEmail, toName, subject, body)
}

func (s *emailService) SendSwapOfferNotification(ctx context.Context, ownerEmail, ownerName, requesterName, productName, offerDescription string) error {
	subject := fmt.Sprintf("New swap offer for %s", productName)
	body := fmt.Sprintf("Hello %s,\n\n%s offered a swap for %s:\n\n%s\n\nOpen your swap inbox to respond.",
		ownerName, requesterName, productName, offerDescription)
	return s.send(ownerEmail, ownerName, subject, body)
}

func (s *emailService) SendSwapStatusNotification(ctx context.Context, toEmail, toName, productName string, status domain.SwapStatus, reason string) error {
	subject := fmt.Sprintf("Swap request %s - %s", status, productName)
	body := fmt.Sprintf("Hello %s,\n\nThe swap request for %s is now %s.", toName, productName, status)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	return s.send(toEmail, toName, subject, body)
}
