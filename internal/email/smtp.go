package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/rasreserve/autoshop-api/internal/config"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPService creates an email service backed by an SMTP relay.
func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) send(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *smtpService) SendBookingRequested(_ context.Context, to, name string, details BookingDetails) error {
	subject := "We received your service request"
	return s.send(to, subject, bookingRequestedHTML(name, details))
}

func (s *smtpService) SendBookingAccepted(_ context.Context, to, name string, details BookingDetails) error {
	subject := "Your appointment is confirmed"
	return s.send(to, subject, bookingAcceptedHTML(name, details))
}

func (s *smtpService) SendCustom(_ context.Context, to, subject, content string) error {
	return s.send(to, subject, content)
}
