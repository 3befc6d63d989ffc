package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, name string) error
	SendImportSummary(email, batchID string, created, duplicates, rejected int) error
	SendPasswordResetEmail(email, token string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to SalesCRM")

	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your SalesCRM account has been created.</p>
		<p>Sign in to see the leads assigned to you.</p>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}

func (s *emailService) SendPasswordResetEmail(email, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password reset")

	body := fmt.Sprintf(`
		<p>A password reset was requested for your account.</p>
		<p>Your reset token: <code>%s</code></p>
		<p>The token expires in one hour. If you did not request this, ignore this email.</p>
	`, token)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}

func (s *emailService) SendImportSummary(email, batchID string, created, duplicates, rejected int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Lead import finished (%d created)", created))

	body := fmt.Sprintf(`
		<h3>Bulk import %s</h3>
		<p>Created: <strong>%d</strong></p>
		<p>Duplicates skipped: %d</p>
		<p>Rejected rows: %d</p>
	`, batchID, created, duplicates, rejected)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send import summary email: %w", err)
	}

	return nil
}
