package email

import (
	"fmt"

	"eventsupply_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers email over SMTP via gomail.
type SMTPProvider struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

func NewSMTPProvider(cfg *config.Config) (*SMTPProvider, error) {
	if cfg.Email.SMTPHost == "" {
		return nil, fmt.Errorf("smtp host is not configured")
	}

	dialer := gomail.NewDialer(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUsername,
		cfg.Email.SMTPPassword,
	)

	return &SMTPProvider{
		dialer:    dialer,
		fromEmail: cfg.Email.FromEmail,
		fromName:  cfg.Email.FromName,
	}, nil
}

func (p *SMTPProvider) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()

	from := email.From
	if from == "" {
		from = p.fromEmail
	}
	m.SetAddressHeader("From", from, p.fromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Body)
	if email.HTMLBody != "" {
		m.AddAlternative("text/html", email.HTMLBody)
	}

	return p.dialer.DialAndSend(m)
}

func (p *SMTPProvider) SendWelcome(to, name, role string) error {
	return p.Send(&Email{
		To:      []string{to},
		Subject: "Welcome to EventSupply",
		Body: fmt.Sprintf("Hi %s,\n\nYour %s account is ready. Sign in to complete your profile.\n\nThe EventSupply team",
			name, role),
	})
}

func (p *SMTPProvider) SendVerification(to, token string) error {
	return p.Send(&Email{
		To:      []string{to},
		Subject: "Verify your email",
		Body:    fmt.Sprintf("Use this token to verify your email address: %s", token),
	})
}

func (p *SMTPProvider) SendConnectionRequest(to, requesterName string) error {
	return p.Send(&Email{
		To:      []string{to},
		Subject: "New connection request",
		Body: fmt.Sprintf("%s invited you to connect on EventSupply. Sign in to accept or decline the request.",
			requesterName),
	})
}

func (p *SMTPProvider) Close() error {
	// gomail dials per message; nothing held open.
	return nil
}
