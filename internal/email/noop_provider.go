package email

import (
	"eventsupply_backend/internal/logger"
)

// NoopProvider is used when email delivery is disabled (local development,
// tests). It logs instead of sending.
type NoopProvider struct{}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(email *Email) error {
	logger.Debug("email delivery disabled, dropping message", "to", email.To, "subject", email.Subject)
	return nil
}

func (p *NoopProvider) SendWelcome(to, name, role string) error {
	logger.Debug("email delivery disabled, dropping welcome email", "to", to, "role", role)
	return nil
}

func (p *NoopProvider) SendVerification(to, token string) error {
	logger.Debug("email delivery disabled, dropping verification email", "to", to)
	return nil
}

func (p *NoopProvider) SendConnectionRequest(to, requesterName string) error {
	logger.Debug("email delivery disabled, dropping connection request email", "to", to)
	return nil
}

func (p *NoopProvider) Close() error {
	return nil
}
