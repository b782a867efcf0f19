package email

// Provider sends transactional email. All calls are best-effort from the
// caller's point of view: the connection workflow logs delivery failures and
// moves on.
type Provider interface {
	Send(email *Email) error
	SendWelcome(to, name, role string) error
	SendVerification(to, token string) error
	SendConnectionRequest(to, requesterName string) error
	Close() error
}

// Email is a plain message envelope.
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}
