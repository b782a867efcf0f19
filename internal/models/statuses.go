package models

type UserStatus string
type UserRole string
type ConnectionStatus string
type NotificationStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleAdmin    UserRole = "admin"
	UserRoleSupplier UserRole = "supplier"

	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusDeclined ConnectionStatus = "declined"

	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// IsTerminal reports whether a connection request can no longer change status.
func (s ConnectionStatus) IsTerminal() bool {
	return s == ConnectionStatusAccepted || s == ConnectionStatusDeclined
}

// IsActive reports whether the request blocks a new one for the same pair.
func (s ConnectionStatus) IsActive() bool {
	return s == ConnectionStatusPending || s == ConnectionStatusAccepted
}
