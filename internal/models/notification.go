package models

import (
	"strings"

	"gorm.io/datatypes"
)

// ActorKey names the per-actor realtime channel notifications are pushed on.
// Admins are addressed by user id, suppliers by normalized email.
func ActorKey(role UserRole, userID, email string) string {
	if role == UserRoleSupplier {
		return "supplier:" + strings.ToLower(strings.TrimSpace(email))
	}
	return "admin:" + userID
}

// Notification is addressed to exactly one of AdminUserID / SupplierEmail,
// depending on the recipient's role. Content is the display string; Metadata
// carries the structured payload for types that have one. Rows are only ever
// mutated to flip Status unread -> read.
type Notification struct {
	BaseModel
	AdminUserID         string             `gorm:"index"`
	SupplierEmail       string             `gorm:"index"`
	Type                string             `gorm:"not null"`
	Content             string
	Metadata            datatypes.JSON     `gorm:"type:jsonb"`
	ConnectionRequestID string             `gorm:"index"`
	Status              NotificationStatus `gorm:"type:varchar(10);not null;default:'unread'"`
}
