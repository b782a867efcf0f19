package models

// ConnectionRequest links an event organizer (requester) to a supplier.
// Status moves strictly pending -> accepted | declined and never leaves a
// terminal state. Names and emails are denormalized at creation time so the
// notification payloads do not need profile lookups.
type ConnectionRequest struct {
	BaseModel
	RequesterID    string           `gorm:"not null;index:idx_connection_pair"`
	RequesterName  string           `gorm:"not null"`
	RequesterEmail string           `gorm:"not null"`
	SupplierID     string           `gorm:"not null;index:idx_connection_pair;index"`
	SupplierName   string           `gorm:"not null"`
	SupplierEmail  string           `gorm:"not null"`
	Status         ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}
