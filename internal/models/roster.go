package models

// Roster rows are append-only side effects of an accepted connection.
// Each side of the connection gets its own view: the supplier sees the
// organizer as a liaison, the organizer sees the supplier as a planner.

// Liaison is the supplier-owned view of a connected organizer.
type Liaison struct {
	BaseModel
	UserID     string `gorm:"not null;index"` // supplier user
	Name       string `gorm:"not null"`
	Email      string `gorm:"not null"`
	AdminEmail string
}

// Planner is the organizer-owned view of a connected supplier. Duplicate
// inserts are avoided by a pre-check query, not a unique constraint.
type Planner struct {
	BaseModel
	UserID         string `gorm:"not null;index"` // organizer user
	Name           string `gorm:"not null"`
	Email          string `gorm:"not null;index"`
	ConnectionType string // "supplier" for rows created by the connection workflow
}
