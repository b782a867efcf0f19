package dto

import "time"

// LiaisonResponse is a supplier's contact entry for a connected organizer.
type LiaisonResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	AdminEmail string    `json:"admin_email"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlannerResponse is an organizer's contact entry for a connected supplier.
type PlannerResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ConnectionType string    `json:"connection_type"`
	CreatedAt      time.Time `json:"created_at"`
}

type RosterResponse struct {
	Liaisons []*LiaisonResponse `json:"liaisons,omitempty"`
	Planners []*PlannerResponse `json:"planners,omitempty"`
	Total    int                `json:"total"`
}
