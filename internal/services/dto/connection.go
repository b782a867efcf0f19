package dto

import (
	"time"

	"eventsupply_backend/internal/models"
)

// ConnectionParty identifies one side of a connection request.
type ConnectionParty struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type SendConnectionRequest struct {
	Supplier ConnectionParty `json:"supplier" validate:"required"`
}

type ConnectionRequestResponse struct {
	ID             string                  `json:"id"`
	RequesterID    string                  `json:"requester_id"`
	RequesterName  string                  `json:"requester_name"`
	RequesterEmail string                  `json:"requester_email"`
	SupplierID     string                  `json:"supplier_id"`
	SupplierName   string                  `json:"supplier_name"`
	SupplierEmail  string                  `json:"supplier_email"`
	Status         models.ConnectionStatus `json:"status"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type ConnectionListResponse struct {
	Requests []*ConnectionRequestResponse `json:"requests"`
	Total    int                          `json:"total"`
}

type ConnectionStatusResponse struct {
	Connected bool `json:"connected"`
}
