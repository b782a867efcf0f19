package dto

import (
	"time"

	"eventsupply_backend/internal/models"
)

type ProfileResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	Email       string                `json:"email"`
	FullName    string                `json:"full_name"`
	CompanyName string                `json:"company_name,omitempty"`
	DisplayName string                `json:"display_name"`
	Role        models.UserRole       `json:"role"`
	ServiceType string                `json:"service_type,omitempty"`
	Description string                `json:"description,omitempty"`
	Address     string                `json:"address,omitempty"`
	Promotion   *models.PromotionData `json:"promotion,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName    *string               `json:"full_name,omitempty"`
	CompanyName *string               `json:"company_name,omitempty"`
	ServiceType *string               `json:"service_type,omitempty"`
	Description *string               `json:"description,omitempty"`
	Address     *string               `json:"address,omitempty"`
	Promotion   *models.PromotionData `json:"promotion,omitempty"`
}

type SupplierListResponse struct {
	Suppliers []*ProfileResponse `json:"suppliers"`
	Total     int                `json:"total"`
}
