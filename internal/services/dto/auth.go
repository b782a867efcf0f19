package dto

import "eventsupply_backend/internal/models"

type RegisterRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	Password    string          `json:"password" validate:"required,min=8"`
	Role        models.UserRole `json:"role" validate:"required,oneof=admin supplier"`
	FullName    string          `json:"full_name" validate:"required"`
	CompanyName string          `json:"company_name"`
	ServiceType string          `json:"service_type"`
	Address     string          `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	Role       models.UserRole  `json:"role"`
	IsVerified bool             `json:"is_verified"`
	Profile    *ProfileResponse `json:"profile,omitempty"`
}
