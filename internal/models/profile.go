package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Profile mirrors the identity of a signed-up user. One row per user, keyed
// by the identity-provider id; created at sign-up, edited by the owner,
// never deleted.
type Profile struct {
	BaseModel
	UserID      string   `gorm:"uniqueIndex;not null"`
	Email       string   `gorm:"not null;index"`
	FullName    string   `gorm:"not null"`
	Role        UserRole `gorm:"type:varchar(20);not null;index"`
	CompanyName string
	ServiceType string `gorm:"index"` // supplier category, empty for admins
	Description string
	Address     string
	Promotion   datatypes.JSON `gorm:"type:jsonb"` // {"title": "...", "description": "..."}
}

// Promotion payload as edited on the profile page.
type PromotionData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DisplayName prefers the company name, then the full name, then the email.
func (p *Profile) DisplayName() string {
	if p.CompanyName != "" {
		return p.CompanyName
	}
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

func (p *Profile) GetPromotion() PromotionData {
	var promo PromotionData
	if len(p.Promotion) > 0 {
		_ = json.Unmarshal(p.Promotion, &promo)
	}
	return promo
}

func (p *Profile) SetPromotion(promo PromotionData) {
	data, _ := json.Marshal(promo)
	p.Promotion = datatypes.JSON(data)
}
