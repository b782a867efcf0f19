package repositories

import (
	"errors"
	"strings"

	"eventsupply_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

// SupplierCriteria filters the public supplier listing. A single
// parameterized query backs every category page.
type SupplierCriteria struct {
	ServiceType string `form:"service_type"`
	Search      string `form:"search"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type ProfileRepository interface {
	Create(profile *models.Profile) error
	FindByUserID(userID string) (*models.Profile, error)
	FindByEmail(email string) (*models.Profile, error)
	Update(profile *models.Profile) error
	FindSuppliers(criteria SupplierCriteria) ([]models.Profile, error)
}

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *ProfileRepositoryImpl) FindSuppliers(criteria SupplierCriteria) ([]models.Profile, error) {
	var profiles []models.Profile
	query := r.db.Where("role = ?", models.UserRoleSupplier)

	if criteria.ServiceType != "" {
		query = query.Where("service_type = ?", criteria.ServiceType)
	}

	if criteria.Search != "" {
		pattern := "%" + strings.ToLower(criteria.Search) + "%"
		query = query.Where("lower(full_name) LIKE ? OR lower(company_name) LIKE ?", pattern, pattern)
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = 50
	}

	err := query.Order("company_name ASC, full_name ASC").
		Limit(limit).
		Find(&profiles).Error

	return profiles, err
}
