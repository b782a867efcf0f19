package repositories

import (
	"errors"

	"eventsupply_backend/internal/models"

	"gorm.io/gorm"
)

type RosterRepository interface {
	CreateLiaison(liaison *models.Liaison) error
	CreatePlanner(planner *models.Planner) error
	PlannerExists(userID, email string) (bool, error)
	ListLiaisons(userID string) ([]models.Liaison, error)
	ListPlanners(userID string) ([]models.Planner, error)
}

type RosterRepositoryImpl struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &RosterRepositoryImpl{db: db}
}

func (r *RosterRepositoryImpl) CreateLiaison(liaison *models.Liaison) error {
	return r.db.Create(liaison).Error
}

// CreatePlanner normalizes the email on write so the PlannerExists guard
// matches rows regardless of the casing the request carried.
func (r *RosterRepositoryImpl) CreatePlanner(planner *models.Planner) error {
	planner.Email = normalizeEmail(planner.Email)
	return r.db.Create(planner).Error
}

// PlannerExists is the duplicate pre-check before a planner insert. The
// check-then-insert window is an accepted race; there is no unique
// constraint backing it.
func (r *RosterRepositoryImpl) PlannerExists(userID, email string) (bool, error) {
	var planner models.Planner
	err := r.db.Select("id").
		Where("user_id = ? AND email = ?", userID, normalizeEmail(email)).
		First(&planner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *RosterRepositoryImpl) ListLiaisons(userID string) ([]models.Liaison, error) {
	var liaisons []models.Liaison
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&liaisons).Error
	return liaisons, err
}

func (r *RosterRepositoryImpl) ListPlanners(userID string) ([]models.Planner, error) {
	var planners []models.Planner
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&planners).Error
	return planners, err
}
