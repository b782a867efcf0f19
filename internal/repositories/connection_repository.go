package repositories

import (
	"errors"
	"time"

	"eventsupply_backend/internal/models"

	"gorm.io/gorm"
)

var ErrConnectionRequestNotFound = errors.New("connection request not found")

// ConnectionDirection selects which side of the stored pair a listing query
// filters by. The relation is directional: an organizer is always the
// requester and a supplier always the supplier in the row.
type ConnectionDirection string

const (
	ConnectionDirectionReceived ConnectionDirection = "received"
	ConnectionDirectionSent     ConnectionDirection = "sent"
)

type ConnectionRepository interface {
	Create(request *models.ConnectionRequest) error
	FindByID(id string) (*models.ConnectionRequest, error)
	FindByPair(requesterID, supplierID string) (*models.ConnectionRequest, error)
	FindAcceptedByPair(requesterID, supplierID string) (*models.ConnectionRequest, error)
	FindByUser(userID string, direction ConnectionDirection) ([]models.ConnectionRequest, error)
	UpdateStatusForSupplier(id, supplierID string, status models.ConnectionStatus) (*models.ConnectionRequest, error)
}

type ConnectionRepositoryImpl struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &ConnectionRepositoryImpl{db: db}
}

func (r *ConnectionRepositoryImpl) Create(request *models.ConnectionRequest) error {
	return r.db.Create(request).Error
}

func (r *ConnectionRepositoryImpl) FindByID(id string) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	err := r.db.First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByPair returns the most recent request for the exact ordered pair, any
// status. Used for the duplicate pre-check; the read-then-write window is an
// accepted race.
func (r *ConnectionRepositoryImpl) FindByPair(requesterID, supplierID string) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	err := r.db.Where("requester_id = ? AND supplier_id = ?", requesterID, supplierID).
		Order("created_at DESC").
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *ConnectionRepositoryImpl) FindAcceptedByPair(requesterID, supplierID string) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	err := r.db.Where("requester_id = ? AND supplier_id = ? AND status = ?",
		requesterID, supplierID, models.ConnectionStatusAccepted).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *ConnectionRepositoryImpl) FindByUser(userID string, direction ConnectionDirection) ([]models.ConnectionRequest, error) {
	column := "supplier_id"
	if direction == ConnectionDirectionSent {
		column = "requester_id"
	}

	var requests []models.ConnectionRequest
	err := r.db.Where(column+" = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error

	return requests, err
}

// UpdateStatusForSupplier flips the status of the pending row matching both
// id and supplier_id. The supplier-id predicate is the authorization check: a
// mismatch matches zero rows and returns ErrConnectionRequestNotFound rather
// than a distinct permission error. The pending predicate keeps terminal
// states immutable.
func (r *ConnectionRepositoryImpl) UpdateStatusForSupplier(id, supplierID string, status models.ConnectionStatus) (*models.ConnectionRequest, error) {
	result := r.db.Model(&models.ConnectionRequest{}).
		Where("id = ? AND supplier_id = ? AND status = ?", id, supplierID, models.ConnectionStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrConnectionRequestNotFound
	}

	return r.FindByID(id)
}
