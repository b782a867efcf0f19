package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"eventsupply_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationData = errors.New("invalid notification data")
)

// Notification type constants
const (
	NotificationTypeConnectionRequest   = "connection_request"
	NotificationTypeConnectionAccepted  = "connection_accepted"
	NotificationTypeConnectionDeclined  = "connection_declined"
	NotificationTypeInvitation          = "invitation"
	NotificationTypeApplicationAccepted = "application_accepted"
	NotificationTypeNewMessage          = "new_message"
	NotificationTypeTaskAssignment      = "task_assignment"
)

// SupplierActionableTypes is the set of types the supplier-side bell query
// restricts itself to.
var SupplierActionableTypes = []string{
	NotificationTypeInvitation,
	NotificationTypeApplicationAccepted,
	NotificationTypeNewMessage,
	NotificationTypeTaskAssignment,
	NotificationTypeConnectionRequest,
}

// BellFetchLimit bounds every bell query; the feed re-runs the same bounded
// query on each change event and replaces state wholesale.
const BellFetchLimit = 10

type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindByID(id string) (*models.Notification, error)
	FindForAdmin(adminUserID string, limit int) ([]models.Notification, error)
	FindForSupplier(supplierEmail string, limit int) ([]models.Notification, error)
	MarkAsRead(notificationID string) error
	MarkAllAsReadForAdmin(adminUserID string) error
	MarkAllAsReadForSupplier(supplierEmail string) error
	MarkConnectionRequestRead(connectionRequestID, supplierEmail string) error
	CountUnreadForAdmin(adminUserID string) (int64, error)
	CountUnreadForSupplier(supplierEmail string) (int64, error)

	// Factory methods for the connection workflow
	CreateConnectionRequestNotification(req *models.ConnectionRequest) error
	CreateConnectionResultNotification(req *models.ConnectionRequest, accepted bool) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	if err := r.validateNotification(notification); err != nil {
		return err
	}
	if notification.Status == "" {
		notification.Status = models.NotificationStatusUnread
	}

	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindForAdmin(adminUserID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = BellFetchLimit
	}

	var notifications []models.Notification
	err := r.db.Where("admin_user_id = ?", adminUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error

	return notifications, err
}

// FindForSupplier matches the case-normalized email and restricts the result
// to the actionable type set.
func (r *NotificationRepositoryImpl) FindForSupplier(supplierEmail string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = BellFetchLimit
	}

	var notifications []models.Notification
	err := r.db.Where("supplier_email = ? AND type IN ?", normalizeEmail(supplierEmail), SupplierActionableTypes).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error

	return notifications, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(notificationID string) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("status", models.NotificationStatusRead)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsReadForAdmin is idempotent: matching zero unread rows is not an
// error.
func (r *NotificationRepositoryImpl) MarkAllAsReadForAdmin(adminUserID string) error {
	return r.db.Model(&models.Notification{}).
		Where("admin_user_id = ? AND status = ?", adminUserID, models.NotificationStatusUnread).
		Update("status", models.NotificationStatusRead).Error
}

// MarkAllAsReadForSupplier flips only the rows the supplier's own feed
// shows. Result notifications carry the supplier email alongside the
// admin_user_id recipient; the type predicate keeps them out so a supplier
// cannot consume the admin's unread state.
func (r *NotificationRepositoryImpl) MarkAllAsReadForSupplier(supplierEmail string) error {
	return r.db.Model(&models.Notification{}).
		Where("supplier_email = ? AND status = ? AND type IN ?",
			normalizeEmail(supplierEmail), models.NotificationStatusUnread, SupplierActionableTypes).
		Update("status", models.NotificationStatusRead).Error
}

// MarkConnectionRequestRead flips the originating connection_request
// notification once the supplier has acted on it.
func (r *NotificationRepositoryImpl) MarkConnectionRequestRead(connectionRequestID, supplierEmail string) error {
	return r.db.Model(&models.Notification{}).
		Where("connection_request_id = ? AND supplier_email = ?", connectionRequestID, normalizeEmail(supplierEmail)).
		Update("status", models.NotificationStatusRead).Error
}

// CountUnreadForAdmin excludes the admin's own message echoes so the badge
// agrees with what the rendered list shows.
func (r *NotificationRepositoryImpl) CountUnreadForAdmin(adminUserID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("admin_user_id = ? AND status = ?", adminUserID, models.NotificationStatusUnread).
		Where("lower(content) NOT LIKE ?", "new message from admin%").
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) CountUnreadForSupplier(supplierEmail string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("supplier_email = ? AND status = ? AND type IN ?",
			normalizeEmail(supplierEmail), models.NotificationStatusUnread, SupplierActionableTypes).
		Where("lower(content) NOT LIKE ?", "new message from supplier%").
		Count(&count).Error
	return count, err
}

// Factory methods for the connection workflow

// CreateConnectionRequestNotification addresses the supplier by email and
// carries the requester identity in the metadata payload.
func (r *NotificationRepositoryImpl) CreateConnectionRequestNotification(req *models.ConnectionRequest) error {
	metadata := map[string]interface{}{
		"requester_name":  req.RequesterName,
		"requester_email": req.RequesterEmail,
	}

	jsonData, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	notification := &models.Notification{
		SupplierEmail:       normalizeEmail(req.SupplierEmail),
		Type:                NotificationTypeConnectionRequest,
		Content:             fmt.Sprintf("%s invited you to connect", req.RequesterName),
		Metadata:            datatypes.JSON(jsonData),
		ConnectionRequestID: req.ID,
		Status:              models.NotificationStatusUnread,
	}

	return r.Create(notification)
}

// CreateConnectionResultNotification addresses the original requester. The
// supplier email is carried alongside so the supplier-side feed predicate
// still matches the row.
func (r *NotificationRepositoryImpl) CreateConnectionResultNotification(req *models.ConnectionRequest, accepted bool) error {
	notifType := NotificationTypeConnectionDeclined
	verb := "declined"
	if accepted {
		notifType = NotificationTypeConnectionAccepted
		verb = "accepted"
	}

	metadata := map[string]interface{}{
		"supplier_name":  req.SupplierName,
		"supplier_email": req.SupplierEmail,
	}

	jsonData, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	notification := &models.Notification{
		AdminUserID:         req.RequesterID,
		SupplierEmail:       normalizeEmail(req.SupplierEmail),
		Type:                notifType,
		Content:             fmt.Sprintf("%s has %s your connection request", req.SupplierName, verb),
		Metadata:            datatypes.JSON(jsonData),
		ConnectionRequestID: req.ID,
		Status:              models.NotificationStatusUnread,
	}

	return r.Create(notification)
}

// Helpers

func (r *NotificationRepositoryImpl) validateNotification(notification *models.Notification) error {
	if notification.AdminUserID == "" && notification.SupplierEmail == "" {
		return errors.New("notification recipient is required")
	}

	if notification.Type == "" {
		return errors.New("notification type is required")
	}

	validTypes := map[string]bool{
		NotificationTypeConnectionRequest:   true,
		NotificationTypeConnectionAccepted:  true,
		NotificationTypeConnectionDeclined:  true,
		NotificationTypeInvitation:          true,
		NotificationTypeApplicationAccepted: true,
		NotificationTypeNewMessage:          true,
		NotificationTypeTaskAssignment:      true,
	}

	if !validTypes[notification.Type] {
		return fmt.Errorf("invalid notification type: %s", notification.Type)
	}

	if len(notification.Metadata) > 0 {
		if !json.Valid(notification.Metadata) {
			return ErrInvalidNotificationData
		}
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
