package services

import (
	"encoding/json"
	"strings"

	"eventsupply_backend/internal/models"
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services/dto"
	"eventsupply_backend/pkg/apperrors"
)

// NotificationService backs the bell: bounded fetches, read flips and the
// per-type display formatting. All formatting is total; a malformed row
// degrades to a generic message and never fails the fetch.
type NotificationService interface {
	GetNotifications(actor dto.NotificationActor) (*dto.NotificationListResponse, error)
	GetUnreadCount(actor dto.NotificationActor) (int64, error)
	MarkAsRead(notificationID string) error
	MarkAllAsRead(actor dto.NotificationActor) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// GetNotifications runs the bounded fetch for the actor's role and formats
// each row. The unread count is computed over the fetched page, excluding
// rows hidden from this viewer, which matches what the bell badge shows.
func (s *notificationService) GetNotifications(actor dto.NotificationActor) (*dto.NotificationListResponse, error) {
	var (
		notifications []models.Notification
		err           error
	)

	switch actor.Role {
	case models.UserRoleSupplier:
		notifications, err = s.notificationRepo.FindForSupplier(actor.Email, repositories.BellFetchLimit)
	case models.UserRoleAdmin:
		notifications, err = s.notificationRepo.FindForAdmin(actor.UserID, repositories.BellFetchLimit)
	default:
		return nil, apperrors.ErrInvalidUserRole
	}
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	unread := 0
	for i := range notifications {
		n := &notifications[i]
		message, hidden := FormatMessage(n, actor.Role)
		if n.Status == models.NotificationStatusUnread && !hidden {
			unread++
		}
		responses = append(responses, &dto.NotificationResponse{
			ID:                  n.ID,
			Type:                n.Type,
			Message:             message,
			Content:             n.Content,
			ConnectionRequestID: n.ConnectionRequestID,
			Status:              n.Status,
			Hidden:              hidden,
			CreatedAt:           n.CreatedAt,
		})
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) GetUnreadCount(actor dto.NotificationActor) (int64, error) {
	var (
		count int64
		err   error
	)

	switch actor.Role {
	case models.UserRoleSupplier:
		count, err = s.notificationRepo.CountUnreadForSupplier(actor.Email)
	case models.UserRoleAdmin:
		count, err = s.notificationRepo.CountUnreadForAdmin(actor.UserID)
	default:
		return 0, apperrors.ErrInvalidUserRole
	}
	if err != nil {
		return 0, apperrors.ErrStoreUnavailable(err)
	}
	return count, nil
}

func (s *notificationService) MarkAsRead(notificationID string) error {
	err := s.notificationRepo.MarkAsRead(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.ErrStoreUnavailable(err)
	}
	return nil
}

// MarkAllAsRead is idempotent; nothing unread is a no-op, not an error.
func (s *notificationService) MarkAllAsRead(actor dto.NotificationActor) error {
	var err error
	switch actor.Role {
	case models.UserRoleSupplier:
		err = s.notificationRepo.MarkAllAsReadForSupplier(actor.Email)
	case models.UserRoleAdmin:
		err = s.notificationRepo.MarkAllAsReadForAdmin(actor.UserID)
	default:
		return apperrors.ErrInvalidUserRole
	}
	if err != nil {
		return apperrors.ErrStoreUnavailable(err)
	}
	return nil
}

// notificationPayload is the structured metadata carried by workflow
// notifications. Only the fields a given type writes are populated; parsing
// a row with no metadata or broken JSON yields the zero value.
type notificationPayload struct {
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	SupplierName   string `json:"supplier_name"`
	SupplierEmail  string `json:"supplier_email"`
}

func parsePayload(n *models.Notification) notificationPayload {
	var payload notificationPayload
	if len(n.Metadata) == 0 {
		return payload
	}
	// Best effort: malformed metadata leaves the zero value and the
	// formatter falls back to the stored content.
	_ = json.Unmarshal(n.Metadata, &payload)
	return payload
}

// FormatMessage renders a notification for a viewer role and decides whether
// the row is hidden from that viewer. It never fails: unknown types and
// malformed payloads fall back to the stored content or a generic line.
//
// Hiding rules:
//   - connection_request rows are supplier-facing; an admin fetching a feed
//     that contains one (the request they themselves sent) never sees it.
//   - new_message rows are written once but addressed to both sides; the
//     side that authored the message hides its own echo, recognized by the
//     content prefix naming the author's role.
func FormatMessage(n *models.Notification, viewer models.UserRole) (message string, hidden bool) {
	payload := parsePayload(n)

	switch n.Type {
	case repositories.NotificationTypeConnectionRequest:
		if viewer == models.UserRoleAdmin {
			return "", true
		}
		if payload.RequesterName != "" {
			return payload.RequesterName + " invited you to connect", false
		}
		return fallback(n.Content, "You have a new connection request"), false

	case repositories.NotificationTypeConnectionAccepted:
		if payload.SupplierName != "" {
			return payload.SupplierName + " has accepted your connection request", false
		}
		return fallback(n.Content, "Your connection request was accepted"), false

	case repositories.NotificationTypeConnectionDeclined:
		if payload.SupplierName != "" {
			return payload.SupplierName + " has declined your connection request", false
		}
		return fallback(n.Content, "Your connection request was declined"), false

	case repositories.NotificationTypeNewMessage:
		if isSelfEcho(n.Content, viewer) {
			return "", true
		}
		return fallback(n.Content, "You have a new message"), false

	case repositories.NotificationTypeInvitation:
		return fallback(n.Content, "You have a new invitation"), false

	case repositories.NotificationTypeApplicationAccepted:
		return fallback(n.Content, "Your application was accepted"), false

	case repositories.NotificationTypeTaskAssignment:
		return fallback(n.Content, "You have a new task assignment"), false

	default:
		return fallback(n.Content, "You have a new notification"), false
	}
}

// isSelfEcho reports whether a new_message row describes a message the
// viewer's own side sent.
func isSelfEcho(content string, viewer models.UserRole) bool {
	lower := strings.ToLower(content)
	switch viewer {
	case models.UserRoleAdmin:
		return strings.HasPrefix(lower, "new message from admin")
	case models.UserRoleSupplier:
		return strings.HasPrefix(lower, "new message from supplier")
	}
	return false
}

func fallback(content, generic string) string {
	if strings.TrimSpace(content) != "" {
		return content
	}
	return generic
}
