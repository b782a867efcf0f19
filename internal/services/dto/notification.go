package dto

import (
	"time"

	"eventsupply_backend/internal/models"
)

// NotificationActor identifies who is looking at the bell. Admins are
// addressed by user id, suppliers by email.
type NotificationActor struct {
	Role   models.UserRole
	UserID string
	Email  string
}

type NotificationResponse struct {
	ID                  string                    `json:"id"`
	Type                string                    `json:"type"`
	Message             string                    `json:"message"`
	Content             string                    `json:"content,omitempty"`
	ConnectionRequestID string                    `json:"connection_request_id,omitempty"`
	Status              models.NotificationStatus `json:"status"`
	Hidden              bool                      `json:"hidden"`
	CreatedAt           time.Time                 `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int                     `json:"unread_count"`
}

// NotificationEvent is pushed on the websocket feed when a row addressed to
// the actor is inserted. Clients respond by re-running the bounded fetch.
type NotificationEvent struct {
	Event string                `json:"event"`
	Data  *NotificationResponse `json:"data,omitempty"`
}
