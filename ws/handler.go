package ws

import (
	"net/http"

	"eventsupply_backend/internal/logger"
	"eventsupply_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin checks belong to the reverse proxy in production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Handler struct {
	Manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		Manager: manager,
	}
}

// ServeWS upgrades the request and registers the authenticated actor's feed
// client. Auth middleware has already placed identity in the gin context.
func (h *Handler) ServeWS(c *gin.Context) {
	userIDVal, exists := c.Get("userID")
	userID, _ := userIDVal.(string)
	if !exists || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	roleVal, _ := c.Get("role")
	roleStr, _ := roleVal.(string)
	role := models.UserRole(roleStr)

	emailVal, _ := c.Get("email")
	email, _ := emailVal.(string)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "error", err)
		return
	}

	client := &Client{
		Key:     models.ActorKey(role, userID, email),
		Conn:    conn,
		Send:    make(chan any, 256),
		Manager: h.Manager,
	}

	h.Manager.register <- client

	go client.readPump()
	go client.writePump()
}
