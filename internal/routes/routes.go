package routes

import (
	"eventsupply_backend/internal/handlers"
	"eventsupply_backend/internal/logger"
	"eventsupply_backend/internal/middleware"
	"eventsupply_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the HTTP API and the websocket feed.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, wsHandler *ws.Handler) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.ProfileHandler.RegisterRoutes(api)
		appHandlers.ConnectionHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
	}

	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
