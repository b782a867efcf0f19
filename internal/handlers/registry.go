package handlers

// AppHandlers holds every handler the router mounts.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ProfileHandler      *ProfileHandler
	ConnectionHandler   *ConnectionHandler
	NotificationHandler *NotificationHandler
}
