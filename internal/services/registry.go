package services

import "eventsupply_backend/internal/email"

// ServiceContainer holds every service the handlers depend on.
type ServiceContainer struct {
	AuthService         AuthService
	ProfileService      ProfileService
	ConnectionService   ConnectionService
	NotificationService NotificationService
	RosterService       RosterService
	EmailService        email.Provider
	Sessions            *SessionCache
}
