package services

import (
	"context"

	"eventsupply_backend/internal/email"
	"eventsupply_backend/internal/logger"
	"eventsupply_backend/internal/models"
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services/dto"
	"eventsupply_backend/pkg/apperrors"
)

// FeedPublisher pushes change events onto per-actor realtime channels.
// Implemented by the ws manager; a no-op in tests.
type FeedPublisher interface {
	Publish(key string, message any)
}

// ConnectionService owns the connection-request lifecycle between an event
// organizer (requester) and a supplier, and the notifications it produces.
//
// Every operation treats the primary status mutation as authoritative and
// all following writes as an advisory saga: each step is attempted in order,
// failures are logged and never roll back what already committed. Callers
// must tolerate partial completion.
type ConnectionService interface {
	SendConnectionRequest(ctx context.Context, requester, supplier dto.ConnectionParty) (*dto.ConnectionRequestResponse, error)
	AcceptConnectionRequest(ctx context.Context, connectionRequestID string, supplier dto.ConnectionParty) (*dto.ConnectionRequestResponse, error)
	DeclineConnectionRequest(ctx context.Context, connectionRequestID string, supplier dto.ConnectionParty) (*dto.ConnectionRequestResponse, error)
	GetConnectionRequests(userID string, direction repositories.ConnectionDirection) (*dto.ConnectionListResponse, error)
	AreUsersConnected(requesterID, supplierID string) (*dto.ConnectionStatusResponse, error)
}

type connectionService struct {
	connectionRepo   repositories.ConnectionRepository
	notificationRepo repositories.NotificationRepository
	rosterRepo       repositories.RosterRepository
	emailProvider    email.Provider
	feed             FeedPublisher
}

func NewConnectionService(
	connectionRepo repositories.ConnectionRepository,
	notificationRepo repositories.NotificationRepository,
	rosterRepo repositories.RosterRepository,
	emailProvider email.Provider,
	feed FeedPublisher,
) ConnectionService {
	return &connectionService{
		connectionRepo:   connectionRepo,
		notificationRepo: notificationRepo,
		rosterRepo:       rosterRepo,
		emailProvider:    emailProvider,
		feed:             feed,
	}
}

// sagaStep is one best-effort side effect of a committed status change.
type sagaStep struct {
	name string
	run  func() error
}

// runAdvisorySteps executes every step in order regardless of individual
// failures. Nothing is rolled back; a failed step surfaces later as a
// missing roster entry or an undelivered notification, which is the accepted
// failure model (no transaction spans the store round-trips).
func (s *connectionService) runAdvisorySteps(ctx context.Context, operation string, steps []sagaStep) {
	for _, step := range steps {
		if err := step.run(); err != nil {
			logger.CtxWithError(ctx, "advisory step failed", err,
				"operation", operation,
				"step", step.name,
			)
		}
	}
}

// SendConnectionRequest creates a pending request after checking that no
// active one exists for the exact (requester, supplier) pair. The duplicate
// check is read-then-write with no lock; two near-simultaneous requests can
// still both pass it.
func (s *connectionService) SendConnectionRequest(ctx context.Context, requester, supplier dto.ConnectionParty) (*dto.ConnectionRequestResponse, error) {
	if requester.ID == "" || supplier.ID == "" {
		return nil, apperrors.NewBadRequestError("Requester and supplier ids are required")
	}
	if requester.ID == supplier.ID {
		return nil, apperrors.ErrInvalidOperation("connection", "Cannot send a connection request to yourself")
	}

	existing, err := s.connectionRepo.FindByPair(requester.ID, supplier.ID)
	if err != nil && !apperrors.Is(err, repositories.ErrConnectionRequestNotFound) {
		return nil, apperrors.ErrStoreUnavailable(err)
	}
	if existing != nil {
		switch existing.Status {
		case models.ConnectionStatusPending:
			return nil, apperrors.ErrDuplicateRequest
		case models.ConnectionStatusAccepted:
			return nil, apperrors.ErrAlreadyConnected
		}
		// A declined request does not block a new one.
	}

	request := &models.ConnectionRequest{
		RequesterID:    requester.ID,
		RequesterName:  requester.Name,
		RequesterEmail: requester.Email,
		SupplierID:     supplier.ID,
		SupplierName:   supplier.Name,
		SupplierEmail:  supplier.Email,
		Status:         models.ConnectionStatusPending,
	}

	if err := s.connectionRepo.Create(request); err != nil {
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	// The request row is committed; everything below is advisory. The
	// notification must come second because it carries the request id.
	s.runAdvisorySteps(ctx, "send_connection_request", []sagaStep{
		{
			name: "notify_supplier",
			run: func() error {
				if err := s.notificationRepo.CreateConnectionRequestNotification(request); err != nil {
					return err
				}
				s.publishInsert(models.UserRoleSupplier, "", request.SupplierEmail)
				return nil
			},
		},
		{
			name: "email_supplier",
			run: func() error {
				return s.emailProvider.SendConnectionRequest(request.SupplierEmail, request.RequesterName)
			},
		},
	})

	return buildConnectionResponse(request), nil
}

// AcceptConnectionRequest flips the request to accepted, authorized by the
// (id, supplier_id) predicate, then runs the acceptance saga: liaison row
// for the supplier's view, originating notification marked read, planner row
// for the requester's view, acceptance notification back to the requester.
func (s *connectionService) AcceptConnectionRequest(ctx context.Context, connectionRequestID string, supplier dto.ConnectionParty) (*dto.ConnectionRequestResponse, error) {
	request, err := s.connectionRepo.UpdateStatusForSupplier(connectionRequestID, supplier.ID, models.ConnectionStatusAccepted)
	if err != nil {
		if apperrors.Is(err, repositories.ErrConnectionRequestNotFound) {
			return nil, apperrors.ErrNotFoundOrUnauthorized
		}
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	s.runAdvisorySteps(ctx, "accept_connection_request", []sagaStep{
		{
			name: "add_liaison",
			run: func() error {
				return s.rosterRepo.CreateLiaison(&models.Liaison{
					UserID:     supplier.ID,
					Name:       request.RequesterName,
					Email:      request.RequesterEmail,
					AdminEmail: request.RequesterEmail,
				})
			},
		},
		{
			name: "mark_request_notification_read",
			run: func() error {
				return s.notificationRepo.MarkConnectionRequestRead(request.ID, supplier.Email)
			},
		},
		{
			name: "add_planner",
			run: func() error {
				exists, err := s.rosterRepo.PlannerExists(request.RequesterID, request.SupplierEmail)
				if err != nil {
					return err
				}
				if exists {
					return nil
				}
				return s.rosterRepo.CreatePlanner(&models.Planner{
					UserID:         request.RequesterID,
					Name:           request.SupplierName,
					Email:          request.SupplierEmail,
					ConnectionType: "supplier",
				})
			},
		},
		{
			name: "notify_requester",
			run: func() error {
				// Re-read so the notification sees the committed row.
				fresh, err := s.connectionRepo.FindByID(request.ID)
				if err != nil {
					return err
				}
				if err := s.notificationRepo.CreateConnectionResultNotification(fresh, true); err != nil {
					return err
				}
				s.publishInsert(models.UserRoleAdmin, fresh.RequesterID, "")
				return nil
			},
		},
	})

	return buildConnectionResponse(request), nil
}

// DeclineConnectionRequest flips the request to declined with the same
// authorization pattern as accept. No roster rows are written.
func (s *connectionService) DeclineConnectionRequest(ctx context.Context, connectionRequestID string, supplier dto.ConnectionParty) (*dto.ConnectionRequestResponse, error) {
	request, err := s.connectionRepo.UpdateStatusForSupplier(connectionRequestID, supplier.ID, models.ConnectionStatusDeclined)
	if err != nil {
		if apperrors.Is(err, repositories.ErrConnectionRequestNotFound) {
			return nil, apperrors.ErrNotFoundOrUnauthorized
		}
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	s.runAdvisorySteps(ctx, "decline_connection_request", []sagaStep{
		{
			name: "mark_request_notification_read",
			run: func() error {
				return s.notificationRepo.MarkConnectionRequestRead(request.ID, supplier.Email)
			},
		},
		{
			name: "notify_requester",
			run: func() error {
				fresh, err := s.connectionRepo.FindByID(request.ID)
				if err != nil {
					return err
				}
				if err := s.notificationRepo.CreateConnectionResultNotification(fresh, false); err != nil {
					return err
				}
				s.publishInsert(models.UserRoleAdmin, fresh.RequesterID, "")
				return nil
			},
		},
	})

	return buildConnectionResponse(request), nil
}

func (s *connectionService) GetConnectionRequests(userID string, direction repositories.ConnectionDirection) (*dto.ConnectionListResponse, error) {
	if direction != repositories.ConnectionDirectionReceived && direction != repositories.ConnectionDirectionSent {
		return nil, apperrors.NewBadRequestError("direction must be 'received' or 'sent'")
	}

	requests, err := s.connectionRepo.FindByUser(userID, direction)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	responses := make([]*dto.ConnectionRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, buildConnectionResponse(&requests[i]))
	}

	return &dto.ConnectionListResponse{
		Requests: responses,
		Total:    len(responses),
	}, nil
}

// AreUsersConnected checks the exact directional pair: the organizer is
// always the requester in the stored row and the supplier always the
// supplier. The reversed pair is a different key on purpose.
func (s *connectionService) AreUsersConnected(requesterID, supplierID string) (*dto.ConnectionStatusResponse, error) {
	_, err := s.connectionRepo.FindAcceptedByPair(requesterID, supplierID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrConnectionRequestNotFound) {
			return &dto.ConnectionStatusResponse{Connected: false}, nil
		}
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	return &dto.ConnectionStatusResponse{Connected: true}, nil
}

// publishInsert nudges the recipient's feed; clients react by re-running
// their bounded fetch.
func (s *connectionService) publishInsert(role models.UserRole, userID, email string) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(models.ActorKey(role, userID, email), &dto.NotificationEvent{Event: "notification_insert"})
}

func buildConnectionResponse(request *models.ConnectionRequest) *dto.ConnectionRequestResponse {
	return &dto.ConnectionRequestResponse{
		ID:             request.ID,
		RequesterID:    request.RequesterID,
		RequesterName:  request.RequesterName,
		RequesterEmail: request.RequesterEmail,
		SupplierID:     request.SupplierID,
		SupplierName:   request.SupplierName,
		SupplierEmail:  request.SupplierEmail,
		Status:         request.Status,
		CreatedAt:      request.CreatedAt,
		UpdatedAt:      request.UpdatedAt,
	}
}
