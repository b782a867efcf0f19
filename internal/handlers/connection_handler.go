package handlers

import (
	"net/http"

	"eventsupply_backend/internal/middleware"
	"eventsupply_backend/internal/models"
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services"
	"eventsupply_backend/internal/services/dto"
	"eventsupply_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	*BaseHandler
	connectionService services.ConnectionService
	rosterService     services.RosterService
	sessions          *services.SessionCache
}

func NewConnectionHandler(
	base *BaseHandler,
	connectionService services.ConnectionService,
	rosterService services.RosterService,
	sessions *services.SessionCache,
) *ConnectionHandler {
	return &ConnectionHandler{
		BaseHandler:       base,
		connectionService: connectionService,
		rosterService:     rosterService,
		sessions:          sessions,
	}
}

func (h *ConnectionHandler) RegisterRoutes(r *gin.RouterGroup) {
	connections := r.Group("/connections")
	connections.Use(middleware.AuthMiddleware())
	{
		connections.POST("", middleware.RequireRoles(models.UserRoleAdmin), h.SendRequest)
		connections.GET("", h.ListRequests)
		connections.GET("/status/:supplierId", middleware.RequireRoles(models.UserRoleAdmin), h.GetConnectionStatus)
		connections.PUT("/:connectionId/accept", middleware.RequireRoles(models.UserRoleSupplier), h.AcceptRequest)
		connections.PUT("/:connectionId/decline", middleware.RequireRoles(models.UserRoleSupplier), h.DeclineRequest)
	}

	roster := r.Group("/roster")
	roster.Use(middleware.AuthMiddleware())
	{
		roster.GET("/liaisons", middleware.RequireRoles(models.UserRoleSupplier), h.ListLiaisons)
		roster.GET("/planners", middleware.RequireRoles(models.UserRoleAdmin), h.ListPlanners)
	}
}

// SendRequest creates a pending connection request from the authenticated
// organizer to the supplier named in the body.
func (h *ConnectionHandler) SendRequest(c *gin.Context) {
	requester, ok := h.requesterParty(c)
	if !ok {
		return
	}

	var req dto.SendConnectionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.connectionService.SendConnectionRequest(c.Request.Context(), requester, req.Supplier)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ConnectionHandler) ListRequests(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	direction := repositories.ConnectionDirection(c.DefaultQuery("direction", string(repositories.ConnectionDirectionReceived)))

	resp, err := h.connectionService.GetConnectionRequests(userID, direction)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ConnectionHandler) GetConnectionStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	supplierID := c.Param("supplierId")
	if supplierID == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing supplier id"))
		return
	}

	resp, err := h.connectionService.AreUsersConnected(userID, supplierID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ConnectionHandler) AcceptRequest(c *gin.Context) {
	h.resolveRequest(c, true)
}

func (h *ConnectionHandler) DeclineRequest(c *gin.Context) {
	h.resolveRequest(c, false)
}

func (h *ConnectionHandler) resolveRequest(c *gin.Context, accept bool) {
	supplier, ok := h.supplierParty(c)
	if !ok {
		return
	}

	connectionID := c.Param("connectionId")
	if connectionID == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing connection request id"))
		return
	}

	var (
		resp *dto.ConnectionRequestResponse
		err  error
	)
	if accept {
		resp, err = h.connectionService.AcceptConnectionRequest(c.Request.Context(), connectionID, supplier)
	} else {
		resp, err = h.connectionService.DeclineConnectionRequest(c.Request.Context(), connectionID, supplier)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ConnectionHandler) ListLiaisons(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.rosterService.GetLiaisons(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ConnectionHandler) ListPlanners(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.rosterService.GetPlanners(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// requesterParty resolves the authenticated organizer's identity through
// the session cache so the stored request carries the display name.
func (h *ConnectionHandler) requesterParty(c *gin.Context) (dto.ConnectionParty, bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return dto.ConnectionParty{}, false
	}

	session, err := h.sessions.Get(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return dto.ConnectionParty{}, false
	}

	party := dto.ConnectionParty{
		ID:    session.ID,
		Name:  session.Email,
		Email: session.Email,
	}
	if session.Profile != nil {
		party.Name = session.Profile.DisplayName
	}
	return party, true
}

func (h *ConnectionHandler) supplierParty(c *gin.Context) (dto.ConnectionParty, bool) {
	actor, ok := h.GetActor(c)
	if !ok {
		return dto.ConnectionParty{}, false
	}
	return dto.ConnectionParty{
		ID:    actor.UserID,
		Email: actor.Email,
	}, true
}
