package handlers

import (
	"net/http"

	"eventsupply_backend/internal/middleware"
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services"
	"eventsupply_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	profile := r.Group("/profile")
	profile.Use(middleware.AuthMiddleware())
	{
		profile.GET("/me", h.GetOwnProfile)
		profile.PUT("/me", h.UpdateOwnProfile)
	}

	// The supplier directory is public: category pages render it without a
	// session.
	suppliers := r.Group("/suppliers")
	{
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:email", h.GetSupplierByEmail)
	}
}

func (h *ProfileHandler) GetOwnProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetOwnProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateOwnProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateOwnProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetSupplierByEmail backs the public supplier detail page, which links
// suppliers by email rather than user id.
func (h *ProfileHandler) GetSupplierByEmail(c *gin.Context) {
	profile, err := h.profileService.GetProfileByEmail(c.Param("email"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) ListSuppliers(c *gin.Context) {
	var criteria repositories.SupplierCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	suppliers, err := h.profileService.ListSuppliers(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, suppliers)
}
