package services

import (
	"testing"

	"eventsupply_backend/internal/models"
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProfileFixture(t *testing.T) (*gorm.DB, ProfileService, repositories.ProfileRepository) {
	t.Helper()
	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	sessions := NewSessionCache(userRepo, profileRepo)
	return db, NewProfileService(profileRepo, sessions), profileRepo
}

func seedSupplierProfile(t *testing.T, repo repositories.ProfileRepository, userID, company, serviceType string) {
	t.Helper()
	require.NoError(t, repo.Create(&models.Profile{
		UserID:      userID,
		Email:       userID + "@supplier.test",
		FullName:    "Owner of " + company,
		Role:        models.UserRoleSupplier,
		CompanyName: company,
		ServiceType: serviceType,
	}))
}

func TestListSuppliers_FilterByServiceType(t *testing.T) {
	_, service, repo := newProfileFixture(t)

	seedSupplierProfile(t, repo, "s1", "Best Catering", "catering")
	seedSupplierProfile(t, repo, "s2", "Venue Masters", "venue")
	seedSupplierProfile(t, repo, "s3", "Party Plates", "catering")

	// An organizer profile must never surface in the directory.
	require.NoError(t, repo.Create(&models.Profile{
		UserID:   "a1",
		Email:    "acme@events.test",
		FullName: "Acme Events",
		Role:     models.UserRoleAdmin,
	}))

	resp, err := service.ListSuppliers(repositories.SupplierCriteria{ServiceType: "catering"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	for _, s := range resp.Suppliers {
		assert.Equal(t, "catering", s.ServiceType)
	}

	all, err := service.ListSuppliers(repositories.SupplierCriteria{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
}

func TestListSuppliers_Search(t *testing.T) {
	_, service, repo := newProfileFixture(t)

	seedSupplierProfile(t, repo, "s1", "Best Catering", "catering")
	seedSupplierProfile(t, repo, "s2", "Venue Masters", "venue")

	resp, err := service.ListSuppliers(repositories.SupplierCriteria{Search: "venue"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Venue Masters", resp.Suppliers[0].DisplayName)
}

func TestUpdateOwnProfile_PartialUpdate(t *testing.T) {
	_, service, repo := newProfileFixture(t)
	seedSupplierProfile(t, repo, "s1", "Best Catering", "catering")

	desc := "Full service catering for weddings and corporate events"
	promo := models.PromotionData{Title: "Autumn deal", Description: "10% off bookings in October"}

	updated, err := service.UpdateOwnProfile("s1", &dto.UpdateProfileRequest{
		Description: &desc,
		Promotion:   &promo,
	})
	require.NoError(t, err)

	// Untouched fields survive, the rest changed.
	assert.Equal(t, "Best Catering", updated.CompanyName)
	assert.Equal(t, desc, updated.Description)
	require.NotNil(t, updated.Promotion)
	assert.Equal(t, "Autumn deal", updated.Promotion.Title)
}

func TestGetOwnProfile_NotFound(t *testing.T) {
	_, service, _ := newProfileFixture(t)

	_, err := service.GetOwnProfile("missing")
	assert.Error(t, err)
}
