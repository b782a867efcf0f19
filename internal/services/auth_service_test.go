package services

import (
	"testing"

	"eventsupply_backend/internal/config"
	"eventsupply_backend/internal/email"
	"eventsupply_backend/internal/models"
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services/dto"
	"eventsupply_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthFixture(t *testing.T) (*gorm.DB, AuthService, *SessionCache) {
	t.Helper()

	// Token signing reads the global config; give it a fixed test secret.
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60

	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	sessions := NewSessionCache(userRepo, profileRepo)

	service := NewAuthService(userRepo, profileRepo, refreshTokenRepo, email.NewNoopProvider(), sessions)
	return db, service, sessions
}

func registerSupplier(t *testing.T, service AuthService) *dto.UserResponse {
	t.Helper()
	user, err := service.Register(&dto.RegisterRequest{
		Email:       "best@catering.test",
		Password:    "password123",
		Role:        models.UserRoleSupplier,
		FullName:    "Bella Catering",
		CompanyName: "Best Catering",
		ServiceType: "catering",
	})
	require.NoError(t, err)
	return user
}

func TestRegister_CreatesUserAndProfile(t *testing.T) {
	_, service, _ := newAuthFixture(t)

	user := registerSupplier(t, service)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.UserRoleSupplier, user.Role)
	require.NotNil(t, user.Profile)
	assert.Equal(t, "Best Catering", user.Profile.DisplayName)
	assert.Equal(t, "catering", user.Profile.ServiceType)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	_, service, _ := newAuthFixture(t)
	registerSupplier(t, service)

	_, err := service.Register(&dto.RegisterRequest{
		Email:    "best@catering.test",
		Password: "password123",
		Role:     models.UserRoleSupplier,
		FullName: "Another",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	_, service, _ := newAuthFixture(t)

	_, err := service.Register(&dto.RegisterRequest{
		Email:    "short@pass.test",
		Password: "short",
		Role:     models.UserRoleAdmin,
		FullName: "Shorty",
	})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

func TestLogin_And_Refresh(t *testing.T) {
	_, service, _ := newAuthFixture(t)
	registerSupplier(t, service)

	session, err := service.Login(&dto.LoginRequest{
		Email:    "best@catering.test",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	require.NotNil(t, session.User.Profile)

	// The refresh token is single use.
	renewed, err := service.RefreshToken(session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, renewed.RefreshToken)

	_, err = service.RefreshToken(session.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, service, _ := newAuthFixture(t)
	registerSupplier(t, service)

	_, err := service.Login(&dto.LoginRequest{
		Email:    "best@catering.test",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "nobody@nowhere.test",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogout_InvalidatesRefreshToken(t *testing.T) {
	_, service, _ := newAuthFixture(t)
	registerSupplier(t, service)

	session, err := service.Login(&dto.LoginRequest{
		Email:    "best@catering.test",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(session.RefreshToken))

	_, err = service.RefreshToken(session.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestSessionCache_CachesAndInvalidates(t *testing.T) {
	db, service, sessions := newAuthFixture(t)
	user := registerSupplier(t, service)

	first, err := sessions.Get(user.ID)
	require.NoError(t, err)
	require.NotNil(t, first.Profile)
	assert.Equal(t, "Best Catering", first.Profile.DisplayName)

	// A direct store write is invisible until the entry is invalidated.
	require.NoError(t, db.Model(&models.Profile{}).
		Where("user_id = ?", user.ID).
		Update("company_name", "Best Catering & Co").Error)

	cached, err := sessions.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Best Catering", cached.Profile.DisplayName)

	sessions.Invalidate(user.ID)

	fresh, err := sessions.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Best Catering & Co", fresh.Profile.DisplayName)
}

func TestSessionCache_UnknownUser(t *testing.T) {
	_, _, sessions := newAuthFixture(t)

	_, err := sessions.Get("no-such-user")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
