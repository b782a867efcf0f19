package services

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"eventsupply_backend/internal/auth"
	"eventsupply_backend/internal/email"
	"eventsupply_backend/internal/logger"
	"eventsupply_backend/internal/models"
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services/dto"
	"eventsupply_backend/pkg/apperrors"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(refreshToken string) (*dto.LoginResponse, error)
	Logout(refreshToken string) error
	VerifyEmail(token string) error
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
	sessions         *SessionCache
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
	sessions *SessionCache,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
		sessions:         sessions,
	}
}

// Register creates the user and the profile row the rest of the system keys
// on. The profile write is part of registration: if it fails the user row is
// removed again so a half-registered account cannot log in.
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	if req.Role != models.UserRoleAdmin && req.Role != models.UserRoleSupplier {
		return nil, apperrors.ErrInvalidUserRole
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hashedPassword,
		Role:              req.Role,
		Status:            models.UserStatusActive,
		IsVerified:        false,
		VerificationToken: generateRandomToken(),
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	profile := &models.Profile{
		UserID:      user.ID,
		Email:       user.Email,
		FullName:    req.FullName,
		Role:        user.Role,
		CompanyName: req.CompanyName,
		ServiceType: req.ServiceType,
		Address:     req.Address,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		s.userRepo.Delete(user.ID)
		return nil, apperrors.InternalError(err)
	}

	// Best-effort mail; the account exists either way.
	if err := s.emailProvider.SendWelcome(user.Email, req.FullName, string(user.Role)); err != nil {
		logger.WithError(err).Warn("welcome email failed", "email", user.Email)
	}
	if err := s.emailProvider.SendVerification(user.Email, user.VerificationToken); err != nil {
		logger.WithError(err).Warn("verification email failed", "email", user.Email)
	}

	return buildUserResponse(user, profile), nil
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.NewForbiddenError("Account is suspended")
	}

	return s.issueSession(user)
}

// RefreshToken rotates the refresh token and issues a fresh access token.
// Every failure collapses to ErrInvalidToken so a caller cannot probe which
// part of the chain broke.
func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	token, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(token.ExpiresAt) {
		s.refreshTokenRepo.DeleteByToken(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.NewForbiddenError("Account is suspended")
	}

	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueSession(user)
}

func (s *AuthServiceImpl) Logout(refreshToken string) error {
	token, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err == nil && s.sessions != nil {
		s.sessions.Invalidate(token.UserID)
	}
	return s.refreshTokenRepo.DeleteByToken(refreshToken)
}

func (s *AuthServiceImpl) VerifyEmail(token string) error {
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	user.IsVerified = true
	user.VerificationToken = ""
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) issueSession(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := generateRandomToken()
	if err := s.refreshTokenRepo.Create(&models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	profile, err := s.profileRepo.FindByUserID(user.ID)
	if err != nil && !apperrors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         buildUserResponse(user, profile),
	}, nil
}

func buildUserResponse(user *models.User, profile *models.Profile) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Role:       user.Role,
		IsVerified: user.IsVerified,
	}
	if profile != nil {
		resp.Profile = buildProfileResponse(profile)
	}
	return resp
}

func generateRandomToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
