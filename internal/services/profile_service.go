package services

import (
	"eventsupply_backend/internal/models"
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services/dto"
	"eventsupply_backend/pkg/apperrors"
)

type ProfileService interface {
	GetOwnProfile(userID string) (*dto.ProfileResponse, error)
	GetProfileByEmail(email string) (*dto.ProfileResponse, error)
	UpdateOwnProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	ListSuppliers(criteria repositories.SupplierCriteria) (*dto.SupplierListResponse, error)
}

type ProfileServiceImpl struct {
	profileRepo repositories.ProfileRepository
	sessions    *SessionCache
}

func NewProfileService(profileRepo repositories.ProfileRepository, sessions *SessionCache) ProfileService {
	return &ProfileServiceImpl{profileRepo: profileRepo, sessions: sessions}
}

func (s *ProfileServiceImpl) GetOwnProfile(userID string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrStoreUnavailable(err)
	}
	return buildProfileResponse(profile), nil
}

func (s *ProfileServiceImpl) GetProfileByEmail(email string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByEmail(email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrStoreUnavailable(err)
	}
	return buildProfileResponse(profile), nil
}

// UpdateOwnProfile applies only the fields present in the request. The
// session cache entry is dropped so the next read sees the new values.
func (s *ProfileServiceImpl) UpdateOwnProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.CompanyName != nil {
		profile.CompanyName = *req.CompanyName
	}
	if req.ServiceType != nil {
		profile.ServiceType = *req.ServiceType
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.Promotion != nil {
		profile.SetPromotion(*req.Promotion)
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	if s.sessions != nil {
		s.sessions.Invalidate(userID)
	}

	return buildProfileResponse(profile), nil
}

func (s *ProfileServiceImpl) ListSuppliers(criteria repositories.SupplierCriteria) (*dto.SupplierListResponse, error) {
	profiles, err := s.profileRepo.FindSuppliers(criteria)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	suppliers := make([]*dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		suppliers = append(suppliers, buildProfileResponse(&profiles[i]))
	}

	return &dto.SupplierListResponse{
		Suppliers: suppliers,
		Total:     len(suppliers),
	}, nil
}

func buildProfileResponse(profile *models.Profile) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:          profile.ID,
		UserID:      profile.UserID,
		Email:       profile.Email,
		FullName:    profile.FullName,
		CompanyName: profile.CompanyName,
		DisplayName: profile.DisplayName(),
		Role:        profile.Role,
		ServiceType: profile.ServiceType,
		Description: profile.Description,
		Address:     profile.Address,
		CreatedAt:   profile.CreatedAt,
	}
	if len(profile.Promotion) > 0 {
		promo := profile.GetPromotion()
		if promo.Title != "" || promo.Description != "" {
			resp.Promotion = &promo
		}
	}
	return resp
}
