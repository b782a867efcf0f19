package services

import (
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services/dto"
	"eventsupply_backend/pkg/apperrors"
)

// RosterService reads the contact lists the acceptance saga writes. Rows
// are append-only; a missing entry after an accept means the advisory step
// failed and the next accept for the pair will not backfill it.
type RosterService interface {
	GetLiaisons(supplierUserID string) (*dto.RosterResponse, error)
	GetPlanners(organizerUserID string) (*dto.RosterResponse, error)
}

type RosterServiceImpl struct {
	rosterRepo repositories.RosterRepository
}

func NewRosterService(rosterRepo repositories.RosterRepository) RosterService {
	return &RosterServiceImpl{rosterRepo: rosterRepo}
}

func (s *RosterServiceImpl) GetLiaisons(supplierUserID string) (*dto.RosterResponse, error) {
	liaisons, err := s.rosterRepo.ListLiaisons(supplierUserID)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	entries := make([]*dto.LiaisonResponse, 0, len(liaisons))
	for i := range liaisons {
		l := &liaisons[i]
		entries = append(entries, &dto.LiaisonResponse{
			ID:         l.ID,
			Name:       l.Name,
			Email:      l.Email,
			AdminEmail: l.AdminEmail,
			CreatedAt:  l.CreatedAt,
		})
	}

	return &dto.RosterResponse{Liaisons: entries, Total: len(entries)}, nil
}

func (s *RosterServiceImpl) GetPlanners(organizerUserID string) (*dto.RosterResponse, error) {
	planners, err := s.rosterRepo.ListPlanners(organizerUserID)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	entries := make([]*dto.PlannerResponse, 0, len(planners))
	for i := range planners {
		p := &planners[i]
		entries = append(entries, &dto.PlannerResponse{
			ID:             p.ID,
			Name:           p.Name,
			Email:          p.Email,
			ConnectionType: p.ConnectionType,
			CreatedAt:      p.CreatedAt,
		})
	}

	return &dto.RosterResponse{Planners: entries, Total: len(entries)}, nil
}
