package services

import (
	"sync"

	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services/dto"
	"eventsupply_backend/pkg/apperrors"

	"golang.org/x/sync/singleflight"
)

// SessionCache holds the resolved user+profile view per user id so the
// many per-request consumers (handlers, the bell, the ws upgrade) do not
// each round-trip to the store. Concurrent misses for the same id are
// collapsed into one load. Entries are dropped on logout and on profile
// writes; there is no TTL, staleness is bounded by explicit invalidation.
type SessionCache struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository

	mu      sync.RWMutex
	entries map[string]*dto.UserResponse
	group   singleflight.Group
}

func NewSessionCache(userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository) *SessionCache {
	return &SessionCache{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		entries:     make(map[string]*dto.UserResponse),
	}
}

// Get returns the cached session view, loading it once on a miss.
func (c *SessionCache) Get(userID string) (*dto.UserResponse, error) {
	c.mu.RLock()
	cached, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	result, err, _ := c.group.Do(userID, func() (any, error) {
		return c.load(userID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*dto.UserResponse), nil
}

// Invalidate drops the entry so the next Get re-reads the store.
func (c *SessionCache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

func (c *SessionCache) load(userID string) (*dto.UserResponse, error) {
	user, err := c.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	profile, err := c.profileRepo.FindByUserID(userID)
	if err != nil && !apperrors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.ErrStoreUnavailable(err)
	}

	view := buildUserResponse(user, profile)

	c.mu.Lock()
	c.entries[userID] = view
	c.mu.Unlock()

	return view, nil
}
