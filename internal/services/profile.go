package services

import (
	"context"
	"errors"

	"back2u-backend/internal/identity"
	"back2u-backend/internal/models"
	"back2u-backend/internal/repository"
)

const defaultDisplayName = "User"

// ProfileService reads and writes user profiles and resolves the user
// snapshot embedded in new records
type ProfileService struct {
	profileRepo *repository.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// GetProfile returns the profile of uid. A user without a stored profile
// gets an empty one.
func (s *ProfileService) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.Profile{}, nil
		}
		return nil, storeError(err, "profile")
	}
	return profile, nil
}

// UpdateProfile merges profile into the stored profile of uid
func (s *ProfileService) UpdateProfile(ctx context.Context, uid string, profile models.Profile) (*models.Profile, error) {
	if err := s.profileRepo.Upsert(ctx, uid, &profile); err != nil {
		return nil, storeError(err, "profile")
	}
	return &profile, nil
}

// Resolve builds the snapshot of id to embed in a report or return
func (s *ProfileService) Resolve(ctx context.Context, id identity.Identity) (models.UserSnapshot, error) {
	profile, err := s.GetProfile(ctx, id.UID)
	if err != nil {
		return models.UserSnapshot{}, err
	}

	name := id.Name
	if name == "" {
		name = defaultDisplayName
	}
	return models.UserSnapshot{
		Name:        name,
		Email:       id.Email,
		PhoneNumber: profile.PhoneNumber,
		UID:         id.UID,
	}, nil
}
