package repository

import (
	"context"
	"fmt"

	"back2u-backend/internal/models"
)

// ProfileRepository stores per-user profile fields keyed by uid
type ProfileRepository struct {
	store DocumentStore
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(store DocumentStore) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// GetByUID retrieves the profile of a user
func (r *ProfileRepository) GetByUID(ctx context.Context, uid string) (*models.Profile, error) {
	doc, err := r.store.Get(ctx, CollectionUsers, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", uid, err)
	}
	var profile models.Profile
	if err := doc.Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert merges profile into the stored document, creating it if absent
func (r *ProfileRepository) Upsert(ctx context.Context, uid string, profile *models.Profile) error {
	created, err := r.store.Put(ctx, CollectionUsers, uid, profile)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	if created {
		return nil
	}
	err = r.store.Update(ctx, CollectionUsers, uid, map[string]any{"phone_number": profile.PhoneNumber})
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
