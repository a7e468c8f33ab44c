package repository

import (
	"context"
	"fmt"

	"back2u-backend/internal/models"
)

// ReturnRepository handles persistence of found-item returns
type ReturnRepository struct {
	store DocumentStore
}

// NewReturnRepository creates a new return repository
func NewReturnRepository(store DocumentStore) *ReturnRepository {
	return &ReturnRepository{store: store}
}

// Create stores a new return and assigns its ID
func (r *ReturnRepository) Create(ctx context.Context, ret *models.Return) error {
	id, err := r.store.Create(ctx, CollectionReturns, ret)
	if err != nil {
		return fmt.Errorf("failed to create return: %w", err)
	}
	ret.ID = id
	return nil
}

// GetByID retrieves a return by ID
func (r *ReturnRepository) GetByID(ctx context.Context, id string) (*models.Return, error) {
	doc, err := r.store.Get(ctx, CollectionReturns, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get return %s: %w", id, err)
	}
	var ret models.Return
	if err := doc.Decode(&ret); err != nil {
		return nil, err
	}
	ret.ID = doc.ID
	return &ret, nil
}

// List retrieves every return in store order
func (r *ReturnRepository) List(ctx context.Context) ([]*models.Return, error) {
	docs, err := r.store.List(ctx, CollectionReturns)
	if err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}
	returns := make([]*models.Return, 0, len(docs))
	for i := range docs {
		var ret models.Return
		if err := docs[i].Decode(&ret); err != nil {
			return nil, err
		}
		ret.ID = docs[i].ID
		returns = append(returns, &ret)
	}
	return returns, nil
}
