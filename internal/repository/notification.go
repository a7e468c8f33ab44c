package repository

import (
	"context"
	"fmt"

	"back2u-backend/internal/models"
)

// NotificationRepository handles persistence of notifications
type NotificationRepository struct {
	store DocumentStore
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(store DocumentStore) *NotificationRepository {
	return &NotificationRepository{store: store}
}

// Put stores n under n.ID unless a notification with that ID exists.
// It reports whether the notification was created.
func (r *NotificationRepository) Put(ctx context.Context, n *models.Notification) (bool, error) {
	created, err := r.store.Put(ctx, CollectionNotifications, n.ID, n)
	if err != nil {
		return false, fmt.Errorf("failed to store notification: %w", err)
	}
	return created, nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	doc, err := r.store.Get(ctx, CollectionNotifications, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification %s: %w", id, err)
	}
	var n models.Notification
	if err := doc.Decode(&n); err != nil {
		return nil, err
	}
	n.ID = doc.ID
	n.Seq = doc.Seq
	return &n, nil
}

// List retrieves every notification in store order
func (r *NotificationRepository) List(ctx context.Context) ([]*models.Notification, error) {
	docs, err := r.store.List(ctx, CollectionNotifications)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	notifications := make([]*models.Notification, 0, len(docs))
	for i := range docs {
		var n models.Notification
		if err := docs[i].Decode(&n); err != nil {
			return nil, err
		}
		n.ID = docs[i].ID
		n.Seq = docs[i].Seq
		notifications = append(notifications, &n)
	}
	return notifications, nil
}
