package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a document does not exist in a collection
var ErrNotFound = errors.New("document not found")

// Collection names
const (
	CollectionReports       = "reports"
	CollectionReturns       = "returns"
	CollectionNotifications = "notifications"
	CollectionUsers         = "users"
)

// Document is a stored JSON document addressed by collection and id.
// Seq increases with every insertion across the store.
type Document struct {
	ID        string
	Seq       int64
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentStore is the persistence backend. It has no transactions and no
// server-side filtering: callers fetch and filter.
type DocumentStore interface {
	// Create stores doc under a freshly generated id and returns the id.
	Create(ctx context.Context, collection string, doc any) (string, error)

	// Put stores doc under id only if the id is unused. It reports whether
	// the document was created.
	Put(ctx context.Context, collection, id string, doc any) (bool, error)

	// Get returns ErrNotFound if the id is unused.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// List returns every document of the collection in insertion order.
	List(ctx context.Context, collection string) ([]Document, error)

	// Update merges the top-level keys of patch into the stored document.
	Update(ctx context.Context, collection, id string, patch map[string]any) error

	Close() error
}

// Decode unmarshals the document payload into v
func (d *Document) Decode(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", d.ID, err)
	}
	return nil
}
