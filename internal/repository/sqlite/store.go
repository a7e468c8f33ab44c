// Package sqlite is a document store on an embedded SQLite database, used for
// local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"back2u-backend/internal/repository"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		data       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (collection, id)
	);
`

// DocumentStore implements repository.DocumentStore on SQLite
type DocumentStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

// Open opens (or creates) the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*DocumentStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}

	return &DocumentStore{db: db, now: time.Now}, nil
}

// Create inserts doc under a new UUID
func (s *DocumentStore) Create(ctx context.Context, collection string, doc any) (string, error) {
	id := uuid.New().String()
	created, err := s.Put(ctx, collection, id, doc)
	if err != nil {
		return "", err
	}
	if !created {
		return "", fmt.Errorf("failed to insert into %s: id collision %s", collection, id)
	}
	return id, nil
}

// Put inserts doc under id unless the id is taken
func (s *DocumentStore) Put(ctx context.Context, collection, id string, doc any) (bool, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to encode document: %w", err)
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	query := `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, collection, id, string(data), now, now)
	if err != nil {
		return false, fmt.Errorf("failed to put into %s: %w", collection, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to put into %s: %w", collection, err)
	}
	return n == 1, nil
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*repository.Document, error) {
	query := `
		SELECT id, seq, data, created_at, updated_at
		FROM documents
		WHERE collection = ? AND id = ?
	`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, collection, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from %s: %w", collection, err)
	}
	return doc, nil
}

// List retrieves every document of a collection in insertion order
func (s *DocumentStore) List(ctx context.Context, collection string) ([]repository.Document, error) {
	query := `
		SELECT id, seq, data, created_at, updated_at
		FROM documents
		WHERE collection = ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make([]repository.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", collection, err)
	}
	return docs, nil
}

// Update merges patch into the stored document with json_patch
func (s *DocumentStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	query := `
		UPDATE documents
		SET data = json_patch(data, ?), updated_at = ?
		WHERE collection = ? AND id = ?
	`
	now := s.now().UTC().Format(time.RFC3339Nano)
	result, err := s.db.ExecContext(ctx, query, string(data), now, collection, id)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", collection, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", collection, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Close closes the database
func (s *DocumentStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*repository.Document, error) {
	var (
		doc                  repository.Document
		data                 string
		createdAt, updatedAt string
	)
	if err := row.Scan(&doc.ID, &doc.Seq, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	doc.Data = json.RawMessage(data)
	return &doc, nil
}
