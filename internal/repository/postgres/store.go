package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"back2u-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT        NOT NULL,
		id         TEXT        NOT NULL,
		seq        BIGSERIAL   NOT NULL,
		data       JSONB       NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (collection, id)
	);
	CREATE INDEX IF NOT EXISTS idx_documents_collection_seq ON documents (collection, seq);
`

// DocumentStore keeps every collection in a single JSONB table
type DocumentStore struct {
	pool *pgxpool.Pool
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

// New connects to PostgreSQL and makes sure the documents table exists
func New(ctx context.Context, dsn string) (*DocumentStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 20 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}

	log.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("Database connection established")

	return &DocumentStore{pool: pool}, nil
}

// Create inserts doc under a new UUID
func (s *DocumentStore) Create(ctx context.Context, collection string, doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	id := uuid.New().String()
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
	`
	if _, err := s.pool.Exec(ctx, query, collection, id, string(data)); err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return id, nil
}

// Put inserts doc under id unless the id is taken
func (s *DocumentStore) Put(ctx context.Context, collection, id string, doc any) (bool, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to encode document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO NOTHING
	`
	result, err := s.pool.Exec(ctx, query, collection, id, string(data))
	if err != nil {
		return false, fmt.Errorf("failed to put into %s: %w", collection, err)
	}
	return result.RowsAffected() == 1, nil
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*repository.Document, error) {
	query := `
		SELECT id, seq, data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2
	`
	var doc repository.Document
	var data []byte
	err := s.pool.QueryRow(ctx, query, collection, id).Scan(
		&doc.ID, &doc.Seq, &data, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from %s: %w", collection, err)
	}
	doc.Data = data
	return &doc, nil
}

// List retrieves every document of a collection in insertion order
func (s *DocumentStore) List(ctx context.Context, collection string) ([]repository.Document, error) {
	query := `
		SELECT id, seq, data, created_at, updated_at
		FROM documents
		WHERE collection = $1
		ORDER BY seq
	`
	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make([]repository.Document, 0)
	for rows.Next() {
		var doc repository.Document
		var data []byte
		if err := rows.Scan(&doc.ID, &doc.Seq, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.Data = data
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", collection, err)
	}
	return docs, nil
}

// Update merges patch into the stored document with jsonb concatenation
func (s *DocumentStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	query := `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2
	`
	result, err := s.pool.Exec(ctx, query, collection, id, string(data))
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", collection, err)
	}
	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Close releases the connection pool
func (s *DocumentStore) Close() error {
	s.pool.Close()
	return nil
}
