package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PostgresStore persists vectors in a pgvector column
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and ensures the cache table exists
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &StoreError{Message: "failed to connect to database", Cause: err}
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &StoreError{Message: "failed to ping database", Cause: err}
	}

	s := &PostgresStore{pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the vector extension and the cache table
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS embedding_cache (
			cache_key  TEXT PRIMARY KEY,
			dimensions INTEGER NOT NULL,
			embedding  vector NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return &StoreError{Message: "failed to create schema", Cause: err}
		}
	}
	return nil
}

// Get returns the stored vector for key
func (s *PostgresStore) Get(ctx context.Context, key string) ([]float32, bool, error) {
	var vec pgvector.Vector
	err := s.pool.QueryRow(ctx,
		`SELECT embedding FROM embedding_cache WHERE cache_key = $1`,
		key,
	).Scan(&vec)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StoreError{Message: fmt.Sprintf("failed to read %s", key), Cause: err}
	}
	return vec.Slice(), true, nil
}

// Put stores vec under key; an existing entry for the key is kept
func (s *PostgresStore) Put(ctx context.Context, key string, vec []float32) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO embedding_cache (cache_key, dimensions, embedding)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (cache_key) DO NOTHING`,
		key, len(vec), pgvector.NewVector(vec),
	)
	if err != nil {
		return &StoreError{Message: fmt.Sprintf("failed to write %s", key), Cause: err}
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
