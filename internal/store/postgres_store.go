package store

import (
	"context"
	"encoding/json"
	"fmt"

	"dosadelight/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const recordsSchema = `
	CREATE TABLE IF NOT EXISTS records (
		seq BIGSERIAL PRIMARY KEY,
		collection TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_records_collection_seq ON records(collection, seq);
`

// postgresStore implements Store with one row per record. Insertion order is
// the seq column. JSONB normalises key order and whitespace of payloads.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a PostgreSQL-backed record store.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) Store {
	return &postgresStore{
		pool:   pool,
		logger: logger.With().Str("component", "postgres-store").Logger(),
	}
}

// Ensure creates the records table if it does not exist.
func (s *postgresStore) Ensure(ctx context.Context, c Collection) error {
	if _, err := s.pool.Exec(ctx, recordsSchema); err != nil {
		s.logger.Error().Err(err).Str("collection", string(c)).Msg("failed to create records table")
		return fmt.Errorf("failed to ensure collection %s: %w", c, err)
	}
	return nil
}

// ReadAll returns every payload of the collection ordered by insertion.
func (s *postgresStore) ReadAll(ctx context.Context, c Collection) ([]model.Document, error) {
	query := `
		SELECT payload
		FROM records
		WHERE collection = $1
		ORDER BY seq
	`

	rows, err := s.pool.Query(ctx, query, string(c))
	if err != nil {
		s.logger.Error().Err(err).Str("collection", string(c)).Msg("failed to query records")
		return nil, fmt.Errorf("failed to query collection %s: %w", c, err)
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			s.logger.Error().Err(err).Msg("failed to scan record row")
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		var doc model.Document
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, &ParseError{Collection: c, Err: err}
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating record rows")
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return docs, nil
}

// Append inserts doc as the newest record of the collection.
func (s *postgresStore) Append(ctx context.Context, c Collection, doc model.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	query := `
		INSERT INTO records (collection, payload)
		VALUES ($1, $2)
	`

	if _, err := s.pool.Exec(ctx, query, string(c), payload); err != nil {
		s.logger.Error().Err(err).Str("collection", string(c)).Msg("failed to insert record")
		return fmt.Errorf("failed to append to collection %s: %w", c, err)
	}

	s.logger.Debug().Str("collection", string(c)).Msg("record appended")

	return nil
}
