package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/store"
)

// DocumentStore implements store.DocumentStore over the sys_config table.
type DocumentStore struct {
	db Querier
}

// NewDocumentStore creates a PostgreSQL-backed document store over the given
// pool or transaction.
func NewDocumentStore(db Querier) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save writes value at key with version current+1. The update re-validates
// the version it read in the UPDATE's own predicate: when a concurrent
// writer advanced the key in between, zero rows match and the call fails
// with store.ErrVersionConflict instead of silently dropping the write.
func (s *DocumentStore) Save(ctx context.Context, key string, value json.RawMessage) error {
	var current int64
	err := s.db.QueryRow(ctx, `
		SELECT version FROM sys_config
		WHERE key = $1
		ORDER BY version DESC
		LIMIT 1
	`, key).Scan(&current)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = s.db.Exec(ctx, `
			INSERT INTO sys_config (key, value, version) VALUES ($1, $2, 1)
		`, key, value)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", mapPostgresError(err))
		}

	case err != nil:
		return fmt.Errorf("failed to read document head: %w", mapPostgresError(err))

	default:
		tag, err := s.db.Exec(ctx, `
			UPDATE sys_config SET value = $3, version = $4
			WHERE key = $1 AND version = $2
		`, key, current, value, current+1)
		if err != nil {
			return fmt.Errorf("failed to update document: %w", mapPostgresError(err))
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: key %s version %d", store.ErrVersionConflict, key, current)
		}
	}

	log.Debug().
		Str("key", key).
		Int64("version", current+1).
		Msg("Saved document")

	return nil
}

// Get returns the highest-version document for the exact key.
func (s *DocumentStore) Get(ctx context.Context, key string) (*models.Document, error) {
	var doc models.Document
	err := s.db.QueryRow(ctx, `
		SELECT key, value, version FROM sys_config
		WHERE key = $1
		ORDER BY version DESC
		LIMIT 1
	`, key).Scan(&doc.Key, &doc.Value, &doc.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", mapPostgresError(err))
	}

	return &doc, nil
}

// GetPrefixed returns every document whose key starts with prefix, ordered
// by descending version.
func (s *DocumentStore) GetPrefixed(ctx context.Context, prefix string) ([]*models.Document, error) {
	rows, err := s.db.Query(ctx, `
		SELECT key, value, version FROM sys_config
		WHERE key LIKE $1 || '%'
		ORDER BY version DESC
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.Key, &doc.Value, &doc.Version); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, nil
}
