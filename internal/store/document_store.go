package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mosaicdev/mosaic/internal/models"
)

// Sentinel errors for document store operations
var (
	ErrDocumentNotFound = errors.New("document not found")

	// ErrVersionConflict is returned by Save when a concurrent writer
	// advanced the key's version between this call's read and its write.
	// The caller's write is not applied; retrying re-reads the new head.
	ErrVersionConflict = errors.New("document version conflict")
)

// DocumentStore persists JSON documents under slash-delimited keys, each key
// carrying a monotonically increasing version. Documents are never deleted;
// Save appends a new version on top of the current one.
type DocumentStore interface {
	// Save writes value at key, version current+1 (1 when the key is new).
	// Returns ErrVersionConflict when a concurrent writer got there first.
	Save(ctx context.Context, key string, value json.RawMessage) error

	// Get returns the highest-version document for the exact key.
	// Returns ErrDocumentNotFound when the key has never been saved.
	Get(ctx context.Context, key string) (*models.Document, error)

	// GetPrefixed returns every document whose key starts with prefix,
	// ordered by descending version. An empty result is not an error.
	GetPrefixed(ctx context.Context, prefix string) ([]*models.Document, error)
}
