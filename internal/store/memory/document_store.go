package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/store"
)

// DocumentStore implements store.DocumentStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type DocumentStore struct {
	mu sync.RWMutex

	documents map[string]*models.Document // key -> current version
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*models.Document),
	}
}

// Save writes value at key with version current+1.
func (s *DocumentStore) Save(ctx context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var version int64 = 1
	if current, exists := s.documents[key]; exists {
		version = current.Version + 1
	}

	s.documents[key] = &models.Document{
		Key:     key,
		Value:   append(json.RawMessage(nil), value...),
		Version: version,
	}

	return nil
}

// Get returns the highest-version document for the exact key.
func (s *DocumentStore) Get(ctx context.Context, key string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.documents[key]
	if !exists {
		return nil, store.ErrDocumentNotFound
	}

	clone := *doc
	return &clone, nil
}

// GetPrefixed returns every document whose key starts with prefix, ordered
// by descending version.
func (s *DocumentStore) GetPrefixed(ctx context.Context, prefix string) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []*models.Document
	for key, doc := range s.documents {
		if strings.HasPrefix(key, prefix) {
			clone := *doc
			docs = append(docs, &clone)
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Version != docs[j].Version {
			return docs[i].Version > docs[j].Version
		}
		return docs[i].Key < docs[j].Key
	})

	return docs, nil
}

// snapshot returns a copy of the store's state for transaction rollback.
func (s *DocumentStore) snapshot() map[string]*models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]*models.Document, len(s.documents))
	for key, doc := range s.documents {
		clone := *doc
		snap[key] = &clone
	}
	return snap
}

// restore replaces the store's state with a previously taken snapshot.
func (s *DocumentStore) restore(snap map[string]*models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = snap
}
