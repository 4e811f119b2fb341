// Package store owns the in-memory document collection, its durable
// persisted form, and similarity search over it.
//
// The whole collection is serialized as a single blob under a fixed key
// in a kv.Driver: loaded once at construction, rewritten on every
// mutation. The corpus is small and fully memory-resident, so search is
// an exact linear cosine scan — no approximate indexing.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/knowledge"
	"github.com/techcorp/kbase/pkg/kv"
)

// BlobKey is the fixed key the serialized collection is stored under.
const BlobKey = "knowledge_base"

// Store holds the document collection and persists it through a kv.Driver.
// Mutation plus persistence form a single critical section: a persisted
// snapshot always reflects the full in-memory state at the time of write.
type Store struct {
	driver kv.Driver
	logger *zap.Logger

	mu   sync.RWMutex
	docs []knowledge.Document
}

// NewStore creates a store backed by the given driver, loading any
// previously persisted collection. An absent blob means an empty store;
// a blob that cannot be decoded is an error.
func NewStore(ctx context.Context, driver kv.Driver, logger *zap.Logger) (*Store, error) {
	s := &Store{
		driver: driver,
		logger: logger,
	}

	blob, err := driver.Get(ctx, BlobKey)
	if errors.Is(err, kv.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base: %w", err)
	}

	if err := json.Unmarshal(blob, &s.docs); err != nil {
		return nil, fmt.Errorf("decoding knowledge base: %w", err)
	}

	logger.Info("knowledge base loaded",
		zap.Int("documents", len(s.docs)),
	)

	return s, nil
}

// Add appends a document to the collection and persists the result.
func (s *Store) Add(ctx context.Context, doc knowledge.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}
	if doc.Title == "" {
		return fmt.Errorf("document title is required")
	}
	if doc.Content == "" {
		return fmt.Errorf("document content is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = append(s.docs, doc)
	if err := s.persistLocked(ctx); err != nil {
		// Roll the append back so memory and disk stay consistent.
		s.docs = s.docs[:len(s.docs)-1]
		return err
	}

	s.logger.Debug("document added",
		zap.String("id", doc.ID),
		zap.String("title", doc.Title),
		zap.Int("embedding_dim", len(doc.Embedding)),
	)

	return nil
}

// Delete removes the document with the given id and persists the
// result. Deleting an unknown id is a no-op; deletions are idempotent.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, doc := range s.docs {
		if doc.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil
	}

	removed := s.docs[index]
	s.docs = append(s.docs[:index], s.docs[index+1:]...)
	if err := s.persistLocked(ctx); err != nil {
		s.docs = append(s.docs[:index], append([]knowledge.Document{removed}, s.docs[index:]...)...)
		return err
	}

	s.logger.Debug("document deleted", zap.String("id", id))

	return nil
}

// UpdateEmbedding replaces the embedding of the document with the given
// id and persists the result. Updating an unknown id is an error.
func (s *Store) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, doc := range s.docs {
		if doc.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return fmt.Errorf("document %s not found", id)
	}

	previous := s.docs[index].Embedding
	s.docs[index].Embedding = embedding
	if err := s.persistLocked(ctx); err != nil {
		s.docs[index].Embedding = previous
		return err
	}

	s.logger.Debug("embedding updated",
		zap.String("id", id),
		zap.Int("embedding_dim", len(embedding)),
	)

	return nil
}

// Documents returns a snapshot of the collection in insertion order.
// The returned slice is a copy; callers must not mutate its entries.
func (s *Store) Documents() []knowledge.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]knowledge.Document, len(s.docs))
	copy(docs, s.docs)

	return docs
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.docs)
}

// Search ranks every embedded document against the query vector by
// cosine similarity and returns the topK best matches, highest score
// first. Documents without an embedding are excluded, not scored as
// zero. Ties keep insertion order (stable sort).
func (s *Store) Search(queryEmbedding []float32, topK int) []knowledge.Match {
	if topK <= 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]knowledge.Match, 0, len(s.docs))
	for _, doc := range s.docs {
		if doc.Embedding == nil {
			continue
		}

		matches = append(matches, knowledge.Match{
			Document: doc,
			Score:    knowledge.Cosine(queryEmbedding, doc.Embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches
}

// persistLocked serializes the full collection and rewrites the blob.
// Callers must hold the write lock.
func (s *Store) persistLocked(ctx context.Context) error {
	blob, err := json.Marshal(s.docs)
	if err != nil {
		return fmt.Errorf("encoding knowledge base: %w", err)
	}

	if err := s.driver.Put(ctx, BlobKey, blob); err != nil {
		return fmt.Errorf("persisting knowledge base: %w", err)
	}

	return nil
}
