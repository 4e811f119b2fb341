// Package reindex re-embeds stored documents in place. It exists for
// model or dimension changes: old vectors keep the scores they were
// computed with until every document has been run through the current
// embedder again.
package reindex

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/embeddings"
	"github.com/techcorp/kbase/pkg/store"
)

// Options configures reindex behavior.
type Options struct {
	// DryRun embeds every document but writes nothing back.
	DryRun bool

	// All re-embeds every document, including ones that already have an
	// embedding. The default only fills in missing or degraded (all-zero)
	// vectors.
	All bool
}

// Reindexer runs the configured embedder over the stored collection.
type Reindexer struct {
	store    *store.Store
	embedder embeddings.Embedder
	options  Options
	logger   *zap.Logger
}

// NewReindexer creates a Reindexer over the given store and embedder.
func NewReindexer(st *store.Store, embedder embeddings.Embedder, opts Options, logger *zap.Logger) (*Reindexer, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reindexer{
		store:    st,
		embedder: embedder,
		options:  opts,
		logger:   logger,
	}, nil
}

// Run re-embeds the selected documents and writes the new vectors back.
// A document whose embedding call fails is counted and skipped; the run
// continues with the rest of the collection.
func (r *Reindexer) Run(ctx context.Context) (*Result, error) {
	docs := r.store.Documents()
	result := &Result{Total: len(docs)}

	for _, doc := range docs {
		if !r.options.All && !needsEmbedding(doc.Embedding) {
			result.Skipped++
			continue
		}

		embedding, err := r.embedder.Embed(ctx, doc.Content, embeddings.TaskDocument)
		if err != nil {
			r.logger.Warn("embedding failed, skipping document",
				zap.String("id", doc.ID),
				zap.String("title", doc.Title),
				zap.Error(err),
			)
			result.Failed++
			continue
		}

		if r.options.DryRun {
			result.Reindexed++
			continue
		}

		if err := r.store.UpdateEmbedding(ctx, doc.ID, embedding); err != nil {
			return nil, fmt.Errorf("updating document %s: %w", doc.ID, err)
		}

		r.logger.Debug("document reindexed",
			zap.String("id", doc.ID),
			zap.Int("embedding_dim", len(embedding)),
		)
		result.Reindexed++
	}

	return result, nil
}

// needsEmbedding reports whether a stored vector is missing or degraded.
// A degraded vector is all zeros, the fallback written when the provider
// was unavailable at ingest time.
func needsEmbedding(embedding []float32) bool {
	if len(embedding) == 0 {
		return true
	}
	for _, v := range embedding {
		if v != 0 {
			return false
		}
	}
	return true
}
