// Package fallback wraps an Embedder with a degrade-not-fail policy.
//
// When the wrapped provider fails or returns a malformed vector, the
// wrapper returns an all-zero vector of the configured dimensionality
// instead of propagating the error. Ingestion and search keep working
// with degraded relevance while the embedding backend is unavailable.
// Each degradation is logged and published as an event so the condition
// stays observable; callers must not treat the zero vector as an error.
package fallback

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/embeddings"
	"github.com/techcorp/kbase/pkg/eventstream"
)

// Embedder decorates another embedder with the zero-vector fallback.
type Embedder struct {
	inner      embeddings.Embedder
	dimensions int
	logger     *zap.Logger
	events     eventstream.Publisher
}

// Config holds configuration for the fallback embedder.
type Config struct {
	// Inner is the wrapped provider. Required.
	Inner embeddings.Embedder

	// Dimensions is the fixed vector dimensionality D. Required; it
	// sizes the zero vector and rejects wrong-length provider output.
	Dimensions int

	// Events receives embedding.degraded events. Optional.
	Events eventstream.Publisher

	// Logger is the provided zap logger.
	Logger *zap.Logger
}

// NewEmbedder creates a fallback embedder around cfg.Inner.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.Inner == nil {
		return nil, fmt.Errorf("fallback embedder: inner embedder is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("fallback embedder: dimensions must be positive")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		inner:      cfg.Inner,
		dimensions: cfg.Dimensions,
		logger:     logger,
		events:     cfg.Events,
	}, nil
}

// Embed returns the provider's vector verbatim on success, or a zero
// vector of length Dimensions when the provider fails or the vector has
// the wrong length. Embed never returns an error.
func (e *Embedder) Embed(ctx context.Context, text string, task embeddings.Task) ([]float32, error) {
	vec, err := e.inner.Embed(ctx, text, task)
	if err == nil && len(vec) == e.dimensions {
		return vec, nil
	}

	reason := fmt.Sprintf("provider returned %d dimensions, want %d", len(vec), e.dimensions)
	if err != nil {
		reason = err.Error()
	}

	e.logger.Warn("embedding degraded to zero vector",
		zap.String("task", string(task)),
		zap.Int("dimensions", e.dimensions),
		zap.String("reason", reason),
	)

	if e.events != nil {
		event := eventstream.NewEvent(eventstream.EventTypeEmbeddingDegraded, "", reason)
		if err := e.events.Publish(ctx, event); err != nil {
			e.logger.Warn("failed to publish degraded-embedding event", zap.Error(err))
		}
	}

	return make([]float32, e.dimensions), nil
}

// Dimensions returns the fixed vector dimensionality D.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Close closes the wrapped embedder.
func (e *Embedder) Close() error {
	return e.inner.Close()
}

var _ embeddings.Embedder = (*Embedder)(nil)
