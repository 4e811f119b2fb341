// Package embeddings
package embeddings

import "context"

// Task hints the provider at how the embedding will be used. Providers
// may bias the vector accordingly; the local interface is unchanged.
type Task string

const (
	// TaskDocument marks text being embedded for storage.
	TaskDocument Task = "document"

	// TaskQuery marks text being embedded for retrieval.
	TaskQuery Task = "query"
)

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string, task Task) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
