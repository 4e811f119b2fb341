// Package knowledge defines the core document model shared by the store,
// the ingestion pipeline, and the retrieval engine.
package knowledge

import (
	"math"
	"time"
)

// Document represents a stored knowledge-base entry with its embedding.
// Title and content are immutable after creation; the embedding may be
// replaced by a reindex run.
type Document struct {
	// ID is a unique identifier assigned at creation.
	ID string `json:"id"`

	// Title is the human-readable label for the document.
	Title string `json:"title"`

	// Content is the full extracted text.
	Content string `json:"content"`

	// Embedding is the vector representation of the content. It is nil
	// only transiently, before the embedding call completes; documents
	// without an embedding are excluded from search.
	Embedding []float32 `json:"embedding,omitempty"`

	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// Match pairs a document with its similarity score against a query.
// Matches are derived by search and never persisted.
type Match struct {
	Document

	// Score is the cosine similarity (higher = more similar).
	Score float32 `json:"score"`
}

// Cosine computes the cosine similarity between two vectors.
// Returns 0 when the vectors differ in length or when either norm is
// zero, so a zero-vector (degraded) embedding never produces NaN scores.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
