// Package rag implements retrieval-augmented answering: embed the
// query, retrieve the closest stored documents, and constrain the
// generation provider to answer from that context alone.
package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/embeddings"
	"github.com/techcorp/kbase/pkg/knowledge"
	"github.com/techcorp/kbase/pkg/llm"
	"github.com/techcorp/kbase/pkg/store"
)

const (
	// DefaultTopK is the retrieval depth used when none is configured.
	DefaultTopK = 3

	// DefaultTemperature is the generation temperature.
	DefaultTemperature = 0.7

	// audioPlaceholder stands in for the query text when the user turn
	// carries only audio.
	audioPlaceholder = "Audio query"

	// noContextMarker replaces an empty grounding context so the model
	// is told explicitly that retrieval found nothing.
	noContextMarker = "No specific documents found for this query."

	// apologyText is the fixed response when the generation provider
	// fails; the engine never raises past that boundary.
	apologyText = "I'm sorry, I encountered an error processing your request."
)

const systemInstructionFormat = `You are a helpful AI assistant for "TechCorp".
Use the following retrieved context from our knowledge base to answer the user's question.
If the answer isn't in the context, say you don't know based on the documents provided, but try to be helpful.

KNOWLEDGE BASE CONTEXT:
%s`

// Response is the engine's answer to a query.
type Response struct {
	// Text is the generated answer, or the fixed apology on failure.
	Text string `json:"text"`

	// Sources lists the matched document titles in ranked order.
	// Titles are not deduplicated.
	Sources []string `json:"sources"`
}

// Config is the configuration options for the engine.
type Config struct {
	// Store is the document store searched for grounding context. Required.
	Store *store.Store

	// Embedder embeds the query text. Required.
	Embedder embeddings.Embedder

	// Generator produces the final answer. Required.
	Generator llm.Generator

	// TopK is the retrieval depth. Defaults to DefaultTopK.
	TopK int

	// Temperature is the generation temperature.
	// Defaults to DefaultTemperature.
	Temperature float32

	// Logger is the provided zap logger.
	Logger *zap.Logger
}

// Engine answers queries against the knowledge base.
type Engine struct {
	store       *store.Store
	embedder    embeddings.Embedder
	generator   llm.Generator
	topK        int
	temperature float32
	logger      *zap.Logger
}

// NewEngine creates a retrieval engine.
func NewEngine(c *Config) (*Engine, error) {
	if c.Store == nil {
		return nil, fmt.Errorf("rag engine: store is required")
	}
	if c.Embedder == nil {
		return nil, fmt.Errorf("rag engine: embedder is required")
	}
	if c.Generator == nil {
		return nil, fmt.Errorf("rag engine: generator is required")
	}

	topK := c.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	temperature := c.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		store:       c.Store,
		embedder:    c.Embedder,
		generator:   c.Generator,
		topK:        topK,
		temperature: temperature,
		logger:      logger,
	}, nil
}

// Answer runs the full retrieval-augmented flow for one user turn.
// Generation failures degrade to a fixed apology with no sources;
// Answer never returns an error to its caller.
func (e *Engine) Answer(ctx context.Context, query string, history []llm.Message, audio *llm.InlineAudio) Response {
	embeddingText := query
	if embeddingText == "" {
		embeddingText = audioPlaceholder
	}

	var matches []knowledge.Match
	queryEmbedding, err := e.embedder.Embed(ctx, embeddingText, embeddings.TaskQuery)
	if err != nil {
		// Only possible with an unwrapped embedder; retrieval is
		// skipped and the model answers without grounding context.
		e.logger.Warn("query embedding failed", zap.Error(err))
	} else {
		matches = e.store.Search(queryEmbedding, e.topK)
	}

	sources := make([]string, 0, len(matches))
	entries := make([]string, 0, len(matches))
	for _, match := range matches {
		sources = append(sources, match.Title)
		entries = append(entries, fmt.Sprintf("Source: %s\nContent: %s", match.Title, match.Content))
	}

	contextText := strings.Join(entries, "\n\n---\n\n")
	if contextText == "" {
		contextText = noContextMarker
	}

	text, err := e.generator.Generate(ctx, llm.GenerateRequest{
		History:           history,
		Query:             query,
		Audio:             audio,
		SystemInstruction: fmt.Sprintf(systemInstructionFormat, contextText),
		Temperature:       e.temperature,
	})
	if err != nil {
		e.logger.Error("generation failed", zap.Error(err))
		return Response{
			Text:    apologyText,
			Sources: []string{},
		}
	}

	e.logger.Debug("query answered",
		zap.Int("matches", len(matches)),
		zap.Strings("sources", sources),
	)

	return Response{
		Text:    text,
		Sources: sources,
	}
}
