// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"github.com/techcorp/kbase/pkg/embeddings"
	"github.com/techcorp/kbase/pkg/embeddings/gemini"
	"github.com/techcorp/kbase/pkg/embeddings/ollama"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "gemini":
		return gemini.NewEmbedder(gemini.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  o.APIKey,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
