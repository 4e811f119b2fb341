// Package llmutils is the generation utility package
package llmutils

import (
	"fmt"

	"github.com/techcorp/kbase/pkg/llm"
	"github.com/techcorp/kbase/pkg/llm/gemini"
	"github.com/techcorp/kbase/pkg/llm/ollama"
)

type NewGeneratorOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

func NewGenerator(o *NewGeneratorOpts) (llm.Generator, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewGenerator(ollama.GeneratorConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "gemini":
		return gemini.NewGenerator(gemini.GeneratorConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  o.APIKey,
		})
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", o.ProviderType)
	}
}
