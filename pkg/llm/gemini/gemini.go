// Package gemini implements pkg/llm's Generator client for the Google
// Generative Language generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/techcorp/kbase/pkg/llm"
)

const (
	// DefaultModel is the default generation model.
	DefaultModel = "gemini-2.0-flash"

	// DefaultBaseURL is the default Generative Language API URL.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
)

// Generator wraps the Gemini generateContent API.
type Generator struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// GeneratorConfig holds configuration for the Gemini generator.
type GeneratorConfig struct {
	// BaseURL is the API URL. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the generation model. Defaults to DefaultModel if empty.
	Model string

	// APIKey authenticates the request.
	APIKey string
}

type generateRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature float32 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewGenerator creates a new generator using the Gemini API.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini generator: api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		baseURL: baseURL,
		model:   model,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Generate runs one generation call and returns the model's text.
func (g *Generator) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	contents := make([]geminiContent, 0, len(req.History)+1)
	for _, msg := range req.History {
		contents = append(contents, geminiContent{
			Role:  msg.Role,
			Parts: []geminiPart{{Text: msg.Text}},
		})
	}

	var userParts []geminiPart
	if req.Query != "" {
		userParts = append(userParts, geminiPart{Text: req.Query})
	}
	if req.Audio != nil {
		userParts = append(userParts, geminiPart{
			InlineData: &inlineData{
				MIMEType: req.Audio.MIMEType,
				Data:     req.Audio.Data,
			},
		})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: userParts})

	body := generateRequest{
		Contents:         contents,
		GenerationConfig: &generationConfig{Temperature: req.Temperature},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.SystemInstruction}},
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %v", llm.ErrProvider, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", llm.ErrProvider, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: sending request: %v", llm.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: gemini returned status %d: %s", llm.ErrProvider, resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", llm.ErrProvider, err)
	}

	if len(genResp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", llm.ErrProvider)
	}

	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	text := sb.String()
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate text", llm.ErrProvider)
	}

	return text, nil
}

// Close releases resources held by the generator.
func (g *Generator) Close() error {
	return nil
}

var _ llm.Generator = (*Generator)(nil)
