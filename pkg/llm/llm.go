// Package llm defines the text-generation provider boundary. The
// retrieval engine treats generation as a black box: ordered
// conversation turns plus a system instruction in, generated text out.
package llm

import "context"

// Message represents a single turn in a conversation.
type Message struct {
	// Role is "user" or "model".
	Role string `json:"role"`

	// Text is the turn's text content.
	Text string `json:"text"`
}

// InlineAudio is an optional audio payload attached to the new user turn.
type InlineAudio struct {
	// Data is the base64-encoded audio bytes.
	Data string `json:"data"`

	// MIMEType is the audio MIME type (e.g. "audio/webm").
	MIMEType string `json:"mime_type"`
}

// GenerateRequest carries everything a provider needs for one
// generation call.
type GenerateRequest struct {
	// History is the prior conversation, oldest first.
	History []Message

	// Query is the new user turn's text. May be empty when Audio is set.
	Query string

	// Audio is an optional inline audio payload for the new user turn.
	Audio *InlineAudio

	// SystemInstruction binds the model's behavior for this call.
	SystemInstruction string

	// Temperature controls sampling randomness.
	Temperature float32
}

// Generator produces text from a conversation and system instruction.
type Generator interface {
	// Generate runs one generation call and returns the model's text.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// Close releases any resources held by the generator.
	Close() error
}
