package testutils

import (
	"context"
	"errors"

	"github.com/techcorp/kbase/pkg/llm"
)

// MockGenerator is a test generator that returns a canned response
type MockGenerator struct {
	// Response is returned by every Generate call
	Response string

	// Fail causes Generate to return an error
	Fail bool

	// Requests records every Generate call, in order
	Requests []llm.GenerateRequest
}

func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

func (m *MockGenerator) Generate(_ context.Context, req llm.GenerateRequest) (string, error) {
	m.Requests = append(m.Requests, req)

	if m.Fail {
		return "", errors.New("mock generation failure")
	}

	return m.Response, nil
}

func (m *MockGenerator) Close() error {
	return nil
}
