package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/runbound/core"
	"github.com/hupe1980/runbound/limit"
)

// Request captures the normalized model input produced by agent loops.
type Request struct {
	Instructions string         `json:"instructions"`
	Contents     []core.Content `json:"contents"`
}

// Response is the final output of one generation.
type Response struct {
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", etc.
	Usage        *core.Usage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required by agent loops to drive
// generation. Implementations record usage against active token budgets via
// limit.RecordModelUsage and then poll limit.CheckTokenLimit, so a tripped
// budget surfaces as *limit.Error from Generate.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Each generation reports the configured usage so token budgets can be
// exercised deterministically.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	usage     core.Usage
	calls     int
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input
// prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[prompt] = response
}

// SetUsage sets the token usage reported for every subsequent generation.
func (m *MockModel) SetUsage(u core.Usage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.usage = u
}

// Calls returns how many generations have been performed.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Contents) == 0 {
		return nil, fmt.Errorf("no contents provided")
	}

	inputText := req.Contents[len(req.Contents)-1].Text()

	m.mu.Lock()
	full := m.responses[inputText]
	usage := m.usage
	m.calls++
	m.mu.Unlock()

	if full == "" {
		full = fmt.Sprintf("Mock response to: %s", inputText)
	}

	limit.RecordModelUsage(ctx, usage)
	if err := limit.CheckTokenLimit(ctx); err != nil {
		return nil, err
	}

	return &Response{
		Content:      core.NewAssistantContent(full),
		FinishReason: "stop",
		Usage:        &usage,
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
