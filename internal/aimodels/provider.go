// Package aimodels hosts the AI model registry and the provider backends
// that generate musical parts from prompts.
package aimodels

import (
	"context"
)

// Provider defines the interface for AI model backends.
// All providers MUST support structured output (JSON Schema) so responses
// parse reliably into musical data.
type Provider interface {
	// Generate runs one prompt against the backend and returns the raw
	// structured output.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini", "external")
	Name() string
}

// GenerationRequest contains all parameters needed for one generation call.
type GenerationRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	// Structured output schema - REQUIRED for reliable JSON parsing
	OutputSchema *OutputSchema
	// Sampling parameters forwarded to backends that accept them
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// GenerationResponse contains the result from the backend.
type GenerationResponse struct {
	RawOutput string `json:"-"` // JSON text conforming to the OutputSchema
	Usage     Usage  `json:"usage"`
}

// Usage tracks token consumption for cost reporting.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}
