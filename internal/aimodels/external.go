package aimodels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	providerNameExternal = "external"

	externalRequestTimeout = 60 * time.Second
	healthProbeTimeout     = 5 * time.Second
)

// ExternalProvider talks to a self-hosted model server over plain HTTP.
// The server is expected to accept POST /generate with the prompt payload
// and answer GET /health for liveness probes.
type ExternalProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewExternalProvider creates a provider for a model server at the given
// base endpoint.
func NewExternalProvider(endpoint, apiKey string) *ExternalProvider {
	return &ExternalProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: externalRequestTimeout},
	}
}

// Name returns the provider name
func (p *ExternalProvider) Name() string {
	return providerNameExternal
}

type externalRequest struct {
	Model        string         `json:"model"`
	SystemPrompt string         `json:"system_prompt"`
	Prompt       string         `json:"prompt"`
	Schema       map[string]any `json:"schema,omitempty"`
	Temperature  float64        `json:"temperature,omitempty"`
	TopP         float64        `json:"top_p,omitempty"`
	MaxTokens    int            `json:"max_tokens,omitempty"`
}

type externalResponse struct {
	Output string `json:"output"`
	Usage  Usage  `json:"usage"`
}

// Generate posts the prompt to the model server and returns its output.
func (p *ExternalProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	transaction := sentry.StartTransaction(ctx, "external.generate")
	defer transaction.Finish()
	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameExternal)

	payload := externalRequest{
		Model:        request.Model,
		SystemPrompt: request.SystemPrompt,
		Prompt:       request.UserPrompt,
		Temperature:  request.Temperature,
		TopP:         request.TopP,
		MaxTokens:    request.MaxTokens,
	}
	if request.OutputSchema != nil {
		payload.Schema = request.OutputSchema.Schema
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal external request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build external request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("external model request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		transaction.SetTag("success", "false")
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("external model returned status %d: %s", resp.StatusCode, snippet)
	}

	var parsed externalResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("decode external response: %w", err)
	}
	if parsed.Output == "" {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("external model returned empty output")
	}

	transaction.SetTag("success", "true")
	return &GenerationResponse{
		RawOutput: cleanTextOutput(parsed.Output),
		Usage:     parsed.Usage,
	}, nil
}

// Health probes the model server's /health endpoint.
func (p *ExternalProvider) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("external model unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("external model unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
