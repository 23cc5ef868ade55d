package aimodels

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalProviderGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req externalRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "merlai-small", req.Model)
		assert.NotNil(t, req.Schema)

		_ = json.NewEncoder(w).Encode(externalResponse{
			Output: "```json\n{\"notes\": []}\n```",
			Usage:  Usage{TotalTokens: 42},
		})
	}))
	defer server.Close()

	p := NewExternalProvider(server.URL, "secret")
	assert.Equal(t, "external", p.Name())

	resp, err := p.Generate(context.Background(), &GenerationRequest{
		Model:        "merlai-small",
		SystemPrompt: "system",
		UserPrompt:   "user",
		OutputSchema: &OutputSchema{Name: "notes", Schema: GetNotesOutputSchema()},
	})
	require.NoError(t, err)
	// Code fences must be stripped.
	assert.Equal(t, `{"notes": []}`, resp.RawOutput)
	assert.Equal(t, int64(42), resp.Usage.TotalTokens)
}

func TestExternalProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := NewExternalProvider(server.URL, "")
	_, err := p.Generate(context.Background(), &GenerationRequest{Model: "m", UserPrompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestExternalProviderEmptyOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(externalResponse{})
	}))
	defer server.Close()

	p := NewExternalProvider(server.URL, "")
	_, err := p.Generate(context.Background(), &GenerationRequest{Model: "m", UserPrompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty output")
}

func TestExternalProviderHealth(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	p := NewExternalProvider(healthy.URL, "")
	assert.NoError(t, p.Health(context.Background()))

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer unhealthy.Close()

	p = NewExternalProvider(unhealthy.URL, "")
	assert.Error(t, p.Health(context.Background()))

	p = NewExternalProvider("http://127.0.0.1:1", "")
	assert.Error(t, p.Health(context.Background()))
}

func TestCleanTextOutput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanTextOutput(tt.in))
	}
}
