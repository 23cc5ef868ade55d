package config

import (
	"os"
	"strings"
)

// Config holds the application configuration
// Auth, billing, and user management are handled by an upstream gateway, so
// the service itself stays stateless unless a database URL is configured.
type Config struct {
	// Environment
	Environment string
	Host        string
	Port        string

	// Persistence (optional; empty disables the database layer)
	DatabaseURL string

	// AI model API keys
	OpenAIAPIKey string // OpenAI API key for GPT models
	GeminiAPIKey string // Google Gemini API key

	// Default model registration (optional)
	DefaultModelName string
	DefaultModelType string
	DefaultModelID   string
	ExternalModelURL string

	// Plugin scanning
	PluginDirectories []string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// AWS CloudWatch metrics
	AWSRegion string

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from the gateway
	AuthMode string
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Host:              getEnv("HOST", "0.0.0.0"),
		Port:              getEnv("PORT", "8000"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		DefaultModelName:  getEnv("DEFAULT_MODEL_NAME", ""),
		DefaultModelType:  getEnv("DEFAULT_MODEL_TYPE", "openai"),
		DefaultModelID:    getEnv("DEFAULT_MODEL_ID", "gpt-4o-mini"),
		ExternalModelURL:  getEnv("EXTERNAL_MODEL_URL", ""),
		PluginDirectories: splitList(getEnv("PLUGIN_DIRECTORIES", "")),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		AuthMode:          getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ":")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsGatewayMode returns true if running behind an auth gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction returns true in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
