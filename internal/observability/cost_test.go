package observability

import (
	"testing"

	"github.com/merlai/merlai-api/internal/aimodels"
)

func TestCalculateCost(t *testing.T) {
	usage := aimodels.Usage{InputTokens: 1000, OutputTokens: 1000, TotalTokens: 2000}

	tests := []struct {
		model string
		want  float64
	}{
		{"gpt-4o", 0.02},
		{"gpt-4o-mini", 0.00075},
		{"gemini-2.0-flash", 0.0005},
		{"merlai-small", 0}, // self-hosted, no per-token cost
	}
	for _, tt := range tests {
		if got := CalculateCost(tt.model, usage); got != tt.want {
			t.Errorf("CalculateCost(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestFormatCost(t *testing.T) {
	if got := FormatCost(0.02); got != "$0.020000" {
		t.Errorf("FormatCost(0.02) = %q, want $0.020000", got)
	}
	if got := FormatCost(0); got != "$0.000000" {
		t.Errorf("FormatCost(0) = %q, want $0.000000", got)
	}
}
