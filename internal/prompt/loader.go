package prompt

import (
	"strings"

	"github.com/merlai/merlai-api/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetHarmonySystemPrompt loads the harmony arranger system prompt
func (l *Loader) GetHarmonySystemPrompt() (string, error) {
	return strings.TrimSpace(string(embedded.HarmonySystemPromptTxt)), nil
}

// GetBassSystemPrompt loads the bass arranger system prompt
func (l *Loader) GetBassSystemPrompt() (string, error) {
	return strings.TrimSpace(string(embedded.BassSystemPromptTxt)), nil
}

// GetDrumsSystemPrompt loads the drum programmer system prompt
func (l *Loader) GetDrumsSystemPrompt() (string, error) {
	return strings.TrimSpace(string(embedded.DrumsSystemPromptTxt)), nil
}

// GetOutputFormatInstructions loads output format instructions
func (l *Loader) GetOutputFormatInstructions() (string, error) {
	return strings.TrimSpace(string(embedded.OutputFormatInstructionsTxt)), nil
}

// GetStyleGuidelines loads the per-style arranging guidelines
func (l *Loader) GetStyleGuidelines() (string, error) {
	return strings.TrimSpace(string(embedded.StyleGuidelinesTxt)), nil
}
