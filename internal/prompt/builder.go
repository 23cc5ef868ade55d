package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/merlai/merlai-api/internal/music"
)

// Part identifies which arranger prompt to build.
type Part string

const (
	PartHarmony Part = "harmony"
	PartBass    Part = "bass"
	PartDrums   Part = "drums"
)

// Builder assembles system and user prompts for the AI arrangers.
type Builder struct {
	loader *Loader
}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder() *Builder {
	return &Builder{loader: NewPromptLoader()}
}

// BuildSystemPrompt composes the system prompt for a part: the part's
// arranger instructions, the shared style guidelines and the output format.
func (b *Builder) BuildSystemPrompt(part Part) (string, error) {
	var base string
	var err error
	switch part {
	case PartHarmony:
		base, err = b.loader.GetHarmonySystemPrompt()
	case PartBass:
		base, err = b.loader.GetBassSystemPrompt()
	case PartDrums:
		base, err = b.loader.GetDrumsSystemPrompt()
	default:
		return "", fmt.Errorf("unknown prompt part: %q", part)
	}
	if err != nil {
		return "", err
	}

	guidelines, err := b.loader.GetStyleGuidelines()
	if err != nil {
		return "", err
	}
	format, err := b.loader.GetOutputFormatInstructions()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n\n")
	sb.WriteString(guidelines)
	sb.WriteString("\n\n")
	sb.WriteString(format)
	return sb.String(), nil
}

// BuildMelodyPrompt renders the user prompt for harmony and drum requests.
func (b *Builder) BuildMelodyPrompt(melody music.Melody, style string, tempo int) (string, error) {
	notes, err := json.Marshal(melody.Notes)
	if err != nil {
		return "", fmt.Errorf("marshal melody: %w", err)
	}

	key := melody.Key
	if key == "" {
		key = "C"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Style: %s\nKey: %s\nTempo: %d BPM\n", style, key, tempo)
	if melody.TimeSignature != "" {
		fmt.Fprintf(&sb, "Time signature: %s\n", melody.TimeSignature)
	}
	fmt.Fprintf(&sb, "Melody notes:\n%s\n", notes)
	return sb.String(), nil
}

// BuildBassPrompt renders the user prompt for bass requests, which also
// carries the harmony the bass must follow.
func (b *Builder) BuildBassPrompt(melody music.Melody, harmony music.Harmony) (string, error) {
	base, err := b.BuildMelodyPrompt(melody, harmony.Style, melody.Tempo)
	if err != nil {
		return "", err
	}
	chords, err := json.Marshal(harmony.Chords)
	if err != nil {
		return "", fmt.Errorf("marshal harmony: %w", err)
	}
	return fmt.Sprintf("%sChord progression:\n%s\n", base, chords), nil
}
