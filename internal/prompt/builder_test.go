package prompt

import (
	"strings"
	"testing"

	"github.com/merlai/merlai-api/internal/music"
)

func TestNewPromptBuilder(t *testing.T) {
	builder := NewPromptBuilder()
	if builder == nil {
		t.Fatal("NewPromptBuilder() returned nil")
		return
	}
	if builder.loader == nil {
		t.Fatal("NewPromptBuilder() created builder with nil loader")
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	builder := NewPromptBuilder()

	for _, part := range []Part{PartHarmony, PartBass, PartDrums} {
		prompt, err := builder.BuildSystemPrompt(part)
		if err != nil {
			t.Fatalf("BuildSystemPrompt(%q) returned error: %v", part, err)
		}
		if prompt == "" {
			t.Fatalf("BuildSystemPrompt(%q) returned empty string", part)
		}
		if !strings.Contains(prompt, "Respond with a single JSON object") {
			t.Errorf("BuildSystemPrompt(%q) missing output format instructions", part)
		}
		if !strings.Contains(prompt, "Style guidelines") {
			t.Errorf("BuildSystemPrompt(%q) missing style guidelines", part)
		}
	}
}

func TestBuildSystemPromptPartContent(t *testing.T) {
	builder := NewPromptBuilder()

	harmony, err := builder.BuildSystemPrompt(PartHarmony)
	if err != nil {
		t.Fatalf("BuildSystemPrompt() returned error: %v", err)
	}
	if !strings.Contains(harmony, "harmony arranger") {
		t.Error("harmony prompt missing arranger instructions")
	}

	drums, err := builder.BuildSystemPrompt(PartDrums)
	if err != nil {
		t.Fatalf("BuildSystemPrompt() returned error: %v", err)
	}
	if !strings.Contains(drums, "channel 9") {
		t.Error("drum prompt missing channel constraint")
	}
}

func TestBuildSystemPromptUnknownPart(t *testing.T) {
	builder := NewPromptBuilder()
	if _, err := builder.BuildSystemPrompt("vocals"); err == nil {
		t.Error("expected error for unknown part")
	}
}

func TestBuildMelodyPrompt(t *testing.T) {
	builder := NewPromptBuilder()
	melody := music.Melody{
		Notes:         []music.Note{{Pitch: 60, Velocity: 80, Duration: 1}},
		Key:           "Am",
		Tempo:         100,
		TimeSignature: "3/4",
	}

	prompt, err := builder.BuildMelodyPrompt(melody, "jazz", 100)
	if err != nil {
		t.Fatalf("BuildMelodyPrompt() returned error: %v", err)
	}
	for _, want := range []string{"Style: jazz", "Key: Am", "Tempo: 100 BPM", "Time signature: 3/4", `"pitch":60`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("BuildMelodyPrompt() missing %q", want)
		}
	}
}

func TestBuildBassPrompt(t *testing.T) {
	builder := NewPromptBuilder()
	melody := music.Melody{
		Notes: []music.Note{{Pitch: 60, Velocity: 80, Duration: 1}},
		Tempo: 120,
	}
	harmony := music.Harmony{
		Chords: []music.Chord{{Root: 60, Quality: music.QualityMajor, Duration: 1}},
		Style:  "pop",
	}

	prompt, err := builder.BuildBassPrompt(melody, harmony)
	if err != nil {
		t.Fatalf("BuildBassPrompt() returned error: %v", err)
	}
	if !strings.Contains(prompt, "Chord progression:") {
		t.Error("BuildBassPrompt() missing chord progression section")
	}
	if !strings.Contains(prompt, `"root":60`) {
		t.Error("BuildBassPrompt() missing chord data")
	}
}
