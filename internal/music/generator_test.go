package music

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func testMelody(pitches ...int) Melody {
	notes := make([]Note, len(pitches))
	for i, p := range pitches {
		notes[i] = Note{Pitch: p, Velocity: 80, Duration: 1, StartTime: float64(i)}
	}
	return Melody{Notes: notes, Tempo: 120, Key: "C", TimeSignature: "4/4"}
}

func TestGenerateHarmony(t *testing.T) {
	g := NewGenerator()
	melody := testMelody(60, 62, 64, 65)

	harmony, err := g.GenerateHarmony(context.Background(), melody, "pop")
	if err != nil {
		t.Fatalf("GenerateHarmony returned error: %v", err)
	}

	if len(harmony.Chords) != len(melody.Notes) {
		t.Fatalf("chord count = %d, want %d", len(harmony.Chords), len(melody.Notes))
	}
	for i, chord := range harmony.Chords {
		note := melody.Notes[i]
		if chord.Root != note.Pitch {
			t.Errorf("chord %d root = %d, want %d", i, chord.Root, note.Pitch)
		}
		if chord.StartTime != note.StartTime || chord.Duration != note.Duration {
			t.Errorf("chord %d timing = (%v, %v), want (%v, %v)",
				i, chord.StartTime, chord.Duration, note.StartTime, note.Duration)
		}
	}

	// Diatonic qualities in C major.
	wantQualities := []string{QualityMajor, QualityMinor, QualityMinor, QualityMajor}
	for i, want := range wantQualities {
		if harmony.Chords[i].Quality != want {
			t.Errorf("chord %d quality = %q, want %q", i, harmony.Chords[i].Quality, want)
		}
	}

	if harmony.Chords[0].Voicing[0] != 60 || harmony.Chords[0].Voicing[1] != 64 || harmony.Chords[0].Voicing[2] != 67 {
		t.Errorf("C major voicing = %v, want [60 64 67]", harmony.Chords[0].Voicing)
	}
}

func TestGenerateHarmonyEmptyMelody(t *testing.T) {
	g := NewGenerator()
	if _, err := g.GenerateHarmony(context.Background(), Melody{}, "pop"); err == nil {
		t.Error("expected error for empty melody")
	}
}

func TestGenerateBassLine(t *testing.T) {
	g := NewGenerator()
	melody := testMelody(60, 64)
	harmony, err := g.GenerateHarmony(context.Background(), melody, "pop")
	if err != nil {
		t.Fatalf("GenerateHarmony returned error: %v", err)
	}

	bass, err := g.GenerateBassLine(context.Background(), melody, harmony)
	if err != nil {
		t.Fatalf("GenerateBassLine returned error: %v", err)
	}

	if len(bass.Notes) != len(harmony.Chords) {
		t.Fatalf("bass note count = %d, want %d", len(bass.Notes), len(harmony.Chords))
	}
	for i, note := range bass.Notes {
		if want := harmony.Chords[i].Root - 12; note.Pitch != want {
			t.Errorf("bass note %d pitch = %d, want %d", i, note.Pitch, want)
		}
		if note.Velocity != bassVelocity {
			t.Errorf("bass note %d velocity = %d, want %d", i, note.Velocity, bassVelocity)
		}
	}
}

func TestGenerateBassLineLowRoot(t *testing.T) {
	g := NewGenerator()
	harmony := Harmony{Chords: []Chord{{Root: 5, Quality: QualityMajor, Duration: 1}}}

	bass, err := g.GenerateBassLine(context.Background(), Melody{}, harmony)
	if err != nil {
		t.Fatalf("GenerateBassLine returned error: %v", err)
	}
	// Root too low to drop an octave keeps its register.
	if bass.Notes[0].Pitch != 5 {
		t.Errorf("pitch = %d, want 5", bass.Notes[0].Pitch)
	}
}

func TestGenerateDrums(t *testing.T) {
	g := NewGenerator()
	melody := testMelody(60, 62, 64, 65, 67, 69, 71, 72)

	drums, err := g.GenerateDrums(context.Background(), melody, "pop", 120)
	if err != nil {
		t.Fatalf("GenerateDrums returned error: %v", err)
	}

	// 8 melody notes = 2 bars of the 8-hit pop pattern.
	if len(drums.Notes) != 16 {
		t.Fatalf("drum note count = %d, want 16", len(drums.Notes))
	}
	for i, note := range drums.Notes {
		if note.Channel != DrumChannel {
			t.Errorf("drum note %d channel = %d, want %d", i, note.Channel, DrumChannel)
		}
	}

	var kicks, snares, hats int
	for _, note := range drums.Notes {
		switch note.Pitch {
		case DrumKick:
			kicks++
		case DrumSnare:
			snares++
		case DrumClosedHat:
			hats++
		}
	}
	if kicks != 4 || snares != 4 || hats != 8 {
		t.Errorf("hit counts = kick %d snare %d hat %d, want 4/4/8", kicks, snares, hats)
	}
}

func TestGenerateDrumsMinimumOneBar(t *testing.T) {
	g := NewGenerator()
	drums, err := g.GenerateDrums(context.Background(), testMelody(60), "pop", 120)
	if err != nil {
		t.Fatalf("GenerateDrums returned error: %v", err)
	}
	if len(drums.Notes) != len(DrumPattern("pop")) {
		t.Errorf("drum note count = %d, want one full bar (%d)", len(drums.Notes), len(DrumPattern("pop")))
	}
}

func TestGenerateDrumsUnknownStyleFallsBack(t *testing.T) {
	g := NewGenerator()
	drums, err := g.GenerateDrums(context.Background(), testMelody(60, 62, 64, 65), "polka", 120)
	if err != nil {
		t.Fatalf("GenerateDrums returned error: %v", err)
	}
	if len(drums.Notes) != len(DrumPattern("pop")) {
		t.Errorf("unknown style should use the pop pattern, got %d notes", len(drums.Notes))
	}
}

// failingSource always errors, forcing the rule engine fallback.
type failingSource struct{}

func (failingSource) GenerateHarmony(context.Context, Melody, string) (Harmony, error) {
	return Harmony{}, errors.New("model unavailable")
}

func (failingSource) GenerateBass(context.Context, Melody, Harmony) (Bass, error) {
	return Bass{}, errors.New("model unavailable")
}

func (failingSource) GenerateDrums(context.Context, Melody, string, int) (Drums, error) {
	return Drums{}, errors.New("model unavailable")
}

func TestGeneratorFallsBackWhenSourceFails(t *testing.T) {
	g := NewGenerator().WithSource(failingSource{})
	melody := testMelody(60, 64)

	harmony, err := g.GenerateHarmony(context.Background(), melody, "pop")
	if err != nil {
		t.Fatalf("GenerateHarmony returned error: %v", err)
	}
	if len(harmony.Chords) != 2 {
		t.Errorf("fallback chord count = %d, want 2", len(harmony.Chords))
	}

	drums, err := g.GenerateDrums(context.Background(), melody, "pop", 120)
	if err != nil {
		t.Fatalf("GenerateDrums returned error: %v", err)
	}
	if len(drums.Notes) == 0 {
		t.Error("fallback drums should not be empty")
	}
}

// fixedSource returns a canned harmony to prove the source wins when healthy.
type fixedSource struct{ failingSource }

func (fixedSource) GenerateHarmony(context.Context, Melody, string) (Harmony, error) {
	return Harmony{Chords: []Chord{{Root: 48, Quality: QualityMajor, Duration: 4}}}, nil
}

func TestGeneratorPrefersSource(t *testing.T) {
	g := NewGenerator().WithSource(fixedSource{})
	harmony, err := g.GenerateHarmony(context.Background(), testMelody(60, 62), "pop")
	if err != nil {
		t.Fatalf("GenerateHarmony returned error: %v", err)
	}
	if len(harmony.Chords) != 1 || harmony.Chords[0].Root != 48 {
		t.Errorf("harmony = %+v, want the source's single chord", harmony.Chords)
	}
}

func TestDefaultGenerationConfig(t *testing.T) {
	cfg := DefaultGenerationConfig()
	if cfg.Temperature != 0.8 {
		t.Errorf("Temperature = %v, want 0.8", cfg.Temperature)
	}
	if cfg.MaxLength != 1024 {
		t.Errorf("MaxLength = %d, want 1024", cfg.MaxLength)
	}
	if cfg.BatchSize != 4 {
		t.Errorf("BatchSize = %d, want 4", cfg.BatchSize)
	}
	if cfg.TopP != 0.9 {
		t.Errorf("TopP = %v, want 0.9", cfg.TopP)
	}
	if cfg.TopK != 50 {
		t.Errorf("TopK = %d, want 50", cfg.TopK)
	}
	if cfg.RepetitionPenalty != 1.1 {
		t.Errorf("RepetitionPenalty = %v, want 1.1", cfg.RepetitionPenalty)
	}
}

func TestConfigConcurrentAccess(t *testing.T) {
	g := NewGenerator()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(topK int) {
			defer wg.Done()
			cfg := g.Config()
			cfg.TopK = topK
			g.SetConfig(cfg)
		}(i)
		go func() {
			defer wg.Done()
			_ = g.Config()
		}()
	}
	wg.Wait()

	if cfg := g.Config(); cfg.Temperature != 0.8 {
		t.Errorf("Temperature = %v, want 0.8", cfg.Temperature)
	}
}
