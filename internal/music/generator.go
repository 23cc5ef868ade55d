package music

import (
	"context"
	"fmt"
	"sync"

	"github.com/merlai/merlai-api/internal/logger"
)

const (
	beatsPerBar      = 4
	bassVelocity     = 64
	defaultStyle     = "pop"
	defaultKey       = "C"
	defaultTempo     = 120
	harmonyOctaveGap = 12
)

// GenerationConfig holds the tunable sampling parameters exposed through the
// config API. Per-model overrides live in the AI model registry; these are
// the service-wide values reported and updated over HTTP.
type GenerationConfig struct {
	Temperature       float64 `json:"temperature"`
	MaxLength         int     `json:"max_length"`
	BatchSize         int     `json:"batch_size"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

// DefaultGenerationConfig returns the stock sampling parameters.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:       0.8,
		MaxLength:         1024,
		BatchSize:         4,
		TopP:              0.9,
		TopK:              50,
		RepetitionPenalty: 1.1,
	}
}

// PartSource generates parts from a melody. The AI model registry implements
// this; the Generator falls back to its rule-based engine when the source
// fails or is absent.
type PartSource interface {
	GenerateHarmony(ctx context.Context, melody Melody, style string) (Harmony, error)
	GenerateBass(ctx context.Context, melody Melody, harmony Harmony) (Bass, error)
	GenerateDrums(ctx context.Context, melody Melody, style string, tempo int) (Drums, error)
}

// Generator produces harmony, bass and drum parts for a melody. The
// zero-value-with-New generator is purely rule based; attach a PartSource to
// route generation through AI models first.
type Generator struct {
	source PartSource

	mu     sync.RWMutex
	config GenerationConfig
}

// NewGenerator creates a rule-based generator.
func NewGenerator() *Generator {
	return &Generator{config: DefaultGenerationConfig()}
}

// WithSource attaches an AI part source to consult before the rule engine.
func (g *Generator) WithSource(source PartSource) *Generator {
	g.source = source
	return g
}

// Config returns the current sampling parameters. Safe for concurrent use
// with SetConfig.
func (g *Generator) Config() GenerationConfig {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig replaces the sampling parameters.
func (g *Generator) SetConfig(cfg GenerationConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = cfg
}

// GenerateHarmony derives a chord progression from the melody. Each melody
// note is harmonized with a triad rooted on its pitch, the quality chosen
// diatonically from the melody's key.
func (g *Generator) GenerateHarmony(ctx context.Context, melody Melody, style string) (Harmony, error) {
	if len(melody.Notes) == 0 {
		return Harmony{}, fmt.Errorf("melody must not be empty")
	}
	if style == "" {
		style = defaultStyle
	}

	if g.source != nil {
		harmony, err := g.source.GenerateHarmony(ctx, melody, style)
		if err == nil && len(harmony.Chords) > 0 {
			return harmony, nil
		}
		if err != nil {
			logger.Warn("AI harmony generation failed, using rule engine", logger.Fields{
				"style": style,
				"error": err.Error(),
			})
		}
	}

	key := melody.Key
	if key == "" {
		key = defaultKey
	}

	chords := make([]Chord, 0, len(melody.Notes))
	for _, note := range melody.Notes {
		quality := DiatonicQuality(key, note.Pitch)
		chord := Chord{
			Root:      note.Pitch,
			Quality:   quality,
			Duration:  note.Duration,
			StartTime: note.StartTime,
		}
		for _, interval := range QualityIntervals(quality) {
			p := note.Pitch + interval
			if p <= MaxPitch {
				chord.Voicing = append(chord.Voicing, p)
			}
		}
		chords = append(chords, chord)
	}

	return Harmony{Chords: chords, Style: style, Key: key}, nil
}

// GenerateBassLine walks the harmony's chord roots one octave down.
func (g *Generator) GenerateBassLine(ctx context.Context, melody Melody, harmony Harmony) (Bass, error) {
	if g.source != nil {
		bass, err := g.source.GenerateBass(ctx, melody, harmony)
		if err == nil && len(bass.Notes) > 0 {
			return bass, nil
		}
		if err != nil {
			logger.Warn("AI bass generation failed, using rule engine", logger.Fields{
				"error": err.Error(),
			})
		}
	}

	notes := make([]Note, 0, len(harmony.Chords))
	for _, chord := range harmony.Chords {
		pitch := chord.Root - harmonyOctaveGap
		if pitch < 0 {
			pitch = chord.Root
		}
		notes = append(notes, Note{
			Pitch:     pitch,
			Velocity:  bassVelocity,
			Duration:  chord.Duration,
			StartTime: chord.StartTime,
		})
	}

	return Bass{Notes: notes, Style: harmony.Style, Key: harmony.Key}, nil
}

// GenerateDrums lays down a style pattern on channel 9, one bar per four
// melody notes (minimum one bar).
func (g *Generator) GenerateDrums(ctx context.Context, melody Melody, style string, tempo int) (Drums, error) {
	if len(melody.Notes) == 0 {
		return Drums{}, fmt.Errorf("melody must not be empty")
	}
	if style == "" {
		style = defaultStyle
	}
	if tempo <= 0 {
		tempo = defaultTempo
	}

	if g.source != nil {
		drums, err := g.source.GenerateDrums(ctx, melody, style, tempo)
		if err == nil && len(drums.Notes) > 0 {
			return drums, nil
		}
		if err != nil {
			logger.Warn("AI drum generation failed, using rule engine", logger.Fields{
				"style": style,
				"error": err.Error(),
			})
		}
	}

	bars := len(melody.Notes) / beatsPerBar
	if bars < 1 {
		bars = 1
	}

	pattern := DrumPattern(style)
	notes := make([]Note, 0, bars*len(pattern))
	for bar := 0; bar < bars; bar++ {
		barStart := float64(bar * beatsPerBar)
		for _, hit := range pattern {
			notes = append(notes, Note{
				Pitch:     hit.pitch,
				Velocity:  hit.velocity,
				Duration:  hit.duration,
				StartTime: barStart + hit.beat,
				Channel:   DrumChannel,
			})
		}
	}

	return Drums{Notes: notes, Style: style, Tempo: tempo}, nil
}
