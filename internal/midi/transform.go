package midi

import (
	"fmt"
	"math"

	"github.com/merlai/merlai-api/internal/music"
)

// Quantize snaps note start times and durations to the given grid, in beats.
// A duration that would collapse to zero is rounded up to one grid step.
func Quantize(notes []music.Note, grid float64) ([]music.Note, error) {
	if grid <= 0 {
		return nil, fmt.Errorf("quantize grid must be positive, got %v", grid)
	}

	out := make([]music.Note, len(notes))
	for i, note := range notes {
		note.StartTime = math.Round(note.StartTime/grid) * grid
		note.Duration = math.Round(note.Duration/grid) * grid
		if note.Duration <= 0 {
			note.Duration = grid
		}
		out[i] = note
	}
	return out, nil
}

// Transpose shifts every pitch by the given number of semitones, clamping
// to the valid MIDI range.
func Transpose(notes []music.Note, semitones int) []music.Note {
	out := make([]music.Note, len(notes))
	for i, note := range notes {
		pitch := note.Pitch + semitones
		if pitch < 0 {
			pitch = 0
		}
		if pitch > music.MaxPitch {
			pitch = music.MaxPitch
		}
		note.Pitch = pitch
		out[i] = note
	}
	return out
}
