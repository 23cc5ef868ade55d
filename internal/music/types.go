package music

import "fmt"

// MIDI value ranges
const (
	MaxPitch    = 127
	MaxVelocity = 127
	MaxChannel  = 15

	// DrumChannel is the conventional MIDI channel for percussion (channel 10, zero-based 9)
	DrumChannel = 9
)

// Note represents a single musical note event.
// Times and durations are expressed in beats.
type Note struct {
	Pitch     int     `json:"pitch"`
	Velocity  int     `json:"velocity"`
	Duration  float64 `json:"duration"`
	StartTime float64 `json:"start_time"`
	Channel   int     `json:"channel"`
}

// NewNote creates a validated Note on channel 0.
func NewNote(pitch, velocity int, duration, startTime float64) (Note, error) {
	return NewChannelNote(pitch, velocity, duration, startTime, 0)
}

// NewChannelNote creates a validated Note on an explicit channel.
func NewChannelNote(pitch, velocity int, duration, startTime float64, channel int) (Note, error) {
	n := Note{
		Pitch:     pitch,
		Velocity:  velocity,
		Duration:  duration,
		StartTime: startTime,
		Channel:   channel,
	}
	if err := n.Validate(); err != nil {
		return Note{}, err
	}
	return n, nil
}

// Validate checks all note fields against the MIDI ranges.
func (n Note) Validate() error {
	if n.Pitch < 0 || n.Pitch > MaxPitch {
		return fmt.Errorf("pitch must be between 0 and 127, got %d", n.Pitch)
	}
	if n.Velocity < 0 || n.Velocity > MaxVelocity {
		return fmt.Errorf("velocity must be between 0 and 127, got %d", n.Velocity)
	}
	if n.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", n.Duration)
	}
	if n.StartTime < 0 {
		return fmt.Errorf("start time must be non-negative, got %g", n.StartTime)
	}
	if n.Channel < 0 || n.Channel > MaxChannel {
		return fmt.Errorf("channel must be between 0 and 15, got %d", n.Channel)
	}
	return nil
}

// End returns the beat at which the note stops sounding.
func (n Note) End() float64 {
	return n.StartTime + n.Duration
}

// Chord represents a harmonic event with an optional explicit voicing.
type Chord struct {
	Root      int     `json:"root"`
	Quality   string  `json:"chord_type"` // "major", "minor", "dim", "aug", ...
	Duration  float64 `json:"duration"`
	StartTime float64 `json:"start_time"`
	Voicing   []int   `json:"voicing,omitempty"`
}

// Melody is the caller-supplied seed line.
type Melody struct {
	Notes         []Note `json:"notes"`
	Tempo         int    `json:"tempo"`
	Key           string `json:"key"`
	TimeSignature string `json:"time_signature"`
}

// Harmony is a generated chord progression.
type Harmony struct {
	Chords []Chord `json:"chords"`
	Style  string  `json:"style"`
	Key    string  `json:"key"`
}

// Bass is a generated bass line.
type Bass struct {
	Notes []Note `json:"notes"`
	Style string `json:"style"`
	Key   string `json:"key"`
}

// Drums is a generated drum pattern.
type Drums struct {
	Notes []Note `json:"notes"`
	Style string `json:"style"`
	Tempo int    `json:"tempo"`
}

// Track groups notes for one MIDI track.
type Track struct {
	Name       string `json:"name"`
	Notes      []Note `json:"notes"`
	Channel    int    `json:"channel"`
	Instrument int    `json:"instrument"` // General MIDI program number
}

// Song is a complete multi-track arrangement.
type Song struct {
	Tracks        []Track `json:"tracks"`
	Tempo         int     `json:"tempo"`
	TimeSignature string  `json:"time_signature"`
	Key           string  `json:"key"`
	Duration      float64 `json:"duration"`
}

// TotalDuration returns the end of the last note across all tracks.
func (s Song) TotalDuration() float64 {
	var end float64
	for _, t := range s.Tracks {
		for _, n := range t.Notes {
			if n.End() > end {
				end = n.End()
			}
		}
	}
	return end
}

// ChordNotes expands a chord into its sounding notes. An explicit voicing
// wins; otherwise the voicing is built from the chord quality's intervals.
func ChordNotes(c Chord, velocity int) []Note {
	pitches := c.Voicing
	if len(pitches) == 0 {
		for _, interval := range QualityIntervals(c.Quality) {
			p := c.Root + interval
			if p >= 0 && p <= MaxPitch {
				pitches = append(pitches, p)
			}
		}
	}

	notes := make([]Note, 0, len(pitches))
	for _, p := range pitches {
		if p < 0 || p > MaxPitch {
			continue
		}
		notes = append(notes, Note{
			Pitch:     p,
			Velocity:  velocity,
			Duration:  c.Duration,
			StartTime: c.StartTime,
		})
	}
	return notes
}
