package music

import (
	"reflect"
	"testing"
)

func TestChordToMIDI(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		octave int
		want   []int
	}{
		{"C major", "C", 4, []int{48, 52, 55}},
		{"A minor", "Am", 4, []int{57, 60, 64}},
		{"E minor", "Em", 4, []int{52, 55, 59}},
		{"G major", "G", 4, []int{55, 59, 62}},
		{"B diminished", "Bdim", 4, []int{59, 62, 65}},
		{"C augmented", "Caug", 4, []int{48, 52, 56}},
		{"D sus4", "Dsus4", 4, []int{50, 55, 57}},
		{"C sus2", "Csus2", 4, []int{48, 50, 55}},
		{"dominant seventh", "G7", 4, []int{55, 59, 62, 65}},
		{"major seventh", "Cmaj7", 4, []int{48, 52, 55, 59}},
		{"minor seventh", "Am7", 4, []int{57, 60, 64, 67}},
		{"added ninth", "Cadd9", 4, []int{48, 52, 55, 62}},
		{"sharp root", "F#", 4, []int{54, 58, 61}},
		{"flat root", "Bb", 3, []int{46, 50, 53}},
		{"slash chord", "C/G", 4, []int{43, 48, 52, 55}},
		{"higher octave", "C", 5, []int{60, 64, 67}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChordToMIDI(tt.symbol, tt.octave)
			if err != nil {
				t.Fatalf("ChordToMIDI(%q, %d) error: %v", tt.symbol, tt.octave, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ChordToMIDI(%q, %d) = %v, want %v", tt.symbol, tt.octave, got, tt.want)
			}
		})
	}
}

func TestChordToMIDIInvalid(t *testing.T) {
	for _, symbol := range []string{"", "H", "Xm7"} {
		if _, err := ChordToMIDI(symbol, 4); err == nil {
			t.Errorf("ChordToMIDI(%q) expected error", symbol)
		}
	}
}

func TestNoteNameToMIDI(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"C4", 60},
		{"A4", 69},
		{"C-1", 0},
		{"G9", 127},
		{"F#3", 54},
		{"Bb2", 46},
		{"Eb5", 75},
	}
	for _, tt := range tests {
		got, err := NoteNameToMIDI(tt.name)
		if err != nil {
			t.Errorf("NoteNameToMIDI(%q) error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NoteNameToMIDI(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestNoteNameToMIDIInvalid(t *testing.T) {
	for _, name := range []string{"", "C", "X4", "C#"} {
		if _, err := NoteNameToMIDI(name); err == nil {
			t.Errorf("NoteNameToMIDI(%q) expected error", name)
		}
	}
}

func TestDiatonicQuality(t *testing.T) {
	tests := []struct {
		key   string
		pitch int
		want  string
	}{
		{"C", 60, QualityMajor},      // C in C major: I
		{"C", 62, QualityMinor},      // D: ii
		{"C", 64, QualityMinor},      // E: iii
		{"C", 65, QualityMajor},      // F: IV
		{"C", 67, QualityMajor},      // G: V
		{"C", 69, QualityMinor},      // A: vi
		{"C", 71, QualityDiminished}, // B: vii
		{"C", 61, QualityMajor},      // chromatic defaults to major
		{"Am", 69, QualityMinor},     // A minor maps to C major scale
		{"Am", 60, QualityMajor},
		{"G", 66, QualityDiminished}, // F# in G major: vii
		{"", 60, QualityMajor},       // empty key falls back to C
	}
	for _, tt := range tests {
		if got := DiatonicQuality(tt.key, tt.pitch); got != tt.want {
			t.Errorf("DiatonicQuality(%q, %d) = %q, want %q", tt.key, tt.pitch, got, tt.want)
		}
	}
}

func TestQualityIntervals(t *testing.T) {
	tests := []struct {
		quality string
		want    []int
	}{
		{QualityMajor, []int{0, 4, 7}},
		{QualityMinor, []int{0, 3, 7}},
		{QualityDiminished, []int{0, 3, 6}},
		{QualityAugmented, []int{0, 4, 8}},
		{QualitySus2, []int{0, 2, 7}},
		{QualitySus4, []int{0, 5, 7}},
		{"unknown", []int{0, 4, 7}},
	}
	for _, tt := range tests {
		if got := QualityIntervals(tt.quality); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("QualityIntervals(%q) = %v, want %v", tt.quality, got, tt.want)
		}
	}
}
