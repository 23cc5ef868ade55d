package music

import (
	"fmt"
	"strings"
)

// Semitone offsets of the natural notes from C.
var noteOffsets = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

var pitchClasses = map[string]int{
	"C":  0,
	"C#": 1, "Db": 1,
	"D":  2,
	"D#": 3, "Eb": 3,
	"E":  4,
	"F":  5,
	"F#": 6, "Gb": 6,
	"G":  7,
	"G#": 8, "Ab": 8,
	"A":  9,
	"A#": 10, "Bb": 10,
	"B": 11,
}

// Chord quality names used throughout the generator.
const (
	QualityMajor      = "major"
	QualityMinor      = "minor"
	QualityDiminished = "dim"
	QualityAugmented  = "aug"
	QualitySus2       = "sus2"
	QualitySus4       = "sus4"
)

// QualityIntervals returns the semitone intervals for a chord quality,
// defaulting to a major triad for unknown qualities.
func QualityIntervals(quality string) []int {
	switch quality {
	case QualityMinor:
		return []int{0, 3, 7}
	case QualityDiminished:
		return []int{0, 3, 6}
	case QualityAugmented:
		return []int{0, 4, 8}
	case QualitySus2:
		return []int{0, 2, 7}
	case QualitySus4:
		return []int{0, 5, 7}
	default:
		return []int{0, 4, 7}
	}
}

// extensionIntervals maps chord extensions to the interval they add.
var extensionIntervals = map[string]int{
	"7":     10,
	"min7":  10,
	"maj7":  11,
	"9":     14,
	"add9":  14,
	"11":    17,
	"add11": 17,
	"13":    21,
	"add13": 21,
}

// ChordToMIDI converts a chord symbol such as "C", "Em", "Am7", "Cmaj7" or
// "Em/G" (slash chords become inversions) into MIDI note numbers rooted at
// the given octave. Out-of-range notes are dropped.
func ChordToMIDI(symbol string, octave int) ([]int, error) {
	baseChord := symbol
	bassNote := ""
	if strings.Contains(symbol, "/") {
		parts := strings.SplitN(symbol, "/", 2)
		baseChord = strings.TrimSpace(parts[0])
		bassNote = strings.TrimSpace(parts[1])
	}

	root, err := parseRoot(baseChord)
	if err != nil {
		return nil, fmt.Errorf("invalid chord root: %w", err)
	}

	rootMIDI := pitchClasses[root] + octave*12

	intervals := QualityIntervals(parseQuality(baseChord))
	for _, ext := range parseExtensions(baseChord) {
		if add, ok := extensionIntervals[ext]; ok {
			intervals = append(intervals, add)
		}
	}

	notes := make([]int, 0, len(intervals)+1)
	for _, interval := range intervals {
		n := rootMIDI + interval
		if n < 0 || n > MaxPitch {
			continue
		}
		notes = append(notes, n)
	}

	if bassNote != "" {
		if bassRoot, err := parseRoot(bassNote); err == nil {
			// Slash bass goes one octave below the chord.
			bassMIDI := pitchClasses[bassRoot] + (octave-1)*12
			if bassMIDI >= 0 && bassMIDI <= MaxPitch {
				notes = append([]int{bassMIDI}, notes...)
			}
		}
	}

	if len(notes) == 0 {
		return nil, fmt.Errorf("no playable notes for chord %q", symbol)
	}
	return notes, nil
}

// NoteNameToMIDI converts a note name like "C4", "F#3" or "Bb2" to a MIDI
// note number. C4 = 60; octaves may be negative (C-1 = 0).
func NoteNameToMIDI(name string) (int, error) {
	if len(name) < 2 {
		return 0, fmt.Errorf("note name too short: %q", name)
	}

	letter := strings.ToUpper(name[:1])
	semitone, ok := noteOffsets[letter]
	if !ok {
		return 0, fmt.Errorf("invalid note letter in %q", name)
	}

	idx := 1
	switch name[idx] {
	case '#':
		semitone++
		idx++
	case 'b':
		semitone--
		idx++
	}

	if idx >= len(name) {
		return 0, fmt.Errorf("missing octave in note name %q", name)
	}

	var octave int
	if _, err := fmt.Sscanf(name[idx:], "%d", &octave); err != nil {
		return 0, fmt.Errorf("invalid octave in note name %q: %w", name, err)
	}

	midi := (octave+1)*12 + semitone
	if midi < 0 {
		midi = 0
	}
	if midi > MaxPitch {
		midi = MaxPitch
	}
	return midi, nil
}

// parseRoot pulls the root note (C, C#, Db, ...) off a chord symbol.
func parseRoot(symbol string) (string, error) {
	if symbol == "" {
		return "", fmt.Errorf("empty chord symbol")
	}
	root := symbol[:1]
	if len(symbol) > 1 && (symbol[1] == '#' || symbol[1] == 'b') {
		root = symbol[:2]
	}
	if _, ok := pitchClasses[root]; !ok {
		return "", fmt.Errorf("invalid root note: %s", root)
	}
	return root, nil
}

// parseQuality determines the triad quality from the text after the root.
func parseQuality(symbol string) string {
	rest := stripRoot(symbol)
	switch {
	case strings.HasPrefix(rest, "dim"):
		return QualityDiminished
	case strings.HasPrefix(rest, "aug"):
		return QualityAugmented
	case strings.HasPrefix(rest, "sus2"):
		return QualitySus2
	case strings.HasPrefix(rest, "sus4"):
		return QualitySus4
	case strings.HasPrefix(rest, "m") && !strings.HasPrefix(rest, "maj"):
		return QualityMinor
	default:
		return QualityMajor
	}
}

// parseExtensions extracts extensions (7, maj7, 9, add9, ...) from a chord
// symbol. maj7/min7 are pulled out before the bare quality markers so that
// "Cmaj7" does not lose its leading "m".
func parseExtensions(symbol string) []string {
	rest := stripRoot(symbol)
	var extensions []string

	for _, named := range []string{"maj7", "min7"} {
		if strings.Contains(rest, named) {
			extensions = append(extensions, named)
			rest = strings.ReplaceAll(rest, named, "")
		}
	}

	for _, marker := range []string{"dim", "aug", "sus2", "sus4", "m"} {
		rest = strings.TrimPrefix(rest, marker)
	}

	if strings.Contains(rest, "7") {
		extensions = append(extensions, "7")
		rest = strings.ReplaceAll(rest, "7", "")
	}
	for _, ext := range []string{"add9", "add11", "add13"} {
		if strings.Contains(rest, ext) {
			extensions = append(extensions, ext)
			rest = strings.ReplaceAll(rest, ext, "")
		}
	}
	for _, ext := range []string{"9", "11", "13"} {
		if strings.Contains(rest, ext) {
			extensions = append(extensions, ext)
		}
	}

	return extensions
}

func stripRoot(symbol string) string {
	if len(symbol) > 1 && (symbol[1] == '#' || symbol[1] == 'b') {
		return symbol[2:]
	}
	if len(symbol) > 0 {
		return symbol[1:]
	}
	return symbol
}

// majorScaleDegrees are the pitch classes of the major scale relative to
// its tonic, paired with the diatonic triad quality on each degree.
var majorScaleDegrees = []struct {
	offset  int
	quality string
}{
	{0, QualityMajor},       // I
	{2, QualityMinor},       // ii
	{4, QualityMinor},       // iii
	{5, QualityMajor},       // IV
	{7, QualityMajor},       // V
	{9, QualityMinor},       // vi
	{11, QualityDiminished}, // vii
}

// DiatonicQuality returns the triad quality a pitch takes in the given key
// ("C", "F#", "Am", ...). Minor keys are mapped to their relative major.
// Chromatic pitches default to major.
func DiatonicQuality(key string, pitch int) string {
	tonic, minor := parseKey(key)
	if minor {
		tonic = (tonic + 3) % 12 // relative major
	}

	degree := ((pitch-tonic)%12 + 12) % 12
	for _, d := range majorScaleDegrees {
		if d.offset == degree {
			return d.quality
		}
	}
	return QualityMajor
}

// parseKey splits a key label into tonic pitch class and mode. Labels ending
// in "m" (other than a bare accidental) are minor: "Am", "F#m". Unknown
// labels fall back to C major.
func parseKey(key string) (tonic int, minor bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, false
	}
	if strings.HasSuffix(key, "m") && len(key) > 1 {
		minor = true
		key = strings.TrimSuffix(key, "m")
	}
	pc, ok := pitchClasses[key]
	if !ok {
		return 0, false
	}
	return pc, minor
}
