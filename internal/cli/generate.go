package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/merlai/merlai-api/internal/midi"
	"github.com/merlai/merlai-api/internal/music"
)

var generateFlags struct {
	input   string
	notes   string
	chords  string
	output  string
	style   string
	key     string
	tempo   int
	harmony bool
	bass    bool
	drums   bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate accompaniment for a melody and write a MIDI file",
	Long:  "Reads a melody from a JSON file (an array of notes) and writes a MIDI file with the generated harmony, bass and drum parts. Without --input a sample C major melody is used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		melody, err := loadMelody()
		if err != nil {
			return err
		}

		generator := music.NewGenerator()
		ctx := context.Background()

		var (
			harmony *music.Harmony
			bass    *music.Bass
			drums   *music.Drums
		)

		if generateFlags.harmony {
			if generateFlags.chords != "" {
				h, err := harmonyFromSymbols(generateFlags.chords, generateFlags.style, generateFlags.key)
				if err != nil {
					return err
				}
				harmony = &h
			} else {
				h, err := generator.GenerateHarmony(ctx, melody, generateFlags.style)
				if err != nil {
					return fmt.Errorf("generate harmony: %w", err)
				}
				harmony = &h
			}
		}
		if generateFlags.bass && harmony != nil {
			b, err := generator.GenerateBassLine(ctx, melody, *harmony)
			if err != nil {
				return fmt.Errorf("generate bass: %w", err)
			}
			bass = &b
		}
		if generateFlags.drums {
			d, err := generator.GenerateDrums(ctx, melody, generateFlags.style, generateFlags.tempo)
			if err != nil {
				return fmt.Errorf("generate drums: %w", err)
			}
			drums = &d
		}

		song := music.BuildSong(melody, harmony, bass, drums)
		data, err := midi.Encode(song)
		if err != nil {
			return fmt.Errorf("encode MIDI: %w", err)
		}

		out := generateFlags.output
		if out == "" {
			out = fmt.Sprintf("merlai_output_%s_%s.mid", generateFlags.style, generateFlags.key)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}

		fmt.Printf("Wrote %s (%d tracks, %.2f beats, %d bytes)\n",
			out, len(song.Tracks), song.TotalDuration(), len(data))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateFlags.input, "input", "i", "", "melody JSON file (array of notes)")
	generateCmd.Flags().StringVar(&generateFlags.notes, "notes", "", "melody as comma-separated note names (e.g. C4,E4,G4)")
	generateCmd.Flags().StringVar(&generateFlags.chords, "chords", "", "harmony as comma-separated chord symbols (e.g. C,Am7,F,G), one bar each")
	generateCmd.Flags().StringVarP(&generateFlags.output, "output", "o", "", "output MIDI file (default merlai_output_<style>_<key>.mid)")
	generateCmd.Flags().StringVar(&generateFlags.style, "style", "pop", "style for the generated parts")
	generateCmd.Flags().StringVar(&generateFlags.key, "key", "C", "key of the melody")
	generateCmd.Flags().IntVar(&generateFlags.tempo, "tempo", 120, "tempo in BPM")
	generateCmd.Flags().BoolVar(&generateFlags.harmony, "harmony", true, "generate a harmony part")
	generateCmd.Flags().BoolVar(&generateFlags.bass, "bass", true, "generate a bass part")
	generateCmd.Flags().BoolVar(&generateFlags.drums, "drums", true, "generate a drum part")
}

func loadMelody() (music.Melody, error) {
	melody := music.Melody{
		Tempo:         generateFlags.tempo,
		Key:           generateFlags.key,
		TimeSignature: "4/4",
	}

	if generateFlags.notes != "" {
		notes, err := melodyFromNames(generateFlags.notes)
		if err != nil {
			return melody, err
		}
		melody.Notes = notes
		return melody, nil
	}

	if generateFlags.input == "" {
		melody.Notes = sampleMelody()
		return melody, nil
	}

	data, err := os.ReadFile(generateFlags.input)
	if err != nil {
		return melody, fmt.Errorf("read melody: %w", err)
	}
	if err := json.Unmarshal(data, &melody.Notes); err != nil {
		return melody, fmt.Errorf("parse melody: %w", err)
	}
	if len(melody.Notes) == 0 {
		return melody, fmt.Errorf("melody cannot be empty")
	}
	for i, n := range melody.Notes {
		if err := n.Validate(); err != nil {
			return melody, fmt.Errorf("melody note %d: %w", i, err)
		}
	}
	return melody, nil
}

// melodyFromNames builds a one-note-per-beat melody from note names.
func melodyFromNames(names string) ([]music.Note, error) {
	parts := strings.Split(names, ",")
	notes := make([]music.Note, 0, len(parts))
	for i, name := range parts {
		pitch, err := music.NoteNameToMIDI(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("melody note %d: %w", i, err)
		}
		notes = append(notes, music.Note{
			Pitch:     pitch,
			Velocity:  100,
			Duration:  1,
			StartTime: float64(i),
		})
	}
	return notes, nil
}

// harmonyFromSymbols turns chord symbols into a one-bar-per-chord harmony.
func harmonyFromSymbols(symbols, style, key string) (music.Harmony, error) {
	parts := strings.Split(symbols, ",")
	chords := make([]music.Chord, 0, len(parts))
	for i, sym := range parts {
		voicing, err := music.ChordToMIDI(strings.TrimSpace(sym), 4)
		if err != nil {
			return music.Harmony{}, fmt.Errorf("chord %d: %w", i, err)
		}
		chords = append(chords, music.Chord{
			Root:      voicing[0],
			Duration:  4,
			StartTime: float64(i * 4),
			Voicing:   voicing,
		})
	}
	return music.Harmony{Chords: chords, Style: style, Key: key}, nil
}

// sampleMelody is the first phrase of a C major scale, one note per beat.
func sampleMelody() []music.Note {
	pitches := []int{60, 62, 64, 65, 67, 65, 64, 62}
	notes := make([]music.Note, len(pitches))
	for i, p := range pitches {
		notes[i] = music.Note{
			Pitch:     p,
			Velocity:  100,
			Duration:  1,
			StartTime: float64(i),
		}
	}
	return notes
}
