package music

import (
	"reflect"
	"testing"
)

func TestNoteValidate(t *testing.T) {
	tests := []struct {
		name    string
		note    Note
		wantErr bool
	}{
		{"valid", Note{Pitch: 60, Velocity: 80, Duration: 1}, false},
		{"boundary pitches", Note{Pitch: 127, Velocity: 127, Duration: 0.1}, false},
		{"drum channel", Note{Pitch: 36, Velocity: 80, Duration: 0.25, Channel: 9}, false},
		{"pitch too high", Note{Pitch: 128, Velocity: 80, Duration: 1}, true},
		{"negative pitch", Note{Pitch: -1, Velocity: 80, Duration: 1}, true},
		{"velocity too high", Note{Pitch: 60, Velocity: 128, Duration: 1}, true},
		{"zero duration", Note{Pitch: 60, Velocity: 80, Duration: 0}, true},
		{"negative start", Note{Pitch: 60, Velocity: 80, Duration: 1, StartTime: -1}, true},
		{"channel too high", Note{Pitch: 60, Velocity: 80, Duration: 1, Channel: 16}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.note.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewNote(t *testing.T) {
	n, err := NewNote(60, 100, 1.5, 2)
	if err != nil {
		t.Fatalf("NewNote returned error: %v", err)
	}
	if n.Pitch != 60 || n.Velocity != 100 || n.Duration != 1.5 || n.StartTime != 2 || n.Channel != 0 {
		t.Errorf("unexpected note: %+v", n)
	}
	if n.End() != 3.5 {
		t.Errorf("End() = %v, want 3.5", n.End())
	}

	if _, err := NewNote(200, 100, 1, 0); err == nil {
		t.Error("expected error for out-of-range pitch")
	}
}

func TestSongTotalDuration(t *testing.T) {
	song := Song{
		Tracks: []Track{
			{Notes: []Note{{Pitch: 60, Velocity: 80, Duration: 1, StartTime: 0}}},
			{Notes: []Note{{Pitch: 36, Velocity: 80, Duration: 0.25, StartTime: 7}}},
		},
	}
	if got := song.TotalDuration(); got != 7.25 {
		t.Errorf("TotalDuration() = %v, want 7.25", got)
	}

	if got := (Song{}).TotalDuration(); got != 0 {
		t.Errorf("empty song TotalDuration() = %v, want 0", got)
	}
}

func TestChordNotes(t *testing.T) {
	c := Chord{Root: 60, Quality: QualityMinor, Duration: 2, StartTime: 1}
	notes := ChordNotes(c, 80)

	var pitches []int
	for _, n := range notes {
		pitches = append(pitches, n.Pitch)
		if n.Velocity != 80 || n.Duration != 2 || n.StartTime != 1 {
			t.Errorf("note fields = %+v, want velocity 80 duration 2 start 1", n)
		}
	}
	if want := []int{60, 63, 67}; !reflect.DeepEqual(pitches, want) {
		t.Errorf("pitches = %v, want %v", pitches, want)
	}
}

func TestChordNotesExplicitVoicing(t *testing.T) {
	c := Chord{Root: 60, Quality: QualityMajor, Duration: 1, Voicing: []int{48, 55, 64}}
	notes := ChordNotes(c, 90)
	if len(notes) != 3 || notes[0].Pitch != 48 || notes[2].Pitch != 64 {
		t.Errorf("explicit voicing ignored: %+v", notes)
	}
}
