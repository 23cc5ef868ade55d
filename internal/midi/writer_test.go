package midi

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/merlai/merlai-api/internal/music"
)

func testSong() music.Song {
	return music.Song{
		Tracks: []music.Track{
			{
				Name:    "Melody",
				Channel: 0,
				Notes: []music.Note{
					{Pitch: 60, Velocity: 80, Duration: 1, StartTime: 0},
					{Pitch: 64, Velocity: 80, Duration: 1, StartTime: 1},
				},
			},
		},
		Tempo: 120,
	}
}

func TestEncodeHeader(t *testing.T) {
	data, err := Encode(testSong())
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Fatalf("expected MThd prefix, got %x", data[:4])
	}
	if got := binary.BigEndian.Uint32(data[4:8]); got != 6 {
		t.Errorf("header length = %d, want 6", got)
	}
	if got := binary.BigEndian.Uint16(data[8:10]); got != 1 {
		t.Errorf("format = %d, want 1", got)
	}
	if got := binary.BigEndian.Uint16(data[10:12]); got != 1 {
		t.Errorf("ntracks = %d, want 1", got)
	}
	if got := binary.BigEndian.Uint16(data[12:14]); got != TicksPerQuarter {
		t.Errorf("division = %d, want %d", got, TicksPerQuarter)
	}
	if !bytes.Equal(data[14:18], []byte("MTrk")) {
		t.Errorf("expected MTrk chunk after header, got %x", data[14:18])
	}
}

func TestEncodeTrackChunkLengths(t *testing.T) {
	song := testSong()
	song.Tracks = append(song.Tracks, music.Track{
		Name:    "Drums",
		Channel: music.DrumChannel,
		Notes: []music.Note{
			{Pitch: music.DrumKick, Velocity: 80, Duration: 0.25, StartTime: 0, Channel: music.DrumChannel},
		},
	})

	data, err := Encode(song)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	// Walk every chunk and confirm declared lengths consume the file exactly.
	pos := 14
	chunks := 0
	for pos < len(data) {
		if pos+8 > len(data) {
			t.Fatalf("truncated chunk header at %d", pos)
		}
		if !bytes.Equal(data[pos:pos+4], []byte("MTrk")) {
			t.Fatalf("chunk %d: expected MTrk, got %q", chunks, data[pos:pos+4])
		}
		length := int(binary.BigEndian.Uint32(data[pos+4 : pos+8]))
		body := data[pos+8 : pos+8+length]
		if !bytes.HasSuffix(body, []byte{metaPrefix, metaEndOfTrack, 0x00}) {
			t.Errorf("chunk %d missing end-of-track meta", chunks)
		}
		pos += 8 + length
		chunks++
	}
	if chunks != 2 {
		t.Errorf("chunk count = %d, want 2", chunks)
	}
}

func TestEncodeTempoMeta(t *testing.T) {
	data, err := Encode(testSong())
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	// 120 BPM = 500000 microseconds per quarter note.
	want := []byte{metaPrefix, metaSetTempo, 0x03, 0x07, 0xA1, 0x20}
	if !bytes.Contains(data, want) {
		t.Errorf("tempo meta %x not found in output", want)
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	song := testSong()
	song.Tempo = 0
	if _, err := Encode(song); err == nil {
		t.Error("expected error for zero tempo")
	}

	song = testSong()
	song.Tracks = nil
	if _, err := Encode(song); err == nil {
		t.Error("expected error for empty track list")
	}
}

func TestEncodeNotes(t *testing.T) {
	data, err := EncodeNotes([]music.Note{{Pitch: 60, Velocity: 100, Duration: 1}}, 90)
	if err != nil {
		t.Fatalf("EncodeNotes returned error: %v", err)
	}
	if got := binary.BigEndian.Uint16(data[10:12]); got != 1 {
		t.Errorf("ntracks = %d, want 1", got)
	}
}

func TestVarLen(t *testing.T) {
	tests := []struct {
		in   uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{0x40, []byte{0x40}},
		{0x7F, []byte{0x7F}},
		{0x80, []byte{0x81, 0x00}},
		{0x2000, []byte{0xC0, 0x00}},
		{0x3FFF, []byte{0xFF, 0x7F}},
		{0x4000, []byte{0x81, 0x80, 0x00}},
		{0x0FFFFFFF, []byte{0xFF, 0xFF, 0xFF, 0x7F}},
	}
	for _, tt := range tests {
		if got := varLen(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("varLen(%#x) = %x, want %x", tt.in, got, tt.want)
		}
	}
}

func TestQuantize(t *testing.T) {
	notes := []music.Note{
		{Pitch: 60, Velocity: 80, StartTime: 0.13, Duration: 0.9},
		{Pitch: 62, Velocity: 80, StartTime: 1.02, Duration: 0.05},
	}
	out, err := Quantize(notes, 0.25)
	if err != nil {
		t.Fatalf("Quantize returned error: %v", err)
	}
	if out[0].StartTime != 0.25 || out[0].Duration != 1.0 {
		t.Errorf("note 0 = (%v, %v), want (0.25, 1.0)", out[0].StartTime, out[0].Duration)
	}
	if out[1].StartTime != 1.0 || out[1].Duration != 0.25 {
		t.Errorf("note 1 = (%v, %v), want (1.0, 0.25)", out[1].StartTime, out[1].Duration)
	}
	// Input untouched.
	if notes[0].StartTime != 0.13 {
		t.Error("Quantize mutated input slice")
	}
}

func TestQuantizeRejectsBadGrid(t *testing.T) {
	if _, err := Quantize(nil, 0); err == nil {
		t.Error("expected error for zero grid")
	}
	if _, err := Quantize(nil, -0.5); err == nil {
		t.Error("expected error for negative grid")
	}
}

func TestTranspose(t *testing.T) {
	notes := []music.Note{
		{Pitch: 60, Velocity: 80},
		{Pitch: 125, Velocity: 80},
		{Pitch: 2, Velocity: 80},
	}

	up := Transpose(notes, 5)
	if up[0].Pitch != 65 {
		t.Errorf("pitch = %d, want 65", up[0].Pitch)
	}
	if up[1].Pitch != music.MaxPitch {
		t.Errorf("pitch = %d, want clamp to %d", up[1].Pitch, music.MaxPitch)
	}

	down := Transpose(notes, -5)
	if down[2].Pitch != 0 {
		t.Errorf("pitch = %d, want clamp to 0", down[2].Pitch)
	}
}
