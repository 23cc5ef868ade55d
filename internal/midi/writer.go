// Package midi implements a Standard MIDI File (format 1) writer for the
// generated arrangements, plus basic note transforms.
package midi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/merlai/merlai-api/internal/music"
)

// TicksPerQuarter is the SMF time resolution.
const TicksPerQuarter = 480

const (
	noteOnStatus        = 0x90
	noteOffStatus       = 0x80
	programChangeStatus = 0xC0

	metaPrefix     = 0xFF
	metaTrackName  = 0x03
	metaEndOfTrack = 0x2F
	metaSetTempo   = 0x51

	microsecondsPerMinute = 60_000_000
)

// Encode serializes a song into Standard MIDI File bytes. The file uses
// format 1: one track chunk per song track, tempo carried on the first one.
func Encode(song music.Song) ([]byte, error) {
	if song.Tempo <= 0 {
		return nil, fmt.Errorf("tempo must be positive, got %d", song.Tempo)
	}
	if len(song.Tracks) == 0 {
		return nil, fmt.Errorf("song has no tracks")
	}

	var buf bytes.Buffer
	writeHeader(&buf, len(song.Tracks))

	for i, track := range song.Tracks {
		data := encodeTrack(track, i == 0, song.Tempo)
		writeChunk(&buf, "MTrk", data)
	}

	return buf.Bytes(), nil
}

// EncodeNotes serializes a flat note list as a single-track MIDI file.
func EncodeNotes(notes []music.Note, tempo int) ([]byte, error) {
	return Encode(music.Song{
		Tracks: []music.Track{{Name: "Notes", Notes: notes}},
		Tempo:  tempo,
	})
}

func writeHeader(buf *bytes.Buffer, ntracks int) {
	buf.WriteString("MThd")
	_ = binary.Write(buf, binary.BigEndian, uint32(6)) // header length
	_ = binary.Write(buf, binary.BigEndian, uint16(1)) // format 1
	_ = binary.Write(buf, binary.BigEndian, uint16(ntracks))
	_ = binary.Write(buf, binary.BigEndian, uint16(TicksPerQuarter))
}

func writeChunk(buf *bytes.Buffer, kind string, data []byte) {
	buf.WriteString(kind)
	_ = binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.Write(data)
}

// trackEvent is an absolute-time channel event awaiting delta encoding.
type trackEvent struct {
	tick  uint32
	bytes []byte
	// offs sort before ons at the same tick so retriggered notes survive
	off bool
}

func encodeTrack(track music.Track, first bool, tempo int) []byte {
	var data []byte

	if first {
		data = append(data, tempoEvent(tempo)...)
	}
	if track.Name != "" {
		data = append(data, trackNameEvent(track.Name)...)
	}
	if track.Channel != music.DrumChannel {
		data = append(data, 0x00, byte(programChangeStatus|track.Channel&0x0F), byte(track.Instrument&0x7F))
	}

	events := make([]trackEvent, 0, len(track.Notes)*2)
	for _, note := range track.Notes {
		channel := byte(note.Channel)
		if track.Channel != 0 {
			channel = byte(track.Channel)
		}
		channel &= 0x0F

		on := beatsToTicks(note.StartTime)
		off := beatsToTicks(note.StartTime + note.Duration)
		if off <= on {
			off = on + 1
		}

		events = append(events,
			trackEvent{tick: on, bytes: []byte{noteOnStatus | channel, byte(note.Pitch), byte(note.Velocity)}},
			trackEvent{tick: off, bytes: []byte{noteOffStatus | channel, byte(note.Pitch), 0}, off: true},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var lastTick uint32
	for _, ev := range events {
		data = append(data, varLen(ev.tick-lastTick)...)
		data = append(data, ev.bytes...)
		lastTick = ev.tick
	}

	data = append(data, 0x00, metaPrefix, metaEndOfTrack, 0x00)
	return data
}

func tempoEvent(bpm int) []byte {
	uspq := uint32(microsecondsPerMinute / bpm)
	return []byte{
		0x00,
		metaPrefix, metaSetTempo, 0x03,
		byte(uspq >> 16), byte(uspq >> 8), byte(uspq),
	}
}

func trackNameEvent(name string) []byte {
	out := []byte{0x00, metaPrefix, metaTrackName}
	out = append(out, varLen(uint32(len(name)))...)
	return append(out, name...)
}

func beatsToTicks(beats float64) uint32 {
	if beats < 0 {
		return 0
	}
	return uint32(beats*TicksPerQuarter + 0.5)
}

// varLen encodes a MIDI variable-length quantity.
func varLen(v uint32) []byte {
	if v < 0x80 {
		return []byte{byte(v)}
	}
	var buf [5]byte
	n := 0
	for tmp := v; tmp > 0; tmp >>= 7 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		b := byte((v >> (uint(i) * 7)) & 0x7F)
		if i > 0 {
			b |= 0x80
		}
		buf[n-1-i] = b
	}
	return buf[:n]
}
