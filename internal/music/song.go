package music

// Track channels and General MIDI programs for assembled songs.
const (
	MelodyChannel  = 0
	HarmonyChannel = 1
	BassChannel    = 2

	MelodyInstrument  = 0  // Acoustic Grand Piano
	HarmonyInstrument = 48 // String Ensemble 1
	BassInstrument    = 32 // Acoustic Bass

	harmonyVelocity = 80
)

// BuildSong assembles the melody and any generated parts into a song.
// Nil parts are skipped. Each part lands on its own channel; drums go to
// the percussion channel.
func BuildSong(melody Melody, harmony *Harmony, bass *Bass, drums *Drums) Song {
	song := Song{
		Tempo:         melody.Tempo,
		TimeSignature: melody.TimeSignature,
		Key:           melody.Key,
	}

	song.Tracks = append(song.Tracks, Track{
		Name:       "Melody",
		Notes:      melody.Notes,
		Channel:    MelodyChannel,
		Instrument: MelodyInstrument,
	})

	if harmony != nil {
		var notes []Note
		for _, chord := range harmony.Chords {
			for _, n := range ChordNotes(chord, harmonyVelocity) {
				n.Channel = HarmonyChannel
				notes = append(notes, n)
			}
		}
		song.Tracks = append(song.Tracks, Track{
			Name:       "Harmony",
			Notes:      notes,
			Channel:    HarmonyChannel,
			Instrument: HarmonyInstrument,
		})
	}

	if bass != nil {
		notes := make([]Note, len(bass.Notes))
		for i, n := range bass.Notes {
			n.Channel = BassChannel
			notes[i] = n
		}
		song.Tracks = append(song.Tracks, Track{
			Name:       "Bass",
			Notes:      notes,
			Channel:    BassChannel,
			Instrument: BassInstrument,
		})
	}

	if drums != nil {
		notes := make([]Note, len(drums.Notes))
		for i, n := range drums.Notes {
			n.Channel = DrumChannel
			notes[i] = n
		}
		song.Tracks = append(song.Tracks, Track{
			Name:       "Drums",
			Notes:      notes,
			Channel:    DrumChannel,
			Instrument: 0,
		})
	}

	song.Duration = song.TotalDuration()
	return song
}
