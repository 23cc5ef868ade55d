package aimodels

const (
	midiNoteNumberMin = 0
	midiNoteNumberMax = 127

	velocityMin = 1
	velocityMax = 127

	durationBeatsMin = 0.01
)

// noteSchema is the JSON schema fragment for one note event.
func noteSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pitch":      map[string]any{"type": "integer", "minimum": midiNoteNumberMin, "maximum": midiNoteNumberMax},
			"velocity":   map[string]any{"type": "integer", "minimum": velocityMin, "maximum": velocityMax},
			"duration":   map[string]any{"type": "number", "minimum": durationBeatsMin},
			"start_time": map[string]any{"type": "number", "minimum": 0},
			"channel":    map[string]any{"type": "integer", "minimum": 0, "maximum": 15},
		},
		"required":             []string{"pitch", "velocity", "duration", "start_time", "channel"},
		"additionalProperties": false,
	}
}

// GetHarmonyOutputSchema returns the JSON schema for chord progression output.
func GetHarmonyOutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"chords": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"root":       map[string]any{"type": "integer", "minimum": midiNoteNumberMin, "maximum": midiNoteNumberMax},
						"chord_type": map[string]any{"type": "string", "enum": []string{"major", "minor", "dim", "aug", "sus2", "sus4"}},
						"duration":   map[string]any{"type": "number", "minimum": durationBeatsMin},
						"start_time": map[string]any{"type": "number", "minimum": 0},
						"voicing": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "integer", "minimum": midiNoteNumberMin, "maximum": midiNoteNumberMax},
						},
					},
					"required":             []string{"root", "chord_type", "duration", "start_time", "voicing"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"chords"},
		"additionalProperties": false,
	}
}

// GetNotesOutputSchema returns the JSON schema for bass and drum output.
func GetNotesOutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"notes": map[string]any{
				"type":  "array",
				"items": noteSchema(),
			},
		},
		"required":             []string{"notes"},
		"additionalProperties": false,
	}
}
