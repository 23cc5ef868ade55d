// Package models defines the persisted database records.
package models

import (
	"time"

	"gorm.io/gorm"
)

// GenerationLog records one completed generation request.
type GenerationLog struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RequestID string `gorm:"index" json:"request_id"`
	Style     string `gorm:"index" json:"style"`
	Key       string `json:"key"`
	Tempo     int    `json:"tempo"`

	MelodyNotes int    `json:"melody_notes"`
	HarmonyUsed bool   `json:"harmony_used"`
	BassUsed    bool   `json:"bass_used"`
	DrumsUsed   bool   `json:"drums_used"`
	TotalNotes  int    `json:"total_notes"`
	MIDIBytes   int    `json:"midi_bytes"`
	DurationMs  int64  `json:"duration_ms"`
	ModelName   string `gorm:"index" json:"model_name,omitempty"`
}
