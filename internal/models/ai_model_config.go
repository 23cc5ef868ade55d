package models

import (
	"time"

	"gorm.io/gorm"
)

// AIModelConfig persists registered model configurations so the registry
// survives restarts.
type AIModelConfig struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	Type      string `gorm:"not null" json:"type"` // "openai", "gemini", "external"
	ModelID   string `json:"model_id"`
	Endpoint  string `json:"endpoint,omitempty"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`

	// Sampling parameters
	Temperature       float64 `gorm:"default:0.8" json:"temperature"`
	MaxLength         int     `gorm:"default:1024" json:"max_length"`
	TopP              float64 `gorm:"default:0.9" json:"top_p"`
	TopK              int     `gorm:"default:50" json:"top_k"`
	RepetitionPenalty float64 `gorm:"default:1.1" json:"repetition_penalty"`
}
