package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merlai/merlai-api/internal/music"
)

type ConfigHandler struct {
	generator *music.Generator
}

func NewConfigHandler(generator *music.Generator) *ConfigHandler {
	return &ConfigHandler{generator: generator}
}

// Get returns the generator's current sampling parameters.
func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.generator.Config())
}

// configKeys maps accepted keys to whether the value must be integral.
var configKeys = map[string]bool{
	"temperature":        false,
	"max_length":         true,
	"batch_size":         true,
	"top_p":              false,
	"top_k":              true,
	"repetition_penalty": false,
}

// Update applies a partial update to the sampling parameters. Unknown
// keys are rejected with 400; known keys with a non-numeric or
// non-integral value where an integer is required are rejected with 422.
func (h *ConfigHandler) Update(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	values := make(map[string]float64, len(body))
	for key, raw := range body {
		integral, known := configKeys[key]
		if !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown config key: %q", key)})
			return
		}

		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("config key %q must be a number", key)})
			return
		}
		if integral && v != math.Trunc(v) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("config key %q must be an integer", key)})
			return
		}
		values[key] = v
	}

	cfg := h.generator.Config()
	for key, v := range values {
		switch key {
		case "temperature":
			cfg.Temperature = v
		case "max_length":
			cfg.MaxLength = int(v)
		case "batch_size":
			cfg.BatchSize = int(v)
		case "top_p":
			cfg.TopP = v
		case "top_k":
			cfg.TopK = int(v)
		case "repetition_penalty":
			cfg.RepetitionPenalty = v
		}
	}
	h.generator.SetConfig(cfg)

	c.JSON(http.StatusOK, gin.H{"message": "config updated", "config": cfg})
}
