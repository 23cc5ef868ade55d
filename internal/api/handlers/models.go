package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/merlai/merlai-api/internal/aimodels"
	"github.com/merlai/merlai-api/internal/config"
	"github.com/merlai/merlai-api/internal/database"
	"github.com/merlai/merlai-api/internal/logger"
	"github.com/merlai/merlai-api/internal/models"
	"github.com/merlai/merlai-api/internal/music"
)

type ModelsHandler struct {
	registry *aimodels.Manager
	cfg      *config.Config
	db       *gorm.DB
}

func NewModelsHandler(registry *aimodels.Manager, cfg *config.Config, db *gorm.DB) *ModelsHandler {
	return &ModelsHandler{registry: registry, cfg: cfg, db: db}
}

type RegisterModelRequest struct {
	Name       string                  `json:"name" binding:"required"`
	Type       string                  `json:"type" binding:"required"`
	ModelID    string                  `json:"model_id"`
	Endpoint   string                  `json:"endpoint"`
	APIKey     string                  `json:"api_key"`
	Parameters *music.GenerationConfig `json:"parameters"`
}

// Register adds a model to the registry. When the request omits an API
// key the server's configured key for that provider is used.
func (h *ModelsHandler) Register(c *gin.Context) {
	var req RegisterModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apiKey := req.APIKey
	if apiKey == "" && h.cfg != nil {
		switch req.Type {
		case aimodels.TypeOpenAI:
			apiKey = h.cfg.OpenAIAPIKey
		case aimodels.TypeGemini:
			apiKey = h.cfg.GeminiAPIKey
		}
	}

	params := music.DefaultGenerationConfig()
	if req.Parameters != nil {
		params = *req.Parameters
	}

	err := h.registry.Register(c.Request.Context(), aimodels.ModelConfig{
		Name:       req.Name,
		Type:       req.Type,
		ModelID:    req.ModelID,
		Endpoint:   req.Endpoint,
		APIKey:     apiKey,
		Parameters: params,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// API keys are never persisted; a restarted service re-reads them
	// from the environment.
	database.SaveAIModelConfig(h.db, &models.AIModelConfig{
		Name:              req.Name,
		Type:              req.Type,
		ModelID:           req.ModelID,
		Endpoint:          req.Endpoint,
		Temperature:       params.Temperature,
		MaxLength:         params.MaxLength,
		TopP:              params.TopP,
		TopK:              params.TopK,
		RepetitionPenalty: params.RepetitionPenalty,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "model registered",
		"name":    req.Name,
	})
}

// SetDefault marks the named model as the default for generation.
func (h *ModelsHandler) SetDefault(c *gin.Context) {
	name := c.Param("name")
	if err := h.registry.SetDefault(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	database.SetDefaultAIModelConfig(h.db, name)
	c.JSON(http.StatusOK, gin.H{
		"message": "default model updated",
		"name":    name,
	})
}

// List returns all registered models.
func (h *ModelsHandler) List(c *gin.Context) {
	models := h.registry.List()
	c.JSON(http.StatusOK, gin.H{
		"models":            models,
		"count":             len(models),
		"ai_models_enabled": h.registry.Default() != "",
	})
}

// Get returns one registered model.
func (h *ModelsHandler) Get(c *gin.Context) {
	name := c.Param("name")
	info, ok := h.registry.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "model " + name + " not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// Remove deletes the named model from the registry.
func (h *ModelsHandler) Remove(c *gin.Context) {
	name := c.Param("name")
	if err := h.registry.Remove(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	database.DeleteAIModelConfig(h.db, name)
	c.JSON(http.StatusOK, gin.H{"message": "model removed", "name": name})
}

type AIGenerateRequest struct {
	Melody        []music.Note   `json:"melody"`
	Style         string         `json:"style"`
	Tempo         int            `json:"tempo"`
	Key           string         `json:"key"`
	TimeSignature string         `json:"time_signature"`
	Harmony       *music.Harmony `json:"harmony"`
}

func (h *ModelsHandler) bindAIRequest(c *gin.Context) (AIGenerateRequest, music.Melody, bool) {
	var req AIGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, music.Melody{}, false
	}
	if len(req.Melody) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "melody cannot be empty"})
		return req, music.Melody{}, false
	}

	if req.Tempo <= 0 {
		req.Tempo = defaultTempo
	}
	if req.Key == "" {
		req.Key = defaultKey
	}
	if req.Style == "" {
		req.Style = defaultStyle
	}
	if req.TimeSignature == "" {
		req.TimeSignature = "4/4"
	}

	return req, music.Melody{
		Notes:         req.Melody,
		Tempo:         req.Tempo,
		Key:           req.Key,
		TimeSignature: req.TimeSignature,
	}, true
}

// source binds generation to the model named in the model_name query
// parameter, falling back to the default model.
func (h *ModelsHandler) source(c *gin.Context) (music.PartSource, bool) {
	name := strings.TrimSpace(c.Query("model_name"))
	if name != "" {
		if _, ok := h.registry.Get(name); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "model " + name + " not found"})
			return nil, false
		}
	}
	return h.registry.Source(name), true
}

// GenerateHarmony generates a chord progression with an AI model directly,
// with no rule-engine fallback.
func (h *ModelsHandler) GenerateHarmony(c *gin.Context) {
	req, melody, ok := h.bindAIRequest(c)
	if !ok {
		return
	}
	source, ok := h.source(c)
	if !ok {
		return
	}

	harmony, err := source.GenerateHarmony(c.Request.Context(), melody, req.Style)
	if err != nil {
		logger.Error("AI harmony generation failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"harmony": harmony, "success": true})
}

// GenerateBass generates a bass line with an AI model directly. The chord
// progression is optional; without one the model works from the melody
// alone.
func (h *ModelsHandler) GenerateBass(c *gin.Context) {
	req, melody, ok := h.bindAIRequest(c)
	if !ok {
		return
	}
	source, ok := h.source(c)
	if !ok {
		return
	}

	harmony := music.Harmony{Style: req.Style, Key: req.Key}
	if req.Harmony != nil {
		harmony = *req.Harmony
	}

	bass, err := source.GenerateBass(c.Request.Context(), melody, harmony)
	if err != nil {
		logger.Error("AI bass generation failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bass_line": bass, "success": true})
}

// GenerateDrums generates a drum pattern with an AI model directly.
func (h *ModelsHandler) GenerateDrums(c *gin.Context) {
	req, melody, ok := h.bindAIRequest(c)
	if !ok {
		return
	}
	source, ok := h.source(c)
	if !ok {
		return
	}

	drums, err := source.GenerateDrums(c.Request.Context(), melody, req.Style, req.Tempo)
	if err != nil {
		logger.Error("AI drum generation failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drums": drums, "success": true})
}
