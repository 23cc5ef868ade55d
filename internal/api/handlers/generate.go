package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/merlai/merlai-api/internal/aimodels"
	"github.com/merlai/merlai-api/internal/database"
	"github.com/merlai/merlai-api/internal/logger"
	"github.com/merlai/merlai-api/internal/metrics"
	"github.com/merlai/merlai-api/internal/midi"
	"github.com/merlai/merlai-api/internal/models"
	"github.com/merlai/merlai-api/internal/music"
	"github.com/merlai/merlai-api/internal/observability"
)

const (
	defaultTempo = 120
	defaultKey   = "C"
	defaultStyle = "pop"
)

type GenerateHandler struct {
	generator  *music.Generator
	registry   *aimodels.Manager
	db         *gorm.DB
	cloudwatch *metrics.Client
}

func NewGenerateHandler(generator *music.Generator, registry *aimodels.Manager, db *gorm.DB, cw *metrics.Client) *GenerateHandler {
	return &GenerateHandler{
		generator:  generator,
		registry:   registry,
		db:         db,
		cloudwatch: cw,
	}
}

type GenerateRequest struct {
	Melody          []music.Note `json:"melody"`
	Style           string       `json:"style"`
	Tempo           int          `json:"tempo"`
	Key             string       `json:"key"`
	TimeSignature   string       `json:"time_signature"`
	GenerateHarmony bool         `json:"generate_harmony"`
	GenerateBass    bool         `json:"generate_bass"`
	GenerateDrums   bool         `json:"generate_drums"`
}

type GenerateResponse struct {
	Harmony  *music.Harmony `json:"harmony"`
	BassLine *music.Bass    `json:"bass_line"`
	Drums    *music.Drums   `json:"drums"`
	MIDIData string         `json:"midi_data"`
	Duration float64        `json:"duration"`
	Success  bool           `json:"success"`
}

// Generate produces accompaniment parts for a melody and renders the
// combined song as a base64-encoded Standard MIDI File.
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Melody) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "melody cannot be empty"})
		return
	}
	for i, n := range req.Melody {
		if err := n.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid melody note at index %d: %v", i, err)})
			return
		}
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

	melody := music.Melody{
		Notes:         req.Melody,
		Tempo:         req.Tempo,
		Key:           req.Key,
		TimeSignature: req.TimeSignature,
	}

	ctx := c.Request.Context()
	start := time.Now()

	trace := observability.GetClient().StartTrace(ctx, "generate", map[string]interface{}{
		"style":      req.Style,
		"key":        req.Key,
		"tempo":      req.Tempo,
		"note_count": len(req.Melody),
	})
	defer trace.Finish()

	var (
		harmony *music.Harmony
		bass    *music.Bass
		drums   *music.Drums
	)

	if req.GenerateHarmony {
		h2, err := h.generator.GenerateHarmony(ctx, melody, req.Style)
		if err != nil {
			h.fail(c, start, "harmony generation failed", err)
			return
		}
		harmony = &h2
	}

	// Bass lines follow the chord progression, so a bass part is only
	// produced when harmony generation succeeded.
	if req.GenerateBass && harmony != nil {
		b, err := h.generator.GenerateBassLine(ctx, melody, *harmony)
		if err != nil {
			h.fail(c, start, "bass generation failed", err)
			return
		}
		bass = &b
	}

	if req.GenerateDrums {
		d, err := h.generator.GenerateDrums(ctx, melody, req.Style, req.Tempo)
		if err != nil {
			h.fail(c, start, "drum generation failed", err)
			return
		}
		drums = &d
	}

	song := music.BuildSong(melody, harmony, bass, drums)

	data, err := midi.Encode(song)
	if err != nil {
		h.fail(c, start, "MIDI encoding failed", err)
		return
	}

	elapsed := time.Since(start)
	totalNotes := countNotes(song)

	logger.LogGenerationRequest(c, req.Style, req.Key, req.Tempo, elapsed, logger.Fields{
		"total_notes": totalNotes,
		"midi_bytes":  len(data),
	})
	metrics.NewSentryMetrics().RecordGeneration(ctx, "song", totalNotes, elapsed)
	if h.cloudwatch != nil {
		h.cloudwatch.RecordGenerationDuration(elapsed, true)
		h.cloudwatch.RecordNotesGenerated("song", totalNotes)
	}

	h.logGeneration(c, &req, song, len(data), elapsed, harmony != nil, bass != nil, drums != nil)

	c.JSON(http.StatusOK, GenerateResponse{
		Harmony:  harmony,
		BassLine: bass,
		Drums:    drums,
		MIDIData: base64.StdEncoding.EncodeToString(data),
		Duration: song.TotalDuration(),
		Success:  true,
	})
}

func (h *GenerateHandler) fail(c *gin.Context, start time.Time, msg string, err error) {
	logger.Error(msg, err, logger.WithContext(c))
	if h.cloudwatch != nil {
		h.cloudwatch.RecordGenerationDuration(time.Since(start), false)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "success": false})
}

func (h *GenerateHandler) logGeneration(c *gin.Context, req *GenerateRequest, song music.Song, midiBytes int, elapsed time.Duration, usedHarmony, usedBass, usedDrums bool) {
	requestID, _ := c.Get("request_id")
	id, _ := requestID.(string)

	modelName := ""
	if h.registry != nil {
		modelName = h.registry.Default()
	}

	database.SaveGenerationLog(h.db, &models.GenerationLog{
		RequestID:   id,
		Style:       req.Style,
		Key:         req.Key,
		Tempo:       req.Tempo,
		MelodyNotes: len(req.Melody),
		HarmonyUsed: usedHarmony,
		BassUsed:    usedBass,
		DrumsUsed:   usedDrums,
		TotalNotes:  countNotes(song),
		MIDIBytes:   midiBytes,
		DurationMs:  elapsed.Milliseconds(),
		ModelName:   modelName,
	})
}

func countNotes(song music.Song) int {
	total := 0
	for _, t := range song.Tracks {
		total += len(t.Notes)
	}
	return total
}
