package aimodels

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/merlai/merlai-api/internal/logger"
	"github.com/merlai/merlai-api/internal/music"
	"github.com/merlai/merlai-api/internal/prompt"
)

// Model types supported by the registry.
const (
	TypeOpenAI   = "openai"
	TypeGemini   = "gemini"
	TypeExternal = "external"
)

// ModelConfig describes one registered model.
type ModelConfig struct {
	Name     string `json:"name"`
	Type     string `json:"type"`               // "openai", "gemini", "external"
	ModelID  string `json:"model_id"`           // backend model identifier, e.g. "gpt-5-mini"
	Endpoint string `json:"endpoint,omitempty"` // external servers only
	APIKey   string `json:"-"`

	Parameters music.GenerationConfig `json:"parameters"`
}

// ModelInfo is the API-facing view of a registered model.
type ModelInfo struct {
	Name      string                 `json:"name"`
	Type      string                 `json:"type"`
	ModelID   string                 `json:"model_id"`
	Endpoint  string                 `json:"endpoint,omitempty"`
	IsDefault bool                   `json:"is_default"`
	Params    music.GenerationConfig `json:"parameters"`
}

type registeredModel struct {
	config   ModelConfig
	provider Provider
}

// Observer receives the outcome of each model call for tracing and cost
// reporting. Implementations must be safe for concurrent use.
type Observer interface {
	RecordModelCall(ctx context.Context, part, model, input, output string, usage Usage, err error)
}

// Manager is the AI model registry. It implements music.PartSource by
// routing part generation through the default model. Safe for concurrent
// use.
type Manager struct {
	mu           sync.RWMutex
	models       map[string]*registeredModel
	defaultModel string
	builder      *prompt.Builder
	observer     Observer
}

// SetObserver attaches an observer to all subsequent model calls.
func (m *Manager) SetObserver(obs Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = obs
}

// NewManager creates an empty registry.
func NewManager() *Manager {
	return &Manager{
		models:  make(map[string]*registeredModel),
		builder: prompt.NewPromptBuilder(),
	}
}

// newProvider builds the backend for a model config.
func newProvider(ctx context.Context, config ModelConfig) (Provider, error) {
	switch config.Type {
	case TypeOpenAI:
		if config.APIKey == "" {
			return nil, fmt.Errorf("openai API key not configured")
		}
		return NewOpenAIProvider(config.APIKey), nil
	case TypeGemini:
		if config.APIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		return NewGeminiProvider(ctx, config.APIKey)
	case TypeExternal:
		if config.Endpoint == "" {
			return nil, fmt.Errorf("external model requires an endpoint")
		}
		return NewExternalProvider(config.Endpoint, config.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported model type: %q", config.Type)
	}
}

// Register adds a model to the registry. Duplicate names are rejected.
func (m *Manager) Register(ctx context.Context, config ModelConfig) error {
	if config.Name == "" {
		return fmt.Errorf("model name must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.models[config.Name]; exists {
		return fmt.Errorf("model %q already registered", config.Name)
	}

	provider, err := newProvider(ctx, config)
	if err != nil {
		return fmt.Errorf("register model %q: %w", config.Name, err)
	}

	m.models[config.Name] = &registeredModel{config: config, provider: provider}
	logger.Info("Registered AI model", logger.Fields{
		"model": config.Name,
		"type":  config.Type,
	})
	return nil
}

// Remove deletes a model. Removing the default model clears the default.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.models[name]; !exists {
		return fmt.Errorf("model %q not found", name)
	}
	delete(m.models, name)
	if m.defaultModel == name {
		m.defaultModel = ""
	}
	logger.Info("Removed AI model", logger.Fields{"model": name})
	return nil
}

// SetDefault marks a registered model as the default for generation.
func (m *Manager) SetDefault(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.models[name]; !exists {
		return fmt.Errorf("model %q not found", name)
	}
	m.defaultModel = name
	return nil
}

// Default returns the current default model name, empty when unset.
func (m *Manager) Default() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultModel
}

// List returns all registered models sorted by name.
func (m *Manager) List() []ModelInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ModelInfo, 0, len(m.models))
	for name, reg := range m.models {
		out = append(out, ModelInfo{
			Name:      reg.config.Name,
			Type:      reg.config.Type,
			ModelID:   reg.config.ModelID,
			Endpoint:  reg.config.Endpoint,
			IsDefault: name == m.defaultModel,
			Params:    reg.config.Parameters,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the info for one registered model.
func (m *Manager) Get(name string) (ModelInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reg, ok := m.models[name]
	if !ok {
		return ModelInfo{}, false
	}
	return ModelInfo{
		Name:      reg.config.Name,
		Type:      reg.config.Type,
		ModelID:   reg.config.ModelID,
		Endpoint:  reg.config.Endpoint,
		IsDefault: name == m.defaultModel,
		Params:    reg.config.Parameters,
	}, true
}

// resolveProvider snapshots a model's provider and config. An empty name
// selects the default model.
func (m *Manager) resolveProvider(name string) (*registeredModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "" {
		name = m.defaultModel
	}
	if name == "" {
		return nil, fmt.Errorf("no default model set")
	}
	reg, ok := m.models[name]
	if !ok {
		return nil, fmt.Errorf("model %q not found", name)
	}
	return reg, nil
}

func (m *Manager) generate(ctx context.Context, modelName string, part prompt.Part, userPrompt string, schema map[string]any) (string, error) {
	reg, err := m.resolveProvider(modelName)
	if err != nil {
		return "", err
	}

	systemPrompt, err := m.builder.BuildSystemPrompt(part)
	if err != nil {
		return "", err
	}

	resp, err := reg.provider.Generate(ctx, &GenerationRequest{
		Model:        reg.config.ModelID,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		OutputSchema: &OutputSchema{Name: string(part) + "_output", Schema: schema},
		Temperature:  reg.config.Parameters.Temperature,
		TopP:         reg.config.Parameters.TopP,
		MaxTokens:    reg.config.Parameters.MaxLength,
	})

	m.mu.RLock()
	obs := m.observer
	m.mu.RUnlock()
	if obs != nil {
		output := ""
		var usage Usage
		if resp != nil {
			output = resp.RawOutput
			usage = resp.Usage
		}
		obs.RecordModelCall(ctx, string(part), reg.config.ModelID, userPrompt, output, usage, err)
	}

	if err != nil {
		return "", err
	}
	return resp.RawOutput, nil
}

// Source returns a PartSource bound to a specific registered model. An
// empty name binds to whatever the default model is at call time.
func (m *Manager) Source(name string) music.PartSource {
	return &modelSource{m: m, name: name}
}

type modelSource struct {
	m    *Manager
	name string
}

// GenerateHarmony implements music.PartSource via the default model.
func (m *Manager) GenerateHarmony(ctx context.Context, melody music.Melody, style string) (music.Harmony, error) {
	return m.Source("").GenerateHarmony(ctx, melody, style)
}

// GenerateBass implements music.PartSource via the default model.
func (m *Manager) GenerateBass(ctx context.Context, melody music.Melody, harmony music.Harmony) (music.Bass, error) {
	return m.Source("").GenerateBass(ctx, melody, harmony)
}

// GenerateDrums implements music.PartSource via the default model.
func (m *Manager) GenerateDrums(ctx context.Context, melody music.Melody, style string, tempo int) (music.Drums, error) {
	return m.Source("").GenerateDrums(ctx, melody, style, tempo)
}

func (s *modelSource) GenerateHarmony(ctx context.Context, melody music.Melody, style string) (music.Harmony, error) {
	m := s.m
	userPrompt, err := m.builder.BuildMelodyPrompt(melody, style, melody.Tempo)
	if err != nil {
		return music.Harmony{}, err
	}

	raw, err := m.generate(ctx, s.name, prompt.PartHarmony, userPrompt, GetHarmonyOutputSchema())
	if err != nil {
		return music.Harmony{}, err
	}

	var parsed struct {
		Chords []music.Chord `json:"chords"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return music.Harmony{}, fmt.Errorf("parse harmony output: %w", err)
	}
	if err := validateChords(parsed.Chords); err != nil {
		return music.Harmony{}, err
	}
	return music.Harmony{Chords: parsed.Chords, Style: style, Key: melody.Key}, nil
}

func (s *modelSource) GenerateBass(ctx context.Context, melody music.Melody, harmony music.Harmony) (music.Bass, error) {
	m := s.m
	userPrompt, err := m.builder.BuildBassPrompt(melody, harmony)
	if err != nil {
		return music.Bass{}, err
	}

	raw, err := m.generate(ctx, s.name, prompt.PartBass, userPrompt, GetNotesOutputSchema())
	if err != nil {
		return music.Bass{}, err
	}

	var parsed struct {
		Notes []music.Note `json:"notes"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return music.Bass{}, fmt.Errorf("parse bass output: %w", err)
	}
	if err := validateNotes("bass", parsed.Notes); err != nil {
		return music.Bass{}, err
	}
	return music.Bass{Notes: parsed.Notes, Style: harmony.Style, Key: harmony.Key}, nil
}

func (s *modelSource) GenerateDrums(ctx context.Context, melody music.Melody, style string, tempo int) (music.Drums, error) {
	m := s.m
	userPrompt, err := m.builder.BuildMelodyPrompt(melody, style, tempo)
	if err != nil {
		return music.Drums{}, err
	}

	raw, err := m.generate(ctx, s.name, prompt.PartDrums, userPrompt, GetNotesOutputSchema())
	if err != nil {
		return music.Drums{}, err
	}

	var parsed struct {
		Notes []music.Note `json:"notes"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return music.Drums{}, fmt.Errorf("parse drum output: %w", err)
	}
	// Drum notes always land on the percussion channel regardless of what
	// the model emitted.
	for i := range parsed.Notes {
		parsed.Notes[i].Channel = music.DrumChannel
	}
	if err := validateNotes("drum", parsed.Notes); err != nil {
		return music.Drums{}, err
	}
	return music.Drums{Notes: parsed.Notes, Style: style, Tempo: tempo}, nil
}

// validateNotes rejects model output containing notes outside the MIDI
// ranges. Schema enforcement covers the hosted providers, but an external
// endpoint can return anything the JSON decoder accepts.
func validateNotes(part string, notes []music.Note) error {
	for i, n := range notes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("model returned invalid %s note at index %d: %w", part, i, err)
		}
	}
	return nil
}

func validateChords(chords []music.Chord) error {
	for i, c := range chords {
		if c.Root < 0 || c.Root > music.MaxPitch {
			return fmt.Errorf("model returned invalid chord at index %d: root must be between 0 and 127, got %d", i, c.Root)
		}
		if c.Duration <= 0 {
			return fmt.Errorf("model returned invalid chord at index %d: duration must be positive, got %g", i, c.Duration)
		}
		if c.StartTime < 0 {
			return fmt.Errorf("model returned invalid chord at index %d: start time must be non-negative, got %g", i, c.StartTime)
		}
		for _, p := range c.Voicing {
			if p < 0 || p > music.MaxPitch {
				return fmt.Errorf("model returned invalid chord at index %d: voicing pitch %d out of range", i, p)
			}
		}
	}
	return nil
}
