package plugins

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{
		"SynthBass.vst3",
		"RockGuitar.vst",
		"JazzPiano.component",
		"readme.txt",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("plugin"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return NewManager(dir), dir
}

func TestScan(t *testing.T) {
	m, _ := newTestManager(t)
	found := m.Scan()

	if len(found) != 3 {
		t.Fatalf("found %d plugins, want 3", len(found))
	}
	names := make(map[string]string)
	for _, p := range found {
		names[p.Name] = p.PluginType
	}
	if names["SynthBass"] != "VST3" {
		t.Errorf("SynthBass type = %q, want VST3", names["SynthBass"])
	}
	if names["JazzPiano"] != "COMPONENT" {
		t.Errorf("JazzPiano type = %q, want COMPONENT", names["JazzPiano"])
	}
	if _, ok := names["readme"]; ok {
		t.Error("non-plugin file was registered")
	}
}

func TestScanMissingDirectory(t *testing.T) {
	m := NewManager("/nonexistent/plugin/dir")
	if found := m.Scan(); len(found) != 0 {
		t.Errorf("found %d plugins in missing directory, want 0", len(found))
	}
}

func TestRecommend(t *testing.T) {
	m, _ := newTestManager(t)
	m.Scan()

	recs := m.Recommend("electronic", "bass")
	if len(recs) == 0 {
		t.Fatal("expected at least one recommendation")
	}
	// SynthBass matches both "synth" and "bass" and must rank first.
	if recs[0].Name != "SynthBass" {
		t.Errorf("top recommendation = %q, want SynthBass", recs[0].Name)
	}

	if recs := m.Recommend("polka", "kazoo"); len(recs) != 0 {
		t.Errorf("unknown style/instrument returned %d recommendations, want 0", len(recs))
	}
}

func TestRecommendCapsAtFive(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"SynthA", "SynthB", "SynthC", "SynthD", "SynthE", "SynthF"} {
		if err := os.WriteFile(filepath.Join(dir, name+".vst3"), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	m := NewManager(dir)
	m.Scan()

	if recs := m.Recommend("electronic", ""); len(recs) != 5 {
		t.Errorf("recommendation count = %d, want 5", len(recs))
	}
}

func TestLoadAndParameters(t *testing.T) {
	m, _ := newTestManager(t)
	m.Scan()

	if err := m.Load("missing"); err == nil {
		t.Error("expected error loading unknown plugin")
	}
	if params := m.Parameters("SynthBass"); params != nil {
		t.Error("unloaded plugin should have no parameters")
	}

	if err := m.Load("SynthBass"); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !m.IsLoaded("SynthBass") {
		t.Error("IsLoaded = false after Load")
	}

	params := m.Parameters("SynthBass")
	if len(params) != 2 {
		t.Fatalf("parameter count = %d, want 2", len(params))
	}
	if params[0].Name != "Volume" || params[0].Unit != "dB" {
		t.Errorf("first parameter = %+v, want Volume/dB", params[0])
	}

	if err := m.SetParameter("SynthBass", "Volume", 0.8); err != nil {
		t.Errorf("SetParameter returned error: %v", err)
	}
	if err := m.SetParameter("RockGuitar", "Volume", 0.8); err == nil {
		t.Error("expected error setting parameter on unloaded plugin")
	}
}

func TestPresets(t *testing.T) {
	m, _ := newTestManager(t)
	m.Scan()

	presets := m.Presets("JazzPiano")
	if len(presets) != 2 {
		t.Fatalf("preset count = %d, want 2", len(presets))
	}
	if presets[0].Name != "Default" {
		t.Errorf("first preset = %q, want Default", presets[0].Name)
	}

	if presets := m.Presets("missing"); presets != nil {
		t.Error("unknown plugin should have no presets")
	}
}

func TestExportImportConfig(t *testing.T) {
	m, _ := newTestManager(t)
	m.Scan()
	if err := m.Load("SynthBass"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "plugins.json")
	if err := m.ExportConfig(path); err != nil {
		t.Fatalf("ExportConfig returned error: %v", err)
	}

	fresh := NewManager(t.TempDir())
	if err := fresh.ImportConfig(path); err != nil {
		t.Fatalf("ImportConfig returned error: %v", err)
	}

	if len(fresh.List()) != 3 {
		t.Errorf("imported %d plugins, want 3", len(fresh.List()))
	}
	info, ok := fresh.Info("SynthBass")
	if !ok {
		t.Fatal("SynthBass missing after import")
	}
	if !info.IsLoaded || !fresh.IsLoaded("SynthBass") {
		t.Error("loaded state lost across export/import")
	}
}

func TestImportConfigErrors(t *testing.T) {
	m := NewManager(t.TempDir())
	if err := m.ImportConfig("/nonexistent/plugins.json"); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.ImportConfig(bad); err == nil {
		t.Error("expected error for malformed file")
	}
}
