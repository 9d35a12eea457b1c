package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Index.MaxFileSize != 10*1024*1024 {
		t.Errorf("Index.MaxFileSize = %d, want 10MB", cfg.Index.MaxFileSize)
	}
	if cfg.Index.PerFileSymbolID != 100_000 {
		t.Errorf("Index.PerFileSymbolID = %d, want 100000", cfg.Index.PerFileSymbolID)
	}
	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	if len(cfg.Exclude.Patterns) == 0 {
		t.Error("Exclude.Patterns should have default values")
	}
	if cfg.Cache.Dir != ".codeintel" {
		t.Errorf("Cache.Dir = %s, want .codeintel", cfg.Cache.Dir)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "codeintel.toml")

	content := `
[index]
max_workers = 4
max_file_size = 1048576

[languages]
enabled = ["go", "rust"]

[cache]
dir = ".cache"

[output]
format = "json"
color = false
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Index.MaxWorkers != 4 {
		t.Errorf("Index.MaxWorkers = %d, want 4", cfg.Index.MaxWorkers)
	}
	if cfg.Index.MaxFileSize != 1048576 {
		t.Errorf("Index.MaxFileSize = %d, want 1048576", cfg.Index.MaxFileSize)
	}
	if !cfg.Languages.Enables("go") {
		t.Error("Languages.Enables(go) should be true")
	}
	if cfg.Languages.Enables("php") {
		t.Error("Languages.Enables(php) should be false")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
	if cfg.Output.Color {
		t.Error("Output.Color should be false")
	}
}

func TestLanguageConfigEnablesAllWhenEmpty(t *testing.T) {
	l := LanguageConfig{}
	if !l.Enables("rust") {
		t.Error("empty Enabled list should enable every language")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	cfg.Output.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("invalid output format should fail validation")
	}
}

func TestCachePaths(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.CachePath(); got != filepath.Join(".codeintel", "symbols.cache") {
		t.Errorf("CachePath() = %s", got)
	}
	if got := cfg.ResolutionPath(); got != filepath.Join(".codeintel", "resolution.json") {
		t.Errorf("ResolutionPath() = %s", got)
	}
}

func TestFindConfigFileMissing(t *testing.T) {
	tmpDir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	defer os.Chdir(cwd)

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	if got := FindConfigFile(); got != "" {
		t.Errorf("FindConfigFile() = %q, want empty", got)
	}
}
