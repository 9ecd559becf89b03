package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Tokenizer.Name != "basic_english" {
		t.Errorf("expected basic_english, got %s", cfg.Tokenizer.Name)
	}
	if len(cfg.Tokenizer.Rules) != 0 {
		t.Errorf("expected no inline rules, got %d", len(cfg.Tokenizer.Rules))
	}
	if !cfg.Cache.Enabled || cfg.Cache.Size != 4096 {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level, got %s", cfg.Logging.Level)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "textok.yaml")

	content := `
tokenizer:
  lowercase: true
  rules:
    - pattern: '\.'
      replacement: ' . '
cache:
  ttl: 30s
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Tokenizer.Lowercase {
		t.Error("expected lowercase=true")
	}
	if len(cfg.Tokenizer.Rules) != 1 || cfg.Tokenizer.Rules[0].Replacement != " . " {
		t.Errorf("unexpected rules: %+v", cfg.Tokenizer.Rules)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("expected ttl 30s, got %s", cfg.Cache.TTL)
	}
	if cfg.Cache.Size != 4096 {
		t.Errorf("unset fields should keep defaults, got size %d", cfg.Cache.Size)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug, got %s", cfg.Logging.Level)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "textok.yaml")
	if err := os.WriteFile(configPath, []byte("tokenizer: [\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".textok", "config.yaml")

	content := `
tokenizer:
  name: whitespace
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Tokenizer.Name != "whitespace" {
		t.Errorf("expected whitespace, got %s", cfg.Tokenizer.Name)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textok.yaml")

	cfg := DefaultConfig()
	cfg.Tokenizer.Rules = []RuleConfig{{Pattern: `'`, Replacement: " '  "}}
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Tokenizer.Rules) != 1 || loaded.Tokenizer.Rules[0].Replacement != " '  " {
		t.Errorf("rules not preserved: %+v", loaded.Tokenizer.Rules)
	}
}

func TestStoreDBPath(t *testing.T) {
	path := StoreDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".textok", "rules.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
