package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for textok.
type Config struct {
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Files     FilesConfig     `yaml:"files"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TokenizerConfig selects the tokenizer. Inline rules take precedence over
// Name; Name may be a built-in ("basic_english", "whitespace") or a rule set
// saved in the store.
type TokenizerConfig struct {
	Name      string       `yaml:"name"`
	Lowercase bool         `yaml:"lowercase"`
	Rules     []RuleConfig `yaml:"rules,omitempty"`
}

// RuleConfig is one inline (pattern, replacement) rule.
type RuleConfig struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// FilesConfig holds file selection for the files command.
type FilesConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	MaxBytes int64    `yaml:"max_bytes"`
}

// CacheConfig holds token cache configuration.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Tokenizer: TokenizerConfig{
			Name: "basic_english",
		},
		Files: FilesConfig{
			Includes: []string{"**/*.txt", "**/*.md", "**/*.html", "**/*.csv"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/.textok/**"},
			MaxBytes: 10 << 20,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    4096,
			TTL:     10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for textok.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "textok.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".textok", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StoreDBPath returns the path to the rule set database.
func StoreDBPath(dir string) string {
	return filepath.Join(dir, ".textok", "rules.db")
}

// EnsureDataDir ensures the .textok directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".textok"), 0755)
}
