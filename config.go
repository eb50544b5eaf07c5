package trellis

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds tool-level settings. Consumers either construct a Config in
// Go code or place a .trellis.yml at the workspace root and call
// LoadConfig.
type Config struct {
	// Exclude lists extra directory names skipped during discovery, in
	// addition to the built-in vendor/build exclusions.
	Exclude []string `yaml:"exclude"`

	// CacheTTL is the analysis snapshot lifetime (default 30s).
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Database is the phase-record store path (default ".trellis/trellis.db").
	Database string `yaml:"database"`

	// Ollama configures the optional local completion service used for
	// best-effort phase re-scoring.
	Ollama OllamaConfig `yaml:"ollama"`
}

// OllamaConfig locates the local text-generation service.
type OllamaConfig struct {
	Host    string        `yaml:"host"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		CacheTTL: DefaultCacheTTL,
		Database: ".trellis/trellis.db",
		Ollama: OllamaConfig{
			Host:    "http://127.0.0.1:11434",
			Model:   "llama3.2",
			Timeout: 30 * time.Second,
		},
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
// A missing file yields the defaults; a malformed file is an error since
// the user explicitly wrote it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Database == "" {
		cfg.Database = ".trellis/trellis.db"
	}
	def := DefaultConfig()
	if cfg.Ollama.Host == "" {
		cfg.Ollama.Host = def.Ollama.Host
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = def.Ollama.Model
	}
	if cfg.Ollama.Timeout <= 0 {
		cfg.Ollama.Timeout = def.Ollama.Timeout
	}
	return cfg, nil
}
