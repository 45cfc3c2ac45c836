// Package config loads and validates engine configuration from YAML with
// environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scripturelens/scripturelens/internal/errors"
)

// DefaultFileName is the per-directory config file looked up when no explicit
// path is given.
const DefaultFileName = "scripturelens.yaml"

// Config is the complete engine configuration.
type Config struct {
	Version   int                        `yaml:"version" json:"version"`
	Data      DataConfig                 `yaml:"data" json:"data"`
	Rebuild   RebuildConfig              `yaml:"rebuild" json:"rebuild"`
	Query     QueryConfig                `yaml:"query" json:"query"`
	Server    ServerConfig               `yaml:"server" json:"server"`
	Export    ExportConfig               `yaml:"export" json:"export"`
	WordStudy WordStudyConfig            `yaml:"word_study" json:"word_study"`
	Projects  map[string]ProjectOverride `yaml:"projects" json:"projects"`
}

// DataConfig locates the Clear Aligner databases.
type DataConfig struct {
	// Dir is scanned for clear-aligner-*.sqlite files.
	Dir string `yaml:"dir" json:"dir"`
	// AutoSync enables the file watcher that triggers rebuilds when a
	// project database changes on disk.
	AutoSync bool `yaml:"auto_sync" json:"auto_sync"`
	// WatchDebounce is how long to wait after the last file event before
	// rebuilding, as a duration string.
	WatchDebounce string `yaml:"watch_debounce" json:"watch_debounce"`
}

// RebuildConfig bounds snapshot rebuilds.
type RebuildConfig struct {
	// Timeout bounds one project rebuild end to end, as a duration string.
	// A rebuild that exceeds it fails and leaves the previous snapshot live.
	Timeout string `yaml:"timeout" json:"timeout"`
	// Parallelism caps concurrent project rebuilds at startup.
	Parallelism int `yaml:"parallelism" json:"parallelism"`
}

// QueryConfig tunes the query-facing defaults.
type QueryConfig struct {
	ContextWidth int `yaml:"context_width" json:"context_width"`
	MaxLemmas    int `yaml:"max_lemmas" json:"max_lemmas"`
	PageSize     int `yaml:"page_size" json:"page_size"`
	// ChapterCacheSize caps the per-project LRU of assembled interlinear
	// chapters.
	ChapterCacheSize int `yaml:"chapter_cache_size" json:"chapter_cache_size"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	Port      int    `yaml:"port" json:"port"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// ExportConfig configures snapshot export.
type ExportConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// WordStudyConfig configures the optional LLM word study feature.
type WordStudyConfig struct {
	// Provider is one of openai, gemini, ollama, custom; empty disables
	// word study.
	Provider string `yaml:"provider" json:"provider"`
	Model    string `yaml:"model" json:"model"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	// APIKeyEnv names the environment variable holding the key. The key
	// itself never lives in the config file.
	APIKeyEnv  string `yaml:"api_key_env" json:"api_key_env"`
	Timeout    string `yaml:"timeout" json:"timeout"`
	MaxRetries int    `yaml:"max_retries" json:"max_retries"`
}

// ProjectOverride adjusts one discovered project, or registers a database
// outside the data directory.
type ProjectOverride struct {
	Name     string `yaml:"name" json:"name"`
	Path     string `yaml:"path" json:"path"`
	Disabled bool   `yaml:"disabled" json:"disabled"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Data: DataConfig{
			Dir:           "data",
			AutoSync:      false,
			WatchDebounce: "2s",
		},
		Rebuild: RebuildConfig{
			Timeout:     "60s",
			Parallelism: 4,
		},
		Query: QueryConfig{
			ContextWidth:     5,
			MaxLemmas:        500,
			PageSize:         50,
			ChapterCacheSize: 64,
		},
		Server: ServerConfig{
			Transport: "stdio",
			Port:      9650,
			LogLevel:  "info",
		},
		Export: ExportConfig{
			Dir: "app_data",
		},
		WordStudy: WordStudyConfig{
			Model:      "gpt-4o-mini",
			APIKeyEnv:  "SCRIPTURELENS_API_KEY",
			Timeout:    "30s",
			MaxRetries: 2,
		},
	}
}

// Load reads configuration from path, or from ./scripturelens.yaml when path
// is empty. A missing file yields the defaults. Environment overrides apply
// after the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.ConfigError("cannot parse "+path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults stand.
	default:
		return nil, errors.ConfigError("cannot read "+path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SCRIPTURELENS_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("SCRIPTURELENS_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("SCRIPTURELENS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("SCRIPTURELENS_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
}

// Validate checks field ranges and duration syntax.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Data.WatchDebounce); err != nil {
		return errors.ConfigError("bad data.watch_debounce: "+c.Data.WatchDebounce, err)
	}
	if _, err := time.ParseDuration(c.Rebuild.Timeout); err != nil {
		return errors.ConfigError("bad rebuild.timeout: "+c.Rebuild.Timeout, err)
	}
	if c.Rebuild.Parallelism < 1 {
		return errors.ConfigError("rebuild.parallelism must be at least 1", nil)
	}
	if c.Query.ContextWidth < 1 || c.Query.PageSize < 1 || c.Query.ChapterCacheSize < 1 {
		return errors.ConfigError("query sizes must be positive", nil)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.ConfigError("server.port out of range", nil)
	}
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return errors.ConfigError("unknown server.transport: "+c.Server.Transport, nil)
	}
	switch c.WordStudy.Provider {
	case "", "openai", "gemini", "ollama", "custom":
	default:
		return errors.ConfigError("unknown word_study.provider: "+c.WordStudy.Provider, nil)
	}
	if c.WordStudy.Provider != "" {
		if _, err := time.ParseDuration(c.WordStudy.Timeout); err != nil {
			return errors.ConfigError("bad word_study.timeout: "+c.WordStudy.Timeout, err)
		}
	}
	return nil
}

// WatchDebounce returns the parsed debounce interval.
func (c *Config) WatchDebounce() time.Duration {
	d, _ := time.ParseDuration(c.Data.WatchDebounce)
	return d
}

// RebuildTimeout returns the parsed rebuild deadline.
func (c *Config) RebuildTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Rebuild.Timeout)
	return d
}

// WordStudyTimeout returns the parsed word study request deadline.
func (c *Config) WordStudyTimeout() time.Duration {
	d, err := time.ParseDuration(c.WordStudy.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// APIKey resolves the word study API key from the configured environment
// variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.WordStudy.APIKeyEnv)
}

// WriteYAML writes the configuration to path, creating parent directories.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.ConfigError("cannot encode config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.ConfigError("cannot create config directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.ConfigError("cannot write "+path, err)
	}
	return nil
}
