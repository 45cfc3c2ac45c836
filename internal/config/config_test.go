package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce())
	assert.Equal(t, 60*time.Second, cfg.RebuildTimeout())
	assert.Equal(t, "stdio", cfg.Server.Transport)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err) // explicit path must exist

	t.Chdir(t.TempDir())
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Query.PageSize, cfg.Query.PageSize)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripturelens.yaml")
	content := `
version: 1
data:
  dir: /srv/aligner
  auto_sync: true
  watch_debounce: 500ms
query:
  page_size: 25
word_study:
  provider: ollama
  model: llama3.1
  endpoint: http://localhost:11434
projects:
  ylt:
    name: Young's Literal Translation
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/aligner", cfg.Data.Dir)
	assert.True(t, cfg.Data.AutoSync)
	assert.Equal(t, 500*time.Millisecond, cfg.WatchDebounce())
	assert.Equal(t, 25, cfg.Query.PageSize)
	// Untouched sections keep their defaults.
	assert.Equal(t, 5, cfg.Query.ContextWidth)
	assert.Equal(t, "ollama", cfg.WordStudy.Provider)
	assert.Equal(t, "Young's Literal Translation", cfg.Projects["ylt"].Name)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripturelens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  dir: from-file\n"), 0o644))
	t.Setenv("SCRIPTURELENS_DATA_DIR", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Data.Dir)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad debounce", func(c *Config) { c.Data.WatchDebounce = "soon" }},
		{"bad timeout", func(c *Config) { c.Rebuild.Timeout = "" }},
		{"zero parallelism", func(c *Config) { c.Rebuild.Parallelism = 0 }},
		{"zero page size", func(c *Config) { c.Query.PageSize = 0 }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad transport", func(c *Config) { c.Server.Transport = "pigeon" }},
		{"bad provider", func(c *Config) { c.WordStudy.Provider = "skynet" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAPIKey_FromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv(cfg.WordStudy.APIKeyEnv, "sk-test")
	assert.Equal(t, "sk-test", cfg.APIKey())
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scripturelens.yaml")
	cfg := Default()
	cfg.Data.Dir = "/elsewhere"
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", loaded.Data.Dir)
}
