package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scripturelens/scripturelens/internal/config"
)

func TestInitCmd_WritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripturelens.yaml")

	out, err := runCommand(t, "init", "--config", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")
	require.FileExists(t, path)

	// The generated file must load cleanly and reproduce the defaults.
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Query, cfg.Query)
	assert.Equal(t, config.Default().Rebuild, cfg.Rebuild)
}

func TestInitCmd_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripturelens.yaml")

	_, err := runCommand(t, "init", "--config", path)
	require.NoError(t, err)

	_, err = runCommand(t, "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCommand(t, "init", "--config", path, "--force")
	require.NoError(t, err)
}
