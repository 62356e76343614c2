package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fcoreutils/fcp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Defaults.Workers)
	assert.Nil(t, cfg.Defaults.Reflink)
	assert.Nil(t, cfg.Defaults.Suffix)
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "fcp")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `
[defaults]
workers = 16
reflink = "never"
suffix = ".bak"
preserve = true
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.Workers)
	assert.Equal(t, 16, *cfg.Defaults.Workers)

	require.NotNil(t, cfg.Defaults.Reflink)
	assert.Equal(t, "never", *cfg.Defaults.Reflink)

	require.NotNil(t, cfg.Defaults.Suffix)
	assert.Equal(t, ".bak", *cfg.Defaults.Suffix)

	require.NotNil(t, cfg.Defaults.Preserve)
	assert.True(t, *cfg.Defaults.Preserve)
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "fcp")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `
[defaults]
workers = 4
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.Workers)
	assert.Equal(t, 4, *cfg.Defaults.Workers)

	// Unset fields should remain nil.
	assert.Nil(t, cfg.Defaults.Reflink)
	assert.Nil(t, cfg.Defaults.Suffix)
	assert.Nil(t, cfg.Defaults.Preserve)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "fcp")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("invalid [[["), 0o644))

	_, err := config.Load()
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/fcp/config.toml", config.Path())
}

func TestVersionControl(t *testing.T) {
	t.Setenv("VERSION_CONTROL", "numbered")
	assert.Equal(t, "numbered", config.VersionControl())

	t.Setenv("VERSION_CONTROL", "")
	assert.Empty(t, config.VersionControl())
}

func TestSimpleBackupSuffix(t *testing.T) {
	t.Setenv("SIMPLE_BACKUP_SUFFIX", ".orig")
	assert.Equal(t, ".orig", config.SimpleBackupSuffix())

	t.Setenv("SIMPLE_BACKUP_SUFFIX", "")
	assert.Empty(t, config.SimpleBackupSuffix())
}
