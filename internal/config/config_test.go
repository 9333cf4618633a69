package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todocrm/internal/config"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, filepath.Join(dir, "todo.db"), cfg.Database.Path)
	assert.Equal(t, "http://10.0.2.2:8080", cfg.Customer.BaseURL)
	assert.Equal(t, 500, cfg.UI.StartupDelayMs)
	assert.Equal(t, 3000, cfg.UI.SplashDelayMs)
	assert.Equal(t, filepath.Join(dir, "session.json"), cfg.SessionPath())
}

func TestLoadOverlaysLocalFile(t *testing.T) {
	dir := t.TempDir()
	main := "customer:\n  base_url: http://localhost:9000\nui:\n  theme: neon\n"
	local := "customer:\n  base_url: http://localhost:9001\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(main), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.LocalFileName), []byte(local), 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9001", cfg.Customer.BaseURL)
	assert.Equal(t, "neon", cfg.UI.Theme)
	// untouched keys keep their defaults
	assert.Equal(t, 500, cfg.UI.StartupDelayMs)
	assert.Equal(t, dir, cfg.Dir)
}

func TestDefaultDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", config.AppName), config.DefaultDir())
}
