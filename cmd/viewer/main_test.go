package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags(args))
	opts := &options{}
	f := cmd.Flags()
	opts.configPath, _ = f.GetString("config")
	opts.assets, _ = f.GetString("assets")
	opts.model, _ = f.GetString("model")
	opts.width, _ = f.GetInt("width")
	opts.height, _ = f.GetInt("height")
	opts.vsync, _ = f.GetBool("vsync")
	opts.logLevel, _ = f.GetString("log-level")
	return resolveConfig(cmd, opts)
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = parse(t, "--assets", "https://example.com/static", "--width", "640", "--vsync=false", "--log-level", "debug")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/static", cfg.Assets.Root)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.Default().Assets.Model, cfg.Assets.Model)
}

func TestFlagsLayerOverConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidth = 1920\nheight = 1080\n"), 0o644))

	cfg, err := parse(t, "--config", path, "--height", "900")
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 900, cfg.Window.Height)
}

func TestInvalidFlagValuesAreRejected(t *testing.T) {
	_, err := parse(t, "--width", "-1")
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = parse(t, "--log-level", "loud")
	assert.ErrorIs(t, err, config.ErrInvalid)
}
