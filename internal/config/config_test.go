package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smART/internal/state"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, state.DefaultColor, cfg.BrushColor())
	assert.Equal(t, state.DefaultPalette, cfg.Palette())
	assert.Equal(t, state.DefaultFlashPalette, cfg.FlashPalette())
	assert.Equal(t, 150*time.Millisecond, cfg.FlashInterval())
	assert.Equal(t, "smART", cfg.Library.Album)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Brush.Color = "#FF0000"
	cfg.Brush.Width = 10
	cfg.Share.Enabled = true
	cfg.Library.Dir = "/tmp/pictures"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[brush]\nwidth = 15.0\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.Brush.Width)
	assert.Equal(t, Default().Brush.Palette, got.Brush.Palette)
	assert.Equal(t, Default().Share.Port, got.Share.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[brush]\ncolor = \"pink\"\nwidth = -1.0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brush.color")
	assert.Contains(t, err.Error(), "brush.width")
}

func TestLoadRejectsBrokenTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[brush\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smart", "config.toml")
	require.NoError(t, EnsureFile(path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)

	// an existing file is left alone
	require.NoError(t, os.WriteFile(path, []byte("[share]\nport = 9000\n"), 0o644))
	require.NoError(t, EnsureFile(path))
	got, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, got.Share.Port)
}

func TestDirHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "smart"), Dir())
	assert.Equal(t, filepath.Join(dir, "smart", "config.toml"), DefaultPath())
}

func TestLibraryDirDefault(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/Pictures", Default().LibraryDir())
}
