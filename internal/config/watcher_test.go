package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Save(path, Default()))

	reloaded := make(chan Config, 1)
	w, err := Watch(path, 20*time.Millisecond, func(c Config) {
		select {
		case reloaded <- c:
		default:
		}
	}, func(error) {})
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	cfg := Default()
	cfg.Brush.Width = 20
	require.NoError(t, Save(path, cfg))

	select {
	case got := <-reloaded:
		assert.Equal(t, 20.0, got.Brush.Width)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestWatcherReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Save(path, Default()))

	errs := make(chan error, 1)
	w, err := Watch(path, 20*time.Millisecond, func(Config) {}, func(err error) {
		select {
		case errs <- err:
		default:
		}
	})
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("[brush]\nwidth = 0.0\n"), 0o644))

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "brush.width")
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(path, Default()))

	reloaded := make(chan Config, 1)
	w, err := Watch(path, 10*time.Millisecond, func(c Config) {
		select {
		case reloaded <- c:
		default:
		}
	}, nil)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	select {
	case <-reloaded:
		t.Fatal("reload triggered by unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStopTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Save(path, Default()))

	w, err := Watch(path, 20*time.Millisecond, func(Config) {}, func(error) {})
	require.NoError(t, err)
	w.Start()
	w.Stop()
	assert.NotPanics(t, w.Stop)
}

func TestWatcherStopWithoutStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	w, err := Watch(path, 0, nil, nil)
	require.NoError(t, err)
	w.Stop()
	assert.NotPanics(t, w.Stop)
	w.Start()
	assert.NotPanics(t, w.Stop)
}
