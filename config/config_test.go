package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  width: 640
render:
  ssao: true
  shadow_softness: 0.1
scene:
  light_heights: [3, 4, 5]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep defaults")
	assert.True(t, cfg.Render.SSAO)
	assert.InDelta(t, 0.1, cfg.Render.ShadowSoftness, 1e-6)
	assert.Equal(t, []float32{3, 4, 5}, cfg.Scene.LightHeights)
	assert.InDelta(t, 0.33, cfg.Render.BloomThreshold, 1e-6)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  near: 10\n  far: 1\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "clip range")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
