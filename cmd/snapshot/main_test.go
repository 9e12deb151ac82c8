package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-pipeline/config"
)

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Scene.TerrainSize = 12
	cfg.Scene.MaxTrees = 4
	return cfg
}

func TestRunWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	err := run(smallConfig(), options{
		out:         out,
		width:       24,
		height:      16,
		supersample: 2,
		cubeSize:    8,
		seconds:     0.25,
		preset:      1,
	})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 24, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestRunRejectsBadSize(t *testing.T) {
	err := run(smallConfig(), options{out: filepath.Join(t.TempDir(), "x.png"), width: 0, height: 10, supersample: 1, cubeSize: 8})
	assert.Error(t, err)
}
