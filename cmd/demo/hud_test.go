package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-pipeline/scene"
)

func TestHUDRefreshesOncePerSecond(t *testing.T) {
	h := newHUD("Demo")
	start := time.Unix(100, 0)

	_, ok := h.frame(start, scene.UIParams{})
	assert.False(t, ok)
	for i := 1; i < 59; i++ {
		_, ok = h.frame(start.Add(time.Duration(i)*time.Second/60), scene.UIParams{})
		require.False(t, ok)
	}
	title, ok := h.frame(start.Add(time.Second), scene.UIParams{Bloom: true, Paused: true})
	require.True(t, ok)
	assert.Equal(t, "Demo | FPS: 60 | paused, bloom", title)
}

func TestStepLightHeightClamps(t *testing.T) {
	h := stepLightHeight([]float32{8.9, 6}, 0, 0.25)
	assert.Equal(t, []float32{9, 6}, h)

	h = stepLightHeight(h, 1, -0.25)
	assert.Equal(t, []float32{9, 6}, h)

	h = stepLightHeight(nil, 1, 0.25)
	assert.Equal(t, []float32{7, 6.25}, h)

	assert.Equal(t, []float32{7}, stepLightHeight([]float32{7}, 5, 1))
}
