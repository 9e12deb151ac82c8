package main

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/internal/demoscene"
	"render-pipeline/internal/logger"
	"render-pipeline/scene"
)

// Height ranges of the two light sliders.
var lightRanges = [][2]float32{{7, 9}, {6, 8}}

const (
	lightStep          = 0.25
	randomTerrainRange = 1000
)

// input turns mouse drags, the wheel and key presses into camera moves and
// UI changes on the demo.
type input struct {
	window   *core.Window
	demo     *demoscene.Demo
	viewPath string

	lastX, lastY float64
	dragging     bool
}

func newInput(w *core.Window, d *demoscene.Demo, viewPath string) *input {
	in := &input{window: w, demo: d, viewPath: viewPath}
	w.SetKeyCallback(in.key)
	w.SetScrollCallback(func(_, yoff float64) {
		if yoff != 0 {
			// Wheel up zooms in.
			d.Scene.Camera.ZoomAction(float32(-yoff))
		}
	})
	return in
}

// update applies the mouse drag since the previous frame.
func (in *input) update() {
	rotate := in.window.IsMouseButtonPressed(core.MouseButtonLeft)
	pan := in.window.IsMouseButtonPressed(core.MouseButtonRight) ||
		in.window.IsMouseButtonPressed(core.MouseButtonMiddle)
	if !rotate && !pan {
		in.dragging = false
		return
	}
	x, y := in.window.GetCursorPos()
	if !in.dragging {
		in.lastX, in.lastY = x, y
		in.dragging = true
		return
	}
	dx, dy := float32(x-in.lastX), float32(y-in.lastY)
	in.lastX, in.lastY = x, y
	if dx == 0 && dy == 0 {
		return
	}
	cam := in.demo.Scene.Camera
	if rotate {
		cam.RotateAction(dx, dy)
	} else {
		cam.MoveAction(dx, dy)
	}
}

func (in *input) key(key, mods int) {
	ui := &in.demo.UI
	switch key {
	case core.KeyEscape:
		in.window.Close()
	case core.KeyP:
		ui.Paused = !ui.Paused
	case core.KeyS:
		ui.SoftShadows = !ui.SoftShadows
	case core.KeyO:
		ui.SSAO = !ui.SSAO
	case core.KeyB:
		ui.Bloom = !ui.Bloom
	case core.KeyC:
		ui.ShowCapture = !ui.ShowCapture
	case core.Key1, core.Key2, core.Key3:
		if i := key - core.Key1; i < len(demoscene.Presets) {
			in.demo.Scene.Camera.SetPresetView(demoscene.Presets[i])
		}
	case core.KeyR:
		offset := mgl32.Vec2{randomOffset(), randomOffset()}
		if err := in.demo.RecomputeTerrain(offset); err != nil {
			logger.Log.Error("terrain generation failed", zap.Error(err))
		}
	case core.KeyV:
		if err := scene.SaveView(in.viewPath, in.demo.Scene.Camera, *ui); err != nil {
			logger.Log.Error("saving view failed", zap.Error(err))
			return
		}
		logger.Log.Info("view saved", zap.String("path", in.viewPath))
		return
	case core.KeyUp, core.KeyDown:
		light := 0
		if mods&core.ModShift != 0 {
			light = 1
		}
		step := float32(lightStep)
		if key == core.KeyDown {
			step = -step
		}
		ui.LightHeights = stepLightHeight(ui.LightHeights, light, step)
	default:
		return
	}
	logger.Log.Debug("ui changed",
		zap.Bool("paused", ui.Paused),
		zap.Bool("soft_shadows", ui.SoftShadows),
		zap.Bool("ssao", ui.SSAO),
		zap.Bool("bloom", ui.Bloom),
		zap.Bool("show_capture", ui.ShowCapture),
		zap.Float32s("light_heights", ui.LightHeights))
}

func randomOffset() float32 {
	return float32(math.Round((rand.Float64() - 0.5) * randomTerrainRange))
}

// stepLightHeight moves light i by step, clamped to its slider range.
// Missing entries start at the bottom of their range.
func stepLightHeight(heights []float32, i int, step float32) []float32 {
	if i < 0 || i >= len(lightRanges) {
		return heights
	}
	for len(heights) <= i {
		heights = append(heights, lightRanges[len(heights)][0])
	}
	r := lightRanges[i]
	heights[i] = min(max(heights[i]+step, r[0]), r[1])
	return heights
}
