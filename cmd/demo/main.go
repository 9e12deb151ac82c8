// Command demo opens a window and renders the demo scene with OpenGL.
//
// Controls: left drag orbits, right or middle drag pans, the wheel zooms.
// P pauses, S/O/B toggle soft shadows, SSAO and bloom, C shows the mirror's
// cube faces, 1-3 recall camera presets, R generates a new terrain, Up/Down (Shift for the second light)
// move the lights, V saves the view for the snapshot tool and Esc quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"render-pipeline/config"
	"render-pipeline/core"
	"render-pipeline/internal/demoscene"
	"render-pipeline/internal/logger"
	"render-pipeline/internal/opengl"
	"render-pipeline/renderer"
	"render-pipeline/resources"
	"render-pipeline/scene"
)

const assetLoadTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "YAML settings file")
	viewPath := flag.String("view", "view.json", "camera view file, loaded at start when present and written with V")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if err := logger.Init(cfg.Debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err := run(cfg, *viewPath)
	if err != nil {
		logger.Log.Error("demo failed", zap.Error(err))
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config, viewPath string) error {
	window, err := core.NewWindow(core.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: cfg.Window.Resizable,
		VSync:     cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	width, height := window.GetFramebufferSize()
	backend, err := opengl.NewBackend(width, height)
	if err != nil {
		return err
	}
	defer backend.Destroy()

	res, err := resources.NewManager(backend, nil)
	if err != nil {
		return err
	}
	defer res.Destroy()
	loadAssets(res, cfg.Assets)

	gen, err := renderer.NewProceduralTextureGenerator(res)
	if err != nil {
		return err
	}
	defer gen.Destroy()

	demo, err := demoscene.New(res, gen, cfg)
	if err != nil {
		return err
	}
	demo.Scene.Camera.UpdateFormatRatio(width, height)
	if vd, err := scene.LoadView(viewPath); err == nil {
		vd.Apply(demo.Scene.Camera, &demo.UI)
		logger.Log.Info("view restored", zap.String("path", viewPath))
	} else if !errors.Is(err, fs.ErrNotExist) {
		logger.Log.Warn("ignoring view file", zap.Error(err))
	}

	sr, err := renderer.NewSceneRenderer(res, demoscene.RendererOptions(cfg, width, height))
	if err != nil {
		return err
	}
	defer sr.Destroy()

	in := newInput(window, demo, viewPath)
	window.SetFramebufferSizeCallback(func(w, h int) {
		if w == 0 || h == 0 {
			return // minimized
		}
		backend.ResizeScreen(w, h)
		if err := sr.Resize(w, h); err != nil {
			logger.Log.Error("resize failed", zap.Error(err))
			return
		}
		demo.Scene.Camera.UpdateFormatRatio(w, h)
		width, height = w, h
		logger.Log.Debug("framebuffer resized", zap.Int("width", w), zap.Int("height", h))
	})

	bg := cfg.Render.BackgroundColor
	background := mgl32.Vec4{bg[0], bg[1], bg[2], bg[3]}
	hud := newHUD(cfg.Window.Title)
	clock := core.NewClock()
	var lastErr error

	logger.Log.Info("demo started",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("objects", len(demo.Scene.Objects)))

	for !window.ShouldClose() {
		window.PollEvents()
		in.update()

		elapsed, dt := clock.Tick()
		state := demo.Frame(scene.Frame{Time: elapsed, Dt: dt, Width: width, Height: height}, background)
		err := sr.Render(state)
		if err != nil && (lastErr == nil || err.Error() != lastErr.Error()) {
			logger.Log.Error("render failed", zap.Error(err))
		}
		lastErr = err
		window.SwapBuffers()

		if title, ok := hud.frame(time.Now(), demo.UI); ok {
			window.SetTitle(title)
		}
	}
	return nil
}

// loadAssets uploads the configured files. Missing assets are logged and
// the scene falls back to its built-in proxies.
func loadAssets(res *resources.Manager, assets config.AssetsConfig) {
	if len(assets.Meshes) == 0 && len(assets.Textures) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), assetLoadTimeout)
	defer cancel()
	if err := res.Load(ctx, demoscene.Manifest(assets)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Log.Warn("asset loading timed out", zap.Duration("timeout", assetLoadTimeout))
			return
		}
		logger.Log.Warn("some assets failed to load", zap.Error(err))
	}
}
