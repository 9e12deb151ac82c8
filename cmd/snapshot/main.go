// Command snapshot renders the demo scene without a window, on the software
// backend, and writes the frame to a PNG file.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"render-pipeline/config"
	"render-pipeline/gpu/soft"
	"render-pipeline/internal/demoscene"
	"render-pipeline/internal/logger"
	"render-pipeline/renderer"
	"render-pipeline/resources"
	"render-pipeline/scene"
)

// simStep matches the longest frame the interactive viewer lets through.
const simStep = 0.1

type options struct {
	config      string
	view        string
	out         string
	width       int
	height      int
	supersample int
	cubeSize    int
	seconds     float64
	preset      int
	ssao        bool
	bloom       bool
}

func main() {
	var o options
	flag.StringVar(&o.config, "config", "", "YAML settings file")
	flag.StringVar(&o.view, "view", "", "camera view file saved by the demo; overrides -preset")
	flag.StringVar(&o.out, "out", "snapshot.png", "output PNG path")
	flag.IntVar(&o.width, "width", 320, "image width")
	flag.IntVar(&o.height, "height", 180, "image height")
	flag.IntVar(&o.supersample, "supersample", 1, "render at this multiple of the image size and downscale")
	flag.IntVar(&o.cubeSize, "cube", 128, "mirror and shadow cube map size")
	flag.Float64Var(&o.seconds, "time", 2, "seconds of animation to simulate before the frame")
	flag.IntVar(&o.preset, "preset", 1, "camera preset, 1 to 3")
	flag.BoolVar(&o.ssao, "ssao", false, "enable ambient occlusion")
	flag.BoolVar(&o.bloom, "bloom", false, "enable bloom")
	flag.Parse()

	cfg := config.Default()
	if o.config != "" {
		var err error
		if cfg, err = config.Load(o.config); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if err := logger.Init(cfg.Debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err := run(cfg, o)
	if err != nil {
		logger.Log.Error("snapshot failed", zap.Error(err))
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config, o options) error {
	if o.width <= 0 || o.height <= 0 || o.supersample <= 0 {
		return fmt.Errorf("invalid size %dx%d (supersample %d)", o.width, o.height, o.supersample)
	}
	w, h := o.width*o.supersample, o.height*o.supersample
	cfg.Window.Width, cfg.Window.Height = w, h
	cfg.Render.MirrorCubeSize = o.cubeSize
	cfg.Render.ShadowCubeSize = o.cubeSize
	cfg.Render.SSAO = o.ssao
	cfg.Render.Bloom = o.bloom
	if err := cfg.Validate(); err != nil {
		return err
	}

	backend, err := soft.NewBackend(w, h)
	if err != nil {
		return err
	}
	res, err := resources.NewManager(backend, nil)
	if err != nil {
		return err
	}
	defer res.Destroy()

	gen, err := renderer.NewProceduralTextureGenerator(res)
	if err != nil {
		return err
	}
	defer gen.Destroy()

	demo, err := demoscene.New(res, gen, cfg)
	if err != nil {
		return err
	}
	switch {
	case o.view != "":
		vd, err := scene.LoadView(o.view)
		if err != nil {
			return err
		}
		vd.Apply(demo.Scene.Camera, &demo.UI)
		// The flags decide the post passes and the clock keeps running.
		demo.UI.SSAO, demo.UI.Bloom, demo.UI.Paused = o.ssao, o.bloom, false
	case o.preset >= 1 && o.preset <= len(demoscene.Presets):
		demo.Scene.Camera.SetPresetView(demoscene.Presets[o.preset-1])
	}

	sr, err := renderer.NewSceneRenderer(res, demoscene.RendererOptions(cfg, w, h))
	if err != nil {
		return err
	}
	defer sr.Destroy()

	bg := cfg.Render.BackgroundColor
	state := simulate(demo, float32(o.seconds), w, h, mgl32.Vec4{bg[0], bg[1], bg[2], bg[3]})
	if err := sr.Render(state); err != nil {
		return err
	}

	px, err := backend.ReadPixels(backend.Screen())
	if err != nil {
		return err
	}
	img := image.Image(px.Image())
	if o.supersample > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}
	if err := writePNG(o.out, img); err != nil {
		return err
	}
	logger.Log.Info("snapshot written",
		zap.String("path", o.out),
		zap.Int("width", o.width),
		zap.Int("height", o.height))
	return nil
}

// simulate steps the actors through seconds of animation in frame-sized
// increments and returns the state of the last one.
func simulate(d *demoscene.Demo, seconds float32, w, h int, background mgl32.Vec4) *scene.State {
	var t float32
	for t+simStep < seconds {
		t += simStep
		d.Frame(scene.Frame{Time: t, Dt: simStep, Width: w, Height: h}, background)
	}
	return d.Frame(scene.Frame{Time: seconds, Dt: max(seconds-t, 0), Width: w, Height: h}, background)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
