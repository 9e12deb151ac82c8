package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"render-pipeline/gpu"
	"render-pipeline/internal/logger"
	"render-pipeline/resources"
	"render-pipeline/scene"
)

// Render target names.
const (
	TargetBase      = "base"
	TargetShadows   = "shadows"
	TargetPositions = "positions"
	TargetNormals   = "normals"
	TargetSSAO      = "ssao"
	TargetSSAOBlur  = "ssao_blur"
	TargetComposite = "composite"
)

var targetNames = []string{
	TargetBase, TargetShadows, TargetPositions, TargetNormals,
	TargetSSAO, TargetSSAOBlur, TargetComposite,
}

type Options struct {
	Width, Height  int
	MirrorCubeSize int
	ShadowCubeSize int
	ShadowSoftness float32
	ShadowStrength float32
	BloomThreshold float32
	BloomIntensity float32
}

func DefaultOptions(width, height int) Options {
	return Options{
		Width:          width,
		Height:         height,
		MirrorCubeSize: 512,
		ShadowCubeSize: 512,
		ShadowSoftness: DefaultShadowSoftness,
		ShadowStrength: DefaultShadowStrength,
		BloomThreshold: DefaultBloomThreshold,
		BloomIntensity: DefaultBloomIntensity,
	}
}

// SceneRenderer owns every pass and the named render targets they
// exchange, and runs them in a fixed order each frame.
type SceneRenderer struct {
	res     *resources.Manager
	backend gpu.Backend
	targets map[string]gpu.RenderTarget
	width   int
	height  int
	owned   []destroyer

	PreProcessing *PreProcessing
	FlatColor     *FlatColor
	Terrain       *Terrain
	BlinnPhong    *BlinnPhong
	Mirror        *Mirror
	Shadows       *Shadows
	Positions     *Positions
	Normals       *Normals
	SSAO          *SSAO
	SSAOBlur      *SSAOBlur
	MapMixer      *MapMixer
	Bloom         *Bloom
	Preview       *CapturePreview
}

func NewSceneRenderer(res *resources.Manager, opts Options) (sr *SceneRenderer, err error) {
	sr = &SceneRenderer{
		res:     res,
		backend: res.Backend(),
		targets: make(map[string]gpu.RenderTarget, len(targetNames)),
		width:   opts.Width,
		height:  opts.Height,
	}
	defer func() {
		if err != nil {
			sr.Destroy()
			sr = nil
		}
	}()

	if sr.PreProcessing, err = NewPreProcessing(res); err != nil {
		return nil, err
	}
	sr.own(sr.PreProcessing)
	if sr.FlatColor, err = NewFlatColor(res); err != nil {
		return nil, err
	}
	sr.own(sr.FlatColor)
	if sr.Terrain, err = NewTerrain(res); err != nil {
		return nil, err
	}
	sr.own(sr.Terrain)
	if sr.BlinnPhong, err = NewBlinnPhong(res); err != nil {
		return nil, err
	}
	sr.own(sr.BlinnPhong)
	if sr.Mirror, err = NewMirror(res, opts.MirrorCubeSize); err != nil {
		return nil, err
	}
	sr.own(sr.Mirror)
	if sr.Shadows, err = NewShadows(res, opts.ShadowCubeSize); err != nil {
		return nil, err
	}
	sr.own(sr.Shadows)
	sr.Shadows.Softness = opts.ShadowSoftness
	if sr.Positions, err = NewPositions(res); err != nil {
		return nil, err
	}
	sr.own(sr.Positions)
	if sr.Normals, err = NewNormals(res); err != nil {
		return nil, err
	}
	sr.own(sr.Normals)
	if sr.SSAO, err = NewSSAO(res); err != nil {
		return nil, err
	}
	sr.own(sr.SSAO)
	if sr.SSAOBlur, err = NewSSAOBlur(res); err != nil {
		return nil, err
	}
	sr.own(sr.SSAOBlur)
	if sr.MapMixer, err = NewMapMixer(res); err != nil {
		return nil, err
	}
	sr.own(sr.MapMixer)
	sr.MapMixer.ShadowStrength = opts.ShadowStrength
	if sr.Bloom, err = NewBloom(res); err != nil {
		return nil, err
	}
	sr.own(sr.Bloom)
	sr.Bloom.Threshold = opts.BloomThreshold
	sr.Bloom.Intensity = opts.BloomIntensity
	if sr.Preview, err = NewCapturePreview(res); err != nil {
		return nil, err
	}
	sr.own(sr.Preview)

	for _, name := range targetNames {
		t, err := sr.backend.CreateRenderTarget(opts.Width, opts.Height)
		if err != nil {
			return nil, fmt.Errorf("render target %s: %w", name, err)
		}
		sr.targets[name] = t
	}
	logger.Log.Info("scene renderer ready",
		zap.String("backend", sr.backend.Name()),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height))
	return sr, nil
}

// Texture returns the color texture of a named render target.
func (sr *SceneRenderer) Texture(name string) (gpu.Texture, error) {
	t, ok := sr.targets[name]
	if !ok {
		return nil, fmt.Errorf("render target %q: %w", name, resources.ErrMissingResource)
	}
	return t.Texture(), nil
}

// Resize reallocates every named target.
func (sr *SceneRenderer) Resize(width, height int) error {
	if width == sr.width && height == sr.height {
		return nil
	}
	for name, t := range sr.targets {
		if err := t.Resize(width, height); err != nil {
			return fmt.Errorf("resize %s: %w", name, err)
		}
	}
	sr.width, sr.height = width, height
	logger.Log.Debug("render targets resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// renderInTexture clears a named target to clear and runs fn with it bound.
func (sr *SceneRenderer) renderInTexture(name string, clear mgl32.Vec4, fn func() error) (gpu.Texture, error) {
	t := sr.targets[name]
	err := sr.backend.Use(t, func() error {
		if err := sr.backend.Clear(gpu.ClearAll(clear, 1)); err != nil {
			return err
		}
		return fn()
	})
	if err != nil {
		return nil, fmt.Errorf("%s pass: %w", name, err)
	}
	return t.Texture(), nil
}

var (
	opaqueBlack = mgl32.Vec4{0, 0, 0, 1}
	transparent = mgl32.Vec4{}
)

// renderBase draws the lit scene without mirrors. It also renders each
// face of a mirror's environment capture.
func (sr *SceneRenderer) renderBase(v View) error {
	if err := sr.PreProcessing.Render(v); err != nil {
		return err
	}
	if err := sr.FlatColor.Render(v); err != nil {
		return err
	}
	if err := sr.Terrain.Render(v); err != nil {
		return err
	}
	return sr.BlinnPhong.Render(v)
}

// Render draws one frame to the screen. Passes run in a fixed order since
// each one reads targets written by earlier ones.
func (sr *SceneRenderer) Render(state *scene.State) error {
	if state == nil || state.Scene == nil {
		return errors.New("render: no scene")
	}
	w, h := state.Frame.Width, state.Frame.Height
	if w <= 0 || h <= 0 {
		w, h = sr.backend.Screen().Size()
	}
	if err := sr.Resize(w, h); err != nil {
		return err
	}

	cam := state.Scene.Camera
	cam.UpdateFormatRatio(w, h)
	v := MainView(state)
	v.Camera.ComputeObjectsTransformationMatrices(v.Objects.All())
	sr.Shadows.SetSoftShadows(state.UI.SoftShadows)

	base, err := sr.renderInTexture(TargetBase, opaqueBlack, func() error {
		if err := sr.renderBase(v); err != nil {
			return err
		}
		return sr.Mirror.Render(v, sr.renderBase)
	})
	if err != nil {
		return err
	}

	shadows, err := sr.renderInTexture(TargetShadows, opaqueBlack, func() error {
		if err := sr.PreProcessing.Render(v); err != nil {
			return err
		}
		return sr.Shadows.Render(v)
	})
	if err != nil {
		return err
	}

	var ao gpu.Texture
	if state.UI.SSAO {
		if ao, err = sr.renderSSAO(v); err != nil {
			return err
		}
	}

	final := func() error { return sr.MapMixer.Render(w, h, base, shadows, ao) }
	if state.UI.Bloom {
		composite, err := sr.renderInTexture(TargetComposite, opaqueBlack, final)
		if err != nil {
			return err
		}
		final = func() error { return sr.Bloom.Render(composite) }
	}
	return sr.backend.Use(sr.backend.Screen(), func() error {
		if err := sr.backend.Clear(gpu.ClearAll(opaqueBlack, 1)); err != nil {
			return err
		}
		if err := final(); err != nil {
			return err
		}
		if state.UI.ShowCapture {
			return sr.Preview.Render(sr.Mirror.Capture(), w, h)
		}
		return nil
	})
}

// renderSSAO fills the geometry buffers and returns the blurred occlusion.
func (sr *SceneRenderer) renderSSAO(v View) (gpu.Texture, error) {
	positions, err := sr.renderInTexture(TargetPositions, transparent, func() error {
		return sr.Positions.Render(v)
	})
	if err != nil {
		return nil, err
	}
	normals, err := sr.renderInTexture(TargetNormals, transparent, func() error {
		return sr.Normals.Render(v)
	})
	if err != nil {
		return nil, err
	}
	ao, err := sr.renderInTexture(TargetSSAO, opaqueBlack, func() error {
		return sr.SSAO.Render(v, positions, normals)
	})
	if err != nil {
		return nil, err
	}
	return sr.renderInTexture(TargetSSAOBlur, opaqueBlack, func() error {
		return sr.SSAOBlur.Render(ao)
	})
}

type destroyer interface{ Destroy() }

func (sr *SceneRenderer) own(d destroyer) { sr.owned = append(sr.owned, d) }

// Destroy releases every pass and target. It tolerates a partially built
// renderer.
func (sr *SceneRenderer) Destroy() {
	for _, t := range sr.targets {
		t.Destroy()
	}
	clear(sr.targets)
	for _, d := range sr.owned {
		d.Destroy()
	}
	sr.owned = nil
}
