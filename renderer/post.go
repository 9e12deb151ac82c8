package renderer

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
	"render-pipeline/resources"
	"render-pipeline/shaders"
)

const (
	ssaoKernelSize = 64
	ssaoNoiseSize  = 4

	DefaultShadowStrength = 0.6
	DefaultBloomThreshold = 0.33
	DefaultBloomIntensity = 0.9
)

func newFullscreen(res *resources.Manager, name, frag string, uniforms ...string) (*ShaderRenderer, error) {
	return NewShaderRenderer(res, Config{
		Name:       name,
		Vertex:     shaders.TexCoordsVert,
		Fragment:   frag,
		Attributes: fullscreenAttributes,
		Depth:      noDepth,
		Uniforms:   gpu.Bind(uniforms...),
	})
}

// ── BufferToScreen ───────────────────────────────────────────────────────────

// BufferToScreen copies a texture to the bound framebuffer.
type BufferToScreen struct{ *ShaderRenderer }

func NewBufferToScreen(res *resources.Manager) (*BufferToScreen, error) {
	r, err := newFullscreen(res, "buffer_to_screen", shaders.BufferToScreenFrag, "buffer_to_draw")
	if err != nil {
		return nil, err
	}
	return &BufferToScreen{r}, nil
}

func (b *BufferToScreen) Render(tex gpu.Texture) error {
	return b.DrawFullscreen(gpu.Props{"buffer_to_draw": tex})
}

// ── CapturePreview ───────────────────────────────────────────────────────────

const (
	previewCellSize = 0.8 / 3
	previewMargin   = -0.95
)

// CapturePreview draws the six faces of an environment capture, unfolded
// into a 3×2 grid in the lower-left corner of the bound framebuffer. Each
// face is blended with its annotation tint.
type CapturePreview struct {
	*ShaderRenderer
	ColorFactor float32
}

func NewCapturePreview(res *resources.Manager) (*CapturePreview, error) {
	r, err := NewShaderRenderer(res, Config{
		Name:       "capture_preview",
		Vertex:     shaders.CubemapPreviewVert,
		Fragment:   shaders.CubemapPreviewFrag,
		Attributes: fullscreenAttributes,
		Depth:      noDepth,
		Uniforms: gpu.Bind(
			"cubemap_to_show", "cubemap_annotation",
			"preview_rect_scale", "preview_origin", "color_factor",
		),
	})
	if err != nil {
		return nil, err
	}
	return &CapturePreview{ShaderRenderer: r, ColorFactor: 1}, nil
}

// Render keeps the cells square on a width×height framebuffer.
func (p *CapturePreview) Render(e *EnvironmentCapture, width, height int) error {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return p.DrawFullscreen(gpu.Props{
		"cubemap_to_show":    e.CubeMap(),
		"cubemap_annotation": e.Annotation(),
		"preview_rect_scale": mgl32.Vec2{previewCellSize, previewCellSize * aspect},
		"preview_origin":     mgl32.Vec2{previewMargin, previewMargin},
		"color_factor":       p.ColorFactor,
	})
}

// ── MapMixer ─────────────────────────────────────────────────────────────────

// MapMixer composites the lit scene with the shadow map and, optionally,
// ambient occlusion: base * (1 - strength*shadow) * ao.
type MapMixer struct {
	*ShaderRenderer
	ShadowStrength float32
}

func NewMapMixer(res *resources.Manager) (*MapMixer, error) {
	r, err := newFullscreen(res, "map_mixer", shaders.MapMixerFrag,
		"canvas_width", "canvas_height",
		"blinn_phong", "shadows", "ssao", "use_ssao", "shadow_strength",
	)
	if err != nil {
		return nil, err
	}
	return &MapMixer{ShaderRenderer: r, ShadowStrength: DefaultShadowStrength}, nil
}

// Render reads the maps at the output resolution width×height. A nil ao
// disables occlusion.
func (m *MapMixer) Render(width, height int, base, shadows, ao gpu.Texture) error {
	props := gpu.Props{
		"canvas_width":    float32(width),
		"canvas_height":   float32(height),
		"blinn_phong":     base,
		"shadows":         shadows,
		"ssao":            base,
		"use_ssao":        ao != nil,
		"shadow_strength": m.ShadowStrength,
	}
	if ao != nil {
		props["ssao"] = ao
	}
	return m.DrawFullscreen(props)
}

// ── SSAO ─────────────────────────────────────────────────────────────────────

// SSAOKernel returns n samples filling the hemisphere around +Z, denser
// near the origin.
func SSAOKernel(n int) []mgl32.Vec3 {
	rng := rand.New(rand.NewSource(42))
	kernel := make([]mgl32.Vec3, n)
	for i := range kernel {
		v := mgl32.Vec3{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
			rng.Float32(),
		}.Normalize().Mul(rng.Float32())
		t := float32(i) / float32(n)
		kernel[i] = v.Mul(0.1 + 0.9*t*t)
	}
	return kernel
}

// SSAONoise is a tiling texture of random rotations in the XY plane.
func SSAONoise() gpu.TextureDesc {
	rng := rand.New(rand.NewSource(123))
	data := make([]float32, ssaoNoiseSize*ssaoNoiseSize*4)
	for i := 0; i < ssaoNoiseSize*ssaoNoiseSize; i++ {
		data[i*4+0] = rng.Float32()*2 - 1
		data[i*4+1] = rng.Float32()*2 - 1
		data[i*4+3] = 1
	}
	return gpu.TextureDesc{
		Name:   "ssao_noise",
		Width:  ssaoNoiseSize,
		Height: ssaoNoiseSize,
		Data:   data,
		Wrap:   gpu.WrapRepeat,
		Filter: gpu.FilterNearest,
	}
}

// SSAO estimates ambient occlusion from view-space position and normal
// buffers. Output is 1 for unoccluded pixels.
type SSAO struct {
	*ShaderRenderer
	kernel []mgl32.Vec3
	noise  gpu.Texture
}

func NewSSAO(res *resources.Manager) (*SSAO, error) {
	r, err := newFullscreen(res, "ssao", shaders.SSAOFrag,
		"mat_projection", "kernel", "noise_tex", "noise_scale", "positions_tex", "normals_tex",
	)
	if err != nil {
		return nil, err
	}
	noise, err := res.Backend().CreateTexture(SSAONoise())
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("ssao noise: %w", err)
	}
	return &SSAO{ShaderRenderer: r, kernel: SSAOKernel(ssaoKernelSize), noise: noise}, nil
}

func (s *SSAO) Render(v View, positions, normals gpu.Texture) error {
	w, h := positions.Size()
	return s.DrawFullscreen(gpu.Props{
		"mat_projection": v.Camera.Projection,
		"kernel":         s.kernel,
		"noise_tex":      s.noise,
		"noise_scale":    mgl32.Vec2{float32(w) / ssaoNoiseSize, float32(h) / ssaoNoiseSize},
		"positions_tex":  positions,
		"normals_tex":    normals,
	})
}

func (s *SSAO) Destroy() {
	s.noise.Destroy()
	s.ShaderRenderer.Destroy()
}

// SSAOBlur box-filters the occlusion map over 4×4 texels.
type SSAOBlur struct{ *ShaderRenderer }

func NewSSAOBlur(res *resources.Manager) (*SSAOBlur, error) {
	r, err := newFullscreen(res, "ssao_blur", shaders.SSAOBlurFrag, "ssao_tex", "ssao_tex_size")
	if err != nil {
		return nil, err
	}
	return &SSAOBlur{r}, nil
}

func (b *SSAOBlur) Render(ao gpu.Texture) error {
	w, h := ao.Size()
	return b.DrawFullscreen(gpu.Props{
		"ssao_tex":      ao,
		"ssao_tex_size": mgl32.Vec2{float32(w), float32(h)},
	})
}

// ── Bloom ────────────────────────────────────────────────────────────────────

// Bloom adds a blurred copy of the bright parts of a texture to it.
type Bloom struct {
	*ShaderRenderer
	Threshold float32
	Intensity float32
}

func NewBloom(res *resources.Manager) (*Bloom, error) {
	r, err := newFullscreen(res, "bloom", shaders.BloomFrag,
		"u_sceneTexture", "u_texture_size", "u_threshold", "u_bloom_intensity",
	)
	if err != nil {
		return nil, err
	}
	return &Bloom{ShaderRenderer: r, Threshold: DefaultBloomThreshold, Intensity: DefaultBloomIntensity}, nil
}

func (b *Bloom) Render(scene gpu.Texture) error {
	w, h := scene.Size()
	return b.DrawFullscreen(gpu.Props{
		"u_sceneTexture":    scene,
		"u_texture_size":    mgl32.Vec2{1 / float32(w), 1 / float32(h)},
		"u_threshold":       b.Threshold,
		"u_bloom_intensity": b.Intensity,
	})
}
