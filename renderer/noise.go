package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
	"render-pipeline/resources"
	"render-pipeline/scene"
	"render-pipeline/shaders"
)

// Noise fills the bound framebuffer with one of the procedural noise
// functions. Each function is its own pipeline, all built up front.
type Noise struct {
	byFunction map[string]*ShaderRenderer
}

func NewNoise(res *resources.Manager) (*Noise, error) {
	vs, err := res.Shader(shaders.NoiseVert)
	if err != nil {
		return nil, fmt.Errorf("noise: %w", err)
	}
	n := &Noise{byFunction: make(map[string]*ShaderRenderer, len(shaders.NoiseFunctions))}
	for _, fn := range shaders.NoiseFunctions {
		name, src, err := shaders.NoiseStage(fn)
		if err != nil {
			n.Destroy()
			return nil, err
		}
		r, err := newWithSources(res, Config{
			Name:       "noise_" + fn,
			Attributes: fullscreenAttributes,
			Depth:      noDepth,
			Uniforms:   gpu.Bind("viewer_position", "viewer_scale"),
		}, vs, gpu.ShaderSource{Name: name, Source: src})
		if err != nil {
			n.Destroy()
			return nil, err
		}
		n.byFunction[fn] = r
	}
	return n, nil
}

// Render evaluates function over the square [-1,1]² scaled by scale and
// shifted by position.
func (n *Noise) Render(function string, scale float32, position mgl32.Vec2) error {
	r, ok := n.byFunction[function]
	if !ok {
		return fmt.Errorf("noise function %q: %w", function, resources.ErrMissingResource)
	}
	return r.DrawFullscreen(gpu.Props{
		"viewer_position": position,
		"viewer_scale":    scale,
	})
}

func (n *Noise) Destroy() {
	for _, r := range n.byFunction {
		r.Destroy()
	}
}

// TextureOptions frame the noise for ProceduralTextureGenerator.
type TextureOptions struct {
	MouseOffset mgl32.Vec2
	Zoom        float32
	Width       int
	Height      int
}

func (o TextureOptions) withDefaults() TextureOptions {
	if o.Zoom == 0 {
		o.Zoom = 1
	}
	if o.Width <= 0 {
		o.Width = 256
	}
	if o.Height <= 0 {
		o.Height = 256
	}
	return o
}

// ProceduralTextureGenerator renders noise off screen and reads it back.
type ProceduralTextureGenerator struct {
	res     *resources.Manager
	noise   *Noise
	toScr   *BufferToScreen
	display gpu.RenderTarget
}

func NewProceduralTextureGenerator(res *resources.Manager) (*ProceduralTextureGenerator, error) {
	noise, err := NewNoise(res)
	if err != nil {
		return nil, err
	}
	toScr, err := NewBufferToScreen(res)
	if err != nil {
		noise.Destroy()
		return nil, err
	}
	display, err := res.Backend().CreateRenderTarget(256, 256)
	if err != nil {
		noise.Destroy()
		toScr.Destroy()
		return nil, err
	}
	return &ProceduralTextureGenerator{res: res, noise: noise, toScr: toScr, display: display}, nil
}

func (g *ProceduralTextureGenerator) renderInto(target gpu.RenderTarget, function string, opts TextureOptions) error {
	b := g.res.Backend()
	return b.Use(target, func() error {
		if err := b.Clear(gpu.ClearColorOnly(mgl32.Vec4{0, 0, 0, 1})); err != nil {
			return err
		}
		return g.noise.Render(function, opts.Zoom, opts.MouseOffset.Mul(-1))
	})
}

// ComputeTexture renders function and registers the result under name,
// both as a texture and as a height map read from the red channel.
func (g *ProceduralTextureGenerator) ComputeTexture(name, function string, opts TextureOptions) (*scene.HeightMap, error) {
	opts = opts.withDefaults()
	b := g.res.Backend()

	target, err := b.CreateRenderTarget(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	defer target.Destroy()

	if err := g.renderInto(target, function, opts); err != nil {
		return nil, fmt.Errorf("compute texture %s: %w", name, err)
	}
	pixels, err := b.ReadPixels(target)
	if err != nil {
		return nil, fmt.Errorf("compute texture %s: %w", name, err)
	}

	hm := scene.NewHeightMap(pixels.Width, pixels.Height)
	for y := 0; y < pixels.Height; y++ {
		for x := 0; x < pixels.Width; x++ {
			hm.Set(x, y, pixels.At(x, y)[0])
		}
	}
	g.res.AddHeightMap(name, hm)
	err = g.res.AddTexture(gpu.TextureDesc{
		Name:   name,
		Width:  pixels.Width,
		Height: pixels.Height,
		Data:   pixels.Data,
		Wrap:   gpu.WrapRepeat,
		Filter: gpu.FilterLinear,
	})
	if err != nil {
		return nil, err
	}
	return hm, nil
}

// DisplayTexture draws function to the bound framebuffer.
func (g *ProceduralTextureGenerator) DisplayTexture(function string, opts TextureOptions) error {
	opts = opts.withDefaults()
	if w, h := g.display.Size(); w != opts.Width || h != opts.Height {
		if err := g.display.Resize(opts.Width, opts.Height); err != nil {
			return err
		}
	}
	if err := g.renderInto(g.display, function, opts); err != nil {
		return err
	}
	return g.toScr.Render(g.display.Texture())
}

func (g *ProceduralTextureGenerator) Destroy() {
	g.display.Destroy()
	g.toScr.Destroy()
	g.noise.Destroy()
}
