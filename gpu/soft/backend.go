// Package soft is a CPU implementation of gpu.Backend.
//
// It rasterizes triangles with perspective-correct interpolation and runs Go
// kernels in place of GLSL stages. Kernels are registered under the GLSL file
// names, so a pipeline description built for the GL backend works here
// unchanged. It is slow and exact, which makes it the backend for tests and
// headless snapshots.
package soft

import (
	"fmt"
	"sync"

	"render-pipeline/gpu"
)

type Backend struct {
	screen *screen
	bound  *surface

	mu    sync.Mutex
	draws map[string]int
}

var _ gpu.Backend = (*Backend)(nil)

// NewBackend creates a backend whose screen framebuffer is width×height.
func NewBackend(width, height int) (*Backend, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("soft: screen size %dx%d", width, height)
	}
	s := &screen{surf: newSurface(width, height)}
	return &Backend{screen: s, bound: s.surf, draws: map[string]int{}}, nil
}

func (b *Backend) Name() string { return "software" }

func (b *Backend) Screen() gpu.Framebuffer { return b.screen }

// ResizeScreen reallocates the screen framebuffer.
func (b *Backend) ResizeScreen(width, height int) {
	b.screen.surf.resize(width, height)
}

func (b *Backend) CreatePipeline(desc gpu.PipelineDesc) (gpu.Pipeline, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	vs, fs, err := lookupPrograms(desc.Vertex.Name, desc.Fragment.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", gpu.ErrInvalidPipeline, desc.Name, err)
	}
	bound := make(map[string]bool, len(desc.Uniforms))
	for _, u := range desc.Uniforms {
		bound[u.Name] = true
	}
	for _, names := range [][]string{vs.Uniforms, fs.Uniforms} {
		for _, n := range names {
			if !bound[n] {
				return nil, fmt.Errorf("%w: %s: uniform %q used by the shaders is not bound", gpu.ErrInvalidPipeline, desc.Name, n)
			}
		}
	}
	return &pipeline{b: b, desc: desc, vs: vs, fs: fs}, nil
}

func (b *Backend) CreateMesh(data *gpu.MeshData) (gpu.Mesh, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &Mesh{data: *data}, nil
}

func (b *Backend) CreateTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	s := newSurface(desc.Width, desc.Height)
	for i := range s.color {
		copy(s.color[i][:], desc.Data[i*4:i*4+4])
	}
	return &Texture{surf: s, wrap: desc.Wrap, filter: desc.Filter}, nil
}

func (b *Backend) CreateRenderTarget(width, height int) (gpu.RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("soft: render target size %dx%d", width, height)
	}
	s := newSurface(width, height)
	return &RenderTarget{surf: s, tex: &Texture{surf: s, wrap: gpu.WrapClamp, filter: gpu.FilterNearest}}, nil
}

func (b *Backend) CreateCubeTarget(size int) (gpu.CubeTarget, error) {
	if size <= 0 {
		return nil, fmt.Errorf("soft: cube target size %d", size)
	}
	c := &CubeTarget{tex: &CubeTexture{size: size}}
	for i := range c.faces {
		s := newSurface(size, size)
		c.faces[i] = &cubeFace{surf: s}
		c.tex.faces[i] = s
	}
	return c, nil
}

func (b *Backend) Use(fb gpu.Framebuffer, fn func() error) error {
	s, err := surfaceOf(fb)
	if err != nil {
		return err
	}
	prev := b.bound
	b.bound = s
	defer func() { b.bound = prev }()
	return fn()
}

func (b *Backend) Clear(opts gpu.ClearOptions) error {
	s := b.bound
	if opts.ClearColor {
		for i := range s.color {
			s.color[i] = opts.Color
		}
	}
	if opts.ClearDepth {
		for i := range s.depth {
			s.depth[i] = opts.Depth
		}
	}
	return nil
}

func (b *Backend) ReadPixels(fb gpu.Framebuffer) (*gpu.PixelBuffer, error) {
	s, err := surfaceOf(fb)
	if err != nil {
		return nil, err
	}
	out := gpu.NewPixelBuffer(s.w, s.h)
	for i, c := range s.color {
		copy(out.Data[i*4:i*4+4], c[:])
	}
	return out, nil
}

// DrawCount reports how many records have been drawn with the named
// pipeline since the backend was created.
func (b *Backend) DrawCount(pipeline string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draws[pipeline]
}

func (b *Backend) countDraw(pipeline string) {
	b.mu.Lock()
	b.draws[pipeline]++
	b.mu.Unlock()
}

func surfaceOf(fb gpu.Framebuffer) (*surface, error) {
	switch f := fb.(type) {
	case *screen:
		return f.surf, nil
	case *RenderTarget:
		return f.surf, nil
	case *cubeFace:
		return f.surf, nil
	}
	return nil, fmt.Errorf("soft: framebuffer %T does not belong to this backend", fb)
}
