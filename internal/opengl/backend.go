// Package opengl implements gpu.Backend on an OpenGL 4.1 core context.
//
// Every call must come from the goroutine that owns the context (the one
// that created the window, with its OS thread locked).
package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"render-pipeline/gpu"
	"render-pipeline/internal/logger"
)

// Backend is the OpenGL rendering backend.
type Backend struct {
	screen *screen
	bound  gpu.Framebuffer
}

var _ gpu.Backend = (*Backend)(nil)

// screen is the default framebuffer; its size follows the window.
type screen struct{ w, h int }

func (s *screen) Size() (int, int) { return s.w, s.h }

// NewBackend initialises OpenGL. Must be called after the GLFW window context
// is made current.
func NewBackend(width, height int) (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Log.Info("opengl initialised",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	gl.FrontFace(gl.CCW)

	s := &screen{w: width, h: height}
	b := &Backend{screen: s, bound: s}
	gl.Viewport(0, 0, int32(width), int32(height))
	return b, nil
}

func (b *Backend) Name() string { return "opengl" }

func (b *Backend) Screen() gpu.Framebuffer { return b.screen }

// ResizeScreen records the new framebuffer size of the window.
func (b *Backend) ResizeScreen(width, height int) {
	b.screen.w, b.screen.h = width, height
	if b.bound == b.screen {
		gl.Viewport(0, 0, int32(width), int32(height))
	}
}

func (b *Backend) Use(fb gpu.Framebuffer, fn func() error) error {
	if _, err := fboOf(fb); err != nil {
		return err
	}
	prev := b.bound
	b.bind(fb)
	defer b.bind(prev)
	return fn()
}

func (b *Backend) bind(fb gpu.Framebuffer) {
	id, _ := fboOf(fb)
	w, h := fb.Size()
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
	gl.Viewport(0, 0, int32(w), int32(h))
	b.bound = fb
}

func (b *Backend) Clear(opts gpu.ClearOptions) error {
	var mask uint32
	if opts.ClearColor {
		c := opts.Color
		gl.ClearColor(c[0], c[1], c[2], c[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if opts.ClearDepth {
		// A pipeline may have left depth writes off; glClear honours the mask.
		gl.DepthMask(true)
		gl.ClearDepth(float64(opts.Depth))
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
	return nil
}

func (b *Backend) ReadPixels(fb gpu.Framebuffer) (*gpu.PixelBuffer, error) {
	id, err := fboOf(fb)
	if err != nil {
		return nil, err
	}
	w, h := fb.Size()
	out := gpu.NewPixelBuffer(w, h)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, id)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.FLOAT, gl.Ptr(out.Data))
	prev, _ := fboOf(b.bound)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, prev)
	if e := gl.GetError(); e != gl.NO_ERROR {
		return nil, fmt.Errorf("opengl: read pixels: error 0x%X", e)
	}
	return out, nil
}

// Destroy is a no-op: GL objects are released by their owners and the
// context goes away with the window.
func (b *Backend) Destroy() {}

func fboOf(fb gpu.Framebuffer) (uint32, error) {
	switch f := fb.(type) {
	case *screen:
		return 0, nil
	case *RenderTarget:
		return f.fbo, nil
	case *cubeFace:
		return f.fbo, nil
	}
	return 0, fmt.Errorf("opengl: framebuffer %T does not belong to this backend", fb)
}
