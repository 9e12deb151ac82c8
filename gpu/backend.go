// Package gpu defines the backend contract the renderers are written against.
//
// A Backend creates pipelines (a shader pair plus fixed-function state and a
// uniform binding table), meshes, textures and render targets, and draws
// batches of per-draw property records. Framebuffer binding is scoped: Use
// binds a framebuffer for the duration of a callback and restores the
// previous binding afterwards, so nested passes (cube-map capture inside a
// render-to-texture pass) compose.
package gpu

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidPipeline is returned by CreatePipeline for configurations that
	// can never draw correctly.
	ErrInvalidPipeline = errors.New("gpu: invalid pipeline")
	// ErrMissingProp is returned by Draw when a record lacks a bound field.
	ErrMissingProp = errors.New("gpu: missing draw property")
)

type Backend interface {
	Name() string

	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	CreateMesh(data *MeshData) (Mesh, error)
	CreateTexture(desc TextureDesc) (Texture, error)
	CreateRenderTarget(width, height int) (RenderTarget, error)
	CreateCubeTarget(size int) (CubeTarget, error)

	// Screen is the default framebuffer.
	Screen() Framebuffer
	// Use binds fb, sets the viewport to its size, runs fn and restores the
	// previous binding even when fn fails.
	Use(fb Framebuffer, fn func() error) error
	// Clear clears the currently bound framebuffer.
	Clear(opts ClearOptions) error
	// ReadPixels copies fb's color buffer to CPU memory.
	ReadPixels(fb Framebuffer) (*PixelBuffer, error)
}

// Framebuffer is anything that can be bound as a draw target.
type Framebuffer interface {
	Size() (width, height int)
}

type Texture interface {
	Size() (width, height int)
	Destroy()
}

type CubeTexture interface {
	Size() int
}

// RenderTarget is a color texture with a depth buffer, usable both as a
// framebuffer and, once drawn, as a texture.
type RenderTarget interface {
	Framebuffer
	Texture() Texture
	Resize(width, height int) error
	Destroy()
}

// Cube face order: +X, -X, +Y, -Y, +Z, -Z.
type CubeTarget interface {
	Size() int
	Face(i int) Framebuffer
	Texture() CubeTexture
	Destroy()
}

type Mesh interface {
	VertexCount() int
	IndexCount() int
	Destroy()
}

type Pipeline interface {
	Name() string
	// Draw submits records as one batch; every record shares this
	// pipeline's shaders and fixed-function state.
	Draw(records ...Props) error
	Destroy()
}

// ClearOptions selects which buffers Clear touches.
type ClearOptions struct {
	Color      mgl32.Vec4
	Depth      float32
	ClearColor bool
	ClearDepth bool
}

func ClearAll(color mgl32.Vec4, depth float32) ClearOptions {
	return ClearOptions{Color: color, Depth: depth, ClearColor: true, ClearDepth: true}
}

func ClearColorOnly(color mgl32.Vec4) ClearOptions {
	return ClearOptions{Color: color, ClearColor: true}
}
