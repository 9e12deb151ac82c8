package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"render-pipeline/gpu"
)

// Texture is an RGBA32F 2D texture.
type Texture struct {
	id   uint32
	w, h int
}

func (t *Texture) Size() (int, int) { return t.w, t.h }

// Destroy frees the GPU texture.
func (t *Texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

func wrapMode(w gpu.Wrap) int32 {
	if w == gpu.WrapRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func filterMode(f gpu.Filter) int32 {
	if f == gpu.FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

// CreateTexture uploads desc. Rows are bottom-up in both desc.Data and GL.
func (b *Backend) CreateTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	t := &Texture{w: desc.Width, h: desc.Height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapMode(desc.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapMode(desc.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filterMode(desc.Filter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filterMode(desc.Filter))

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F,
		int32(desc.Width), int32(desc.Height), 0,
		gl.RGBA, gl.FLOAT, gl.Ptr(desc.Data))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// RenderTarget is a float color texture plus a depth renderbuffer.
type RenderTarget struct {
	fbo   uint32
	depth uint32
	tex   *Texture
}

func (r *RenderTarget) Size() (int, int)     { return r.tex.Size() }
func (r *RenderTarget) Texture() gpu.Texture { return r.tex }

func (b *Backend) CreateRenderTarget(width, height int) (gpu.RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("opengl: render target size %dx%d", width, height)
	}
	r := &RenderTarget{tex: &Texture{}}
	gl.GenTextures(1, &r.tex.id)
	gl.BindTexture(gl.TEXTURE_2D, r.tex.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.GenRenderbuffers(1, &r.depth)

	if err := r.alloc(width, height); err != nil {
		r.Destroy()
		return nil, err
	}
	b.restoreBinding()
	return r, nil
}

func (r *RenderTarget) alloc(width, height int) error {
	r.tex.w, r.tex.h = width, height

	gl.BindTexture(gl.TEXTURE_2D, r.tex.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F,
		int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindRenderbuffer(gl.RENDERBUFFER, r.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT32F, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	if r.fbo == 0 {
		gl.GenFramebuffers(1, &r.fbo)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, r.tex.id, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, r.depth)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("render target FBO incomplete: status=0x%X", status)
	}
	return nil
}

// Resize reallocates the attachments. Contents are undefined afterwards.
func (r *RenderTarget) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("opengl: render target size %dx%d", width, height)
	}
	if w, h := r.Size(); w == width && h == height {
		return nil
	}
	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))
	return r.alloc(width, height)
}

// Destroy frees GPU resources.
func (r *RenderTarget) Destroy() {
	if r.fbo != 0 {
		gl.DeleteFramebuffers(1, &r.fbo)
		r.fbo = 0
	}
	if r.depth != 0 {
		gl.DeleteRenderbuffers(1, &r.depth)
		r.depth = 0
	}
	r.tex.Destroy()
}

// restoreBinding rebinds the current framebuffer after a helper bound a
// different one while setting up attachments.
func (b *Backend) restoreBinding() {
	id, _ := fboOf(b.bound)
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
}
