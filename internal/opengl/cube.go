package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"render-pipeline/gpu"
)

// CubeTexture is a float cube map.
type CubeTexture struct {
	id   uint32
	size int
}

func (c *CubeTexture) Size() int { return c.size }

type cubeFace struct {
	fbo  uint32
	size int
}

func (f *cubeFace) Size() (int, int) { return f.size, f.size }

// CubeTarget renders into the six faces of a cube map, one framebuffer per
// face, all sharing one depth renderbuffer.
type CubeTarget struct {
	tex   *CubeTexture
	depth uint32
	faces [6]*cubeFace
}

func (c *CubeTarget) Size() int                  { return c.tex.size }
func (c *CubeTarget) Face(i int) gpu.Framebuffer { return c.faces[i] }
func (c *CubeTarget) Texture() gpu.CubeTexture   { return c.tex }

func (b *Backend) CreateCubeTarget(size int) (gpu.CubeTarget, error) {
	if size <= 0 {
		return nil, fmt.Errorf("opengl: cube target size %d", size)
	}
	c := &CubeTarget{tex: &CubeTexture{size: size}}
	defer b.restoreBinding()

	gl.GenTextures(1, &c.tex.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, c.tex.id)
	for i := 0; i < 6; i++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA32F,
			int32(size), int32(size), 0, gl.RGBA, gl.FLOAT, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	gl.GenRenderbuffers(1, &c.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, c.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT32F, int32(size), int32(size))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	for i := range c.faces {
		f := &cubeFace{size: size}
		gl.GenFramebuffers(1, &f.fbo)
		c.faces[i] = f
		gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), c.tex.id, 0)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, c.depth)
		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			c.Destroy()
			return nil, fmt.Errorf("cube face %d FBO incomplete: status=0x%X", i, status)
		}
	}
	return c, nil
}

// Destroy frees GPU resources.
func (c *CubeTarget) Destroy() {
	for _, f := range c.faces {
		if f != nil && f.fbo != 0 {
			gl.DeleteFramebuffers(1, &f.fbo)
			f.fbo = 0
		}
	}
	if c.depth != 0 {
		gl.DeleteRenderbuffers(1, &c.depth)
		c.depth = 0
	}
	if c.tex.id != 0 {
		gl.DeleteTextures(1, &c.tex.id)
		c.tex.id = 0
	}
}
