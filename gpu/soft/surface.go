package soft

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
)

// surface is a color+depth buffer. Row 0 is the bottom row.
type surface struct {
	w, h  int
	color []mgl32.Vec4
	depth []float32
}

func newSurface(w, h int) *surface {
	s := &surface{}
	s.resize(w, h)
	return s
}

func (s *surface) resize(w, h int) {
	s.w, s.h = w, h
	s.color = make([]mgl32.Vec4, w*h)
	s.depth = make([]float32, w*h)
	for i := range s.depth {
		s.depth[i] = 1
	}
}

func (s *surface) Size() (int, int) { return s.w, s.h }

func (s *surface) texel(x, y int) mgl32.Vec4 {
	return s.color[y*s.w+x]
}

// ── Textures ─────────────────────────────────────────────────────────────────

// Texture samples a surface. Render targets share their surface with the
// texture they expose.
type Texture struct {
	surf   *surface
	wrap   gpu.Wrap
	filter gpu.Filter
}

func (t *Texture) Size() (int, int) { return t.surf.w, t.surf.h }
func (t *Texture) Destroy()         {}

func (t *Texture) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	w, h := t.surf.w, t.surf.h
	if t.filter == gpu.FilterNearest {
		x := wrapIndex(int(math32.Floor(uv[0]*float32(w))), w, t.wrap)
		y := wrapIndex(int(math32.Floor(uv[1]*float32(h))), h, t.wrap)
		return t.surf.texel(x, y)
	}
	fx := uv[0]*float32(w) - 0.5
	fy := uv[1]*float32(h) - 0.5
	x0, y0 := math32.Floor(fx), math32.Floor(fy)
	ax, ay := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)
	c00 := t.surf.texel(wrapIndex(ix, w, t.wrap), wrapIndex(iy, h, t.wrap))
	c10 := t.surf.texel(wrapIndex(ix+1, w, t.wrap), wrapIndex(iy, h, t.wrap))
	c01 := t.surf.texel(wrapIndex(ix, w, t.wrap), wrapIndex(iy+1, h, t.wrap))
	c11 := t.surf.texel(wrapIndex(ix+1, w, t.wrap), wrapIndex(iy+1, h, t.wrap))
	bottom := c00.Mul(1 - ax).Add(c10.Mul(ax))
	top := c01.Mul(1 - ax).Add(c11.Mul(ax))
	return bottom.Mul(1 - ay).Add(top.Mul(ay))
}

func wrapIndex(i, n int, wrap gpu.Wrap) int {
	if wrap == gpu.WrapRepeat {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	return min(max(i, 0), n-1)
}

// CubeTexture samples six square surfaces by direction, selecting the face
// and (s, t) the way GL does, so a face rendered with the capture camera
// table reads back under the same direction it was rendered from.
type CubeTexture struct {
	size  int
	faces [6]*surface
}

func (c *CubeTexture) Size() int { return c.size }

func (c *CubeTexture) Sample(dir mgl32.Vec3) mgl32.Vec4 {
	face, s, t := cubeFaceCoords(dir)
	x := min(max(int(s*float32(c.size)), 0), c.size-1)
	y := min(max(int(t*float32(c.size)), 0), c.size-1)
	return c.faces[face].texel(x, y)
}

func cubeFaceCoords(d mgl32.Vec3) (face int, s, t float32) {
	ax, ay, az := math32.Abs(d[0]), math32.Abs(d[1]), math32.Abs(d[2])
	var sc, tc, ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if d[0] > 0 {
			face, sc, tc = 0, -d[2], -d[1]
		} else {
			face, sc, tc = 1, d[2], -d[1]
		}
	case ay >= az:
		ma = ay
		if d[1] > 0 {
			face, sc, tc = 2, d[0], d[2]
		} else {
			face, sc, tc = 3, d[0], -d[2]
		}
	default:
		ma = az
		if d[2] > 0 {
			face, sc, tc = 4, d[0], -d[1]
		} else {
			face, sc, tc = 5, -d[0], -d[1]
		}
	}
	if ma == 0 {
		return 0, 0.5, 0.5
	}
	return face, (sc/ma + 1) / 2, (tc/ma + 1) / 2
}

// ── Framebuffers ─────────────────────────────────────────────────────────────

type screen struct{ surf *surface }

func (s *screen) Size() (int, int) { return s.surf.Size() }

type RenderTarget struct {
	surf *surface
	tex  *Texture
}

func (r *RenderTarget) Size() (int, int)     { return r.surf.Size() }
func (r *RenderTarget) Texture() gpu.Texture { return r.tex }
func (r *RenderTarget) Destroy()             {}

func (r *RenderTarget) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("render target size %dx%d", w, h)
	}
	r.surf.resize(w, h)
	return nil
}

type cubeFace struct{ surf *surface }

func (f *cubeFace) Size() (int, int) { return f.surf.Size() }

type CubeTarget struct {
	faces [6]*cubeFace
	tex   *CubeTexture
}

func (c *CubeTarget) Size() int                  { return c.tex.size }
func (c *CubeTarget) Face(i int) gpu.Framebuffer { return c.faces[i] }
func (c *CubeTarget) Texture() gpu.CubeTexture   { return c.tex }
func (c *CubeTarget) Destroy()                   {}

// ── Meshes ───────────────────────────────────────────────────────────────────

type Mesh struct {
	data gpu.MeshData
}

func (m *Mesh) VertexCount() int { return len(m.data.Positions) }
func (m *Mesh) IndexCount() int  { return len(m.data.Faces) * 3 }
func (m *Mesh) Destroy()         {}
