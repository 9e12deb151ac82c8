package soft

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
)

type pipeline struct {
	b    *Backend
	desc gpu.PipelineDesc
	vs   VertexShader
	fs   FragmentShader
}

func (p *pipeline) Name() string { return p.desc.Name }
func (p *pipeline) Destroy()     {}

func (p *pipeline) Draw(records ...gpu.Props) error {
	target := p.b.bound
	for i, rec := range records {
		m, err := rec.Mesh()
		if err != nil {
			return fmt.Errorf("%s: record %d: %w", p.desc.Name, i, err)
		}
		mesh, ok := m.(*Mesh)
		if !ok {
			return fmt.Errorf("%s: record %d: mesh %T does not belong to this backend", p.desc.Name, i, m)
		}
		vals, err := gpu.Resolve(p.desc.Uniforms, rec)
		if err != nil {
			return fmt.Errorf("%s: record %d: %w", p.desc.Name, i, err)
		}
		p.drawMesh(target, mesh, Uniforms(vals))
		p.b.countDraw(p.desc.Name)
	}
	return nil
}

type clipVertex struct {
	pos  mgl32.Vec4
	vary Varyings
}

func (p *pipeline) drawMesh(target *surface, mesh *Mesh, u Uniforms) {
	d := &mesh.data
	verts := make([]clipVertex, len(d.Positions))
	for i := range d.Positions {
		in := VertexIn{
			Position: d.Positions[i],
			Normal:   d.Normal(uint32(i)),
			TexCoord: d.TexCoord(uint32(i)),
		}
		verts[i].pos = p.vs.Main(in, u, &verts[i].vary)
	}
	for _, f := range d.Faces {
		p.drawTriangle(target, verts[f[0]], verts[f[1]], verts[f[2]], u)
	}
}

// ── Rasterization ────────────────────────────────────────────────────────────

type screenVertex struct {
	x, y, z float64
	invW    float32
	vary    Varyings
}

const minW = 1e-6

func (p *pipeline) drawTriangle(s *surface, a, b, c clipVertex, u Uniforms) {
	poly := clipNear([]clipVertex{a, b, c}, p.vs.Varyings)
	if len(poly) < 3 {
		return
	}
	sv := make([]screenVertex, len(poly))
	for i, v := range poly {
		if v.pos[3] < minW {
			return
		}
		invW := 1 / v.pos[3]
		sv[i] = screenVertex{
			x:    float64((v.pos[0]*invW + 1) * 0.5 * float32(s.w)),
			y:    float64((v.pos[1]*invW + 1) * 0.5 * float32(s.h)),
			z:    float64(v.pos[2]*invW*0.5 + 0.5),
			invW: invW,
			vary: v.vary,
		}
	}
	for i := 1; i+1 < len(sv); i++ {
		p.rasterize(s, &sv[0], &sv[i], &sv[i+1], u)
	}
}

// clipNear clips a polygon against the near plane z >= -w.
func clipNear(in []clipVertex, nVary int) []clipVertex {
	dist := func(v clipVertex) float32 { return v.pos[2] + v.pos[3] }
	out := make([]clipVertex, 0, len(in)+1)
	for i := range in {
		cur, next := in[i], in[(i+1)%len(in)]
		dc, dn := dist(cur), dist(next)
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			t := dc / (dc - dn)
			var v clipVertex
			v.pos = cur.pos.Add(next.pos.Sub(cur.pos).Mul(t))
			for k := 0; k < nVary; k++ {
				v.vary[k] = cur.vary[k] + (next.vary[k]-cur.vary[k])*t
			}
			out = append(out, v)
		}
	}
	return out
}

func edge(a, b *screenVertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// topLeft reports whether edge a→b of a counter-clockwise triangle owns the
// pixels lying exactly on it.
func topLeft(a, b *screenVertex) bool {
	return (a.y == b.y && b.x < a.x) || b.y < a.y
}

func covers(w float64, a, b *screenVertex) bool {
	return w > 0 || (w == 0 && topLeft(a, b))
}

func (p *pipeline) rasterize(s *surface, v0, v1, v2 *screenVertex, u Uniforms) {
	area := edge(v0, v1, v2.x, v2.y)
	if area == 0 || math.IsNaN(area) {
		return
	}
	front := area > 0
	if cull := p.desc.Cull; cull.Enable {
		if (cull.Face == gpu.FaceBack && !front) || (cull.Face == gpu.FaceFront && front) {
			return
		}
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	minX := max(int(math.Floor(min(v0.x, v1.x, v2.x))), 0)
	maxX := min(int(math.Ceil(max(v0.x, v1.x, v2.x))), s.w-1)
	minY := max(int(math.Floor(min(v0.y, v1.y, v2.y))), 0)
	maxY := min(int(math.Ceil(max(v0.y, v1.y, v2.y))), s.h-1)

	depth := p.desc.Depth
	blend := p.desc.Blend
	nVary := p.vs.Varyings
	var in FragmentIn
	in.FrontFacing = front

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(v1, v2, px, py)
			w1 := edge(v2, v0, px, py)
			w2 := edge(v0, v1, px, py)
			if !covers(w0, v1, v2) || !covers(w1, v2, v0) || !covers(w2, v0, v1) {
				continue
			}
			l0, l1, l2 := w0/area, w1/area, w2/area
			z := float32(l0*v0.z + l1*v1.z + l2*v2.z)
			if z < 0 || z > 1 {
				continue
			}
			idx := y*s.w + x
			if depth.Enable && !depth.Func.Test(z, s.depth[idx]) {
				continue
			}

			p0 := float32(l0) * v0.invW
			p1 := float32(l1) * v1.invW
			p2 := float32(l2) * v2.invW
			iw := p0 + p1 + p2
			for k := 0; k < nVary; k++ {
				in.Varyings[k] = (p0*v0.vary[k] + p1*v1.vary[k] + p2*v2.vary[k]) / iw
			}
			in.FragCoord = mgl32.Vec4{float32(px), float32(py), z, iw}

			color, keep := p.fs.Main(&in, u)
			if !keep {
				continue
			}
			if depth.Enable && depth.Mask {
				s.depth[idx] = z
			}
			if blend.Enable {
				dst := s.color[idx]
				color = blendTerm(color, color, blend.Src).Add(blendTerm(dst, color, blend.Dst))
			}
			s.color[idx] = color
		}
	}
}

// blendTerm scales c by factor f, which may depend on the source alpha.
func blendTerm(c, src mgl32.Vec4, f gpu.BlendFactor) mgl32.Vec4 {
	switch f {
	case gpu.BlendZero:
		return mgl32.Vec4{}
	case gpu.BlendSrcAlpha:
		return c.Mul(src[3])
	case gpu.BlendOneMinusSrcAlpha:
		return c.Mul(1 - src[3])
	default:
		return c
	}
}
