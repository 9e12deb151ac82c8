package soft

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Helpers shared by the kernels, mirroring the GLSL built-ins they replace.

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

func reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

func mix(a, b, t float32) float32 { return a*(1-t) + b*t }

func mix3(a, b mgl32.Vec3, t float32) mgl32.Vec3 { return a.Mul(1 - t).Add(b.Mul(t)) }

func clamp(x, lo, hi float32) float32 { return math32.Max(lo, math32.Min(hi, x)) }

func fract(x float32) float32 { return x - math32.Floor(x) }

func mod(x, y float32) float32 { return x - y*math32.Floor(x/y) }

func smoothstep(e0, e1, x float32) float32 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func mulPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec4 { return m.Mul4x1(p.Vec4(1)) }

func mulDir(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 { return m.Mul4x1(d.Vec4(0)).Vec3() }

// blinnPhong returns the diffuse+specular contribution of one light on a
// view-space surface point, plus ambient*color.
func blinnPhong(pos, normal, lightPos, lightColor, color mgl32.Vec3, shininess, ambient float32) mgl32.Vec3 {
	n := normalize(normal)
	l := normalize(lightPos.Sub(pos))
	v := normalize(pos.Mul(-1))
	h := normalize(l.Add(v))

	out := color.Mul(ambient)
	nl := n.Dot(l)
	if nl <= 0 {
		return out
	}
	spec := math32.Pow(math32.Max(n.Dot(h), 0), shininess)
	lit := color.Mul(nl).Add(color.Mul(spec))
	return out.Add(mgl32.Vec3{lit[0] * lightColor[0], lit[1] * lightColor[1], lit[2] * lightColor[2]})
}

func vec4(c mgl32.Vec3, a float32) mgl32.Vec4 { return mgl32.Vec4{c[0], c[1], c[2], a} }
