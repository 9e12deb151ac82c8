package soft

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/shaders"
)

// shadowBias is the relative slack between a fragment's distance to the
// light and the occluder distance stored in the cube map.
const shadowBias = 0.04

var pointShadowUniforms = []string{"light_position_cam", "num_lights", "cube_shadowmap"}

func viewPositionVertex(in VertexIn, u Uniforms, out *Varyings) mgl32.Vec4 {
	out.SetVec3(slotPos, mulPoint(u.Mat4("mat_model_view"), in.Position).Vec3())
	return mulPoint(u.Mat4("mat_model_view_projection"), in.Position)
}

func occluded(cube *CubeTexture, dir mgl32.Vec3, dist float32) bool {
	stored := cube.Sample(dir)[0]
	return dist > stored*(1+shadowBias)
}

func init() {
	RegisterVertex(shaders.ShadowMapVert, VertexShader{
		Uniforms: []string{"mat_model_view_projection", "mat_model_view"},
		Varyings: slotPos + 3,
		Main:     viewPositionVertex,
	})
	// Distance from the capture origin, which is the light.
	RegisterFragment(shaders.ShadowMapFrag, FragmentShader{
		Main: func(in *FragmentIn, _ Uniforms) (mgl32.Vec4, bool) {
			d := in.Varyings.Vec3(slotPos).Len()
			return mgl32.Vec4{d, d, d, 1}, true
		},
	})

	RegisterVertex(shaders.ShadowsVert, VertexShader{
		Uniforms: []string{"mat_model_view_projection", "mat_model_view"},
		Varyings: slotPos + 3,
		Main:     viewPositionVertex,
	})
	RegisterFragment(shaders.ShadowsHardFrag, FragmentShader{
		Uniforms: pointShadowUniforms,
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			dir := in.Varyings.Vec3(slotPos).Sub(u.Vec3("light_position_cam"))
			var s float32
			if occluded(u.Cube("cube_shadowmap"), dir, dir.Len()) {
				s = 1
			}
			s /= math32.Max(u.Float("num_lights"), 1)
			return mgl32.Vec4{s, s, s, 1}, true
		},
	})
	RegisterFragment(shaders.ShadowsSoftFrag, FragmentShader{
		Uniforms: append([]string{"shadow_softness", "poissonDisk"}, pointShadowUniforms...),
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			dir := in.Varyings.Vec3(slotPos).Sub(u.Vec3("light_position_cam"))
			dist := dir.Len()
			n := normalize(dir)
			up := mgl32.Vec3{0, 0, 1}
			if math32.Abs(n[2]) > 0.999 {
				up = mgl32.Vec3{1, 0, 0}
			}
			t := normalize(up.Cross(n))
			b := n.Cross(t)

			cube := u.Cube("cube_shadowmap")
			softness := u.Float("shadow_softness")
			disk := u.Vec2s("poissonDisk")
			var hits float32
			for _, p := range disk {
				d := n.Add(t.Mul(p[0] * softness)).Add(b.Mul(p[1] * softness))
				if occluded(cube, d, dist) {
					hits++
				}
			}
			var s float32
			if len(disk) > 0 {
				s = hits / float32(len(disk))
			}
			s /= math32.Max(u.Float("num_lights"), 1)
			return mgl32.Vec4{s, s, s, 1}, true
		},
	})
}
