package soft

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/shaders"
)

// Varying slots of the lit object stages.
const (
	slotPos    = 0 // view-space position, 3
	slotNormal = 3 // view-space normal, 3
	slotUV     = 6 // texture coordinates, 2
	slotHeight = 8 // object-space elevation, 1
)

var litVertexUniforms = []string{"mat_model_view_projection", "mat_model_view", "mat_normals_model_view"}

func litVertex(in VertexIn, u Uniforms, out *Varyings) mgl32.Vec4 {
	mv := u.Mat4("mat_model_view")
	nmv := u.Mat3("mat_normals_model_view")
	out.SetVec3(slotPos, mulPoint(mv, in.Position).Vec3())
	out.SetVec3(slotNormal, nmv.Mul3x1(in.Normal))
	out.SetVec2(slotUV, in.TexCoord)
	out[slotHeight] = in.Position[2]
	return mulPoint(u.Mat4("mat_model_view_projection"), in.Position)
}

func materialColor(in *FragmentIn, u Uniforms) mgl32.Vec3 {
	if u.Bool("is_textured") {
		return u.Sampler("material_texture").Sample(in.Varyings.Vec2(slotUV)).Vec3()
	}
	return u.Vec3("material_base_color")
}

func init() {
	RegisterVertex(shaders.PreProcessingVert, VertexShader{
		Uniforms: []string{"mat_model_view_projection"},
		Main: func(in VertexIn, u Uniforms, _ *Varyings) mgl32.Vec4 {
			return mulPoint(u.Mat4("mat_model_view_projection"), in.Position)
		},
	})
	RegisterFragment(shaders.PreProcessingFrag, FragmentShader{
		Main: func(*FragmentIn, Uniforms) (mgl32.Vec4, bool) {
			return mgl32.Vec4{0, 0, 0, 1}, true
		},
	})

	RegisterVertex(shaders.FlatColorVert, VertexShader{
		Uniforms: []string{"mat_model_view_projection"},
		Varyings: slotUV + 2,
		Main: func(in VertexIn, u Uniforms, out *Varyings) mgl32.Vec4 {
			out.SetVec2(slotUV, in.TexCoord)
			return mulPoint(u.Mat4("mat_model_view_projection"), in.Position)
		},
	})
	RegisterFragment(shaders.FlatColorFrag, FragmentShader{
		Uniforms: []string{"material_texture", "is_textured", "material_base_color"},
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			return vec4(materialColor(in, u), 1), true
		},
	})

	RegisterVertex(shaders.BlinnPhongVert, VertexShader{
		Uniforms: litVertexUniforms,
		Varyings: slotUV + 2,
		Main:     litVertex,
	})
	RegisterFragment(shaders.BlinnPhongFrag, FragmentShader{
		Uniforms: []string{
			"light_position", "light_color", "ambient_factor",
			"material_texture", "is_textured", "material_base_color", "material_shininess",
		},
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			c := blinnPhong(
				in.Varyings.Vec3(slotPos), in.Varyings.Vec3(slotNormal),
				u.Vec3("light_position"), u.Vec3("light_color"),
				materialColor(in, u), u.Float("material_shininess"), u.Float("ambient_factor"),
			)
			return vec4(c, 1), true
		},
	})

	RegisterVertex(shaders.TerrainVert, VertexShader{
		Uniforms: litVertexUniforms,
		Varyings: slotHeight + 1,
		Main:     litVertex,
	})
	RegisterFragment(shaders.TerrainFrag, FragmentShader{
		Uniforms: []string{
			"light_position", "light_color", "ambient_factor", "water_level",
			"water_color", "water_shininess", "grass_color", "grass_shininess",
			"peak_color", "peak_shininess",
		},
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			height := in.Varyings[slotHeight]
			color, shininess := terrainMaterial(height, u)
			c := blinnPhong(
				in.Varyings.Vec3(slotPos), in.Varyings.Vec3(slotNormal),
				u.Vec3("light_position"), u.Vec3("light_color"),
				color, shininess, u.Float("ambient_factor"),
			)
			return vec4(c, 1), true
		},
	})

	RegisterVertex(shaders.MirrorVert, VertexShader{
		Uniforms: litVertexUniforms,
		Varyings: slotNormal + 3,
		Main:     litVertex,
	})
	RegisterFragment(shaders.MirrorFrag, FragmentShader{
		Uniforms: []string{"cube_env_map"},
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			view := normalize(in.Varyings.Vec3(slotPos))
			r := reflect(view, normalize(in.Varyings.Vec3(slotNormal)))
			return vec4(u.Cube("cube_env_map").Sample(r).Vec3(), 1), true
		},
	})

	RegisterVertex(shaders.NormalsVert, VertexShader{
		Uniforms: []string{"mat_model_view_projection", "mat_normals_model_view"},
		Varyings: slotNormal + 3,
		Main: func(in VertexIn, u Uniforms, out *Varyings) mgl32.Vec4 {
			out.SetVec3(slotNormal, u.Mat3("mat_normals_model_view").Mul3x1(in.Normal))
			return mulPoint(u.Mat4("mat_model_view_projection"), in.Position)
		},
	})
	RegisterFragment(shaders.NormalsFrag, FragmentShader{
		Main: func(in *FragmentIn, _ Uniforms) (mgl32.Vec4, bool) {
			return vec4(normalize(in.Varyings.Vec3(slotNormal)), 1), true
		},
	})

	RegisterVertex(shaders.PositionsVert, VertexShader{
		Uniforms: []string{"mat_model_view_projection", "mat_model_view"},
		Varyings: slotPos + 3,
		Main: func(in VertexIn, u Uniforms, out *Varyings) mgl32.Vec4 {
			out.SetVec3(slotPos, mulPoint(u.Mat4("mat_model_view"), in.Position).Vec3())
			return mulPoint(u.Mat4("mat_model_view_projection"), in.Position)
		},
	})
	RegisterFragment(shaders.PositionsFrag, FragmentShader{
		Main: func(in *FragmentIn, _ Uniforms) (mgl32.Vec4, bool) {
			return vec4(in.Varyings.Vec3(slotPos), 1), true
		},
	})
}

// terrainMaterial picks water below the water level and blends grass into
// peak color with elevation above it.
func terrainMaterial(height float32, u Uniforms) (mgl32.Vec3, float32) {
	water := u.Float("water_level")
	if height <= water+0.001 {
		return u.Vec3("water_color"), u.Float("water_shininess")
	}
	w := clamp((height-water)*2, 0, 1)
	color := mix3(u.Vec3("grass_color"), u.Vec3("peak_color"), w)
	return color, mix(u.Float("grass_shininess"), u.Float("peak_shininess"), w)
}
