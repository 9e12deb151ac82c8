package soft

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/shaders"
)

const (
	ssaoRadius = 0.5
	ssaoBias   = 0.025
)

func luma(c mgl32.Vec3) float32 {
	return c.Dot(mgl32.Vec3{0.2126, 0.7152, 0.0722})
}

func init() {
	RegisterVertex(shaders.TexCoordsVert, VertexShader{
		Varyings: slotUV + 2,
		Main: func(in VertexIn, _ Uniforms, out *Varyings) mgl32.Vec4 {
			out.SetVec2(slotUV, mgl32.Vec2{in.Position[0]*0.5 + 0.5, in.Position[1]*0.5 + 0.5})
			return mgl32.Vec4{in.Position[0], in.Position[1], 0, 1}
		},
	})

	RegisterVertex(shaders.CubemapPreviewVert, VertexShader{
		Uniforms: []string{"preview_rect_scale", "preview_origin"},
		Varyings: slotUV + 2,
		Main: func(in VertexIn, u Uniforms, out *Varyings) mgl32.Vec4 {
			grid := mgl32.Vec2{(in.Position[0]*0.5 + 0.5) * 3, (in.Position[1]*0.5 + 0.5) * 2}
			out.SetVec2(slotUV, grid)
			scale, origin := u.Vec2("preview_rect_scale"), u.Vec2("preview_origin")
			return mgl32.Vec4{origin[0] + grid[0]*scale[0], origin[1] + grid[1]*scale[1], 0, 1}
		},
	})
	RegisterFragment(shaders.CubemapPreviewFrag, FragmentShader{
		Uniforms: []string{"cubemap_to_show", "cubemap_annotation", "color_factor"},
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			grid := in.Varyings.Vec2(slotUV)
			cx := math32.Min(math32.Floor(grid[0]), 2)
			cy := math32.Min(math32.Floor(grid[1]), 1)
			face := int(cy)*3 + int(cx)
			dir := previewDirection(face, (grid[0]-cx)*2-1, (grid[1]-cy)*2-1)
			env := u.Cube("cubemap_to_show").Sample(dir).Vec3().Mul(u.Float("color_factor"))
			note := u.Cube("cubemap_annotation").Sample(dir)
			return vec4(mix3(env, note.Vec3(), note[3]), 1), true
		},
	})

	RegisterFragment(shaders.BufferToScreenFrag, FragmentShader{
		Uniforms: []string{"buffer_to_draw"},
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			return vec4(u.Sampler("buffer_to_draw").Sample(in.Varyings.Vec2(slotUV)).Vec3(), 1), true
		},
	})

	RegisterFragment(shaders.MapMixerFrag, FragmentShader{
		Uniforms: []string{
			"canvas_width", "canvas_height", "blinn_phong", "shadows",
			"ssao", "use_ssao", "shadow_strength",
		},
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			uv := mgl32.Vec2{
				in.FragCoord[0] / u.Float("canvas_width"),
				in.FragCoord[1] / u.Float("canvas_height"),
			}
			base := u.Sampler("blinn_phong").Sample(uv).Vec3()
			shadow := clamp(u.Sampler("shadows").Sample(uv)[0], 0, 1)
			color := base.Mul(1 - u.Float("shadow_strength")*shadow)
			if u.Bool("use_ssao") {
				color = color.Mul(u.Sampler("ssao").Sample(uv)[0])
			}
			return vec4(color, 1), true
		},
	})

	RegisterFragment(shaders.SSAOFrag, FragmentShader{
		Uniforms: []string{"mat_projection", "kernel", "noise_tex", "noise_scale", "positions_tex", "normals_tex"},
		Main:     ssao,
	})

	RegisterFragment(shaders.SSAOBlurFrag, FragmentShader{
		Uniforms: []string{"ssao_tex", "ssao_tex_size"},
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			size := u.Vec2("ssao_tex_size")
			tex := u.Sampler("ssao_tex")
			uv := in.Varyings.Vec2(slotUV)
			var sum float32
			for x := -2; x < 2; x++ {
				for y := -2; y < 2; y++ {
					off := mgl32.Vec2{float32(x) / size[0], float32(y) / size[1]}
					sum += tex.Sample(uv.Add(off))[0]
				}
			}
			ao := sum / 16
			return mgl32.Vec4{ao, ao, ao, 1}, true
		},
	})

	RegisterFragment(shaders.BloomFrag, FragmentShader{
		Uniforms: []string{"u_sceneTexture", "u_texture_size", "u_threshold", "u_bloom_intensity"},
		Main: func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			tex := u.Sampler("u_sceneTexture")
			step := u.Vec2("u_texture_size")
			threshold := u.Float("u_threshold")
			uv := in.Varyings.Vec2(slotUV)

			var glow mgl32.Vec3
			var total float32
			for x := -2; x <= 2; x++ {
				for y := -2; y <= 2; y++ {
					w := math32.Exp(-float32(x*x+y*y) / 4)
					c := tex.Sample(uv.Add(mgl32.Vec2{float32(x) * step[0], float32(y) * step[1]})).Vec3()
					if luma(c) > threshold {
						glow = glow.Add(c.Mul(w))
					}
					total += w
				}
			}
			color := tex.Sample(uv).Vec3().Add(glow.Mul(u.Float("u_bloom_intensity") / total))
			return vec4(color, 1), true
		},
	})
}

func ssao(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
	uv := in.Varyings.Vec2(slotUV)
	positions := u.Sampler("positions_tex")
	p := positions.Sample(uv)
	if p[3] == 0 {
		return mgl32.Vec4{1, 1, 1, 1}, true
	}
	pos := p.Vec3()
	normal := normalize(u.Sampler("normals_tex").Sample(uv).Vec3())

	scale := u.Vec2("noise_scale")
	rnd := u.Sampler("noise_tex").Sample(mgl32.Vec2{uv[0] * scale[0], uv[1] * scale[1]}).Vec3()
	tangent := rnd.Sub(normal.Mul(rnd.Dot(normal)))
	if tangent.Len() < 1e-4 {
		tangent = mgl32.Vec3{1, 0, 0}.Sub(normal.Mul(normal[0]))
	}
	tangent = normalize(tangent)
	bitangent := normal.Cross(tangent)

	proj := u.Mat4("mat_projection")
	kernel := u.Vec3s("kernel")
	var occlusion float32
	for _, k := range kernel {
		s := tangent.Mul(k[0]).Add(bitangent.Mul(k[1])).Add(normal.Mul(k[2]))
		sp := pos.Add(s.Mul(ssaoRadius))
		clip := mulPoint(proj, sp)
		if clip[3] <= 0 {
			continue
		}
		suv := mgl32.Vec2{clip[0]/clip[3]*0.5 + 0.5, clip[1]/clip[3]*0.5 + 0.5}
		sample := positions.Sample(suv)
		if sample[3] == 0 {
			continue
		}
		rangeCheck := smoothstep(0, 1, ssaoRadius/math32.Max(math32.Abs(pos[2]-sample[2]), 1e-6))
		if sample[2] >= sp[2]+ssaoBias {
			occlusion += rangeCheck
		}
	}
	ao := float32(1)
	if len(kernel) > 0 {
		ao = 1 - occlusion/float32(len(kernel))
	}
	return mgl32.Vec4{ao, ao, ao, 1}, true
}

// previewDirection maps face coordinates (s, y) in [-1, 1]², y up on
// screen, to a cube direction. Faces are +X, -X, +Y, -Y, +Z, -Z.
func previewDirection(face int, s, y float32) mgl32.Vec3 {
	t := -y
	switch face {
	case 0:
		return mgl32.Vec3{1, -t, -s}
	case 1:
		return mgl32.Vec3{-1, -t, s}
	case 2:
		return mgl32.Vec3{s, 1, t}
	case 3:
		return mgl32.Vec3{s, -1, -t}
	case 4:
		return mgl32.Vec3{s, -t, 1}
	}
	return mgl32.Vec3{-s, -t, -1}
}
