package soft

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/shaders"
)

const (
	fbmFreqMultiplier = 2.17
	fbmAmplMultiplier = 0.5
	fbmOctaves        = 4
)

var gradients = [12]mgl32.Vec2{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {1, 0}, {-1, 0},
	{0, 1}, {0, -1}, {0, 1}, {0, -1},
}

func hashPoly(x float32) float32 { return mod((x*34+1)*x, 289) }

func gradient(cell mgl32.Vec2) mgl32.Vec2 {
	h := hashPoly(hashPoly(cell[0]) + cell[1])
	return gradients[int(mod(h, 12))%12]
}

func blendWeight(t float32) float32 { return t * t * t * (t*(t*6-15) + 10) }

func perlin(p mgl32.Vec2) float32 {
	c := mgl32.Vec2{math32.Floor(p[0]), math32.Floor(p[1])}
	f := p.Sub(c)
	s := gradient(c).Dot(f)
	t := gradient(c.Add(mgl32.Vec2{1, 0})).Dot(f.Sub(mgl32.Vec2{1, 0}))
	uu := gradient(c.Add(mgl32.Vec2{0, 1})).Dot(f.Sub(mgl32.Vec2{0, 1}))
	v := gradient(c.Add(mgl32.Vec2{1, 1})).Dot(f.Sub(mgl32.Vec2{1, 1}))
	fx, fy := blendWeight(f[0]), blendWeight(f[1])
	return mix(mix(s, t, fx), mix(uu, v, fx), fy)
}

func fbm(p mgl32.Vec2) float32 {
	var sum float32
	freq, ampl := float32(1), float32(1)
	for i := 0; i < fbmOctaves; i++ {
		sum += ampl * perlin(p.Mul(freq))
		freq *= fbmFreqMultiplier
		ampl *= fbmAmplMultiplier
	}
	return sum
}

func turbulence(p mgl32.Vec2) float32 {
	var sum float32
	freq, ampl := float32(1), float32(1)
	for i := 0; i < fbmOctaves; i++ {
		sum += ampl * math32.Abs(perlin(p.Mul(freq)))
		freq *= fbmFreqMultiplier
		ampl *= fbmAmplMultiplier
	}
	return sum
}

var (
	terrainWater    = mgl32.Vec3{0.29, 0.51, 0.62}
	terrainGrass    = mgl32.Vec3{0.43, 0.53, 0.23}
	terrainMountain = mgl32.Vec3{0.8, 0.5, 0.4}
	woodLight       = mgl32.Vec3{0.7, 0.5, 0.3}
	woodDark        = mgl32.Vec3{0.4, 0.3, 0.2}
)

const mapWaterLevel = -0.075

func gray(v float32) mgl32.Vec3 { return mgl32.Vec3{v, v, v} }

var noiseFunctions = map[string]func(p mgl32.Vec2) mgl32.Vec3{
	"plots": func(p mgl32.Vec2) mgl32.Vec3 {
		n := perlin(mgl32.Vec2{p[0], 0})
		if math32.Abs(p[1]-n) < 0.02 {
			return gray(1)
		}
		return gray(0.1)
	},
	"tex_perlin": func(p mgl32.Vec2) mgl32.Vec3 {
		return gray(perlin(p)*0.5 + 0.5)
	},
	"tex_fbm": func(p mgl32.Vec2) mgl32.Vec3 {
		return gray(fbm(p)*0.5 + 0.5)
	},
	"tex_turbulence": func(p mgl32.Vec2) mgl32.Vec3 {
		return gray(turbulence(p))
	},
	"tex_map": func(p mgl32.Vec2) mgl32.Vec3 {
		s := fbm(p)
		if s < mapWaterLevel {
			return terrainWater
		}
		return mix3(terrainGrass, terrainMountain, clamp((s-mapWaterLevel)*2, 0, 1))
	},
	"tex_wood": func(p mgl32.Vec2) mgl32.Vec3 {
		alpha := 0.5 * (1 + math32.Sin(100*(p.Len()+0.15*turbulence(p))))
		return mix3(woodDark, woodLight, alpha)
	},
	"tex_fbm_for_terrain": func(p mgl32.Vec2) mgl32.Vec3 {
		return gray(fbm(p)*0.5 + 0.5)
	},
}

func init() {
	RegisterVertex(shaders.NoiseVert, VertexShader{
		Uniforms: []string{"viewer_position", "viewer_scale"},
		Varyings: slotUV + 2,
		Main: func(in VertexIn, u Uniforms, out *Varyings) mgl32.Vec4 {
			xy := mgl32.Vec2{in.Position[0], in.Position[1]}
			out.SetVec2(slotUV, u.Vec2("viewer_position").Add(xy.Mul(u.Float("viewer_scale"))))
			return mgl32.Vec4{xy[0], xy[1], 0, 1}
		},
	})
	for _, name := range shaders.NoiseFunctions {
		fn := noiseFunctions[name]
		RegisterFragment(shaders.NoiseFrag+":"+name, FragmentShader{
			Main: func(in *FragmentIn, _ Uniforms) (mgl32.Vec4, bool) {
				return vec4(fn(in.Varyings.Vec2(slotUV)), 1), true
			},
		})
	}
}
