package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-pipeline/gpu"
)

func TestMaterialTags(t *testing.T) {
	bg := NewBackground()
	assert.True(t, bg.Tags.Has(TagEnvironment|TagNoBlinnPhong|TagNoShadow))
	assert.False(t, bg.Tags.Has(TagReflective))

	tr := NewTerrain()
	assert.True(t, tr.Tags.Has(TagTerrain))
	assert.True(t, tr.Tags.Has(TagNoBlinnPhong))
	assert.Equal(t, float32(30), tr.Terrain.WaterShininess)

	assert.True(t, NewReflective().Tags.Has(TagReflective))
	assert.True(t, NewFire().Tags.Has(TagFlame))
	assert.Equal(t, Tags(0), NewDiffuse().Tags)
	assert.Equal(t, "{environment,no_blinn_phong,no_shadow}", bg.Tags.String())
}

func TestMaterialDefaultsAndTexture(t *testing.T) {
	m := NewDiffuse()
	assert.Equal(t, mgl32.Vec3{1, 0, 1}, m.Color)
	assert.Equal(t, float32(0.1), m.Shininess)

	name, textured := m.TextureName("default")
	assert.Equal(t, "default", name)
	assert.False(t, textured)

	name, textured = m.WithTexture("pine.png").TextureName("default")
	assert.Equal(t, "pine.png", name)
	assert.True(t, textured)
}

func TestObjectViewHidesWithoutMutating(t *testing.T) {
	s := NewScene()
	a := NewObject("a", "cube", NewDiffuse())
	b := NewObject("b", "cube", NewReflective())
	c := NewObject("c", "cube", NewDiffuse())
	s.Add(a, b, c)

	v := s.View().Without(b)
	var got []*Object
	for o := range v.All() {
		got = append(got, o)
	}
	assert.Equal(t, []*Object{a, c}, got)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []*Object{a, b, c}, s.Objects)
	assert.Equal(t, 3, s.View().Len())

	v2 := v.Without(a)
	assert.Equal(t, 1, v2.Len())
	assert.Equal(t, 2, v.Len(), "deriving a view must not change its parent")
}

func TestActorsEvolve(t *testing.T) {
	s := NewScene()
	tree := NewObject("tree", "cube", NewDiffuse()).Scaled(mgl32.Vec3{0.1, 0.1, 0.1})
	fire := NewObject("fire", "cube", NewFire().WithColor(mgl32.Vec3{1, 0.5, 0}))
	light := &Light{Position: mgl32.Vec3{1, 2, 3}}
	s.Add(tree, fire)
	s.AddLight(light)
	s.AddActor("tree", NewGrowActor(tree, 0.1, 0.4))
	s.AddActor("fire", NewFlickerActor(fire, 0.5))
	s.AddActor("light", NewTrackLightActor(light, 1))
	s.AddActor("rock", &Actor{Kind: Static})

	ui := UIParams{LightHeights: []float32{7, 6}}

	s.Evolve(Frame{Time: 0.3, Dt: 1}, UIParams{Paused: true, LightHeights: ui.LightHeights})
	assert.Equal(t, float32(0.1), tree.Scale[0], "paused scenes do not evolve")
	assert.Equal(t, float32(3), light.Position[2])

	s.Evolve(Frame{Time: 0.3, Dt: 1}, ui)
	assert.InDelta(t, 0.2, tree.Scale[0], 1e-6)
	assert.Equal(t, float32(6), light.Position[2])
	for i := 0; i < 3; i++ {
		assert.GreaterOrEqual(t, fire.Material.Color[i], mgl32.Vec3{1, 0.5, 0}[i]*0.5-1e-6)
		assert.LessOrEqual(t, fire.Material.Color[i], mgl32.Vec3{1, 0.5, 0}[i]+1e-6)
	}

	for i := 0; i < 10; i++ {
		s.Evolve(Frame{Dt: 1}, ui)
	}
	assert.Equal(t, float32(0.4), tree.Scale[2], "growth stops at the limit")
}

func TestTrackLightIgnoresMissingHeight(t *testing.T) {
	l := &Light{Position: mgl32.Vec3{0, 0, 5}}
	s := NewScene()
	s.AddActor("l", NewTrackLightActor(l, 3))
	s.Evolve(Frame{Dt: 0.1}, UIParams{LightHeights: []float32{1}})
	assert.Equal(t, float32(5), l.Position[2])
}

func requireOutwardWinding(t *testing.T, m *gpu.MeshData) {
	t.Helper()
	require.NoError(t, m.Validate())
	for i, f := range m.Faces {
		a, b, c := m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
		geo := b.Sub(a).Cross(c.Sub(a))
		if geo.Len() < 1e-6 {
			continue
		}
		n := m.Normals[f[0]].Add(m.Normals[f[1]]).Add(m.Normals[f[2]])
		require.Greater(t, geo.Dot(n), float32(0), "face %d winds inward", i)
	}
}

func TestPrimitivesWindOutward(t *testing.T) {
	requireOutwardWinding(t, CubeMesh())
	requireOutwardWinding(t, QuadMesh())
	requireOutwardWinding(t, UVSphereMesh(16))

	cube := CubeMesh()
	assert.Len(t, cube.Positions, 24)
	assert.Len(t, cube.Faces, 12)
}

func TestBuildTerrainMesh(t *testing.T) {
	hm := NewHeightMap(4, 3)
	for i := range hm.Data {
		hm.Data[i] = 0.5
	}
	hm.Set(1, 1, 0.9)
	hm.Set(3, 2, 0.1)

	m, err := BuildTerrainMesh(hm, -0.03125)
	require.NoError(t, err)
	assert.Len(t, m.Positions, 12)
	assert.Len(t, m.Faces, 2*3*2)
	require.NoError(t, m.Validate())
	for _, f := range m.Faces {
		a, b, c := m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
		assert.Greater(t, b.Sub(a).Cross(c.Sub(a))[2], float32(0), "faces wind counter-clockwise seen from above")
	}

	peak := m.Positions[1+1*4]
	assert.InDelta(t, 0.4, peak[2], 1e-6)
	assert.InDelta(t, 1.0/4-0.5, peak[0], 1e-6)
	assert.InDelta(t, 1.0/3-0.5, peak[1], 1e-6)

	sunk := 3 + 2*4
	assert.Equal(t, float32(-0.03125), m.Positions[sunk][2], "clamped to water level")
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, m.Normals[sunk])

	left := m.Normals[0+1*4]
	assert.Less(t, left[0], float32(0), "slope rising toward +x tilts the normal to -x")

	_, err = BuildTerrainMesh(&HeightMap{Width: 1, Height: 1, Data: []float32{0}}, 0)
	assert.Error(t, err)
}
