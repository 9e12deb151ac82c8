package soft

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-pipeline/gpu"
)

const (
	testVert = "test.vert"
	testFrag = "test.frag"
)

// The test kernels pass clip-space positions straight through and paint
// the "color" uniform.
func init() {
	RegisterVertex(testVert, VertexShader{
		Main: func(in VertexIn, _ Uniforms, _ *Varyings) mgl32.Vec4 {
			return in.Position.Vec4(1)
		},
	})
	RegisterFragment(testFrag, FragmentShader{
		Uniforms: []string{"color"},
		Main: func(_ *FragmentIn, u Uniforms) (mgl32.Vec4, bool) {
			return u.Vec4("color"), true
		},
	})
}

func testPipeline(t *testing.T, b *Backend, mutate func(*gpu.PipelineDesc)) gpu.Pipeline {
	t.Helper()
	desc := gpu.PipelineDesc{
		Name:       "test",
		Vertex:     gpu.ShaderSource{Name: testVert},
		Fragment:   gpu.ShaderSource{Name: testFrag},
		Attributes: []string{gpu.AttrPositions},
		Uniforms:   gpu.Bind("color"),
	}
	if mutate != nil {
		mutate(&desc)
	}
	p, err := b.CreatePipeline(desc)
	require.NoError(t, err)
	return p
}

func fullQuad(t *testing.T, b *Backend, z float32) gpu.Mesh {
	t.Helper()
	m, err := b.CreateMesh(&gpu.MeshData{
		Positions: []mgl32.Vec3{{-1, -1, z}, {1, -1, z}, {1, 1, z}, {-1, 1, z}},
		Faces:     [][3]uint32{{0, 1, 2}, {0, 2, 3}},
	})
	require.NoError(t, err)
	return m
}

func TestAdditiveQuadCoversEachPixelOnce(t *testing.T) {
	b, err := NewBackend(7, 5)
	require.NoError(t, err)
	p := testPipeline(t, b, func(d *gpu.PipelineDesc) {
		d.Blend = gpu.Additive()
	})

	require.NoError(t, b.Clear(gpu.ClearAll(mgl32.Vec4{}, 1)))
	quad := fullQuad(t, b, 0)
	require.NoError(t, p.Draw(gpu.Props{gpu.PropMesh: quad, "color": mgl32.Vec4{0.25, 0, 0, 0}}))

	px, err := b.ReadPixels(b.Screen())
	require.NoError(t, err)
	assert.Equal(t, 7*5, px.CountIf(func(c mgl32.Vec4) bool { return c[0] == 0.25 }))
	assert.Equal(t, 1, b.DrawCount("test"))
}

func TestDepthTest(t *testing.T) {
	b, err := NewBackend(4, 4)
	require.NoError(t, err)
	p := testPipeline(t, b, func(d *gpu.PipelineDesc) {
		d.Depth = gpu.DefaultDepth()
	})
	require.NoError(t, b.Clear(gpu.ClearAll(mgl32.Vec4{}, 1)))

	red := mgl32.Vec4{1, 0, 0, 1}
	blue := mgl32.Vec4{0, 0, 1, 1}
	require.NoError(t, p.Draw(
		gpu.Props{gpu.PropMesh: fullQuad(t, b, -0.5), "color": red},
		gpu.Props{gpu.PropMesh: fullQuad(t, b, 0.5), "color": blue},
	))
	px, err := b.ReadPixels(b.Screen())
	require.NoError(t, err)
	assert.Equal(t, red, px.At(2, 2))
}

func TestBackFaceCulling(t *testing.T) {
	b, err := NewBackend(4, 4)
	require.NoError(t, err)
	p := testPipeline(t, b, func(d *gpu.PipelineDesc) {
		d.Cull = gpu.CullState{Enable: true, Face: gpu.FaceBack}
	})
	require.NoError(t, b.Clear(gpu.ClearAll(mgl32.Vec4{}, 1)))

	cw, err := b.CreateMesh(&gpu.MeshData{
		Positions: []mgl32.Vec3{{-1, -1, 0}, {-1, 1, 0}, {1, 1, 0}, {1, -1, 0}},
		Faces:     [][3]uint32{{0, 1, 2}, {0, 2, 3}},
	})
	require.NoError(t, err)
	require.NoError(t, p.Draw(gpu.Props{gpu.PropMesh: cw, "color": mgl32.Vec4{1, 1, 1, 1}}))

	px, err := b.ReadPixels(b.Screen())
	require.NoError(t, err)
	assert.Zero(t, px.CountIf(func(c mgl32.Vec4) bool { return c[0] > 0 }))
}

func TestNearClipping(t *testing.T) {
	assert.Empty(t, clipNear([]clipVertex{
		{pos: mgl32.Vec4{0, 0, -2, 1}},
		{pos: mgl32.Vec4{1, 0, -2, 1}},
		{pos: mgl32.Vec4{0, 1, -2, 1}},
	}, 0))

	poly := clipNear([]clipVertex{
		{pos: mgl32.Vec4{0, 0, -2, 1}},
		{pos: mgl32.Vec4{1, 0, 0, 1}},
		{pos: mgl32.Vec4{0, 1, 0, 1}},
	}, 0)
	require.Len(t, poly, 4)
	for _, v := range poly {
		assert.GreaterOrEqual(t, v.pos[2]+v.pos[3], float32(-1e-6))
	}
}

func TestCreatePipelineErrors(t *testing.T) {
	b, err := NewBackend(2, 2)
	require.NoError(t, err)

	_, err = b.CreatePipeline(gpu.PipelineDesc{
		Name:       "unknown",
		Vertex:     gpu.ShaderSource{Name: "nope.vert"},
		Fragment:   gpu.ShaderSource{Name: testFrag},
		Attributes: []string{gpu.AttrPositions},
		Uniforms:   gpu.Bind("color"),
	})
	assert.ErrorIs(t, err, gpu.ErrInvalidPipeline)

	_, err = b.CreatePipeline(gpu.PipelineDesc{
		Name:       "unbound",
		Vertex:     gpu.ShaderSource{Name: testVert},
		Fragment:   gpu.ShaderSource{Name: testFrag},
		Attributes: []string{gpu.AttrPositions},
		Uniforms:   gpu.Bind("other"),
	})
	assert.ErrorIs(t, err, gpu.ErrInvalidPipeline)
}

func TestDrawMissingProp(t *testing.T) {
	b, err := NewBackend(2, 2)
	require.NoError(t, err)
	p := testPipeline(t, b, nil)

	err = p.Draw(gpu.Props{gpu.PropMesh: fullQuad(t, b, 0)})
	assert.ErrorIs(t, err, gpu.ErrMissingProp)
	err = p.Draw(gpu.Props{"color": mgl32.Vec4{}})
	assert.ErrorIs(t, err, gpu.ErrMissingProp)
}

func TestUseRestoresBinding(t *testing.T) {
	b, err := NewBackend(2, 2)
	require.NoError(t, err)
	rt, err := b.CreateRenderTarget(3, 3)
	require.NoError(t, err)

	white := mgl32.Vec4{1, 1, 1, 1}
	require.NoError(t, b.Use(rt, func() error {
		return b.Clear(gpu.ClearColorOnly(white))
	}))
	require.NoError(t, b.Clear(gpu.ClearColorOnly(mgl32.Vec4{0, 0, 0, 1})))

	px, err := b.ReadPixels(rt)
	require.NoError(t, err)
	assert.Equal(t, white, px.At(1, 1))
	screen, err := b.ReadPixels(b.Screen())
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, screen.At(0, 0))

	assert.Error(t, rt.Resize(0, 3))
}

func TestCubeFaceCoords(t *testing.T) {
	cases := []struct {
		dir  mgl32.Vec3
		face int
	}{
		{mgl32.Vec3{1, 0, 0}, 0},
		{mgl32.Vec3{-1, 0, 0}, 1},
		{mgl32.Vec3{0, 1, 0}, 2},
		{mgl32.Vec3{0, -1, 0}, 3},
		{mgl32.Vec3{0, 0, 1}, 4},
		{mgl32.Vec3{0, 0, -1}, 5},
	}
	for _, c := range cases {
		face, s, tc := cubeFaceCoords(c.dir)
		assert.Equal(t, c.face, face, "%v", c.dir)
		assert.InDelta(t, 0.5, s, 1e-6)
		assert.InDelta(t, 0.5, tc, 1e-6)
	}

	// +X face: s grows toward -Z, t toward -Y.
	_, s, tc := cubeFaceCoords(mgl32.Vec3{1, -0.5, -0.5})
	assert.InDelta(t, 0.75, s, 1e-6)
	assert.InDelta(t, 0.75, tc, 1e-6)
}

func TestTextureSampling(t *testing.T) {
	b, err := NewBackend(2, 2)
	require.NoError(t, err)

	desc := gpu.TextureDesc{
		Name: "checker", Width: 2, Height: 1,
		Data:   []float32{1, 0, 0, 1, 0, 1, 0, 1},
		Wrap:   gpu.WrapRepeat,
		Filter: gpu.FilterNearest,
	}
	tex, err := b.CreateTexture(desc)
	require.NoError(t, err)
	st := tex.(*Texture)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, st.Sample(mgl32.Vec2{0.25, 0.5}))
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, st.Sample(mgl32.Vec2{1.75, 0.5}))

	desc.Filter = gpu.FilterLinear
	desc.Wrap = gpu.WrapClamp
	tex, err = b.CreateTexture(desc)
	require.NoError(t, err)
	mid := tex.(*Texture).Sample(mgl32.Vec2{0.5, 0.5})
	assert.InDelta(t, 0.5, mid[0], 1e-6)
	assert.InDelta(t, 0.5, mid[1], 1e-6)
}

func TestNoiseKernels(t *testing.T) {
	// Perlin noise vanishes on lattice points.
	assert.Zero(t, perlin(mgl32.Vec2{3, 7}))
	for name, fn := range noiseFunctions {
		c := fn(mgl32.Vec2{0.3, 0.7})
		for _, ch := range c {
			assert.False(t, math32.IsNaN(ch), "%s returned NaN", name)
		}
	}
}
