package gpu

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDesc() PipelineDesc {
	return PipelineDesc{
		Name:       "p",
		Vertex:     ShaderSource{Name: "a.vert"},
		Fragment:   ShaderSource{Name: "a.frag"},
		Attributes: []string{AttrPositions},
		Uniforms:   Bind("u"),
	}
}

func TestPipelineDescValidate(t *testing.T) {
	d := validDesc()
	require.NoError(t, d.Validate())

	cases := map[string]func(*PipelineDesc){
		"no uniforms":   func(d *PipelineDesc) { d.Uniforms = nil },
		"no attributes": func(d *PipelineDesc) { d.Attributes = nil },
		"no fragment":   func(d *PipelineDesc) { d.Fragment = ShaderSource{} },
		"duplicate":     func(d *PipelineDesc) { d.Uniforms = Bind("u", "u") },
		"empty prop":    func(d *PipelineDesc) { d.Uniforms = []UniformBinding{{Name: "u"}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := validDesc()
			mutate(&d)
			assert.ErrorIs(t, d.Validate(), ErrInvalidPipeline)
		})
	}
}

func TestResolve(t *testing.T) {
	bindings := []UniformBinding{{Name: "u_color", Prop: "color"}}

	vals, err := Resolve(bindings, Props{"color": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"u_color": 3}, vals)

	_, err = Resolve(bindings, Props{"other": 1})
	assert.ErrorIs(t, err, ErrMissingProp)

	_, err = Props{}.Mesh()
	assert.ErrorIs(t, err, ErrMissingProp)
}

func TestPixelBufferImageIsTopDown(t *testing.T) {
	p := NewPixelBuffer(1, 2)
	p.Set(0, 0, mgl32.Vec4{1, 0, 0, 1})
	p.Set(0, 1, mgl32.Vec4{0, 0, 2, 1})

	img := p.Image()
	assert.Equal(t, uint8(255), img.RGBAAt(0, 1).R)
	assert.Equal(t, uint8(255), img.RGBAAt(0, 0).B)
	assert.Equal(t, mgl32.Vec4{0, 0, 2, 1}, p.At(5, 5))
	assert.Equal(t, 1, p.CountIf(func(c mgl32.Vec4) bool { return c[0] == 1 }))
}

func TestTextureDescValidate(t *testing.T) {
	d := SolidTexture("t", 2, 3, 1, 1, 1, 1)
	require.NoError(t, d.Validate())
	assert.Len(t, d.Data, 24)

	d.Data = d.Data[:4]
	assert.Error(t, d.Validate())
	d.Width = 0
	assert.Error(t, d.Validate())
}

func TestMeshDataValidate(t *testing.T) {
	m := &MeshData{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:     [][3]uint32{{0, 1, 2}},
	}
	require.NoError(t, m.Validate())
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, m.Normal(1))
	assert.Equal(t, mgl32.Vec2{}, m.TexCoord(1))

	m.Faces = append(m.Faces, [3]uint32{0, 1, 3})
	assert.Error(t, m.Validate())

	m.Faces = m.Faces[:1]
	m.Normals = []mgl32.Vec3{{0, 0, 1}}
	assert.Error(t, m.Validate())

	assert.Error(t, (&MeshData{}).Validate())
}

func TestCompareFunc(t *testing.T) {
	assert.True(t, CompareLessEqual.Test(0.5, 0.5))
	assert.False(t, CompareLess.Test(0.5, 0.5))
	assert.True(t, CompareAlways.Test(2, 1))
	assert.False(t, CompareNever.Test(0, 1))
	assert.Equal(t, "<=", CompareLessEqual.String())
}
