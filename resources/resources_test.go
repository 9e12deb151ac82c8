package resources

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-pipeline/gpu"
	"render-pipeline/gpu/soft"
	"render-pipeline/scene"
	"render-pipeline/shaders"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	b, err := soft.NewBackend(8, 8)
	require.NoError(t, err)
	m, err := NewManager(b, nil)
	require.NoError(t, err)
	t.Cleanup(m.Destroy)
	return m
}

func TestMissingResourcesFail(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Mesh("nope")
	assert.ErrorIs(t, err, ErrMissingResource)
	_, err = m.MeshData("")
	assert.ErrorIs(t, err, ErrMissingResource)
	_, err = m.Texture("tex_nope")
	assert.ErrorIs(t, err, ErrMissingResource)
	_, err = m.HeightMap("terrain")
	assert.ErrorIs(t, err, ErrMissingResource)
	_, err = m.Shader("nope.frag.glsl")
	assert.ErrorIs(t, err, ErrMissingResource)
	_, err = m.Shader("")
	assert.ErrorIs(t, err, ErrMissingResource)
}

func TestBuiltins(t *testing.T) {
	m := newTestManager(t)

	for _, name := range []string{MeshQuad, MeshCube, MeshSphere} {
		mesh, err := m.Mesh(name)
		require.NoError(t, err, name)
		assert.Positive(t, mesh.IndexCount(), name)
	}

	src, err := m.Shader(shaders.BlinnPhongFrag)
	require.NoError(t, err)
	assert.Equal(t, shaders.BlinnPhongFrag, src.Name)
	assert.Contains(t, src.Source, "#version")

	require.NotNil(t, m.DefaultTexture())
	white := m.DefaultTexture().(*soft.Texture).Sample(mgl32.Vec2{0.5, 0.5})
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, white)

	tex, err := m.Texture("tex_water")
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	assert.InDelta(t, 0.51, tex.(*soft.Texture).Sample(mgl32.Vec2{0.25, 0.75})[1], 1e-6)
}

func TestCustomShaderFS(t *testing.T) {
	b, err := soft.NewBackend(4, 4)
	require.NoError(t, err)
	m, err := NewManager(b, fstest.MapFS{
		"a.vert.glsl": {Data: []byte("void main() {}")},
	})
	require.NoError(t, err)

	src, err := m.Shader("a.vert.glsl")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", src.Source)
	_, err = m.Shader(shaders.BlinnPhongFrag)
	assert.ErrorIs(t, err, ErrMissingResource)
}

func TestAddProceduralMesh(t *testing.T) {
	m := newTestManager(t)

	hm := scene.NewHeightMap(4, 4)
	terrain, err := scene.BuildTerrainMesh(hm, -0.1)
	require.NoError(t, err)
	require.NoError(t, m.AddProceduralMesh("terrain", terrain))

	mesh, err := m.Mesh("terrain")
	require.NoError(t, err)
	assert.Equal(t, 16, mesh.VertexCount())
	data, err := m.MeshData("terrain")
	require.NoError(t, err)
	assert.Same(t, terrain, data)

	assert.Error(t, m.AddProceduralMesh("", terrain))
	assert.Error(t, m.AddProceduralMesh("bad", &gpu.MeshData{
		Positions: []mgl32.Vec3{{0, 0, 0}},
		Faces:     [][3]uint32{{0, 1, 2}},
	}))

	m.AddHeightMap("terrain", hm)
	got, err := m.HeightMap("terrain")
	require.NoError(t, err)
	assert.Same(t, hm, got)
}

const quadOBJ = `# two triangles as one quad
o quad
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 -1/-1/-1
`

func TestParseOBJ(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())

	assert.Len(t, mesh.Positions, 4)
	assert.Equal(t, [][3]uint32{{0, 1, 2}, {0, 2, 3}}, mesh.Faces)
	assert.Equal(t, mgl32.Vec2{1, 1}, mesh.TexCoords[2])
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, mesh.Normals[3])
}

func TestParseOBJComputesNormals(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	require.NoError(t, err)
	for _, n := range mesh.Normals {
		assert.True(t, n.ApproxEqual(mgl32.Vec3{0, 0, 1}))
	}
}

func TestParseOBJErrors(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("v 0 0 0\nf 1 2 3\n"))
	assert.ErrorContains(t, err, "line 2")

	_, err = ParseOBJ(strings.NewReader("# empty\n"))
	assert.Error(t, err)
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255}) // top
	img.Set(0, 1, color.RGBA{0, 0, 255, 255}) // bottom
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestDecodeImageFlipsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stripe.png")
	writePNG(t, path)

	desc, err := LoadImage("stripe", path)
	require.NoError(t, err)
	require.NoError(t, desc.Validate())
	assert.Equal(t, []float32{0, 0, 1, 1, 1, 0, 0, 1}, desc.Data)

	_, err = DecodeImage("junk", []byte("not an image"))
	assert.Error(t, err)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(quadOBJ), 0o644))
	writePNG(t, filepath.Join(dir, "stripe.png"))

	m := newTestManager(t)
	require.NoError(t, m.Load(context.Background(), Manifest{
		Dir:      dir,
		Meshes:   []string{"quad.obj"},
		Textures: []string{"stripe.png"},
	}))

	mesh, err := m.Mesh("quad")
	require.NoError(t, err)
	assert.Equal(t, 6, mesh.IndexCount())
	_, err = m.Texture("stripe")
	assert.NoError(t, err)
}

func TestLoadManifestFailsAtomically(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "stripe.png"))

	m := newTestManager(t)
	err := m.Load(context.Background(), Manifest{
		Dir:      dir,
		Meshes:   []string{"missing.obj"},
		Textures: []string{"stripe.png"},
	})
	require.Error(t, err)
	_, err = m.Texture("stripe")
	assert.ErrorIs(t, err, ErrMissingResource)

	err = m.Load(context.Background(), Manifest{Dir: dir, Meshes: []string{"model.fbx"}})
	assert.ErrorContains(t, err, "unsupported mesh format")
}

func TestLoadManifestRegistersNothingWhenAnUploadFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "panel.obj"), []byte(quadOBJ), 0o644))
	// Decodes fine but maps to an empty resource name.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".obj"), []byte(quadOBJ), 0o644))
	writePNG(t, filepath.Join(dir, "stripe.png"))

	m := newTestManager(t)
	err := m.Load(context.Background(), Manifest{
		Dir:      dir,
		Meshes:   []string{"panel.obj", ".obj"},
		Textures: []string{"stripe.png"},
	})
	require.ErrorContains(t, err, "empty name")
	_, err = m.Mesh("panel")
	assert.ErrorIs(t, err, ErrMissingResource)
	_, err = m.Texture("stripe")
	assert.ErrorIs(t, err, ErrMissingResource)

	writePNG(t, filepath.Join(dir, ".png"))
	err = m.Load(context.Background(), Manifest{
		Dir:      dir,
		Meshes:   []string{"panel.obj"},
		Textures: []string{"stripe.png", ".png"},
	})
	require.ErrorContains(t, err, "empty name")
	_, err = m.Mesh("panel")
	assert.ErrorIs(t, err, ErrMissingResource)
}

func TestLoadGLTFMissingFile(t *testing.T) {
	_, err := LoadGLTF(filepath.Join(t.TempDir(), "none.glb"))
	assert.Error(t, err)
}
