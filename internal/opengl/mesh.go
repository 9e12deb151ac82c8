package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"render-pipeline/gpu"
)

// Attribute locations, bound by name before every program is linked.
const (
	locPositions = 0
	locNormals   = 1
	locTexCoords = 2
)

var attribLocations = map[string]uint32{
	gpu.AttrPositions: locPositions,
	gpu.AttrNormals:   locNormals,
	gpu.AttrTexCoords: locTexCoords,
}

// Mesh holds the OpenGL buffer objects for an uploaded mesh.
type Mesh struct {
	vao         uint32
	vbos        []uint32
	ebo         uint32
	vertexCount int
	indexCount  int32
}

func (m *Mesh) VertexCount() int { return m.vertexCount }
func (m *Mesh) IndexCount() int  { return int(m.indexCount) }

// CreateMesh uploads one tightly packed buffer per attribute. Missing
// normals or tex coords leave their attribute disabled, so shaders read the
// GL default.
func (b *Backend) CreateMesh(data *gpu.MeshData) (gpu.Mesh, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	m := &Mesh{
		vertexCount: len(data.Positions),
		indexCount:  int32(len(data.Faces) * 3),
	}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	m.attrib(locPositions, 3, len(data.Positions)*12, gl.Ptr(data.Positions))
	if len(data.Normals) > 0 {
		m.attrib(locNormals, 3, len(data.Normals)*12, gl.Ptr(data.Normals))
	}
	if len(data.TexCoords) > 0 {
		m.attrib(locTexCoords, 2, len(data.TexCoords)*8, gl.Ptr(data.TexCoords))
	}

	if len(data.Faces) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Faces)*12, gl.Ptr(data.Faces), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m, nil
}

func (m *Mesh) attrib(loc uint32, size int32, bytes int, ptr unsafe.Pointer) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, bytes, ptr, gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, size, gl.FLOAT, false, 0, nil)
	m.vbos = append(m.vbos, vbo)
}

func (m *Mesh) draw() {
	if m.indexCount == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Destroy frees GPU buffers.
func (m *Mesh) Destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	for i := range m.vbos {
		gl.DeleteBuffers(1, &m.vbos[i])
	}
	m.vbos = nil
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
}
