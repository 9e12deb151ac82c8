package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshData is CPU-side indexed triangle geometry. Normals and TexCoords may be
// empty; backends then supply zeros.
type MeshData struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Faces     [][3]uint32
}

func (m *MeshData) Validate() error {
	if len(m.Positions) == 0 {
		return fmt.Errorf("mesh has no vertices")
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("mesh has %d normals for %d vertices", len(m.Normals), len(m.Positions))
	}
	if len(m.TexCoords) != 0 && len(m.TexCoords) != len(m.Positions) {
		return fmt.Errorf("mesh has %d tex coords for %d vertices", len(m.TexCoords), len(m.Positions))
	}
	n := uint32(len(m.Positions))
	for i, f := range m.Faces {
		if f[0] >= n || f[1] >= n || f[2] >= n {
			return fmt.Errorf("face %d references vertex out of range (%d vertices)", i, n)
		}
	}
	return nil
}

// Normal returns the i-th normal or +Z when the mesh has none.
func (m *MeshData) Normal(i uint32) mgl32.Vec3 {
	if int(i) < len(m.Normals) {
		return m.Normals[i]
	}
	return mgl32.Vec3{0, 0, 1}
}

func (m *MeshData) TexCoord(i uint32) mgl32.Vec2 {
	if int(i) < len(m.TexCoords) {
		return m.TexCoords[i]
	}
	return mgl32.Vec2{}
}
