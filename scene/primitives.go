package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
)

// Built-in procedural meshes. All are counter-clockwise when seen from
// outside, Z up.

// QuadMesh covers [-1, 1]² at z = 0; it doubles as full-screen pass geometry.
func QuadMesh() *gpu.MeshData {
	return &gpu.MeshData{
		Positions: []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Faces:     [][3]uint32{{0, 1, 2}, {0, 2, 3}},
	}
}

// CubeMesh spans [-1, 1]³ with flat per-face normals.
func CubeMesh() *gpu.MeshData {
	m := &gpu.MeshData{}
	axes := []struct{ n, u, v mgl32.Vec3 }{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
	}
	corners := []mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, a := range axes {
		base := uint32(len(m.Positions))
		for _, c := range corners {
			m.Positions = append(m.Positions, a.n.Add(a.u.Mul(c[0])).Add(a.v.Mul(c[1])))
			m.Normals = append(m.Normals, a.n)
			m.TexCoords = append(m.TexCoords, mgl32.Vec2{(c[0] + 1) / 2, (c[1] + 1) / 2})
		}
		m.Faces = append(m.Faces, [3]uint32{base, base + 1, base + 2}, [3]uint32{base, base + 2, base + 3})
	}
	return m
}

// UVSphereMesh is a unit sphere with segments slices around Z and
// segments/2 stacks.
func UVSphereMesh(segments int) *gpu.MeshData {
	segments = max(segments, 3)
	rings := max(segments/2, 2)
	m := &gpu.MeshData{}

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)
		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)

			n := mgl32.Vec3{sinPhi * cosTheta, sinPhi * sinTheta, cosPhi}
			m.Positions = append(m.Positions, n)
			m.Normals = append(m.Normals, n)
			m.TexCoords = append(m.TexCoords, mgl32.Vec2{
				float32(seg) / float32(segments),
				1 - float32(ring)/float32(rings),
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)
			m.Faces = append(m.Faces,
				[3]uint32{current, next, current + 1},
				[3]uint32{current + 1, next, next + 1},
			)
		}
	}
	return m
}
