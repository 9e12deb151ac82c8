package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
)

// HeightMap is a grid of scalar samples, row 0 at y = 0.
type HeightMap struct {
	Width  int
	Height int
	Data   []float32
}

func NewHeightMap(w, h int) *HeightMap {
	return &HeightMap{Width: w, Height: h, Data: make([]float32, w*h)}
}

// Get clamps x and y to the grid.
func (m *HeightMap) Get(x, y int) float32 {
	x = min(max(x, 0), m.Width-1)
	y = min(max(y, 0), m.Height-1)
	return m.Data[y*m.Width+x]
}

func (m *HeightMap) Set(x, y int, v float32) {
	m.Data[y*m.Width+x] = v
}

// BuildTerrainMesh turns a height map into a unit-square grid centered on
// the origin. Elevation is height-0.5; anything below waterLevel is
// flattened to it and faces straight up.
func BuildTerrainMesh(hm *HeightMap, waterLevel float32) (*gpu.MeshData, error) {
	w, h := hm.Width, hm.Height
	if w < 2 || h < 2 || len(hm.Data) != w*h {
		return nil, fmt.Errorf("height map %dx%d with %d samples", w, h, len(hm.Data))
	}
	n := w * h
	m := &gpu.MeshData{
		Positions: make([]mgl32.Vec3, n),
		Normals:   make([]mgl32.Vec3, n),
		TexCoords: make([]mgl32.Vec2, n),
		Faces:     make([][3]uint32, 0, 2*(w-1)*(h-1)),
	}
	idx := func(x, y int) uint32 { return uint32(x + y*w) }

	for gy := 0; gy < h; gy++ {
		for gx := 0; gx < w; gx++ {
			i := idx(gx, gy)
			normal := mgl32.Vec3{
				-(hm.Get(gx+1, gy) - hm.Get(gx-1, gy)) / (2 / float32(w)),
				-(hm.Get(gx, gy+1) - hm.Get(gx, gy-1)) / (2 / float32(h)),
				1,
			}.Normalize()
			elevation := hm.Get(gx, gy) - 0.5
			if elevation < waterLevel {
				elevation = waterLevel
				normal = mgl32.Vec3{0, 0, 1}
			}
			m.Positions[i] = mgl32.Vec3{float32(gx)/float32(w) - 0.5, float32(gy)/float32(h) - 0.5, elevation}
			m.Normals[i] = normal
			m.TexCoords[i] = mgl32.Vec2{float32(gx) / float32(w), float32(gy) / float32(h)}
		}
	}

	for gy := 0; gy < h-1; gy++ {
		for gx := 0; gx < w-1; gx++ {
			va, vb := idx(gx, gy), idx(gx+1, gy)
			vc, vd := idx(gx, gy+1), idx(gx+1, gy+1)
			m.Faces = append(m.Faces, [3]uint32{va, vb, vc}, [3]uint32{vb, vd, vc})
		}
	}
	return m, nil
}
