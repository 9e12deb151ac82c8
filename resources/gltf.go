package resources

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"render-pipeline/gpu"
)

// LoadGLTF reads every mesh primitive of a .gltf/.glb file into one mesh,
// in object space (node transforms are not applied).
func LoadGLTF(path string) (*gpu.MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %s: %w", path, err)
	}

	out := &gpu.MeshData{}
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if err := appendGLTFPrimitive(out, doc, prim); err != nil {
				return nil, fmt.Errorf("%s: mesh %d prim %d: %w", path, mi, pi, err)
			}
		}
	}
	if len(out.Faces) == 0 {
		return nil, fmt.Errorf("%s: no triangles", path)
	}
	return out, nil
}

func appendGLTFPrimitive(out *gpu.MeshData, doc *gltf.Document, prim *gltf.Primitive) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		return fmt.Errorf("unsupported primitive mode %v", prim.Mode)
	}
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("tex coords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	base := uint32(len(out.Positions))
	for i, p := range positions {
		out.Positions = append(out.Positions, mgl32.Vec3(p))
		n := mgl32.Vec3{0, 0, 1}
		if i < len(normals) {
			n = normals[i]
		}
		out.Normals = append(out.Normals, n)
		var uv mgl32.Vec2
		if i < len(uvs) {
			// glTF puts v = 0 at the top of the image.
			uv = mgl32.Vec2{uvs[i][0], 1 - uvs[i][1]}
		}
		out.TexCoords = append(out.TexCoords, uv)
	}
	for i := 0; i+2 < len(indices); i += 3 {
		out.Faces = append(out.Faces, [3]uint32{base + indices[i], base + indices[i+1], base + indices[i+2]})
	}
	return nil
}
