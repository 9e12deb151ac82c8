package resources

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
)

// LoadOBJ reads a Wavefront .obj file into one mesh. Groups and objects are
// merged; materials are ignored since scene objects carry their own.
func LoadOBJ(path string) (*gpu.MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func ParseOBJ(r io.Reader) (*gpu.MeshData, error) {
	var positions, normals []mgl32.Vec3
	var uvs []mgl32.Vec2

	mesh := &gpu.MeshData{}
	hasNormals := false
	vertexMap := make(map[string]uint32) // "v/vt/vn" -> vertex index

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.Fields(text)

		switch parts[0] {
		case "v", "vn":
			v, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if parts[0] == "v" {
				positions = append(positions, mgl32.Vec3{v[0], v[1], v[2]})
			} else {
				normals = append(normals, mgl32.Vec3{v[0], v[1], v[2]})
			}
		case "vt":
			v, err := parseFloats(parts[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			uvs = append(uvs, mgl32.Vec2{v[0], v[1]})
		case "f":
			if len(parts) < 4 {
				return nil, fmt.Errorf("line %d: face with %d vertices", line, len(parts)-1)
			}
			face := make([]uint32, 0, len(parts)-1)
			for _, spec := range parts[1:] {
				if idx, ok := vertexMap[spec]; ok {
					face = append(face, idx)
					continue
				}
				pos, uv, n, hasN, err := parseFaceVertex(spec, positions, normals, uvs)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				hasNormals = hasNormals || hasN
				idx := uint32(len(mesh.Positions))
				mesh.Positions = append(mesh.Positions, pos)
				mesh.TexCoords = append(mesh.TexCoords, uv)
				mesh.Normals = append(mesh.Normals, n)
				vertexMap[spec] = idx
				face = append(face, idx)
			}
			// Fan triangulation
			for i := 2; i < len(face); i++ {
				mesh.Faces = append(mesh.Faces, [3]uint32{face[0], face[i-1], face[i]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("no mesh data found in OBJ file")
	}
	if !hasNormals {
		computeNormals(mesh)
	}
	return mesh, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// objIndex resolves a 1-based, possibly negative OBJ index against n items.
func objIndex(s string, n int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		idx = n + idx + 1
	}
	if idx < 1 || idx > n {
		return 0, fmt.Errorf("index %s out of range (%d items)", s, n)
	}
	return idx - 1, nil
}

// parseFaceVertex parses an OBJ face vertex spec like "v/vt/vn".
func parseFaceVertex(spec string, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) (pos mgl32.Vec3, uv mgl32.Vec2, n mgl32.Vec3, hasNormal bool, err error) {
	parts := strings.Split(spec, "/")

	i, err := objIndex(parts[0], len(positions))
	if err != nil {
		return pos, uv, n, false, fmt.Errorf("position: %w", err)
	}
	pos = positions[i]

	if len(parts) >= 2 && parts[1] != "" {
		i, err := objIndex(parts[1], len(uvs))
		if err != nil {
			return pos, uv, n, false, fmt.Errorf("tex coord: %w", err)
		}
		uv = uvs[i]
	}
	if len(parts) >= 3 && parts[2] != "" {
		i, err := objIndex(parts[2], len(normals))
		if err != nil {
			return pos, uv, n, false, fmt.Errorf("normal: %w", err)
		}
		n, hasNormal = normals[i], true
	}
	return pos, uv, n, hasNormal, nil
}

// computeNormals fills area-weighted vertex normals.
func computeNormals(m *gpu.MeshData) {
	m.Normals = make([]mgl32.Vec3, len(m.Positions))
	for _, f := range m.Faces {
		a, b, c := m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, i := range f {
			m.Normals[i] = m.Normals[i].Add(n)
		}
	}
	for i, n := range m.Normals {
		if l := n.Len(); l > 0 {
			m.Normals[i] = n.Mul(1 / l)
		} else {
			m.Normals[i] = mgl32.Vec3{0, 0, 1}
		}
	}
}
