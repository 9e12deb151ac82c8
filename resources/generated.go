package resources

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
	"render-pipeline/scene"
)

// DefaultTextureName is bound by untextured materials.
const DefaultTextureName = "tex_default"

// Built-in mesh names.
const (
	MeshQuad   = "quad"
	MeshCube   = "cube"
	MeshSphere = "sphere"
)

const sphereSegments = 16

// generatedColors are the 2×2 solid textures every manager starts with.
var generatedColors = map[string]mgl32.Vec3{
	"tex_red":                   {0.7, 0.15, 0.05},
	"tex_gold":                  {0.7, 0.5, 0},
	"tex_blue":                  {0.1, 0.5, 0.7},
	"tex_gray":                  {0.4, 0.4, 0.4},
	"tex_green":                 {0.15, 0.4, 0.1},
	"tex_light_green":           {0.45, 0.8, 0.2},
	"tex_water":                 {0.29, 0.51, 0.62},
	"tex_water_identifier":      {0, 0, 1},
	"tex_water_wall_identifier": {0, 1, 1},
	"tex_terrain":               {1, 0, 0},
	DefaultTextureName:          {1, 1, 1},
}

func builtinMeshes() map[string]*gpu.MeshData {
	return map[string]*gpu.MeshData{
		MeshQuad:   scene.QuadMesh(),
		MeshCube:   scene.CubeMesh(),
		MeshSphere: scene.UVSphereMesh(sphereSegments),
	}
}

func generatedTextures() []gpu.TextureDesc {
	out := make([]gpu.TextureDesc, 0, len(generatedColors))
	for name, c := range generatedColors {
		out = append(out, gpu.SolidTexture(name, 2, 2, c[0], c[1], c[2], 1))
	}
	return out
}
