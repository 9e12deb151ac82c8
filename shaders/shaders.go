// Package shaders embeds the GLSL sources of every render pass.
package shaders

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.glsl
var files embed.FS

// Stage file names. The software backend registers its kernels under the
// same names.
const (
	PreProcessingVert  = "pre_processing.vert.glsl"
	PreProcessingFrag  = "pre_processing.frag.glsl"
	FlatColorVert      = "flat_color.vert.glsl"
	FlatColorFrag      = "flat_color.frag.glsl"
	BlinnPhongVert     = "blinn_phong.vert.glsl"
	BlinnPhongFrag     = "blinn_phong.frag.glsl"
	TerrainVert        = "terrain.vert.glsl"
	TerrainFrag        = "terrain.frag.glsl"
	MirrorVert         = "mirror.vert.glsl"
	MirrorFrag         = "mirror.frag.glsl"
	NormalsVert        = "normals.vert.glsl"
	NormalsFrag        = "normals.frag.glsl"
	PositionsVert      = "positions.vert.glsl"
	PositionsFrag      = "positions.frag.glsl"
	ShadowMapVert      = "shadow_map.vert.glsl"
	ShadowMapFrag      = "shadow_map.frag.glsl"
	ShadowsVert        = "point_light_shadows.vert.glsl"
	ShadowsHardFrag    = "point_light_shadows_hard.frag.glsl"
	ShadowsSoftFrag    = "point_light_shadows_soft.frag.glsl"
	TexCoordsVert      = "texcoords.vert.glsl"
	BufferToScreenFrag = "buffer_to_screen.frag.glsl"
	MapMixerFrag       = "map_mixer.frag.glsl"
	SSAOFrag           = "ssao.frag.glsl"
	SSAOBlurFrag       = "ssao_blur.frag.glsl"
	BloomFrag          = "bloom.frag.glsl"
	CubemapPreviewVert = "cubemap_preview.vert.glsl"
	CubemapPreviewFrag = "cubemap_preview.frag.glsl"
	NoiseVert          = "noise.vert.glsl"
	NoiseFrag          = "noise.frag.glsl"
)

// Noise functions selectable in the noise fragment stage.
var NoiseFunctions = []string{
	"plots",
	"tex_perlin",
	"tex_fbm",
	"tex_turbulence",
	"tex_map",
	"tex_wood",
	"tex_fbm_for_terrain",
}

// FS exposes the embedded sources, e.g. for a resource manager.
func FS() fs.FS { return files }

func Source(name string) (string, error) {
	b, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("shader %q: %w", name, err)
	}
	return string(b), nil
}

// NoiseStage returns the stage name and source of the noise fragment shader
// specialized to one noise function.
func NoiseStage(function string) (name, source string, err error) {
	src, err := Source(NoiseFrag)
	if err != nil {
		return "", "", err
	}
	if !slices.Contains(NoiseFunctions, function) {
		return "", "", fmt.Errorf("unknown noise function %q", function)
	}
	var b strings.Builder
	b.WriteString(src)
	fmt.Fprintf(&b, "\nvoid main() {\n\tfrag_color = vec4(%s(v2f_tex_coords), 1.0);\n}\n", function)
	return NoiseFrag + ":" + function, b.String(), nil
}
