package renderer

import (
	"render-pipeline/gpu"
	"render-pipeline/resources"
	"render-pipeline/scene"
	"render-pipeline/shaders"
)

// PreProcessing fills the depth buffer and paints covered pixels black. It
// runs first in any group of passes that later blends additively.
type PreProcessing struct{ *ShaderRenderer }

func NewPreProcessing(res *resources.Manager) (*PreProcessing, error) {
	r, err := NewShaderRenderer(res, Config{
		Name:       "pre_processing",
		Vertex:     shaders.PreProcessingVert,
		Fragment:   shaders.PreProcessingFrag,
		Attributes: objectAttributes,
		Depth:      sceneDepth,
		Uniforms:   gpu.Bind("mat_model_view_projection"),
	})
	if err != nil {
		return nil, err
	}
	return &PreProcessing{r}, nil
}

func (p *PreProcessing) Render(v View) error {
	return p.DrawObjects(v, nil)
}

// FlatColor draws environment geometry unlit.
type FlatColor struct{ *ShaderRenderer }

func NewFlatColor(res *resources.Manager) (*FlatColor, error) {
	r, err := NewShaderRenderer(res, Config{
		Name:       "flat_color",
		Vertex:     shaders.FlatColorVert,
		Fragment:   shaders.FlatColorFrag,
		Attributes: objectAttributes,
		Depth:      sceneDepth,
		Uniforms: gpu.Bind(
			"mat_model_view_projection",
			"material_texture", "is_textured", "material_base_color",
		),
		Include: onlyTagged(scene.TagEnvironment),
	})
	if err != nil {
		return nil, err
	}
	return &FlatColor{r}, nil
}

func (f *FlatColor) Render(v View) error {
	return f.DrawObjects(v, f.materialInputs)
}

// Normals writes view-space normals for SSAO.
type Normals struct{ *ShaderRenderer }

func NewNormals(res *resources.Manager) (*Normals, error) {
	r, err := NewShaderRenderer(res, Config{
		Name:       "normals",
		Vertex:     shaders.NormalsVert,
		Fragment:   shaders.NormalsFrag,
		Attributes: objectAttributes,
		Depth:      sceneDepth,
		Uniforms:   gpu.Bind("mat_model_view_projection", "mat_normals_model_view"),
		Include:    excludeTagged(scene.TagEnvironment),
	})
	if err != nil {
		return nil, err
	}
	return &Normals{r}, nil
}

func (n *Normals) Render(v View) error {
	return n.DrawObjects(v, nil)
}

// Positions writes view-space positions with alpha 1 for SSAO.
type Positions struct{ *ShaderRenderer }

func NewPositions(res *resources.Manager) (*Positions, error) {
	r, err := NewShaderRenderer(res, Config{
		Name:       "positions",
		Vertex:     shaders.PositionsVert,
		Fragment:   shaders.PositionsFrag,
		Attributes: objectAttributes,
		Depth:      sceneDepth,
		Uniforms:   gpu.Bind("mat_model_view_projection", "mat_model_view"),
		Include:    excludeTagged(scene.TagEnvironment),
	})
	if err != nil {
		return nil, err
	}
	return &Positions{r}, nil
}

func (p *Positions) Render(v View) error {
	return p.DrawObjects(v, nil)
}
