package gpu

import (
	"fmt"
)

// Vertex attribute names shared by every shader in the pipeline.
const (
	AttrPositions = "vertex_positions"
	AttrNormals   = "vertex_normal"
	AttrTexCoords = "vertex_tex_coords"
)

// ShaderSource is one program stage. Name identifies the stage to backends
// that do not compile Source (the software backend looks kernels up by it).
type ShaderSource struct {
	Name   string
	Source string
}

// UniformBinding maps a shader uniform to the draw-record field holding its
// value.
type UniformBinding struct {
	Name string
	Prop string
}

// Bind is shorthand for a uniform read from a field of the same name.
func Bind(names ...string) []UniformBinding {
	out := make([]UniformBinding, len(names))
	for i, n := range names {
		out[i] = UniformBinding{Name: n, Prop: n}
	}
	return out
}

type PipelineDesc struct {
	Name       string
	Vertex     ShaderSource
	Fragment   ShaderSource
	Attributes []string
	Depth      DepthState
	Blend      BlendState
	Cull       CullState
	Uniforms   []UniformBinding
}

// Validate catches configurations that cannot draw anything meaningful. It
// is called by every backend's CreatePipeline.
func (d *PipelineDesc) Validate() error {
	if d.Vertex.Name == "" || d.Fragment.Name == "" {
		return fmt.Errorf("%w: %s: shader pair incomplete", ErrInvalidPipeline, d.Name)
	}
	if len(d.Uniforms) == 0 {
		return fmt.Errorf("%w: %s: no uniform bindings declared", ErrInvalidPipeline, d.Name)
	}
	seen := make(map[string]bool, len(d.Uniforms))
	for _, u := range d.Uniforms {
		if u.Name == "" || u.Prop == "" {
			return fmt.Errorf("%w: %s: empty uniform binding %+v", ErrInvalidPipeline, d.Name, u)
		}
		if seen[u.Name] {
			return fmt.Errorf("%w: %s: uniform %q bound twice", ErrInvalidPipeline, d.Name, u.Name)
		}
		seen[u.Name] = true
	}
	if len(d.Attributes) == 0 {
		return fmt.Errorf("%w: %s: no vertex attributes", ErrInvalidPipeline, d.Name)
	}
	return nil
}

// Props is one draw record. The reserved key PropMesh holds the Mesh to draw;
// every other key feeds a uniform through the pipeline's binding table.
type Props map[string]any

const PropMesh = "mesh"

func (p Props) Mesh() (Mesh, error) {
	m, ok := p[PropMesh].(Mesh)
	if !ok || m == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingProp, PropMesh)
	}
	return m, nil
}

// Resolve returns the uniform values for one record, keyed by uniform name.
func Resolve(bindings []UniformBinding, p Props) (map[string]any, error) {
	out := make(map[string]any, len(bindings))
	for _, b := range bindings {
		v, ok := p[b.Prop]
		if !ok {
			return nil, fmt.Errorf("%w: %q (uniform %s)", ErrMissingProp, b.Prop, b.Name)
		}
		out[b.Name] = v
	}
	return out, nil
}
