// Package renderer draws a scene.State through a fixed sequence of passes.
//
// Every pass is a ShaderRenderer: one pipeline built from a Config (shader
// pair, fixed-function state, uniform table, inclusion predicate). Concrete
// passes wrap a ShaderRenderer and add the per-draw inputs they need.
// Passes receive the camera explicitly through a View, so cube-map capture
// never swaps global camera state.
package renderer

import (
	"errors"
	"fmt"

	"render-pipeline/gpu"
	"render-pipeline/resources"
	"render-pipeline/scene"
)

// ErrMissingTransform is returned when an object reaches a pass before its
// camera computed its matrices.
var ErrMissingTransform = errors.New("object transforms not computed for camera")

// View is what one pass invocation looks at.
type View struct {
	State   *scene.State
	Camera  *scene.Camera
	Objects scene.ObjectView
}

// MainView looks through the scene's own camera at every object.
func MainView(state *scene.State) View {
	return View{
		State:   state,
		Camera:  &state.Scene.Camera.Camera,
		Objects: state.Scene.View(),
	}
}

// WithCamera returns a copy of v looking through c.
func (v View) WithCamera(c *scene.Camera) View {
	v.Camera = c
	return v
}

// Without returns a copy of v that skips o.
func (v View) Without(o *scene.Object) View {
	v.Objects = v.Objects.Without(o)
	return v
}

// Lights are the scene's lights.
func (v View) Lights() []*scene.Light { return v.State.Scene.Lights }

// Config describes one pass. Nil state pointers take the defaults: depth
// test on with writes, blending and culling off.
type Config struct {
	Name       string
	Vertex     string
	Fragment   string
	Attributes []string
	Depth      *gpu.DepthState
	Blend      *gpu.BlendState
	Cull       *gpu.CullState
	Uniforms   []gpu.UniformBinding
	// Include selects objects by material tags. Nil includes everything.
	Include func(scene.Tags) bool
}

var (
	objectAttributes     = []string{gpu.AttrPositions, gpu.AttrNormals, gpu.AttrTexCoords}
	fullscreenAttributes = []string{gpu.AttrPositions}

	// sceneDepth writes z and passes equal depths so passes can layer over
	// the PreProcessing z-buffer.
	sceneDepth = &gpu.DepthState{Enable: true, Mask: true, Func: gpu.CompareLessEqual}
	noDepth    = &gpu.DepthState{}
	additive   = ptr(gpu.Additive())
)

func ptr[T any](v T) *T { return &v }

func onlyTagged(t scene.Tags) func(scene.Tags) bool {
	return func(tags scene.Tags) bool { return tags.Has(t) }
}

func excludeTagged(t scene.Tags) func(scene.Tags) bool {
	return func(tags scene.Tags) bool { return !tags.Has(t) }
}

// ShaderRenderer draws one pass: a single pipeline built from a Config,
// fed one draw record per visible object.
type ShaderRenderer struct {
	cfg      Config
	res      *resources.Manager
	pipeline gpu.Pipeline
}

// NewShaderRenderer looks up the shader pair and builds the pipeline, so a
// bad uniform table or a missing shader fails here rather than mid-frame.
func NewShaderRenderer(res *resources.Manager, cfg Config) (*ShaderRenderer, error) {
	vs, err := res.Shader(cfg.Vertex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}
	fs, err := res.Shader(cfg.Fragment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}
	return newWithSources(res, cfg, vs, fs)
}

func newWithSources(res *resources.Manager, cfg Config, vs, fs gpu.ShaderSource) (*ShaderRenderer, error) {
	desc := gpu.PipelineDesc{
		Name:       cfg.Name,
		Vertex:     vs,
		Fragment:   fs,
		Attributes: cfg.Attributes,
		Depth:      gpu.DefaultDepth(),
		Uniforms:   cfg.Uniforms,
	}
	if cfg.Depth != nil {
		desc.Depth = *cfg.Depth
	}
	if cfg.Blend != nil {
		desc.Blend = *cfg.Blend
	}
	if cfg.Cull != nil {
		desc.Cull = *cfg.Cull
	}
	p, err := res.Backend().CreatePipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", cfg.Name, err)
	}
	return &ShaderRenderer{cfg: cfg, res: res, pipeline: p}, nil
}

func (r *ShaderRenderer) Name() string { return r.cfg.Name }

// Pipeline is the compiled pipeline this renderer submits to.
func (r *ShaderRenderer) Pipeline() gpu.Pipeline { return r.pipeline }

// ExcludeObject reports whether o is skipped by this pass. It depends only
// on o's material tags.
func (r *ShaderRenderer) ExcludeObject(o *scene.Object) bool {
	return r.cfg.Include != nil && !r.cfg.Include(o.Tags())
}

// InputFunc adds pass specific fields to an object's draw record.
type InputFunc func(o *scene.Object, props gpu.Props) error

// DrawObjects submits one record per included object in a single batch.
// Each record carries the mesh and the object's matrices for v.Camera.
func (r *ShaderRenderer) DrawObjects(v View, inputs InputFunc) error {
	var records []gpu.Props
	for o := range v.Objects.All() {
		if r.ExcludeObject(o) {
			continue
		}
		t, ok := v.Camera.ObjectMatrices(o)
		if !ok {
			return fmt.Errorf("%s: %q: %w", r.cfg.Name, o.Name, ErrMissingTransform)
		}
		mesh, err := r.res.Mesh(o.Mesh)
		if err != nil {
			return fmt.Errorf("%s: object %q: %w", r.cfg.Name, o.Name, err)
		}
		props := gpu.Props{
			gpu.PropMesh:                mesh,
			"mat_model_view_projection": t.ModelViewProjection,
			"mat_model_view":            t.ModelView,
			"mat_normals_model_view":    t.NormalsModelView,
		}
		if inputs != nil {
			if err := inputs(o, props); err != nil {
				return fmt.Errorf("%s: object %q: %w", r.cfg.Name, o.Name, err)
			}
		}
		records = append(records, props)
	}
	if len(records) == 0 {
		return nil
	}
	if err := r.pipeline.Draw(records...); err != nil {
		return fmt.Errorf("%s: %w", r.cfg.Name, err)
	}
	return nil
}

// DrawFullscreen draws the screen quad once with props.
func (r *ShaderRenderer) DrawFullscreen(props gpu.Props) error {
	quad, err := r.res.Mesh(resources.MeshQuad)
	if err != nil {
		return fmt.Errorf("%s: %w", r.cfg.Name, err)
	}
	props[gpu.PropMesh] = quad
	if err := r.pipeline.Draw(props); err != nil {
		return fmt.Errorf("%s: %w", r.cfg.Name, err)
	}
	return nil
}

// materialInputs binds the material color or texture. Untextured objects
// sample the default white texture.
func (r *ShaderRenderer) materialInputs(o *scene.Object, props gpu.Props) error {
	name, textured := o.Material.TextureName(resources.DefaultTextureName)
	tex, err := r.res.Texture(name)
	if err != nil {
		return err
	}
	props["material_texture"] = tex
	props["is_textured"] = textured
	props["material_base_color"] = o.Material.Color
	props["material_shininess"] = o.Material.Shininess
	return nil
}

func (r *ShaderRenderer) Destroy() {
	r.pipeline.Destroy()
}
