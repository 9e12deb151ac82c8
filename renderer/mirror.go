package renderer

import (
	"render-pipeline/gpu"
	"render-pipeline/resources"
	"render-pipeline/scene"
	"render-pipeline/shaders"
)

// Mirror draws reflective objects with an environment map captured from
// each object's position.
//
// All reflective objects share one capture cube, and the batch is drawn
// after every capture, so with more than one reflective object they all
// show the last capture.
type Mirror struct {
	*ShaderRenderer
	env *EnvironmentCapture
}

func NewMirror(res *resources.Manager, cubeSize int) (*Mirror, error) {
	r, err := NewShaderRenderer(res, Config{
		Name:       "mirror",
		Vertex:     shaders.MirrorVert,
		Fragment:   shaders.MirrorFrag,
		Attributes: objectAttributes,
		Depth:      sceneDepth,
		Uniforms: gpu.Bind(
			"mat_model_view_projection", "mat_model_view", "mat_normals_model_view",
			"cube_env_map",
		),
		Include: onlyTagged(scene.TagReflective),
	})
	if err != nil {
		return nil, err
	}
	env, err := NewEnvironmentCapture(res.Backend(), cubeSize)
	if err != nil {
		r.Destroy()
		return nil, err
	}
	return &Mirror{ShaderRenderer: r, env: env}, nil
}

// Render captures the surroundings of every reflective object, hiding the
// object itself, with renderScene. renderScene must not draw mirrors.
func (m *Mirror) Render(v View, renderScene func(View) error) error {
	return m.DrawObjects(v, func(o *scene.Object, props gpu.Props) error {
		if err := m.env.Capture(v.Without(o), o.Translation, renderScene); err != nil {
			return err
		}
		props["cube_env_map"] = m.env.CubeMap()
		return nil
	})
}

// Capture exposes the environment capture, e.g. for inspecting faces.
func (m *Mirror) Capture() *EnvironmentCapture { return m.env }

func (m *Mirror) Destroy() {
	m.env.Destroy()
	m.ShaderRenderer.Destroy()
}
