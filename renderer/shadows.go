package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
	"render-pipeline/resources"
	"render-pipeline/scene"
	"render-pipeline/shaders"
)

// DefaultShadowSoftness is the Poisson disk radius of soft shadows.
const DefaultShadowSoftness = 0.05

// shadowFar clears shadow cubes so directions with no geometry never
// shadow anything.
const shadowFar = 1e4

// poissonDisk holds the 16 PCF taps of soft shadows.
var poissonDisk = []mgl32.Vec2{
	{-0.94201624, -0.39906216},
	{0.94558609, -0.76890725},
	{-0.094184101, -0.92938870},
	{0.34495938, 0.29387760},
	{-0.91588581, 0.45771432},
	{-0.81544232, -0.87912464},
	{-0.38277543, 0.27676845},
	{0.97484398, 0.75648379},
	{0.44323325, -0.97511554},
	{0.53742981, -0.47373420},
	{-0.26496911, -0.41893023},
	{0.79197514, 0.19090188},
	{-0.24188840, 0.99706507},
	{-0.81409955, 0.91437590},
	{0.19984126, 0.78641367},
	{0.14383161, -0.14100790},
}

// ShadowMap writes each fragment's distance to the capture origin.
type ShadowMap struct{ *ShaderRenderer }

func NewShadowMap(res *resources.Manager) (*ShadowMap, error) {
	r, err := NewShaderRenderer(res, Config{
		Name:       "shadow_map",
		Vertex:     shaders.ShadowMapVert,
		Fragment:   shaders.ShadowMapFrag,
		Attributes: objectAttributes,
		Depth:      sceneDepth,
		Cull:       &gpu.CullState{Enable: true, Face: gpu.FaceBack},
		Uniforms:   gpu.Bind("mat_model_view_projection", "mat_model_view"),
	})
	if err != nil {
		return nil, err
	}
	return &ShadowMap{r}, nil
}

func (s *ShadowMap) Render(v View) error {
	return s.DrawObjects(v, nil)
}

// Shadows renders a grayscale map of how shadowed each pixel is, averaged
// over all lights. Every light gets a distance cube captured with
// ShadowMap, then shadow receivers compare against it with one tap (hard)
// or 16 Poisson taps (soft).
type Shadows struct {
	hard      *ShaderRenderer
	soft      *ShaderRenderer
	active    *ShaderRenderer
	shadowMap *ShadowMap
	env       *EnvironmentCapture

	Softness float32
}

func NewShadows(res *resources.Manager, cubeSize int) (*Shadows, error) {
	cfg := Config{
		Name:       "shadows_hard",
		Vertex:     shaders.ShadowsVert,
		Fragment:   shaders.ShadowsHardFrag,
		Attributes: objectAttributes,
		Depth:      sceneDepth,
		Blend:      additive,
		Uniforms: gpu.Bind(
			"mat_model_view_projection", "mat_model_view",
			"light_position_cam", "num_lights", "cube_shadowmap",
		),
		Include: excludeTagged(scene.TagNoShadow),
	}
	hard, err := NewShaderRenderer(res, cfg)
	if err != nil {
		return nil, err
	}

	cfg.Name = "shadows_soft"
	cfg.Fragment = shaders.ShadowsSoftFrag
	cfg.Uniforms = append(gpu.Bind("shadow_softness", "poissonDisk"), cfg.Uniforms...)
	soft, err := NewShaderRenderer(res, cfg)
	if err != nil {
		hard.Destroy()
		return nil, err
	}

	shadowMap, err := NewShadowMap(res)
	if err != nil {
		hard.Destroy()
		soft.Destroy()
		return nil, err
	}
	env, err := NewEnvironmentCapture(res.Backend(), cubeSize)
	if err != nil {
		hard.Destroy()
		soft.Destroy()
		shadowMap.Destroy()
		return nil, err
	}
	env.ClearColor = &mgl32.Vec4{shadowFar, shadowFar, shadowFar, 1}

	return &Shadows{
		hard:      hard,
		soft:      soft,
		active:    hard,
		shadowMap: shadowMap,
		env:       env,
		Softness:  DefaultShadowSoftness,
	}, nil
}

// SetSoftShadows switches the receiver fragment stage. Nothing else
// changes; the shadow maps are rendered the same way.
func (s *Shadows) SetSoftShadows(on bool) {
	if on {
		s.active = s.soft
	} else {
		s.active = s.hard
	}
}

// Active is the receiver pass currently in use.
func (s *Shadows) Active() *ShaderRenderer { return s.active }

func (s *Shadows) ShadowMap() *ShadowMap { return s.shadowMap }

func (s *Shadows) Render(v View) error {
	lights := v.Lights()
	numLights := float32(len(lights))
	for _, l := range lights {
		if err := s.env.Capture(v, l.Position, s.shadowMap.Render); err != nil {
			return err
		}
		lightCam := v.Camera.LightToCamView(l)
		err := s.active.DrawObjects(v, func(_ *scene.Object, props gpu.Props) error {
			props["light_position_cam"] = lightCam
			props["num_lights"] = numLights
			props["cube_shadowmap"] = s.env.CubeMap()
			props["shadow_softness"] = s.Softness
			props["poissonDisk"] = poissonDisk
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Shadows) Destroy() {
	s.env.Destroy()
	s.shadowMap.Destroy()
	s.soft.Destroy()
	s.hard.Destroy()
}
