package renderer

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
	"render-pipeline/resources"
	"render-pipeline/scene"
	"render-pipeline/shaders"
)

var lightUniforms = []string{
	"mat_model_view_projection", "mat_model_view", "mat_normals_model_view",
	"light_position", "light_color", "ambient_factor",
}

// forEachLight runs draw once per light with the light in camera space.
// Ambient light is only added on the first iteration. A scene without
// lights still gets its ambient term from one black light.
func forEachLight(v View, draw func(lightPos, lightColor mgl32.Vec3, ambient float32) error) error {
	ambient := v.State.Scene.AmbientFactor
	lights := v.Lights()
	if len(lights) == 0 {
		return draw(mgl32.Vec3{}, mgl32.Vec3{}, ambient)
	}
	for _, l := range lights {
		if err := draw(v.Camera.LightToCamView(l), l.Color, ambient); err != nil {
			return err
		}
		ambient = 0
	}
	return nil
}

// BlinnPhong shades every object not tagged no_blinn_phong, one additive
// layer per light.
type BlinnPhong struct{ *ShaderRenderer }

func NewBlinnPhong(res *resources.Manager) (*BlinnPhong, error) {
	r, err := NewShaderRenderer(res, Config{
		Name:       "blinn_phong",
		Vertex:     shaders.BlinnPhongVert,
		Fragment:   shaders.BlinnPhongFrag,
		Attributes: objectAttributes,
		Depth:      sceneDepth,
		Blend:      additive,
		Uniforms: gpu.Bind(slices.Concat(lightUniforms, []string{
			"material_texture", "is_textured", "material_base_color", "material_shininess",
		})...),
		Include: excludeTagged(scene.TagNoBlinnPhong),
	})
	if err != nil {
		return nil, err
	}
	return &BlinnPhong{r}, nil
}

func (b *BlinnPhong) Render(v View) error {
	return forEachLight(v, func(pos, color mgl32.Vec3, ambient float32) error {
		return b.DrawObjects(v, func(o *scene.Object, props gpu.Props) error {
			props["light_position"] = pos
			props["light_color"] = color
			props["ambient_factor"] = ambient
			return b.materialInputs(o, props)
		})
	})
}

// Terrain shades terrain objects by elevation, accumulating lights like
// BlinnPhong.
type Terrain struct{ *ShaderRenderer }

func NewTerrain(res *resources.Manager) (*Terrain, error) {
	r, err := NewShaderRenderer(res, Config{
		Name:       "terrain",
		Vertex:     shaders.TerrainVert,
		Fragment:   shaders.TerrainFrag,
		Attributes: objectAttributes,
		Depth:      sceneDepth,
		Blend:      additive,
		Uniforms: gpu.Bind(slices.Concat(lightUniforms, []string{
			"water_level",
			"water_color", "water_shininess",
			"grass_color", "grass_shininess",
			"peak_color", "peak_shininess",
		})...),
		Include: onlyTagged(scene.TagTerrain),
	})
	if err != nil {
		return nil, err
	}
	return &Terrain{r}, nil
}

func (t *Terrain) Render(v View) error {
	return forEachLight(v, func(pos, color mgl32.Vec3, ambient float32) error {
		return t.DrawObjects(v, func(o *scene.Object, props gpu.Props) error {
			p := o.Material.Terrain
			props["light_position"] = pos
			props["light_color"] = color
			props["ambient_factor"] = ambient
			props["water_level"] = p.WaterLevel
			props["water_color"] = p.WaterColor
			props["water_shininess"] = p.WaterShininess
			props["grass_color"] = p.GrassColor
			props["grass_shininess"] = p.GrassShininess
			props["peak_color"] = p.PeakColor
			props["peak_shininess"] = p.PeakShininess
			return nil
		})
	})
}
