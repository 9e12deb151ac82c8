// Package demoscene builds the demo world shared by the interactive viewer
// and the snapshot tool: a sky dome, a noise terrain with trees that grow,
// a mirror ball, a flickering fire and two lights.
package demoscene

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"render-pipeline/config"
	"render-pipeline/gpu"
	"render-pipeline/internal/logger"
	"render-pipeline/renderer"
	"render-pipeline/resources"
	"render-pipeline/scene"
)

const (
	HeightMapName = "perlin_heightmap"
	TerrainMesh   = "mesh_terrain"
	terrainNoise  = "tex_fbm_for_terrain"

	treeActorPrefix = "tree_"
	treeChance      = 10
	treeMinSize     = 0.0001
	treeMaxSize     = 0.25
	treeGrowRate    = 0.1
	treeMaxScale    = 0.4
	mountainLevel   = 0.1
	boundary        = 0.45
)

var (
	terrainScale = mgl32.Vec3{10, 10, 10}
	skyColor     = mgl32.Vec3{0.55, 0.7, 0.9}
	maxTreeSlope = mgl32.DegToRad(40)
)

// Presets are the camera poses bound to keys 1 to 3.
var Presets = []scene.Preset{
	{DistanceFactor: 0.8, AngleZ: 2.440681469282041, AngleY: -0.29240122440170113},
	{DistanceFactor: 1.6, AngleZ: math32.Pi * 0.2, AngleY: -math32.Pi / 3},
	{DistanceFactor: 0.35, AngleZ: math32.Pi, AngleY: -0.15, LookAt: mgl32.Vec3{0, 0, 0.5}},
}

// Demo owns the scene and regenerates its terrain on request.
type Demo struct {
	Scene *scene.Scene
	UI    scene.UIParams

	res     *resources.Manager
	gen     *renderer.ProceduralTextureGenerator
	cfg     config.SceneConfig
	static  []*scene.Object
	dynamic []*scene.Object
}

// New builds the demo scene. gen renders the terrain height map, so it must
// share res's backend.
func New(res *resources.Manager, gen *renderer.ProceduralTextureGenerator, cfg config.Config) (*Demo, error) {
	d := &Demo{
		Scene: scene.NewScene(),
		res:   res,
		gen:   gen,
		cfg:   cfg.Scene,
		UI: scene.UIParams{
			SoftShadows:  cfg.Render.SoftShadows,
			SSAO:         cfg.Render.SSAO,
			Bloom:        cfg.Render.Bloom,
			LightHeights: append([]float32(nil), cfg.Scene.LightHeights...),
		},
	}
	s := d.Scene
	s.AmbientFactor = cfg.Scene.AmbientFactor

	cam := s.Camera
	cam.FovY = mgl32.DegToRad(cfg.Camera.FovDegrees)
	cam.Near = cfg.Camera.Near
	cam.Far = cfg.Camera.Far
	cam.DistanceBase = cfg.Camera.DistanceBase
	cam.AngleZ = cfg.Camera.AngleZ
	cam.AngleY = cfg.Camera.AngleY
	cam.UpdateFormatRatio(cfg.Window.Width, cfg.Window.Height)
	cam.UpdateCamTransform()

	lights := []*scene.Light{
		{Position: mgl32.Vec3{-4, -5, 7}, Color: mgl32.Vec3{0.75, 0.53, 0.45}},
		{Position: mgl32.Vec3{6, 4, 6}, Color: mgl32.Vec3{0, 0, 0.3}},
	}
	for i, l := range lights {
		s.AddLight(l)
		s.AddActor(fmt.Sprintf("light_%d", i), scene.NewTrackLightActor(l, i))
	}

	sky := scene.NewBackground().WithColor(skyColor)
	if d.loadedTexture(cfg.Scene.SkyTexture, "sky") {
		sky.WithTexture(cfg.Scene.SkyTexture)
	}
	fire := scene.NewObject("fire", resources.MeshSphere,
		scene.NewFire().WithColor(mgl32.Vec3{1, 0.45, 0.1})).
		At(mgl32.Vec3{-1.2, 1.4, 0.6}).Scaled(mgl32.Vec3{0.2, 0.2, 0.35})
	d.static = []*scene.Object{
		scene.NewObject("sky", resources.MeshSphere, sky).Scaled(mgl32.Vec3{80, 80, 80}),
		scene.NewObject("terrain", TerrainMesh, scene.NewTerrain()).Scaled(terrainScale),
		scene.NewObject("mirror_ball", resources.MeshSphere, scene.NewReflective()).
			At(mgl32.Vec3{1, -1, 1.6}).Scaled(mgl32.Vec3{0.6, 0.6, 0.6}),
		fire,
	}
	s.AddActor("fire", scene.NewFlickerActor(fire, 0.4))

	if err := d.RecomputeTerrain(mgl32.Vec2{cfg.Scene.TerrainOffset[0], cfg.Scene.TerrainOffset[1]}); err != nil {
		return nil, err
	}
	return d, nil
}

// RecomputeTerrain renders a new height map at offset, replaces the terrain
// mesh and replants the trees.
func (d *Demo) RecomputeTerrain(offset mgl32.Vec2) error {
	size := d.cfg.TerrainSize
	hm, err := d.gen.ComputeTexture(HeightMapName, terrainNoise, renderer.TextureOptions{
		MouseOffset: offset,
		Width:       size,
		Height:      size,
	})
	if err != nil {
		return fmt.Errorf("terrain height map: %w", err)
	}
	mesh, err := scene.BuildTerrainMesh(hm, scene.DefaultWaterLevel)
	if err != nil {
		return fmt.Errorf("terrain mesh: %w", err)
	}
	if err := d.res.AddProceduralMesh(TerrainMesh, mesh); err != nil {
		return err
	}

	for name := range d.Scene.Actors {
		if strings.HasPrefix(name, treeActorPrefix) {
			delete(d.Scene.Actors, name)
		}
	}
	d.dynamic = d.placeTrees(mesh)
	d.Scene.Objects = append(append([]*scene.Object(nil), d.static...), d.dynamic...)

	logger.Log.Info("terrain generated",
		zap.Float32("offset_x", offset[0]),
		zap.Float32("offset_y", offset[1]),
		zap.Int("trees", len(d.dynamic)))
	return nil
}

func (d *Demo) placeTrees(terrain *gpu.MeshData) []*scene.Object {
	mesh := resources.MeshCube
	if d.cfg.TreeMesh != "" {
		if _, err := d.res.Mesh(d.cfg.TreeMesh); err == nil {
			mesh = d.cfg.TreeMesh
		} else {
			logger.Log.Warn("configured mesh not loaded, using built-in proxy",
				zap.String("name", d.cfg.TreeMesh),
				zap.String("object", "trees"),
				zap.String("proxy", mesh))
		}
	}
	treeTexture := "tex_green"
	if d.loadedTexture(d.cfg.TreeTexture, "trees") {
		treeTexture = d.cfg.TreeTexture
	}
	up := mgl32.Vec3{0, 0, 1}
	var trees []*scene.Object
	for i, p := range terrain.Positions {
		if d.cfg.MaxTrees > 0 && len(trees) >= d.cfg.MaxTrees {
			break
		}
		if PseudoRandomInt(i)%treeChance != 1 || !treeSite(p, terrain.Normal(uint32(i)), up) {
			continue
		}
		mat := scene.NewDiffuse().WithTexture(treeTexture)
		size := float32(treeMinSize + (treeMaxSize-treeMinSize)*float64(PseudoRandomInt(i)%1000)/1000)
		tree := scene.NewObject(fmt.Sprintf("tree_%d", len(trees)), mesh, mat).
			At(mgl32.Vec3{p[0] * terrainScale[0], p[1] * terrainScale[1], p[2] * terrainScale[2]}).
			Scaled(mgl32.Vec3{size, size, size})
		trees = append(trees, tree)
		d.Scene.AddActor(treeActorPrefix+tree.ID.String(), scene.NewGrowActor(tree, treeGrowRate, treeMaxScale))
	}
	return trees
}

// treeSite accepts dry land below the mountains, on gentle slopes and away
// from the terrain edge.
func treeSite(p, normal, up mgl32.Vec3) bool {
	if p[2] <= scene.DefaultWaterLevel || p[2] >= mountainLevel {
		return false
	}
	if p[0] <= -boundary || p[0] >= boundary || p[1] <= -boundary || p[1] >= boundary {
		return false
	}
	cos := normal.Normalize().Dot(up)
	return math32.Acos(min(max(cos, -1), 1)) < maxTreeSlope
}

// PseudoRandomInt is a deterministic Lehmer step on a scrambled index, so
// the same terrain always grows the same forest.
func PseudoRandomInt(index int) int64 {
	i := int64((uint32(index) ^ 0xDEECE66D) & 0x7FFFFFFF)
	i = (i * 48271) % 2147483647
	return i & 0x7FFFFFFF
}

// loadedTexture reports whether a configured texture can be used by object.
// A name that is set but not loaded is logged, and the caller keeps its
// built-in look.
func (d *Demo) loadedTexture(name, object string) bool {
	if name == "" {
		return false
	}
	if _, err := d.res.Texture(name); err != nil {
		logger.Log.Warn("configured texture not loaded, using built-in proxy",
			zap.String("name", name),
			zap.String("object", object),
			zap.Error(err))
		return false
	}
	return true
}

// Frame advances the actors and packages the renderer input.
func (d *Demo) Frame(f scene.Frame, background mgl32.Vec4) *scene.State {
	d.Scene.Evolve(f, d.UI)
	return &scene.State{Scene: d.Scene, Frame: f, Background: background, UI: d.UI}
}

// RendererOptions maps the render settings onto a SceneRenderer.
func RendererOptions(cfg config.Config, width, height int) renderer.Options {
	opts := renderer.DefaultOptions(width, height)
	r := cfg.Render
	opts.MirrorCubeSize = r.MirrorCubeSize
	opts.ShadowCubeSize = r.ShadowCubeSize
	opts.ShadowSoftness = r.ShadowSoftness
	opts.ShadowStrength = r.ShadowStrength
	opts.BloomThreshold = r.BloomThreshold
	opts.BloomIntensity = r.BloomIntensity
	return opts
}

// Manifest lists the configured asset files.
func Manifest(cfg config.AssetsConfig) resources.Manifest {
	return resources.Manifest{Dir: cfg.Dir, Meshes: cfg.Meshes, Textures: cfg.Textures}
}
