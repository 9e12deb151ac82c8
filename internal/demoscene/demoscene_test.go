package demoscene

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"render-pipeline/config"
	"render-pipeline/gpu/soft"
	"render-pipeline/internal/logger"
	"render-pipeline/renderer"
	"render-pipeline/resources"
	"render-pipeline/scene"
)

func TestPseudoRandomIntIsStable(t *testing.T) {
	assert.Equal(t, int64(2139967160), PseudoRandomInt(0))
	assert.Equal(t, int64(2139918889), PseudoRandomInt(1))
	assert.Equal(t, PseudoRandomInt(12345), PseudoRandomInt(12345))
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, PseudoRandomInt(i), int64(0))
	}
}

func TestTreeSite(t *testing.T) {
	up := mgl32.Vec3{0, 0, 1}
	assert.True(t, treeSite(mgl32.Vec3{0, 0, 0.05}, up, up))
	assert.False(t, treeSite(mgl32.Vec3{0, 0, scene.DefaultWaterLevel}, up, up), "under water")
	assert.False(t, treeSite(mgl32.Vec3{0, 0, 0.2}, up, up), "mountain")
	assert.False(t, treeSite(mgl32.Vec3{0.47, 0, 0.05}, up, up), "edge")
	assert.False(t, treeSite(mgl32.Vec3{0, 0, 0.05}, mgl32.Vec3{1, 0, 1}, up), "45 degree slope")
}

func newDemo(t *testing.T) *Demo {
	t.Helper()
	return newDemoWith(t, func(*config.Config) {})
}

func newDemoWith(t *testing.T, edit func(*config.Config)) *Demo {
	t.Helper()
	b, err := soft.NewBackend(32, 32)
	require.NoError(t, err)
	res, err := resources.NewManager(b, nil)
	require.NoError(t, err)
	gen, err := renderer.NewProceduralTextureGenerator(res)
	require.NoError(t, err)
	t.Cleanup(gen.Destroy)

	cfg := config.Default()
	cfg.Scene.TerrainSize = 24
	edit(&cfg)
	d, err := New(res, gen, cfg)
	require.NoError(t, err)
	return d
}

func treeActors(s *scene.Scene) int {
	n := 0
	for name := range s.Actors {
		if strings.HasPrefix(name, treeActorPrefix) {
			n++
		}
	}
	return n
}

func TestNewBuildsScene(t *testing.T) {
	d := newDemo(t)
	s := d.Scene

	require.Len(t, s.Lights, 2)
	assert.Contains(t, s.Actors, "light_0")
	assert.Contains(t, s.Actors, "light_1")
	assert.Contains(t, s.Actors, "fire")
	assert.Len(t, s.Objects, len(d.static)+len(d.dynamic))
	assert.Equal(t, len(d.dynamic), treeActors(s))

	_, err := d.res.Mesh(TerrainMesh)
	assert.NoError(t, err)
	_, err = d.res.HeightMap(HeightMapName)
	assert.NoError(t, err)

	reflective := 0
	for o := range s.View().All() {
		if o.Tags().Has(scene.TagReflective) {
			reflective++
		}
	}
	assert.Equal(t, 1, reflective)
}

func TestRecomputeTerrainReplantsTrees(t *testing.T) {
	d := newDemo(t)
	require.NoError(t, d.RecomputeTerrain(mgl32.Vec2{100, -40}))

	assert.Equal(t, len(d.dynamic), treeActors(d.Scene))
	assert.Len(t, d.Scene.Objects, len(d.static)+len(d.dynamic))
	for _, tree := range d.dynamic {
		assert.LessOrEqual(t, tree.Scale[0], float32(treeMaxSize))
	}
}

func TestFrameMovesLights(t *testing.T) {
	d := newDemo(t)
	d.UI.LightHeights = []float32{9, 8}

	st := d.Frame(scene.Frame{Time: 1, Dt: 0.1, Width: 32, Height: 32}, mgl32.Vec4{0, 0, 0, 1})
	assert.Same(t, d.Scene, st.Scene)
	assert.InDelta(t, 9, d.Scene.Lights[0].Position[2], 1e-6)
	assert.InDelta(t, 8, d.Scene.Lights[1].Position[2], 1e-6)

	d.UI.Paused = true
	d.UI.LightHeights = []float32{1, 1}
	d.Frame(scene.Frame{Time: 2, Dt: 0.1}, mgl32.Vec4{})
	assert.InDelta(t, 9, d.Scene.Lights[0].Position[2], 1e-6)
}

func TestMissingConfiguredAssetsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	d := newDemoWith(t, func(cfg *config.Config) {
		cfg.Scene.SkyTexture = "missing_sky"
		cfg.Scene.TreeTexture = "missing_bark"
		cfg.Scene.TreeMesh = "missing_tree"
	})

	sky := d.static[0]
	require.Equal(t, "sky", sky.Name)
	assert.Empty(t, sky.Material.Texture)
	for _, tree := range d.dynamic {
		assert.Equal(t, "tex_green", tree.Material.Texture)
		assert.Equal(t, resources.MeshCube, tree.Mesh)
	}

	names := map[string]int{}
	for _, e := range logs.All() {
		if name, ok := e.ContextMap()["name"].(string); ok {
			names[name]++
		}
	}
	assert.Equal(t, 1, names["missing_sky"])
	assert.Equal(t, 1, names["missing_bark"])
	assert.Equal(t, 1, names["missing_tree"])
}
