package scene

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Tags is the capability set renderers use to include or exclude objects.
// Renderers only ever look at tags, never at Material.Kind.
type Tags uint16

const (
	TagEnvironment Tags = 1 << iota
	TagNoBlinnPhong
	TagNoShadow
	TagReflective
	TagTerrain
	TagFlame
)

var tagNames = []struct {
	tag  Tags
	name string
}{
	{TagEnvironment, "environment"},
	{TagNoBlinnPhong, "no_blinn_phong"},
	{TagNoShadow, "no_shadow"},
	{TagReflective, "reflective"},
	{TagTerrain, "terrain"},
	{TagFlame, "flame"},
}

// Has reports whether every tag in x is set.
func (t Tags) Has(x Tags) bool { return t&x == x }

func (t Tags) String() string {
	var names []string
	for _, tn := range tagNames {
		if t.Has(tn.tag) {
			names = append(names, tn.name)
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

type Kind int

const (
	KindDiffuse Kind = iota
	KindBackground
	KindTerrain
	KindFire
	KindReflective
)

var (
	DefaultColor     = mgl32.Vec3{1, 0, 1}
	DefaultShininess = float32(0.1)
)

// TerrainParams colors terrain by elevation.
type TerrainParams struct {
	WaterLevel     float32 // object space elevation
	WaterColor     mgl32.Vec3
	WaterShininess float32
	GrassColor     mgl32.Vec3
	GrassShininess float32
	PeakColor      mgl32.Vec3
	PeakShininess  float32
}

const DefaultWaterLevel = -0.03125

func DefaultTerrainParams() TerrainParams {
	return TerrainParams{
		WaterLevel:     DefaultWaterLevel,
		WaterColor:     mgl32.Vec3{0.29, 0.51, 0.62},
		WaterShininess: 30,
		GrassColor:     mgl32.Vec3{0.33, 0.43, 0.18},
		GrassShininess: 5,
		PeakColor:      mgl32.Vec3{0.9, 0.9, 0.9},
		PeakShininess:  10,
	}
}

type Material struct {
	Kind      Kind
	Color     mgl32.Vec3
	Texture   string
	Shininess float32
	Tags      Tags
	Terrain   TerrainParams
}

func newMaterial(kind Kind, tags Tags) *Material {
	return &Material{Kind: kind, Color: DefaultColor, Shininess: DefaultShininess, Tags: tags}
}

func NewDiffuse() *Material { return newMaterial(KindDiffuse, 0) }

// NewBackground is for sky geometry: flat colored, unlit, never shadowed.
func NewBackground() *Material {
	return newMaterial(KindBackground, TagEnvironment|TagNoBlinnPhong|TagNoShadow)
}

func NewTerrain() *Material {
	m := newMaterial(KindTerrain, TagTerrain|TagNoBlinnPhong)
	m.Terrain = DefaultTerrainParams()
	return m
}

func NewFire() *Material { return newMaterial(KindFire, TagFlame) }

func NewReflective() *Material { return newMaterial(KindReflective, TagReflective) }

func (m *Material) WithColor(c mgl32.Vec3) *Material {
	m.Color = c
	return m
}

func (m *Material) WithTexture(name string) *Material {
	m.Texture = name
	return m
}

func (m *Material) WithShininess(s float32) *Material {
	m.Shininess = s
	return m
}

func (m *Material) WithTerrain(p TerrainParams) *Material {
	m.Terrain = p
	return m
}

// TextureName resolves the texture to bind: the material's own, or def for
// untextured materials. The bool is the shader's is_textured flag.
func (m *Material) TextureName(def string) (string, bool) {
	if m.Texture == "" {
		return def, false
	}
	return m.Texture, true
}
