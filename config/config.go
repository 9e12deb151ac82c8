// Package config loads application settings from YAML, on top of defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Window WindowConfig `yaml:"window"`
	Camera CameraConfig `yaml:"camera"`
	Render RenderConfig `yaml:"render"`
	Scene  SceneConfig  `yaml:"scene"`
	Assets AssetsConfig `yaml:"assets"`
	Debug  bool         `yaml:"debug"`
}

type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
	VSync     bool   `yaml:"vsync"`
}

type CameraConfig struct {
	FovDegrees   float32 `yaml:"fov_degrees"`
	Near         float32 `yaml:"near"`
	Far          float32 `yaml:"far"`
	DistanceBase float32 `yaml:"distance_base"`
	AngleZ       float32 `yaml:"angle_z"`
	AngleY       float32 `yaml:"angle_y"`
}

type RenderConfig struct {
	SoftShadows     bool       `yaml:"soft_shadows"`
	ShadowSoftness  float32    `yaml:"shadow_softness"`
	ShadowStrength  float32    `yaml:"shadow_strength"`
	SSAO            bool       `yaml:"ssao"`
	Bloom           bool       `yaml:"bloom"`
	BloomThreshold  float32    `yaml:"bloom_threshold"`
	BloomIntensity  float32    `yaml:"bloom_intensity"`
	MirrorCubeSize  int        `yaml:"mirror_cube_size"`
	ShadowCubeSize  int        `yaml:"shadow_cube_size"`
	BackgroundColor [4]float32 `yaml:"background_color"`
}

type SceneConfig struct {
	AmbientFactor float32    `yaml:"ambient_factor"`
	LightHeights  []float32  `yaml:"light_heights"`
	TerrainOffset [2]float32 `yaml:"terrain_offset"`
	TerrainSize   int        `yaml:"terrain_size"`
	MaxTrees      int        `yaml:"max_trees"`
	// Optional asset names; built-in proxies are used when they are empty
	// or not loaded.
	SkyTexture  string `yaml:"sky_texture"`
	TreeMesh    string `yaml:"tree_mesh"`
	TreeTexture string `yaml:"tree_texture"`
}

type AssetsConfig struct {
	Dir      string   `yaml:"dir"`
	Meshes   []string `yaml:"meshes"`
	Textures []string `yaml:"textures"`
}

// Default returns the settings the demo runs with when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "Render Pipeline",
			Resizable: true,
			VSync:     true,
		},
		Camera: CameraConfig{
			FovDegrees:   60,
			Near:         0.01,
			Far:          512,
			DistanceBase: 15,
			AngleZ:       0.2 * 3.14159265,
			AngleY:       -3.14159265 / 6,
		},
		Render: RenderConfig{
			SoftShadows:     true,
			ShadowSoftness:  0.05,
			ShadowStrength:  0.6,
			SSAO:            false,
			Bloom:           false,
			BloomThreshold:  0.33,
			BloomIntensity:  0.9,
			MirrorCubeSize:  512,
			ShadowCubeSize:  512,
			BackgroundColor: [4]float32{0, 0, 0, 1},
		},
		Scene: SceneConfig{
			AmbientFactor: 0.3,
			LightHeights:  []float32{7, 6},
			TerrainOffset: [2]float32{-12.24, 8.15},
			TerrainSize:   96,
			MaxTrees:      64,
		},
		Assets: AssetsConfig{Dir: "assets"},
	}
}

// Load reads path and overlays it on Default. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%g, %g] is invalid", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %g out of range", c.Camera.FovDegrees))
	}
	if c.Render.MirrorCubeSize <= 0 || c.Render.ShadowCubeSize <= 0 {
		errs = append(errs, errors.New("cube map sizes must be positive"))
	}
	if c.Render.ShadowStrength < 0 || c.Render.ShadowStrength > 1 {
		errs = append(errs, fmt.Errorf("shadow strength %g not in [0, 1]", c.Render.ShadowStrength))
	}
	if c.Scene.TerrainSize < 3 {
		errs = append(errs, fmt.Errorf("terrain size %d too small", c.Scene.TerrainSize))
	}
	return errors.Join(errs...)
}
