package globe

import (
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
)

// FogConfig configures the linear scene fog.
type FogConfig struct {
	Color Color   `toml:"color"`
	Near  float64 `toml:"near"`
	Far   float64 `toml:"far"`
}

// CameraConfig configures the perspective camera.
type CameraConfig struct {
	FOV      float64    `toml:"fov"`
	Near     float64    `toml:"near"`
	Far      float64    `toml:"far"`
	Position [3]float64 `toml:"position"`
}

// LightConfig describes one directional light attached to the camera.
type LightConfig struct {
	Color     Color      `toml:"color"`
	Intensity float64    `toml:"intensity"`
	Position  [3]float64 `toml:"position"`
}

// ControlsConfig configures the orbit controls.
type ControlsConfig struct {
	EnableDamping   bool    `toml:"enable_damping"`
	DampingFactor   float64 `toml:"damping_factor"`
	EnablePan       bool    `toml:"enable_pan"`
	RotateSpeed     float64 `toml:"rotate_speed"`
	ZoomSpeed       float64 `toml:"zoom_speed"`
	AutoRotate      bool    `toml:"auto_rotate"`
	AutoRotateSpeed float64 `toml:"auto_rotate_speed"`
	MinPolarAngle   float64 `toml:"min_polar_angle"`
	MaxPolarAngle   float64 `toml:"max_polar_angle"`
	MinDistance     float64 `toml:"min_distance"`
	MaxDistance     float64 `toml:"max_distance"`

	// DragDeadZone is the pointer travel, in pixels, before a press becomes
	// an orbit drag.
	DragDeadZone float64 `toml:"drag_dead_zone"`
}

// MaterialConfig overrides the globe surface shading.
type MaterialConfig struct {
	Color             Color   `toml:"color"`
	Emissive          Color   `toml:"emissive"`
	EmissiveIntensity float64 `toml:"emissive_intensity"`
	Shininess         float64 `toml:"shininess"`
}

// GlobeConfig configures the globe primitive.
type GlobeConfig struct {
	// Orientation is the fixed rotation offset, in radians, applied once.
	Orientation    [3]float64     `toml:"orientation"`
	Scale          float64        `toml:"scale"`
	SpinRate       float64        `toml:"spin_rate"`
	WidthSegments  int            `toml:"width_segments"`
	HeightSegments int            `toml:"height_segments"`
	Material       MaterialConfig `toml:"material"`
}

// Config is the fixed visual configuration of the scene. DefaultConfig
// returns the values the globe ships with; LoadConfig overlays a TOML file.
type Config struct {
	Background    Color          `toml:"background"`
	Fog           FogConfig      `toml:"fog"`
	Camera        CameraConfig   `toml:"camera"`
	Lights        []LightConfig  `toml:"lights"`
	Controls      ControlsConfig `toml:"controls"`
	Globe         GlobeConfig    `toml:"globe"`
	Layers        Layers         `toml:"layers"`
	MaxPixelRatio float64        `toml:"max_pixel_ratio"`

	// Debug enables per-frame stats logging to stderr.
	Debug bool `toml:"debug"`
	// ShowFPS draws the FPS widget in the top-left corner.
	ShowFPS bool `toml:"show_fps"`
}

// DefaultConfig returns the globe's fixed visual configuration.
func DefaultConfig() Config {
	return Config{
		Background: Hex(0x040d21),
		Fog:        FogConfig{Color: Hex(0x545ef3), Near: 400, Far: 2000},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      100,
			Position: [3]float64{0, 0, 85},
		},
		Lights: []LightConfig{
			{Color: Hex(0xffffff), Intensity: 0.8, Position: [3]float64{-800, 200, 400}},
			{Color: Hex(0x7982f6), Intensity: 1, Position: [3]float64{-200, 500, 200}},
			{Color: Hex(0x8566cc), Intensity: 0.5, Position: [3]float64{-200, 500, 200}},
		},
		Controls: ControlsConfig{
			EnableDamping:   true,
			DampingFactor:   0.01,
			EnablePan:       false,
			RotateSpeed:     0.8,
			ZoomSpeed:       1,
			AutoRotate:      false,
			AutoRotateSpeed: 2,
			MinPolarAngle:   math.Pi / 3.5,
			MaxPolarAngle:   math.Pi - math.Pi/3,
			MinDistance:     0,
			MaxDistance:     math.Inf(1),
			DragDeadZone:    defaultDragDeadZone,
		},
		Globe: GlobeConfig{
			Orientation:    [3]float64{0, -math.Pi * 5 / 9, -math.Pi / 6},
			Scale:          0.4,
			SpinRate:       0.05,
			WidthSegments:  75,
			HeightSegments: 75,
			Material: MaterialConfig{
				Color:             Hex(0x3a228a),
				Emissive:          Hex(0x220038),
				EmissiveIntensity: 0.1,
				Shininess:         0.7,
			},
		},
		Layers:        DefaultLayers(),
		MaxPixelRatio: 2,
	}
}

// LoadConfig decodes the TOML file at path over DefaultConfig. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 && globalDebug {
		debugLogf("config %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig is LoadConfig for TOML already in memory.
func DecodeConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate reports configuration values the scene cannot be built with.
func (c Config) Validate() error {
	switch {
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("camera fov %g out of range (0, 180)", c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("camera near/far %g/%g invalid", c.Camera.Near, c.Camera.Far)
	case c.Controls.MinPolarAngle > c.Controls.MaxPolarAngle:
		return fmt.Errorf("controls polar range [%g, %g] is empty",
			c.Controls.MinPolarAngle, c.Controls.MaxPolarAngle)
	case c.Globe.Scale <= 0:
		return fmt.Errorf("globe scale %g must be positive", c.Globe.Scale)
	case c.MaxPixelRatio <= 0 || c.MaxPixelRatio > defaultMaxPixelRatio:
		return fmt.Errorf("max pixel ratio %g out of range (0, %d]", c.MaxPixelRatio, defaultMaxPixelRatio)
	case c.Layers.Arcs.DashAnimateTime < 0 || c.Layers.Arcs.TransitionDuration < 0:
		return fmt.Errorf("arc durations must not be negative")
	}
	return nil
}

func vec3(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}
