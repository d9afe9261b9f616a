// Package config holds the viewer's tunables. Every value has a default taken from the reference scene; a TOML file
// can override any subset of them.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Range is an inclusive numeric interval for a bound control.
type Range struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// WindowConfig configures the native window and its drawing surface.
type WindowConfig struct {
	Title         string  `toml:"title"`
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	VSync         bool    `toml:"vsync"`
	MaxPixelRatio float64 `toml:"max_pixel_ratio"`
}

// AssetsConfig locates the assets to load.
type AssetsConfig struct {
	// Root is a directory or an http(s) base URL.
	Root string `toml:"root"`

	// Model is the glTF document path relative to Root.
	Model string `toml:"model"`

	// EnvironmentFaces are the cube face paths relative to Root, in px, nx, py, ny, pz, nz order.
	EnvironmentFaces [common.CubeFaceCount]string `toml:"environment_faces"`

	// Workers is the maximum number of concurrent load jobs.
	Workers int `toml:"workers"`
}

// CameraConfig configures the perspective camera and its orbit controller.
type CameraConfig struct {
	FovDegrees float32    `toml:"fov_degrees"`
	Near       float32    `toml:"near"`
	Far        float32    `toml:"far"`
	Position   [3]float32 `toml:"position"`
	Damping    bool       `toml:"damping"`
}

// LightConfig configures the directional light and its shadow.
type LightConfig struct {
	Color         string     `toml:"color"`
	Intensity     float32    `toml:"intensity"`
	Position      [3]float32 `toml:"position"`
	CastShadow    bool       `toml:"cast_shadow"`
	ShadowMapSize int        `toml:"shadow_map_size"`
	ShadowNear    float32    `toml:"shadow_near"`
	ShadowFar     float32    `toml:"shadow_far"`
	ShadowBias    float32    `toml:"shadow_bias"`
}

// ModelConfig is the transform applied to the loaded model.
type ModelConfig struct {
	Scale     float32    `toml:"scale"`
	Position  [3]float32 `toml:"position"`
	RotationY float32    `toml:"rotation_y"`
}

// RendererConfig configures output encoding and lighting.
type RendererConfig struct {
	OutputColorSpace        string `toml:"output_color_space"`
	ShadowMapType           string `toml:"shadow_map_type"`
	PhysicallyCorrectLights bool   `toml:"physically_correct_lights"`
	ForceSoftware           bool   `toml:"force_software"`
}

// BindingsConfig sets the ranges and step of the exposed controls.
type BindingsConfig struct {
	Step            float64 `toml:"step"`
	LightIntensity  Range   `toml:"light_intensity"`
	LightPosition   Range   `toml:"light_position"`
	EnvMapIntensity Range   `toml:"env_map_intensity"`
	Rotation        Range   `toml:"rotation"`
}

// DebugParams holds values that exist only to be tweaked through controls.
type DebugParams struct {
	EnvMapIntensity float64 `toml:"env_map_intensity"`
}

// LogConfig configures the default logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// Config is the complete viewer configuration.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Assets   AssetsConfig   `toml:"assets"`
	Camera   CameraConfig   `toml:"camera"`
	Light    LightConfig    `toml:"light"`
	Model    ModelConfig    `toml:"model"`
	Renderer RendererConfig `toml:"renderer"`
	Bindings BindingsConfig `toml:"bindings"`
	Debug    DebugParams    `toml:"debug"`
	Log      LogConfig      `toml:"log"`
}

// Default returns the configuration of the reference scene.
//
// Returns:
//   - *Config: a new configuration
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "oxy-viewer",
			Width:         1280,
			Height:        720,
			VSync:         true,
			MaxPixelRatio: 2,
		},
		Assets: AssetsConfig{
			Root:  "static",
			Model: "models/FlightHelmet/glTF/FlightHelmet.gltf",
			EnvironmentFaces: [common.CubeFaceCount]string{
				"textures/environmentMaps/0/px.jpg",
				"textures/environmentMaps/0/nx.jpg",
				"textures/environmentMaps/0/py.jpg",
				"textures/environmentMaps/0/ny.jpg",
				"textures/environmentMaps/0/pz.jpg",
				"textures/environmentMaps/0/nz.jpg",
			},
			Workers: 4,
		},
		Camera: CameraConfig{
			FovDegrees: 75,
			Near:       0.1,
			Far:        100,
			Position:   [3]float32{0, 0, 10},
			Damping:    true,
		},
		Light: LightConfig{
			Color:         "#ffffff",
			Intensity:     3,
			Position:      [3]float32{0.25, 3, -2.25},
			CastShadow:    true,
			ShadowMapSize: 1024,
			ShadowNear:    1,
			ShadowFar:     10,
			ShadowBias:    -0.005,
		},
		Model: ModelConfig{
			Scale:     10,
			Position:  [3]float32{0, -4, 0},
			RotationY: math.Pi / 2,
		},
		Renderer: RendererConfig{
			OutputColorSpace:        "srgb",
			ShadowMapType:           "pcf-soft",
			PhysicallyCorrectLights: true,
		},
		Bindings: BindingsConfig{
			Step:            0.001,
			LightIntensity:  Range{Min: 0, Max: 10},
			LightPosition:   Range{Min: -5, Max: 5},
			EnvMapIntensity: Range{Min: 0, Max: 10},
			Rotation:        Range{Min: -math.Pi, Max: math.Pi},
		},
		Debug: DebugParams{
			EnvMapIntensity: 2.5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML file over the defaults. Keys absent from the file keep their default; unknown keys are
// rejected. The result is validated.
//
// Parameters:
//   - path: the file to read, empty for defaults only
//
// Returns:
//   - *Config: the merged configuration
//   - error: a read, decode or validation failure
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("decode config %s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode renders the configuration as TOML.
//
// Returns:
//   - []byte: the TOML document
//   - error: an encoding failure
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate reports the first invalid value.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalid
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.MaxPixelRatio < 1:
		return fmt.Errorf("%w: max_pixel_ratio %v below 1", ErrInvalid, c.Window.MaxPixelRatio)
	case c.Light.ShadowMapSize <= 0:
		return fmt.Errorf("%w: shadow_map_size %d", ErrInvalid, c.Light.ShadowMapSize)
	case c.Light.ShadowNear <= 0 || c.Light.ShadowFar <= c.Light.ShadowNear:
		return fmt.Errorf("%w: shadow near/far %v/%v", ErrInvalid, c.Light.ShadowNear, c.Light.ShadowFar)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera near/far %v/%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Bindings.Step < 0:
		return fmt.Errorf("%w: step %v", ErrInvalid, c.Bindings.Step)
	case c.Assets.Workers <= 0:
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Assets.Workers)
	}

	ranges := map[string]Range{
		"light_intensity":   c.Bindings.LightIntensity,
		"light_position":    c.Bindings.LightPosition,
		"env_map_intensity": c.Bindings.EnvMapIntensity,
		"rotation":          c.Bindings.Rotation,
	}
	for name, r := range ranges {
		if r.Min > r.Max {
			return fmt.Errorf("%w: %s range [%v, %v] is inverted", ErrInvalid, name, r.Min, r.Max)
		}
	}

	if _, err := c.LightColor(); err != nil {
		return err
	}
	if _, err := c.OutputColorSpace(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Renderer.ShadowMapType {
	case "basic", "pcf", "pcf-soft":
	default:
		return fmt.Errorf("%w: shadow_map_type %q", ErrInvalid, c.Renderer.ShadowMapType)
	}
	return nil
}

// LightColor parses the light color.
//
// Returns:
//   - uint32: the color as 0xRRGGBB
//   - error: an error wrapping ErrInvalid for a malformed color
func (c *Config) LightColor() (uint32, error) {
	s := strings.TrimPrefix(strings.TrimSpace(c.Light.Color), "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return 0, fmt.Errorf("%w: light color %q", ErrInvalid, c.Light.Color)
	}
	return uint32(v), nil
}

// OutputColorSpace parses the renderer output color space.
//
// Returns:
//   - common.ColorSpace: the color space
//   - error: an error wrapping ErrInvalid for an unknown name
func (c *Config) OutputColorSpace() (common.ColorSpace, error) {
	switch strings.ToLower(c.Renderer.OutputColorSpace) {
	case "srgb", "":
		return common.ColorSpaceSRGB, nil
	case "linear":
		return common.ColorSpaceLinear, nil
	default:
		return 0, fmt.Errorf("%w: output_color_space %q", ErrInvalid, c.Renderer.OutputColorSpace)
	}
}

// LogLevel parses the log level.
//
// Returns:
//   - slog.Level: the level
//   - error: an error wrapping ErrInvalid for an unknown name
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return lvl, nil
}

// ModelTransform returns the model transform as a scene transform.
//
// Returns:
//   - common.Transform: scale, position and rotation
func (c *Config) ModelTransform() common.Transform {
	s := c.Model.Scale
	return common.Transform{
		Position: common.Vector3{X: c.Model.Position[0], Y: c.Model.Position[1], Z: c.Model.Position[2]},
		Rotation: common.Euler{Y: c.Model.RotationY},
		Scale:    common.Vector3{X: s, Y: s, Z: s},
	}
}
