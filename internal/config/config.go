// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Model      ModelConfig      `yaml:"model"`
	Scene      SceneConfig      `yaml:"scene"`
	Controls   ControlsConfig   `yaml:"controls"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ModelConfig holds the files shown at startup.
type ModelConfig struct {
	Path          string        `yaml:"path"`
	Texture       string        `yaml:"texture"`
	Watch         bool          `yaml:"watch"`          // Reload the model when it changes on disk
	WatchDebounce time.Duration `yaml:"watch_debounce"` // Quiet period before a reload
}

// SceneConfig holds the initial scene parameters. Angles are in degrees,
// lighting values in [0, 1], colors as hex strings.
type SceneConfig struct {
	RX         float32 `yaml:"rx"`
	RY         float32 `yaml:"ry"`
	Scale      float32 `yaml:"scale"`
	Intensity  float32 `yaml:"intensity"`
	Ambient    float32 `yaml:"ambient"`
	Diffuse    float32 `yaml:"diffuse"`
	Specular   float32 `yaml:"specular"`
	Background string  `yaml:"background"`
	ModelColor string  `yaml:"model_color"`
	Light      bool    `yaml:"light"`
	Texture    bool    `yaml:"texture"`
	Draw       bool    `yaml:"draw"`
}

// ControlsConfig holds keyboard step sizes and rotation smoothing.
type ControlsConfig struct {
	MoveStep        float32 `yaml:"move_step"`
	RotateStep      float32 `yaml:"rotate_step"` // degrees
	ValueStep       float32 `yaml:"value_step"`
	Smooth          bool    `yaml:"smooth"`
	SpringFrequency float64 `yaml:"spring_frequency"`
	SpringDamping   float64 `yaml:"spring_damping"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or webp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with the viewer's stock values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "STL Viewer",
			Width:  1400,
			Height: 700,
			VSync:  true,
		},
		Model: ModelConfig{
			Path:          "union.stl",
			Texture:       "t2.jpg",
			WatchDebounce: 250 * time.Millisecond,
		},
		Scene: SceneConfig{
			RX:         30,
			RY:         45,
			Scale:      0.5,
			Intensity:  1,
			Ambient:    0.5,
			Diffuse:    1,
			Specular:   0.8,
			Background: "#000000",
			ModelColor: "#ffffff",
			Light:      true,
			Texture:    true,
			Draw:       true,
		},
		Controls: ControlsConfig{
			MoveStep:        0.1,
			RotateStep:      5,
			ValueStep:       0.05,
			SpringFrequency: 6,
			SpringDamping:   1,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if _, err := colorful.Hex(c.Scene.Background); err != nil {
		errs = append(errs, fmt.Errorf("scene.background %q: %w", c.Scene.Background, err))
	}
	if _, err := colorful.Hex(c.Scene.ModelColor); err != nil {
		errs = append(errs, fmt.Errorf("scene.model_color %q: %w", c.Scene.ModelColor, err))
	}
	switch c.Screenshot.Format {
	case "png", "webp":
	default:
		errs = append(errs, fmt.Errorf("screenshot.format %q must be png or webp", c.Screenshot.Format))
	}
	if c.Model.WatchDebounce < 0 {
		errs = append(errs, fmt.Errorf("model.watch_debounce %v is negative", c.Model.WatchDebounce))
	}

	return errors.Join(errs...)
}
