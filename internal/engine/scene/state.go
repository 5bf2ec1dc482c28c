// Package scene turns the user-adjustable view parameters into the matrices
// and lighting uniforms the renderer consumes each frame.
package scene

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/stlview/internal/config"
)

// Color is a normalized RGBA color.
type Color struct {
	R, G, B, A float32
}

// ParseColor parses a "#rrggbb" or "#rgb" hex string into an opaque color.
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("parsing color %q: %w", hex, err)
	}
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: 1}, nil
}

// Hex formats the color as "#rrggbb", dropping alpha.
func (c Color) Hex() string {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}.Clamped().Hex()
}

// Vec4 returns the channels as an array for uniform upload.
func (c Color) Vec4() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// State is everything the user can change about the view.
// It is owned by the interactive goroutine.
type State struct {
	// Light marker translation
	TX, TY, TZ float32

	// Model rotation in degrees: RX pitch about X, RY yaw about Y
	RX, RY float32
	Scale  float32

	Draw    bool
	Light   bool
	Texture bool
	Bounds  bool // bounding box overlay

	// Lighting terms in [0, 1]
	Intensity float32
	Ambient   float32
	Diffuse   float32
	Specular  float32

	Background Color
	ModelColor Color
}

// DefaultState returns the startup view: model tilted 30° and turned 45°,
// half scale, white on black, everything enabled.
func DefaultState() State {
	return State{
		RX:         30,
		RY:         45,
		Scale:      0.5,
		Draw:       true,
		Light:      true,
		Texture:    true,
		Intensity:  1,
		Ambient:    0.5,
		Diffuse:    1,
		Specular:   0.8,
		Background: Color{0, 0, 0, 1},
		ModelColor: Color{1, 1, 1, 1},
	}
}

// StateFromConfig builds the initial state from configuration.
func StateFromConfig(cfg config.SceneConfig) (State, error) {
	bg, err := ParseColor(cfg.Background)
	if err != nil {
		return State{}, err
	}
	mc, err := ParseColor(cfg.ModelColor)
	if err != nil {
		return State{}, err
	}

	return State{
		RX:         cfg.RX,
		RY:         cfg.RY,
		Scale:      clamp01(cfg.Scale),
		Draw:       cfg.Draw,
		Light:      cfg.Light,
		Texture:    cfg.Texture,
		Intensity:  clamp01(cfg.Intensity),
		Ambient:    clamp01(cfg.Ambient),
		Diffuse:    clamp01(cfg.Diffuse),
		Specular:   clamp01(cfg.Specular),
		Background: bg,
		ModelColor: mc,
	}, nil
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
