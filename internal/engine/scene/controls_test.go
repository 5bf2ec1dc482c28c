package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/stlview/internal/config"
)

func TestStateApply_Translation(t *testing.T) {
	s := DefaultState()
	steps := DefaultSteps()

	require.True(t, s.Apply(ActionMoveRight, steps))
	require.True(t, s.Apply(ActionMoveUp, steps))
	require.True(t, s.Apply(ActionMoveBack, steps))
	assert.InDelta(t, 0.1, s.TX, 1e-6)
	assert.InDelta(t, 0.1, s.TY, 1e-6)
	assert.InDelta(t, -0.1, s.TZ, 1e-6)

	s.Light = false
	before := s
	assert.False(t, s.Apply(ActionMoveLeft, steps), "translation is locked while the light is off")
	assert.Equal(t, before, s)
}

func TestStateApply_Rotation(t *testing.T) {
	s := DefaultState()
	steps := DefaultSteps()

	s.Apply(ActionPitchDown, steps)
	s.Apply(ActionYawRight, steps)
	s.Apply(ActionYawRight, steps)
	assert.Equal(t, float32(25), s.RX)
	assert.Equal(t, float32(55), s.RY)

	// Rotation works regardless of the light toggle.
	s.Light = false
	assert.True(t, s.Apply(ActionYawLeft, steps))
	assert.Equal(t, float32(50), s.RY)
}

func TestStateApply_Toggles(t *testing.T) {
	s := DefaultState()
	steps := DefaultSteps()

	s.Apply(ActionToggleLight, steps)
	s.Apply(ActionToggleTexture, steps)
	s.Apply(ActionToggleDraw, steps)
	assert.False(t, s.Light)
	assert.False(t, s.Texture)
	assert.False(t, s.Draw)

	s.Apply(ActionToggleDraw, steps)
	assert.True(t, s.Draw)
}

func TestStateApply_Clamped(t *testing.T) {
	steps := DefaultSteps()

	tests := []struct {
		name   string
		action Action
		get    func(State) float32
		want   float32
	}{
		{"intensity stays at 1", ActionIntensityUp, func(s State) float32 { return s.Intensity }, 1},
		{"diffuse stays at 1", ActionDiffuseUp, func(s State) float32 { return s.Diffuse }, 1},
		{"scale bottoms out", ActionScaleDown, func(s State) float32 { return s.Scale }, 0},
		{"ambient bottoms out", ActionAmbientDown, func(s State) float32 { return s.Ambient }, 0},
		{"specular tops out", ActionSpecularUp, func(s State) float32 { return s.Specular }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultState()
			for i := 0; i < 40; i++ {
				s.Apply(tt.action, steps)
			}
			assert.Equal(t, tt.want, tt.get(s))
			assert.False(t, s.Apply(tt.action, steps), "no change once clamped")
		})
	}
}

func TestStateApply_Unknown(t *testing.T) {
	s := DefaultState()
	assert.False(t, s.Apply(ActionNone, DefaultSteps()))
	assert.False(t, s.Apply(Action(999), DefaultSteps()))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "toggle-light", ActionToggleLight.String())
	assert.Equal(t, "specular-up", ActionSpecularUp.String())
	assert.Equal(t, "Action(999)", Action(999).String())
	assert.True(t, ActionYawLeft.IsRotation())
	assert.False(t, ActionScaleUp.IsRotation())
}

func TestController_Immediate(t *testing.T) {
	c := NewController(DefaultState(), DefaultSteps(), false, 6, 1)

	assert.True(t, c.Apply(ActionPitchUp))
	assert.Equal(t, float32(35), c.State.RX)
	assert.True(t, c.Settled())

	c.Update(time.Second)
	assert.Equal(t, float32(35), c.State.RX)
}

func TestController_Smooth(t *testing.T) {
	c := NewController(DefaultState(), DefaultSteps(), true, 6, 1)

	c.Apply(ActionYawRight)
	c.Apply(ActionYawRight)
	rx, ry := c.Target()
	assert.Equal(t, float32(30), rx)
	assert.Equal(t, float32(55), ry)
	assert.Equal(t, float32(45), c.State.RY, "rotation eases in over Update calls")
	assert.False(t, c.Settled())

	c.Update(16 * time.Millisecond)
	assert.Greater(t, c.State.RY, float32(45))
	assert.Less(t, c.State.RY, float32(55))

	for i := 0; i < 600 && !c.Settled(); i++ {
		c.Update(16 * time.Millisecond)
	}
	assert.True(t, c.Settled())
	assert.Equal(t, float32(55), c.State.RY)

	// Non-rotation actions still apply at once.
	c.Apply(ActionToggleTexture)
	assert.False(t, c.State.Texture)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.R, 1e-6)
	assert.InDelta(t, 128.0/255.0, c.G, 1e-6)
	assert.Equal(t, float32(0), c.B)
	assert.Equal(t, float32(1), c.A)
	assert.Equal(t, "#ff8000", c.Hex())

	_, err = ParseColor("orange")
	assert.Error(t, err)
}

func TestStateFromConfig(t *testing.T) {
	cfg := config.Default().Scene
	s, err := StateFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), s)

	cfg.Scale = 3
	cfg.ModelColor = "#00ff00"
	s, err = StateFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, float32(1), s.Scale)
	assert.Equal(t, Color{0, 1, 0, 1}, s.ModelColor)

	cfg.Background = "nope"
	_, err = StateFromConfig(cfg)
	assert.Error(t, err)
}

func TestController_Rotate(t *testing.T) {
	c := NewController(DefaultState(), DefaultSteps(), false, 6, 1)
	c.Rotate(-10, 2.5)
	assert.Equal(t, float32(20), c.State.RX)
	assert.Equal(t, float32(47.5), c.State.RY)

	smooth := NewController(DefaultState(), DefaultSteps(), true, 6, 1)
	smooth.Rotate(10, 0)
	assert.Equal(t, float32(30), smooth.State.RX)
	rx, _ := smooth.Target()
	assert.Equal(t, float32(40), rx)
}

func TestStateApply_Bounds(t *testing.T) {
	s := DefaultState()
	require.False(t, s.Bounds)
	s.Apply(ActionToggleBounds, DefaultSteps())
	assert.True(t, s.Bounds)
	assert.True(t, Build(s, 100, 100).ShowBounds)
}
