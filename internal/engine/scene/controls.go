package scene

import (
	"fmt"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Action is one discrete change to the view, usually bound to a key.
type Action int

const (
	ActionNone Action = iota

	// Light marker translation; ignored while the light is off.
	ActionMoveLeft
	ActionMoveRight
	ActionMoveDown
	ActionMoveUp
	ActionMoveBack
	ActionMoveForward

	// Model rotation.
	ActionPitchDown
	ActionPitchUp
	ActionYawLeft
	ActionYawRight

	ActionToggleLight
	ActionToggleTexture
	ActionToggleDraw
	ActionToggleBounds

	ActionScaleDown
	ActionScaleUp
	ActionIntensityDown
	ActionIntensityUp
	ActionAmbientDown
	ActionAmbientUp
	ActionDiffuseDown
	ActionDiffuseUp
	ActionSpecularDown
	ActionSpecularUp
)

var actionNames = [...]string{
	ActionNone:          "none",
	ActionMoveLeft:      "move-left",
	ActionMoveRight:     "move-right",
	ActionMoveDown:      "move-down",
	ActionMoveUp:        "move-up",
	ActionMoveBack:      "move-back",
	ActionMoveForward:   "move-forward",
	ActionPitchDown:     "pitch-down",
	ActionPitchUp:       "pitch-up",
	ActionYawLeft:       "yaw-left",
	ActionYawRight:      "yaw-right",
	ActionToggleLight:   "toggle-light",
	ActionToggleTexture: "toggle-texture",
	ActionToggleDraw:    "toggle-draw",
	ActionToggleBounds:  "toggle-bounds",
	ActionScaleDown:     "scale-down",
	ActionScaleUp:       "scale-up",
	ActionIntensityDown: "intensity-down",
	ActionIntensityUp:   "intensity-up",
	ActionAmbientDown:   "ambient-down",
	ActionAmbientUp:     "ambient-up",
	ActionDiffuseDown:   "diffuse-down",
	ActionDiffuseUp:     "diffuse-up",
	ActionSpecularDown:  "specular-down",
	ActionSpecularUp:    "specular-up",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// IsRotation reports whether a changes RX or RY.
func (a Action) IsRotation() bool {
	return a >= ActionPitchDown && a <= ActionYawRight
}

// Steps are the increments applied per action.
type Steps struct {
	Move   float32 // translation units
	Rotate float32 // degrees
	Value  float32 // scale and lighting terms
}

// DefaultSteps returns 0.1 translation, 5° rotation and 0.05 value steps.
func DefaultSteps() Steps {
	return Steps{Move: 0.1, Rotate: 5, Value: 0.05}
}

// Apply mutates s by a and reports whether anything changed.
// Scale and lighting terms stay within [0, 1].
func (s *State) Apply(a Action, steps Steps) bool {
	before := *s

	switch a {
	case ActionMoveLeft, ActionMoveRight, ActionMoveDown, ActionMoveUp, ActionMoveBack, ActionMoveForward:
		if !s.Light {
			return false
		}
		switch a {
		case ActionMoveLeft:
			s.TX -= steps.Move
		case ActionMoveRight:
			s.TX += steps.Move
		case ActionMoveDown:
			s.TY -= steps.Move
		case ActionMoveUp:
			s.TY += steps.Move
		case ActionMoveBack:
			s.TZ -= steps.Move
		case ActionMoveForward:
			s.TZ += steps.Move
		}

	case ActionPitchDown:
		s.RX -= steps.Rotate
	case ActionPitchUp:
		s.RX += steps.Rotate
	case ActionYawLeft:
		s.RY -= steps.Rotate
	case ActionYawRight:
		s.RY += steps.Rotate

	case ActionToggleLight:
		s.Light = !s.Light
	case ActionToggleTexture:
		s.Texture = !s.Texture
	case ActionToggleDraw:
		s.Draw = !s.Draw
	case ActionToggleBounds:
		s.Bounds = !s.Bounds

	case ActionScaleDown:
		s.Scale = clamp01(s.Scale - steps.Value)
	case ActionScaleUp:
		s.Scale = clamp01(s.Scale + steps.Value)
	case ActionIntensityDown:
		s.Intensity = clamp01(s.Intensity - steps.Value)
	case ActionIntensityUp:
		s.Intensity = clamp01(s.Intensity + steps.Value)
	case ActionAmbientDown:
		s.Ambient = clamp01(s.Ambient - steps.Value)
	case ActionAmbientUp:
		s.Ambient = clamp01(s.Ambient + steps.Value)
	case ActionDiffuseDown:
		s.Diffuse = clamp01(s.Diffuse - steps.Value)
	case ActionDiffuseUp:
		s.Diffuse = clamp01(s.Diffuse + steps.Value)
	case ActionSpecularDown:
		s.Specular = clamp01(s.Specular - steps.Value)
	case ActionSpecularUp:
		s.Specular = clamp01(s.Specular + steps.Value)

	default:
		return false
	}

	return *s != before
}

// settleEpsilon is how close (in degrees and degrees/s) a spring must be to
// its target before it snaps.
const settleEpsilon = 0.01

// Controller owns the scene state on the interactive goroutine. With
// smoothing on, rotation actions move a target and Update eases RX/RY toward
// it on a critically damped spring; everything else applies immediately.
type Controller struct {
	State State

	steps  Steps
	smooth bool

	frequency float64
	damping   float64

	targetRX, targetRY float32
	velRX, velRY       float64
}

// NewController creates a controller starting at initial.
// frequency and damping configure the rotation spring when smooth is set.
func NewController(initial State, steps Steps, smooth bool, frequency, damping float64) *Controller {
	return &Controller{
		State:     initial,
		steps:     steps,
		smooth:    smooth,
		frequency: frequency,
		damping:   damping,
		targetRX:  initial.RX,
		targetRY:  initial.RY,
	}
}

// Apply handles one action and reports whether the view changed or will change.
func (c *Controller) Apply(a Action) bool {
	if !c.smooth || !a.IsRotation() {
		changed := c.State.Apply(a, c.steps)
		if a.IsRotation() {
			c.targetRX, c.targetRY = c.State.RX, c.State.RY
		}
		return changed
	}

	step := c.steps.Rotate
	switch a {
	case ActionPitchDown:
		c.targetRX -= step
	case ActionPitchUp:
		c.targetRX += step
	case ActionYawLeft:
		c.targetRY -= step
	case ActionYawRight:
		c.targetRY += step
	}
	return true
}

// Rotate turns the model by drx/dry degrees, e.g. from a mouse drag.
func (c *Controller) Rotate(drx, dry float32) {
	if drx == 0 && dry == 0 {
		return
	}
	c.targetRX += drx
	c.targetRY += dry
	if !c.smooth {
		c.State.RX, c.State.RY = c.targetRX, c.targetRY
	}
}

// Target returns the rotation the controller is easing toward.
func (c *Controller) Target() (rx, ry float32) {
	return c.targetRX, c.targetRY
}

// Settled reports whether the displayed rotation has reached its target.
func (c *Controller) Settled() bool {
	return c.State.RX == c.targetRX && c.State.RY == c.targetRY
}

// Update advances rotation smoothing by dt. It is a no-op when smoothing is
// off or the rotation is settled.
func (c *Controller) Update(dt time.Duration) {
	if !c.smooth || c.Settled() || dt <= 0 {
		return
	}

	spring := harmonica.NewSpring(dt.Seconds(), c.frequency, c.damping)

	c.State.RX, c.velRX = ease(spring, c.State.RX, c.velRX, c.targetRX)
	c.State.RY, c.velRY = ease(spring, c.State.RY, c.velRY, c.targetRY)
}

// ease advances one axis and snaps it onto target once it is close and slow.
func ease(spring harmonica.Spring, pos float32, vel float64, target float32) (float32, float64) {
	p, v := spring.Update(float64(pos), vel, float64(target))
	d := p - float64(target)
	if d < settleEpsilon && d > -settleEpsilon && v < settleEpsilon && v > -settleEpsilon {
		return target, 0
	}
	return float32(p), v
}
