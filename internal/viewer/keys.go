package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/stlview/internal/engine/scene"
)

// keyActions maps layout-aware keys to scene actions. Pairs follow the
// decrease/increase order of the original key bindings.
var keyActions = map[sdl.Keycode]scene.Action{
	sdl.K_a: scene.ActionMoveLeft,
	sdl.K_d: scene.ActionMoveRight,
	sdl.K_s: scene.ActionMoveDown,
	sdl.K_w: scene.ActionMoveUp,
	sdl.K_f: scene.ActionMoveBack,
	sdl.K_r: scene.ActionMoveForward,

	sdl.K_4: scene.ActionPitchDown,
	sdl.K_3: scene.ActionPitchUp,
	sdl.K_1: scene.ActionYawLeft,
	sdl.K_2: scene.ActionYawRight,

	sdl.K_l:     scene.ActionToggleLight,
	sdl.K_t:     scene.ActionToggleTexture,
	sdl.K_SPACE: scene.ActionToggleDraw,
	sdl.K_b:     scene.ActionToggleBounds,

	sdl.K_LEFTBRACKET:  scene.ActionScaleDown,
	sdl.K_RIGHTBRACKET: scene.ActionScaleUp,
	sdl.K_k:            scene.ActionIntensityDown,
	sdl.K_i:            scene.ActionIntensityUp,
	sdl.K_j:            scene.ActionAmbientDown,
	sdl.K_u:            scene.ActionAmbientUp,
	sdl.K_h:            scene.ActionDiffuseDown,
	sdl.K_y:            scene.ActionDiffuseUp,
	sdl.K_SEMICOLON:    scene.ActionSpecularDown,
	sdl.K_p:            scene.ActionSpecularUp,
}

// Viewer commands that are not scene actions.
const (
	keyQuit       = sdl.K_ESCAPE
	keyOpen       = sdl.K_o
	keyReload     = sdl.K_F5
	keyScreenshot = sdl.K_F12
)

// actionForKey returns the action bound to key. Held keys repeat only
// for continuous adjustments; toggles fire once per press.
func actionForKey(key sdl.Keycode, repeat bool) scene.Action {
	a, ok := keyActions[key]
	if !ok {
		return scene.ActionNone
	}
	if repeat && isToggle(a) {
		return scene.ActionNone
	}
	return a
}

func isToggle(a scene.Action) bool {
	switch a {
	case scene.ActionToggleLight, scene.ActionToggleTexture, scene.ActionToggleDraw, scene.ActionToggleBounds:
		return true
	}
	return false
}
