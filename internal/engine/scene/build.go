package scene

import (
	"github.com/Faultbox/stlview/pkg/math"
)

// Camera and projection constants. The camera never moves; only the model
// and the light marker do.
const (
	FieldOfView = 45.0 // degrees, vertical
	NearPlane   = 0.1
	FarPlane    = 100.0

	// MarkerScale shrinks the light cube.
	MarkerScale = 0.25

	// The light marker and light position sit offset from the translation.
	lightOffsetX = -0.5
	lightOffsetY = 0.5
)

var (
	cameraEye    = math.Vec3{X: 0, Y: 0, Z: 2}
	cameraTarget = math.Vec3{}
	cameraUp     = math.Vec3{X: 0, Y: 1, Z: 0}

	view = math.LookAt(cameraEye, cameraTarget, cameraUp)
)

// Uniforms are the lighting and material parameters of one frame, named
// after the shader uniforms they feed.
type Uniforms struct {
	LightPosition  [3]float32 // LightPosition
	LightIntensity [3]float32 // LightIntensity
	MaterialKa     [3]float32 // MaterialKa
	MaterialKd     [3]float32 // MaterialKd
	MaterialKs     float32    // MaterialKs
	IsLight        bool       // is_light
	IsTexture      bool       // is_texture
	ModelColor     [4]float32 // model_color

	// Background is the clear color; it is not a shader uniform.
	Background [4]float32
}

// Frame is everything the renderer needs to draw one frame.
type Frame struct {
	Model       math.Mat4 // view · Rx · Ry · S
	LightMarker math.Mat4 // view · T · S(MarkerScale)
	Projection  math.Mat4
	Uniforms    Uniforms
	Draw        bool
	ShowBounds  bool // outline the model's bounding box
}

// View returns the fixed camera matrix.
func View() math.Mat4 {
	return view
}

// Projection returns the perspective matrix for a viewport. A zero or
// negative height is treated as 1 so minimized windows do not produce NaNs.
func Projection(width, height int) math.Mat4 {
	if height <= 0 {
		height = 1
	}
	aspect := float32(width) / float32(height)
	return math.Perspective(math.Radians(FieldOfView), aspect, NearPlane, FarPlane)
}

// Build computes the frame for state s in a width×height viewport.
// It is a pure function of its arguments.
func Build(s State, width, height int) Frame {
	model := view.
		Mul(math.RotateX(math.Radians(s.RX))).
		Mul(math.RotateY(math.Radians(s.RY))).
		Mul(math.UniformScale(s.Scale))

	lx, ly := s.TX+lightOffsetX, s.TY+lightOffsetY
	marker := view.
		Mul(math.Translate(lx, ly, s.TZ)).
		Mul(math.UniformScale(MarkerScale))

	return Frame{
		Model:       model,
		LightMarker: marker,
		Projection:  Projection(width, height),
		Uniforms: Uniforms{
			LightPosition:  [3]float32{lx, ly, 0},
			LightIntensity: math.Splat(s.Intensity).Array(),
			MaterialKa:     math.Splat(s.Ambient).Array(),
			MaterialKd:     math.Splat(s.Diffuse).Array(),
			MaterialKs:     s.Specular,
			IsLight:        s.Light,
			IsTexture:      s.Texture,
			ModelColor:     s.ModelColor.Vec4(),
			Background:     s.Background.Vec4(),
		},
		Draw:       s.Draw,
		ShowBounds: s.Bounds,
	}
}
