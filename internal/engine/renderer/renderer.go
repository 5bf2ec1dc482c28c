// Package renderer draws frames built by the scene package. The viewer only
// talks to the Renderer interface; GL is the one concrete backend.
package renderer

import (
	"github.com/Faultbox/stlview/internal/engine/model"
	"github.com/Faultbox/stlview/internal/engine/scene"
	"github.com/Faultbox/stlview/internal/engine/texture"
)

// Renderer owns every GPU resource. All methods must be called from the
// goroutine that owns the graphics context.
type Renderer interface {
	// UploadVertices replaces the model's vertex buffer. A nil or empty
	// model clears it.
	UploadVertices(m *model.NormalizedModel) error

	// BindTexture replaces the model texture. On error the previous
	// texture stays bound.
	BindTexture(img *texture.Image) error

	// Draw clears the viewport and draws one frame.
	Draw(f scene.Frame)

	// Resize updates the viewport.
	Resize(width, height int)

	// Close releases GPU resources.
	Close()
}

// Capturer is implemented by renderers that can read back the last frame.
type Capturer interface {
	// ReadPixels returns the framebuffer as bottom-up RGBA rows.
	ReadPixels() (*texture.Image, error)
}
