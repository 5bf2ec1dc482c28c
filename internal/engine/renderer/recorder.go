package renderer

import (
	"sync"

	"github.com/Faultbox/stlview/internal/engine/model"
	"github.com/Faultbox/stlview/internal/engine/scene"
	"github.com/Faultbox/stlview/internal/engine/texture"
)

// Recorder is a Renderer that keeps what it was given instead of drawing.
// It backs headless runs and tests.
type Recorder struct {
	mu sync.Mutex

	Uploads  []*model.NormalizedModel
	Textures []*texture.Image
	Frames   []scene.Frame
	Width    int
	Height   int
	Closed   bool

	// UploadErr and TextureErr, when set, are returned by the next calls.
	UploadErr  error
	TextureErr error
}

// UploadVertices implements Renderer.
func (r *Recorder) UploadVertices(m *model.NormalizedModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UploadErr != nil {
		return r.UploadErr
	}
	r.Uploads = append(r.Uploads, m)
	return nil
}

// BindTexture implements Renderer.
func (r *Recorder) BindTexture(img *texture.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.TextureErr != nil {
		return r.TextureErr
	}
	r.Textures = append(r.Textures, img)
	return nil
}

// Draw implements Renderer.
func (r *Recorder) Draw(f scene.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Frames = append(r.Frames, f)
}

// Resize implements Renderer.
func (r *Recorder) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Width, r.Height = width, height
}

// Close implements Renderer.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Closed = true
}

// LastFrame returns the most recent frame and whether any was drawn.
func (r *Recorder) LastFrame() (scene.Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Frames) == 0 {
		return scene.Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// ReadPixels implements Capturer with a blank image of the current size.
func (r *Recorder) ReadPixels() (*texture.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &texture.Image{
		Pix:    make([]byte, r.Width*r.Height*4),
		Width:  r.Width,
		Height: r.Height,
	}, nil
}

var (
	_ Renderer = (*Recorder)(nil)
	_ Capturer = (*Recorder)(nil)
)
