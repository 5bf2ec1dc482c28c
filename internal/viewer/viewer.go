// Package viewer runs the interactive loop: input, background model loads,
// rotation smoothing and drawing, all on the goroutine that owns the GL context.
package viewer

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/stlview/internal/assets"
	"github.com/Faultbox/stlview/internal/config"
	"github.com/Faultbox/stlview/internal/engine/debug"
	"github.com/Faultbox/stlview/internal/engine/input"
	"github.com/Faultbox/stlview/internal/engine/renderer"
	"github.com/Faultbox/stlview/internal/engine/scene"
	"github.com/Faultbox/stlview/internal/engine/texture"
	"github.com/Faultbox/stlview/internal/engine/window"
	"github.com/Faultbox/stlview/internal/logger"
)

const (
	// progressInterval is how often the title polls the loading flag.
	progressInterval = time.Second

	// dragDegreesPerPixel converts mouse drag distance into rotation.
	dragDegreesPerPixel = 0.5

	queueSize = 16
)

// Surface is the window frames are presented to.
type Surface interface {
	SwapBuffers()
	DrawableSize() (int, int)
	Title() string
	SetTitle(title string)
	Close()
}

// EventSource delivers input once per frame. Update reports a quit request.
type EventSource interface {
	Update() bool
	Events() []input.Event
}

// Options wires a viewer to its collaborators. New fills them with the SDL
// window, SDL input and the GL renderer.
type Options struct {
	Surface  Surface
	Events   EventSource
	Renderer renderer.Renderer

	Load        assets.LoadFunc                           // nil uses assets.LoadModel
	LoadTexture func(path string) (*texture.Image, error) // nil uses texture.LoadFile
	PickFile    func() (string, error)                    // nil uses the native file dialog
	Now         func() time.Time                          // nil uses time.Now
}

type queuedKind int

const (
	queuedPick queuedKind = iota // model or texture chosen by the user
	queuedReload
	queuedTexture
)

// queued is work handed to the interactive goroutine by dialog, watcher
// and texture decode goroutines.
type queued struct {
	kind queuedKind
	path string
	gen  uint64 // texture request number
	img  *texture.Image
	err  error
}

// Viewer is the interactive STL viewer.
type Viewer struct {
	cfg *config.Config

	surface     Surface
	events      EventSource
	renderer    renderer.Renderer
	pickFile    func() (string, error)
	loadTexture func(path string) (*texture.Image, error)
	now         func() time.Time

	coord       *assets.Coordinator
	controller  *scene.Controller
	watcher     *assets.Watcher
	screenshots *debug.ScreenshotCapture

	queue      chan queued
	dialogOpen atomic.Bool

	quit          bool
	width, height int
	dragging      bool
	wantShot      bool

	modelPath   string
	modelName   string
	uploaded    bool
	uploadedGen uint64
	textureGen  uint64 // newest texture request; older decodes are dropped
	textureErr  error

	title      string // configured window title
	titleDirty bool
	lastPoll   time.Time
	pulse      int
}

// New creates the window, renderer and input handler and starts loading the
// configured model and texture.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Window first: the renderer needs its GL context.
	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := win.DrawableSize()
	gl, err := renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v, err := NewWithOptions(cfg, Options{
		Surface:  win,
		Events:   input.New(),
		Renderer: gl,
	})
	if err != nil {
		gl.Close()
		win.Close()
		return nil, err
	}

	logger.Info("viewer initialized successfully")
	return v, nil
}

// NewWithOptions creates a viewer on the given collaborators.
func NewWithOptions(cfg *config.Config, opts Options) (*Viewer, error) {
	state, err := scene.StateFromConfig(cfg.Scene)
	if err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}

	v := &Viewer{
		cfg:         cfg,
		surface:     opts.Surface,
		events:      opts.Events,
		renderer:    opts.Renderer,
		pickFile:    opts.PickFile,
		loadTexture: opts.LoadTexture,
		now:         opts.Now,
		queue:       make(chan queued, queueSize),
		title:       cfg.Window.Title,
	}
	if v.pickFile == nil {
		v.pickFile = pickFileNative
	}
	if v.loadTexture == nil {
		v.loadTexture = texture.LoadFile
	}
	if v.now == nil {
		v.now = time.Now
	}
	load := opts.Load
	if load == nil {
		load = assets.LoadModel
	}

	steps := scene.Steps{
		Move:   cfg.Controls.MoveStep,
		Rotate: cfg.Controls.RotateStep,
		Value:  cfg.Controls.ValueStep,
	}
	v.controller = scene.NewController(state, steps, cfg.Controls.Smooth,
		cfg.Controls.SpringFrequency, cfg.Controls.SpringDamping)
	v.coord = assets.NewCoordinator(assets.NewSlot(nil), load)
	v.screenshots = debug.NewScreenshotCapture(cfg.Screenshot.Dir, "stlview", cfg.Screenshot.Format)

	if cfg.Model.Watch {
		v.watcher, err = assets.NewWatcher(cfg.Model.WatchDebounce, func(path string) {
			v.enqueue(queued{kind: queuedReload, path: path})
		})
		if err != nil {
			logger.Warn("model watching disabled", zap.Error(err))
			v.watcher = nil
		}
	}

	v.resize()

	if cfg.Model.Path != "" {
		v.openModel(cfg.Model.Path)
	}
	if cfg.Model.Texture != "" {
		v.openTexture(cfg.Model.Texture)
	}

	return v, nil
}

// Run drives the loop until the window closes or Escape is pressed.
func (v *Viewer) Run() {
	lastTime := v.now()
	frameCount := 0
	fpsTimer := lastTime

	logger.Info("starting viewer loop")

	for !v.quit {
		now := v.now()
		dt := now.Sub(lastTime)
		lastTime = now

		v.step(now, dt)

		frameCount++
		if now.Sub(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = now
		}
	}
}

// Close stops watching and releases the renderer and window. Loads still in
// flight finish in the background and are discarded.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			logger.Warn("closing file watcher", zap.Error(err))
		}
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.surface != nil {
		v.surface.Close()
	}
}

// State returns the current scene state.
func (v *Viewer) State() scene.State {
	return v.controller.State
}

// step runs one frame and reports whether the loop should continue.
func (v *Viewer) step(now time.Time, dt time.Duration) bool {
	if v.events.Update() {
		v.quit = true
		return false
	}
	for _, ev := range v.events.Events() {
		v.handleEvent(ev)
	}
	if v.quit {
		return false
	}

	v.drainQueue()
	v.drainResults()

	v.controller.Update(dt)
	v.syncModel()
	v.updateTitle(now)

	v.renderer.Draw(scene.Build(v.controller.State, v.width, v.height))
	if v.wantShot {
		v.wantShot = false
		v.captureScreenshot()
	}
	v.surface.SwapBuffers()

	return true
}

func (v *Viewer) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		v.quit = true

	case input.EventWindowResize:
		v.resize()

	case input.EventKeyDown:
		v.handleKey(ev)

	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			v.dragging = true
		}

	case input.EventMouseUp:
		if ev.Button == sdl.BUTTON_LEFT {
			v.dragging = false
		}

	case input.EventMouseMove:
		if v.dragging {
			v.controller.Rotate(float32(ev.DeltaY)*dragDegreesPerPixel, float32(ev.DeltaX)*dragDegreesPerPixel)
		}

	case input.EventMouseWheel:
		a := scene.ActionScaleUp
		n := ev.DeltaY
		if n < 0 {
			a = scene.ActionScaleDown
			n = -n
		}
		for range n {
			v.controller.Apply(a)
		}

	case input.EventDropFile:
		v.openPath(ev.Path)
	}
}

func (v *Viewer) handleKey(ev input.Event) {
	switch ev.Keycode {
	case keyQuit:
		v.quit = true
		return
	case keyOpen:
		if !ev.Repeat {
			v.openFileDialog()
		}
		return
	case keyReload:
		if !ev.Repeat && v.modelPath != "" {
			v.coord.Submit(v.modelPath)
		}
		return
	case keyScreenshot:
		if !ev.Repeat {
			v.wantShot = true
		}
		return
	}

	a := actionForKey(ev.Keycode, ev.Repeat)
	if a == scene.ActionNone {
		return
	}
	if v.controller.Apply(a) {
		logger.Debug("scene action", zap.Stringer("action", a))
	}
}

// resize reads the drawable size, which differs from the window size on
// high-DPI displays.
func (v *Viewer) resize() {
	v.width, v.height = v.surface.DrawableSize()
	v.renderer.Resize(v.width, v.height)
}

// enqueue hands work to the interactive goroutine. It never blocks.
func (v *Viewer) enqueue(q queued) {
	select {
	case v.queue <- q:
	default:
		logger.Warn("viewer queue full, dropping request", zap.String("path", q.path))
	}
}

func (v *Viewer) drainQueue() {
	for {
		select {
		case q := <-v.queue:
			switch q.kind {
			case queuedPick:
				v.openPath(q.path)
			case queuedReload:
				v.reload(q.path)
			case queuedTexture:
				v.bindTexture(q)
			}
		default:
			return
		}
	}
}

func (v *Viewer) drainResults() {
	for {
		select {
		case res := <-v.coord.Results():
			if res.Stale {
				continue
			}
			// Show the outcome now rather than at the next progress poll.
			v.titleDirty = true
		default:
			return
		}
	}
}

// syncModel uploads the active model when a newer one has been published.
// The slot lock is released before any GPU work.
func (v *Viewer) syncModel() {
	m, gen := v.coord.Slot().Current()
	if v.uploaded && gen == v.uploadedGen {
		return
	}

	v.uploaded = true
	v.uploadedGen = gen
	if m != nil {
		v.modelName = m.Name
	}

	if err := v.renderer.UploadVertices(m); err != nil {
		logger.Error("vertex upload failed",
			zap.Uint64("generation", gen),
			zap.Error(err),
		)
	}
}

func (v *Viewer) openPath(path string) {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".stl":
		v.openModel(path)
	case isImageExt(ext):
		v.openTexture(path)
	default:
		logger.Warn("ignoring file with unknown type", zap.String("path", path))
	}
}

// openModel makes path the current model and submits it for loading.
func (v *Viewer) openModel(path string) {
	if v.watcher != nil && v.modelPath != "" && v.modelPath != path {
		v.watcher.Unwatch(v.modelPath)
	}
	v.modelPath = path
	v.coord.Submit(path)

	if v.watcher != nil {
		if err := v.watcher.Watch(path); err != nil {
			logger.Warn("cannot watch model file", zap.String("path", path), zap.Error(err))
		}
	}
}

// reload resubmits the current model if path still refers to it.
func (v *Viewer) reload(path string) {
	cur, err := filepath.Abs(v.modelPath)
	if err != nil || cur != path {
		return
	}
	logger.Info("model changed on disk, reloading", zap.String("path", path))
	v.coord.Submit(v.modelPath)
}

// openTexture decodes path on a goroutine and queues the result for binding.
func (v *Viewer) openTexture(path string) {
	v.textureGen++
	gen := v.textureGen
	go func() {
		img, err := v.loadTexture(path)
		v.enqueue(queued{kind: queuedTexture, path: path, gen: gen, img: img, err: err})
	}()
}

// bindTexture binds a decoded texture. On failure the previous texture stays.
// Decodes finishing after a newer request are discarded.
func (v *Viewer) bindTexture(q queued) {
	if q.gen != v.textureGen {
		logger.Debug("discarding superseded texture", zap.String("path", q.path))
		return
	}
	err := q.err
	if err == nil {
		err = v.renderer.BindTexture(q.img)
	}
	if err != nil {
		logger.Error("texture load failed", zap.String("path", q.path), zap.Error(err))
		v.textureErr = err
		v.titleDirty = true
		return
	}

	logger.Info("texture bound",
		zap.String("path", q.path),
		zap.Int("width", q.img.Width),
		zap.Int("height", q.img.Height),
	)
	v.textureErr = nil
	v.titleDirty = true
}

func (v *Viewer) captureScreenshot() {
	c, ok := v.renderer.(renderer.Capturer)
	if !ok {
		logger.Warn("renderer cannot capture screenshots")
		return
	}
	frame, err := c.ReadPixels()
	if err != nil {
		logger.Error("failed to read framebuffer", zap.Error(err))
		return
	}
	path, err := v.screenshots.Capture(frame)
	if err != nil {
		logger.Error("failed to save screenshot", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".bmp", ".tga", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}
