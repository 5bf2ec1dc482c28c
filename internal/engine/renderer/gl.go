package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/stlview/internal/engine/debug"
	"github.com/Faultbox/stlview/internal/engine/model"
	"github.com/Faultbox/stlview/internal/engine/scene"
	"github.com/Faultbox/stlview/internal/engine/shader"
	"github.com/Faultbox/stlview/internal/engine/shader/shaders"
	"github.com/Faultbox/stlview/internal/engine/texture"
	"github.com/Faultbox/stlview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

var modelUniforms = []string{
	"modelMatrix", "projectionMatrix", "tex",
	"LightPosition", "LightIntensity",
	"MaterialKa", "MaterialKd", "MaterialKs",
	"is_light", "is_texture", "model_color",
}

// GL is the OpenGL 4.1 core backend.
type GL struct {
	width, height int

	modelProg *shader.Program
	lightProg *shader.Program

	modelVAO   uint32
	modelVBO   uint32
	modelCount int32

	lightVAO   uint32
	lightVBO   uint32
	lightCount int32

	boundsVAO uint32
	boundsVBO uint32

	texture  uint32
	fallback uint32 // 1x1 white, used until a texture loads
}

// New creates the GL backend.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config) (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &GL{}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	var err error
	r.modelProg, err = shader.NewProgram("model", shaders.ModelVertexShader, shaders.ModelFragmentShader, modelUniforms...)
	if err != nil {
		return nil, err
	}
	r.lightProg, err = shader.NewProgram("light", shaders.LightVertexShader, shaders.LightFragmentShader,
		"modelMatrix", "projectionMatrix", "LightIntensity")
	if err != nil {
		r.Close()
		return nil, err
	}

	r.createModelBuffers()
	r.createLightCube()
	r.boundsVAO, r.boundsVBO = createLineBuffer()
	r.fallback = createTexture(&texture.Image{Pix: []byte{255, 255, 255, 255}, Width: 1, Height: 1})
	r.texture = r.fallback

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

func (r *GL) createModelBuffers() {
	gl.GenVertexArrays(1, &r.modelVAO)
	gl.BindVertexArray(r.modelVAO)

	gl.GenBuffers(1, &r.modelVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.modelVBO)

	// Position (location 0), texcoord (1), normal (2); see model.Vertex.
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, model.VertexStride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, model.VertexStride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, model.VertexStride, 5*4)
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (r *GL) createLightCube() {
	verts := lightCube(LightCubeHalfSize)
	r.lightCount = int32(len(verts) / 3)

	gl.GenVertexArrays(1, &r.lightVAO)
	gl.BindVertexArray(r.lightVAO)

	gl.GenBuffers(1, &r.lightVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lightVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func createLineBuffer() (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, debug.BBoxWireframeVertexCount*3*4, nil, gl.DYNAMIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}

func createTexture(img *texture.Image) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(img.Width), int32(img.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// UploadVertices implements Renderer.
func (r *GL) UploadVertices(m *model.NormalizedModel) error {
	gl.BindBuffer(gl.ARRAY_BUFFER, r.modelVBO)
	defer gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if m == nil || len(m.Vertices) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		r.modelCount = 0
		return nil
	}

	size := len(m.Vertices) * model.VertexStride
	gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)
	if code := gl.GetError(); code != gl.NO_ERROR {
		r.modelCount = 0
		return fmt.Errorf("uploading %d vertices: GL error 0x%x", len(m.Vertices), code)
	}
	r.modelCount = int32(len(m.Vertices))

	lo, hi := m.Bounds()
	lines := debug.BBoxWireframe(lo, hi, debug.DefaultBBoxPadding)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.boundsVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(lines)*4, gl.Ptr(lines))

	logger.Debug("model uploaded",
		zap.String("name", m.Name),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("bytes", size),
	)
	return nil
}

// BindTexture implements Renderer.
func (r *GL) BindTexture(img *texture.Image) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pix) < img.Width*img.Height*4 {
		return fmt.Errorf("%w: invalid texture image", texture.ErrDecodeFailure)
	}

	tex := createTexture(img)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return fmt.Errorf("creating %dx%d texture: GL error 0x%x", img.Width, img.Height, code)
	}

	if r.texture != r.fallback {
		gl.DeleteTextures(1, &r.texture)
	}
	r.texture = tex
	return nil
}

// Draw implements Renderer.
func (r *GL) Draw(f scene.Frame) {
	bg := f.Uniforms.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if !f.Draw {
		return
	}

	u := f.Uniforms

	if u.IsLight {
		r.lightProg.Use()
		r.lightProg.SetMat4("modelMatrix", &f.LightMarker)
		r.lightProg.SetMat4("projectionMatrix", &f.Projection)
		r.lightProg.SetVec3("LightIntensity", u.LightIntensity)
		gl.BindVertexArray(r.lightVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, r.lightCount)
	}

	if r.modelCount > 0 {
		p := r.modelProg
		p.Use()
		p.SetMat4("modelMatrix", &f.Model)
		p.SetMat4("projectionMatrix", &f.Projection)
		p.SetVec3("LightPosition", u.LightPosition)
		p.SetVec3("LightIntensity", u.LightIntensity)
		p.SetVec3("MaterialKa", u.MaterialKa)
		p.SetVec3("MaterialKd", u.MaterialKd)
		p.SetFloat("MaterialKs", u.MaterialKs)
		p.SetBool("is_light", u.IsLight)
		p.SetBool("is_texture", u.IsTexture)
		p.SetVec4("model_color", u.ModelColor)

		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.texture)
		p.SetInt("tex", 0)

		gl.BindVertexArray(r.modelVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, r.modelCount)

		if f.ShowBounds {
			r.lightProg.Use()
			r.lightProg.SetMat4("modelMatrix", &f.Model)
			r.lightProg.SetMat4("projectionMatrix", &f.Projection)
			r.lightProg.SetVec3("LightIntensity", [3]float32{1, 1, 0})
			gl.BindVertexArray(r.boundsVAO)
			gl.DrawArrays(gl.LINES, 0, debug.BBoxWireframeVertexCount)
		}
	}

	gl.BindVertexArray(0)
}

// Resize implements Renderer.
func (r *GL) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels implements Capturer.
func (r *GL) ReadPixels() (*texture.Image, error) {
	if r.width <= 0 || r.height <= 0 {
		return nil, fmt.Errorf("empty viewport %dx%d", r.width, r.height)
	}
	img := &texture.Image{
		Pix:    make([]byte, r.width*r.height*4),
		Width:  r.width,
		Height: r.height,
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	return img, nil
}

// Close implements Renderer.
func (r *GL) Close() {
	logger.Info("closing renderer")
	if r.modelVAO != 0 {
		gl.DeleteVertexArrays(1, &r.modelVAO)
		gl.DeleteBuffers(1, &r.modelVBO)
	}
	if r.lightVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lightVAO)
		gl.DeleteBuffers(1, &r.lightVBO)
	}
	if r.boundsVAO != 0 {
		gl.DeleteVertexArrays(1, &r.boundsVAO)
		gl.DeleteBuffers(1, &r.boundsVBO)
	}
	if r.texture != 0 && r.texture != r.fallback {
		gl.DeleteTextures(1, &r.texture)
	}
	if r.fallback != 0 {
		gl.DeleteTextures(1, &r.fallback)
	}
	if r.modelProg != nil {
		r.modelProg.Delete()
	}
	if r.lightProg != nil {
		r.lightProg.Delete()
	}
}

var (
	_ Renderer = (*GL)(nil)
	_ Capturer = (*GL)(nil)
)
