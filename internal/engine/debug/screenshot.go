package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"github.com/Faultbox/stlview/internal/engine/texture"
)

// ScreenshotCapture writes frames to timestamped image files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    string // png or webp
	now       func() time.Time
	create    func(name string) (io.WriteCloser, error)
}

// NewScreenshotCapture creates a screenshot writer. An unknown format falls back to png.
func NewScreenshotCapture(outputDir, prefix, format string) *ScreenshotCapture {
	if format != "webp" {
		format = "png"
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
		create:    createFile,
	}
}

// Capture saves a bottom-up framebuffer image and returns the file written.
func (sc *ScreenshotCapture) Capture(frame *texture.Image) (string, error) {
	if frame == nil {
		return "", fmt.Errorf("no frame to capture")
	}
	if len(frame.Pix) != frame.Width*frame.Height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", frame.Width*frame.Height*4, len(frame.Pix))
	}
	return sc.CaptureFromImage(frame.ToRGBA())
}

// CaptureFromImage saves an image and returns the file written.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()

	file, err := sc.create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	err = sc.encode(file, img)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing file: %w", cerr)
	}
	if err != nil {
		os.Remove(filename)
		return "", err
	}

	return filename, nil
}

func (sc *ScreenshotCapture) encode(w io.Writer, img image.Image) error {
	switch sc.format {
	case "webp":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("encoding WebP: %w", err)
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
	}
	return nil
}

// GenerateFilename generates a screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.%s", sc.prefix, timestamp, sc.format)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

func createFile(name string) (io.WriteCloser, error) {
	return os.Create(name)
}
