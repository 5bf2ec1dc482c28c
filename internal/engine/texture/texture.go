// Package texture decodes texture images into tightly packed RGBA rows
// ready for upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrDecodeFailure is returned for unreadable or undecodable image data.
var ErrDecodeFailure = errors.New("texture decode failure")

// Image is an RGBA8 image whose first row is the bottom of the picture,
// which is the order OpenGL expects.
type Image struct {
	Pix    []byte // 4 bytes per pixel, Width*4 bytes per row
	Width  int
	Height int
}

// Stride returns the byte length of one row.
func (img *Image) Stride() int {
	return img.Width * 4
}

// decoder pairs a format with the leading bytes that identify it.
type decoder struct {
	name   string
	match  func([]byte) bool
	decode func(io.Reader) (image.Image, error)
}

func prefix(magic string) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, []byte(magic)) }
}

// TGA has no signature, so it is tried last for anything unrecognized.
// Formats are matched here rather than through image.RegisterFormat because
// the TGA package registers an empty magic that would shadow the others.
var decoders = []decoder{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"bmp", prefix("BM"), bmp.Decode},
	{"tiff", func(b []byte) bool {
		return bytes.HasPrefix(b, []byte("II*\x00")) || bytes.HasPrefix(b, []byte("MM\x00*"))
	}, tiff.Decode},
	{"webp", func(b []byte) bool {
		return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP"
	}, webp.Decode},
	{"tga", func([]byte) bool { return true }, tga.Decode},
}

// Sniff returns the name of the decoder data would be handed to.
func Sniff(data []byte) string {
	for _, d := range decoders {
		if d.match(data) {
			return d.name
		}
	}
	return ""
}

// LoadFile reads and decodes an image file.
func LoadFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, path, err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode decodes PNG, JPEG, BMP, TIFF, WebP or TGA data.
func Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrDecodeFailure)
	}

	for _, d := range decoders {
		if !d.match(data) {
			continue
		}
		src, err := d.decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, d.name, err)
		}
		return FromImage(src)
	}
	return nil, fmt.Errorf("%w: unknown format", ErrDecodeFailure)
}

// FromImage converts src to bottom-up RGBA rows.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrDecodeFailure)
	}

	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}

	img := &Image{
		Pix:    make([]byte, len(rgba.Pix)),
		Width:  b.Dx(),
		Height: b.Dy(),
	}

	stride := img.Stride()
	for y := 0; y < img.Height; y++ {
		srcRow := rgba.Pix[y*rgba.Stride : y*rgba.Stride+stride]
		dstRow := img.Pix[(img.Height-1-y)*stride:]
		copy(dstRow[:stride], srcRow)
	}

	return img, nil
}

// ToRGBA converts back to a top-down image, e.g. for screenshots.
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	stride := img.Stride()
	for y := 0; y < img.Height; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+stride], img.Pix[(img.Height-1-y)*stride:])
	}
	return out
}
