// Package engine decodes source images, applies transform steps and encodes
// the result.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/guttosm/image-proxy/internal/domain/model"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// MaxPixels bounds the decoded size of a source image.
const MaxPixels = 64 << 20

var (
	// ErrDecode is wrapped when source bytes are not a supported image.
	ErrDecode = errors.New("cannot decode image")
	// ErrEncode is wrapped when the output image cannot be encoded.
	ErrEncode = errors.New("cannot encode image")
	// ErrUnsupportedStep is returned for a step the engine does not know.
	ErrUnsupportedStep = errors.New("unsupported transform step")
)

// Engine is the pixel pipeline used by the image service.
type Engine interface {
	Decode(data []byte) (*Image, error)
	Apply(img *Image, steps []model.Step) error
	Encode(img *Image, format Format) ([]byte, error)
}

// Image is a decoded buffer owned by a single request.
type Image struct {
	img    image.Image
	format string
}

// NewImage wraps an already decoded image.
func NewImage(img image.Image) *Image {
	return &Image{img: img}
}

// Width returns the current width in pixels.
func (i *Image) Width() int { return i.img.Bounds().Dx() }

// Height returns the current height in pixels.
func (i *Image) Height() int { return i.img.Bounds().Dy() }

// SourceFormat returns the format name detected at decode time.
func (i *Image) SourceFormat() string { return i.format }

// Raw returns the underlying image.
func (i *Image) Raw() image.Image { return i.img }

// Format describes the encoded output.
type Format struct {
	// Quality is the JPEG quality, 1-100.
	Quality int
}

// DefaultQuality is used when Format.Quality is outside 1-100.
const DefaultQuality = 85

// JPEG returns a JPEG output format at the given quality.
func JPEG(quality int) Format {
	return Format{Quality: quality}
}

// ContentType returns the MIME type of the encoded output.
func (Format) ContentType() string {
	return "image/jpeg"
}

func (f Format) quality() int {
	if f.Quality < 1 || f.Quality > 100 {
		return DefaultQuality
	}
	return f.Quality
}

// Imaging is the Engine backed by disintegration/imaging.
type Imaging struct {
	watermark image.Image
}

var _ Engine = (*Imaging)(nil)

// New creates an Imaging engine that stamps watermark for watermark steps.
// A nil watermark uses DefaultWatermark.
func New(watermark image.Image) *Imaging {
	if watermark == nil {
		watermark = DefaultWatermark()
	}
	return &Imaging{watermark: watermark}
}

// Decode parses JPEG, PNG, GIF, BMP, TIFF or WebP bytes and applies EXIF orientation.
func (e *Imaging) Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds pixel limit", ErrDecode, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &Image{img: img, format: format}, nil
}

// Apply runs steps in order, replacing the image buffer after each one.
func (e *Imaging) Apply(img *Image, steps []model.Step) error {
	for i, step := range steps {
		out, err := e.apply(img.img, step)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		img.img = out
	}
	return nil
}

// Encode writes img as JPEG. Transparent pixels are flattened onto white.
func (e *Imaging) Encode(img *Image, format Format) ([]byte, error) {
	if img == nil || img.img == nil {
		return nil, fmt.Errorf("%w: no image", ErrEncode)
	}
	src := flatten(img.img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(format.quality())); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	if b.Empty() {
		return img
	}
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
