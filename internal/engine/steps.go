package engine

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/guttosm/image-proxy/internal/domain/model"
)

func (e *Imaging) apply(img image.Image, step model.Step) (image.Image, error) {
	switch s := step.(type) {
	case model.Resize:
		return resize(img, s), nil
	case model.Crop:
		return crop(img, s), nil
	case model.FlipV:
		return imaging.FlipV(img), nil
	case model.FlipH:
		return imaging.FlipH(img), nil
	case model.Contrast:
		return imaging.AdjustContrast(img, float64(s.Amount)), nil
	case model.Filter:
		return applyFilter(img, s.Preset)
	case model.Watermark:
		return imaging.Overlay(img, e.watermark, image.Pt(int(s.X), int(s.Y)), 1.0), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedStep, step)
	}
}

func resize(img image.Image, r model.Resize) image.Image {
	w, h := int(r.Width), int(r.Height)
	filter := resampleFilter(r.Filter)
	if r.Mode == model.ResizeFill && w > 0 && h > 0 {
		return imaging.Fill(img, w, h, imaging.Center, filter)
	}
	return imaging.Resize(img, w, h, filter)
}

func resampleFilter(f model.SampleFilter) imaging.ResampleFilter {
	switch f {
	case model.SampleNearest:
		return imaging.NearestNeighbor
	case model.SampleTriangle:
		return imaging.Linear
	case model.SampleCatmullRom:
		return imaging.CatmullRom
	case model.SampleGaussian:
		return imaging.Gaussian
	default:
		return imaging.Lanczos
	}
}

// crop keeps the part of the rectangle that overlaps the image. A rectangle
// that misses the image entirely leaves it unchanged.
func crop(img image.Image, c model.Crop) image.Image {
	b := img.Bounds()
	rect := image.Rect(int(c.X1), int(c.Y1), int(c.X2), int(c.Y2)).Add(b.Min).Intersect(b)
	if rect.Empty() {
		return img
	}
	return imaging.Crop(img, rect)
}
