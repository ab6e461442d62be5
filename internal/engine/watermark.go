package engine

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultWatermark returns the built-in mark: a translucent white tile with
// a darker border.
func DefaultWatermark() image.Image {
	const w, h = 96, 32
	mark := imaging.New(w, h, color.NRGBA{R: 255, G: 255, B: 255, A: 140})
	border := color.NRGBA{R: 40, G: 40, B: 40, A: 200}
	for x := 0; x < w; x++ {
		mark.SetNRGBA(x, 0, border)
		mark.SetNRGBA(x, h-1, border)
	}
	for y := 0; y < h; y++ {
		mark.SetNRGBA(0, y, border)
		mark.SetNRGBA(w-1, y, border)
	}
	return mark
}

// LoadWatermark opens the watermark image at path. An empty path returns
// DefaultWatermark.
func LoadWatermark(path string) (image.Image, error) {
	if path == "" {
		return DefaultWatermark(), nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load watermark %s: %w", path, err)
	}
	return img, nil
}
