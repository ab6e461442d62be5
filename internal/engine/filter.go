package engine

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/guttosm/image-proxy/internal/domain/model"
	"github.com/lucasb-eyer/go-colorful"
)

// tint is a colour grading preset: every pixel is pulled toward color by
// strength in CIE-Lab space.
type tint struct {
	color    colorful.Color
	strength float64
}

var presets = map[model.FilterKind]tint{
	model.FilterOceanic: {color: colorful.Color{R: 0.0, G: 0.47, B: 0.75}, strength: 0.25},
	model.FilterIslands: {color: colorful.Color{R: 0.15, G: 0.65, B: 0.60}, strength: 0.22},
	model.FilterMarine:  {color: colorful.Color{R: 0.0, G: 0.70, B: 0.70}, strength: 0.30},
}

func applyFilter(img image.Image, kind model.FilterKind) (image.Image, error) {
	t, ok := presets[kind]
	if !ok {
		return nil, fmt.Errorf("%w: filter %s", ErrUnsupportedStep, kind)
	}

	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		if c.A == 0 {
			return c
		}
		// bild hands over premultiplied values.
		src := colorful.Color{
			R: float64(c.R) / float64(c.A),
			G: float64(c.G) / float64(c.A),
			B: float64(c.B) / float64(c.A),
		}
		r, g, b := src.BlendLab(t.color, t.strength).Clamped().RGB255()
		a := uint16(c.A)
		return color.RGBA{
			R: uint8(uint16(r) * a / 255),
			G: uint8(uint16(g) * a / 255),
			B: uint8(uint16(b) * a / 255),
			A: c.A,
		}
	}), nil
}
