// Package model provides domain models for the image proxy.
package model

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MaxSteps bounds the number of steps accepted in one spec.
	MaxSteps = 32
	// MaxDimension bounds any requested output width or height in pixels.
	MaxDimension = 8192
)

var (
	// ErrEmptySpec is returned when a spec has no steps.
	ErrEmptySpec = errors.New("transform spec has no steps")
	// ErrTooManySteps is returned when a spec exceeds MaxSteps.
	ErrTooManySteps = errors.New("transform spec has too many steps")
	// ErrInvalidStep wraps every per-step validation failure.
	ErrInvalidStep = errors.New("invalid transform step")
)

// StepKind identifies the variant of a Step.
type StepKind int

const (
	StepResize StepKind = iota + 1
	StepCrop
	StepFlipV
	StepFlipH
	StepContrast
	StepFilter
	StepWatermark
)

var stepKindNames = map[StepKind]string{
	StepResize:    "resize",
	StepCrop:      "crop",
	StepFlipV:     "flipv",
	StepFlipH:     "fliph",
	StepContrast:  "contrast",
	StepFilter:    "filter",
	StepWatermark: "watermark",
}

func (k StepKind) String() string {
	if name, ok := stepKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseStepKind returns the StepKind for its lowercase name.
func ParseStepKind(name string) (StepKind, bool) {
	for k, n := range stepKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// ResizeMode selects how a resize treats the aspect ratio.
type ResizeMode int

const (
	// ResizeNormal scales to the requested box; a zero side keeps the aspect ratio.
	ResizeNormal ResizeMode = iota
	// ResizeFill scales and center-crops to exactly fill the requested box.
	ResizeFill
)

var resizeModeNames = []string{"normal", "fill"}

func (m ResizeMode) String() string {
	if m >= 0 && int(m) < len(resizeModeNames) {
		return resizeModeNames[m]
	}
	return "unknown"
}

// ParseResizeMode returns the ResizeMode for its name. Empty means normal.
func ParseResizeMode(name string) (ResizeMode, bool) {
	if name == "" {
		return ResizeNormal, true
	}
	for i, n := range resizeModeNames {
		if n == name {
			return ResizeMode(i), true
		}
	}
	return 0, false
}

// SampleFilter is the resampling kernel used by a resize.
type SampleFilter int

const (
	// SampleUndefined lets the engine choose its default kernel.
	SampleUndefined SampleFilter = iota
	SampleNearest
	SampleTriangle
	SampleCatmullRom
	SampleGaussian
	SampleLanczos3
)

var sampleFilterNames = []string{"", "nearest", "triangle", "catmull_rom", "gaussian", "lanczos3"}

func (f SampleFilter) String() string {
	if f >= 0 && int(f) < len(sampleFilterNames) {
		if f == SampleUndefined {
			return "default"
		}
		return sampleFilterNames[f]
	}
	return "unknown"
}

// ParseSampleFilter returns the SampleFilter for its name. Empty or "default"
// means SampleUndefined.
func ParseSampleFilter(name string) (SampleFilter, bool) {
	if name == "" || name == "default" {
		return SampleUndefined, true
	}
	for i, n := range sampleFilterNames {
		if i > 0 && n == name {
			return SampleFilter(i), true
		}
	}
	return 0, false
}

// FilterKind is a named colour grading preset.
type FilterKind int

const (
	FilterUnspecified FilterKind = iota
	FilterOceanic
	FilterIslands
	FilterMarine
)

var filterKindNames = []string{"unspecified", "oceanic", "islands", "marine"}

func (f FilterKind) String() string {
	if f >= 0 && int(f) < len(filterKindNames) {
		return filterKindNames[f]
	}
	return "unknown"
}

// ParseFilterKind returns the FilterKind for its name.
func ParseFilterKind(name string) (FilterKind, bool) {
	for i, n := range filterKindNames {
		if i > 0 && n == name {
			return FilterKind(i), true
		}
	}
	return 0, false
}

// Step is one transformation. The set of implementations is closed; the
// engine and the codec switch over the concrete types below.
type Step interface {
	Kind() StepKind
	Validate() error
	isStep()
}

// Resize scales the image to Width x Height.
type Resize struct {
	Width  uint32
	Height uint32
	Mode   ResizeMode
	Filter SampleFilter
}

// Crop keeps the rectangle [X1,X2) x [Y1,Y2).
type Crop struct {
	X1, Y1, X2, Y2 uint32
}

// FlipV mirrors the image top to bottom.
type FlipV struct{}

// FlipH mirrors the image left to right.
type FlipH struct{}

// Contrast changes contrast by Amount percent in [-100, 100].
type Contrast struct {
	Amount float32
}

// Filter applies a colour grading preset.
type Filter struct {
	Preset FilterKind
}

// Watermark overlays the watermark image with its top-left corner at (X, Y).
type Watermark struct {
	X, Y uint32
}

func (Resize) Kind() StepKind    { return StepResize }
func (Crop) Kind() StepKind      { return StepCrop }
func (FlipV) Kind() StepKind     { return StepFlipV }
func (FlipH) Kind() StepKind     { return StepFlipH }
func (Contrast) Kind() StepKind  { return StepContrast }
func (Filter) Kind() StepKind    { return StepFilter }
func (Watermark) Kind() StepKind { return StepWatermark }

func (Resize) isStep()    {}
func (Crop) isStep()      {}
func (FlipV) isStep()     {}
func (FlipH) isStep()     {}
func (Contrast) isStep()  {}
func (Filter) isStep()    {}
func (Watermark) isStep() {}

// Validate checks the resize box and enum values.
func (r Resize) Validate() error {
	if r.Width == 0 && r.Height == 0 {
		return fmt.Errorf("%w: resize needs a width or a height", ErrInvalidStep)
	}
	if r.Width > MaxDimension || r.Height > MaxDimension {
		return fmt.Errorf("%w: resize exceeds %dpx", ErrInvalidStep, MaxDimension)
	}
	if r.Mode != ResizeNormal && r.Mode != ResizeFill {
		return fmt.Errorf("%w: unknown resize mode %d", ErrInvalidStep, r.Mode)
	}
	if r.Mode == ResizeFill && (r.Width == 0 || r.Height == 0) {
		return fmt.Errorf("%w: fill resize needs both width and height", ErrInvalidStep)
	}
	if r.Filter < SampleUndefined || r.Filter > SampleLanczos3 {
		return fmt.Errorf("%w: unknown sample filter %d", ErrInvalidStep, r.Filter)
	}
	return nil
}

// Validate checks that the rectangle is not empty.
func (c Crop) Validate() error {
	if c.X1 >= c.X2 || c.Y1 >= c.Y2 {
		return fmt.Errorf("%w: crop needs x1 < x2 and y1 < y2", ErrInvalidStep)
	}
	return nil
}

// Validate always succeeds.
func (FlipV) Validate() error { return nil }

// Validate always succeeds.
func (FlipH) Validate() error { return nil }

// Validate checks the contrast range.
func (c Contrast) Validate() error {
	a := float64(c.Amount)
	if math.IsNaN(a) || a < -100 || a > 100 {
		return fmt.Errorf("%w: contrast must be within [-100, 100]", ErrInvalidStep)
	}
	return nil
}

// Validate rejects the unspecified preset.
func (f Filter) Validate() error {
	if f.Preset <= FilterUnspecified || f.Preset > FilterMarine {
		return fmt.Errorf("%w: unknown filter %d", ErrInvalidStep, f.Preset)
	}
	return nil
}

// Validate bounds the watermark offset.
func (w Watermark) Validate() error {
	if w.X > MaxDimension || w.Y > MaxDimension {
		return fmt.Errorf("%w: watermark offset exceeds %dpx", ErrInvalidStep, MaxDimension)
	}
	return nil
}

// TransformSpec is an ordered, immutable list of steps applied left to right.
type TransformSpec struct {
	steps []Step
}

// NewTransformSpec builds a spec from steps. The slice is copied.
func NewTransformSpec(steps ...Step) TransformSpec {
	s := make([]Step, len(steps))
	copy(s, steps)
	return TransformSpec{steps: s}
}

// Steps returns a copy of the ordered step list.
func (s TransformSpec) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Len returns the number of steps.
func (s TransformSpec) Len() int {
	return len(s.steps)
}

// Validate checks the overall spec and every step in order.
func (s TransformSpec) Validate() error {
	if len(s.steps) == 0 {
		return ErrEmptySpec
	}
	if len(s.steps) > MaxSteps {
		return ErrTooManySteps
	}
	for i, step := range s.steps {
		if step == nil {
			return fmt.Errorf("%w: step %d is empty", ErrInvalidStep, i)
		}
		if err := step.Validate(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Kind(), err)
		}
	}
	return nil
}

// KindNames returns the step kind names in order, for logging.
func (s TransformSpec) KindNames() []string {
	names := make([]string, len(s.steps))
	for i, step := range s.steps {
		names[i] = step.Kind().String()
	}
	return names
}
