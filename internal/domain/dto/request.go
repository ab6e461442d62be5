// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"fmt"
	"time"

	"github.com/guttosm/image-proxy/internal/domain/model"
)

// SpecRequest represents the JSON request body for building a transform token.
//
// Steps are applied in the order given.
//
// @Description Ordered list of transformation steps to encode
// @Example {"steps": [{"type": "resize", "width": 600, "height": 800, "filter": "catmull_rom"}, {"type": "filter", "kind": "marine"}], "source": "https://example.com/cat.jpg"}
type SpecRequest struct {
	Steps []StepRequest `json:"steps" binding:"required,min=1,dive"`
	// Source is an optional source URL used to build a ready-to-use path.
	Source string `json:"source,omitempty" example:"https://example.com/cat.jpg"`
} // @name SpecRequest

// StepRequest is one transformation step. Only the fields relevant to Type
// are read.
type StepRequest struct {
	// Type is one of resize, crop, flipv, fliph, contrast, filter, watermark.
	Type string `json:"type" binding:"required" example:"resize"`
	// Resize
	Width  uint32 `json:"width,omitempty" example:"600"`
	Height uint32 `json:"height,omitempty" example:"800"`
	Mode   string `json:"mode,omitempty" example:"normal"`
	Filter string `json:"filter,omitempty" example:"lanczos3"`
	// Crop
	X1 uint32 `json:"x1,omitempty"`
	Y1 uint32 `json:"y1,omitempty"`
	X2 uint32 `json:"x2,omitempty"`
	Y2 uint32 `json:"y2,omitempty"`
	// Contrast, percent in [-100, 100]
	Amount float32 `json:"amount,omitempty" example:"20"`
	// Filter preset: oceanic, islands, marine
	Kind string `json:"kind,omitempty" example:"marine"`
	// Watermark offset
	X uint32 `json:"x,omitempty"`
	Y uint32 `json:"y,omitempty"`
} // @name StepRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ToSpec converts the request into a validated TransformSpec.
func (r *SpecRequest) ToSpec() (model.TransformSpec, error) {
	steps := make([]model.Step, 0, len(r.Steps))
	for i, sr := range r.Steps {
		step, err := sr.toStep()
		if err != nil {
			return model.TransformSpec{}, &ValidationError{
				Field:   fmt.Sprintf("steps[%d]", i),
				Message: err.Error(),
			}
		}
		steps = append(steps, step)
	}

	spec := model.NewTransformSpec(steps...)
	if err := spec.Validate(); err != nil {
		return model.TransformSpec{}, &ValidationError{Field: "steps", Message: err.Error()}
	}
	return spec, nil
}

func (sr StepRequest) toStep() (model.Step, error) {
	kind, ok := model.ParseStepKind(sr.Type)
	if !ok {
		return nil, fmt.Errorf("unknown step type %q", sr.Type)
	}

	switch kind {
	case model.StepResize:
		mode, ok := model.ParseResizeMode(sr.Mode)
		if !ok {
			return nil, fmt.Errorf("unknown resize mode %q", sr.Mode)
		}
		filter, ok := model.ParseSampleFilter(sr.Filter)
		if !ok {
			return nil, fmt.Errorf("unknown sample filter %q", sr.Filter)
		}
		return model.Resize{Width: sr.Width, Height: sr.Height, Mode: mode, Filter: filter}, nil
	case model.StepCrop:
		return model.Crop{X1: sr.X1, Y1: sr.Y1, X2: sr.X2, Y2: sr.Y2}, nil
	case model.StepFlipV:
		return model.FlipV{}, nil
	case model.StepFlipH:
		return model.FlipH{}, nil
	case model.StepContrast:
		return model.Contrast{Amount: sr.Amount}, nil
	case model.StepFilter:
		fk, ok := model.ParseFilterKind(sr.Kind)
		if !ok {
			return nil, fmt.Errorf("unknown filter %q", sr.Kind)
		}
		return model.Filter{Preset: fk}, nil
	default:
		return model.Watermark{X: sr.X, Y: sr.Y}, nil
	}
}

// StepsFromSpec converts a TransformSpec into its JSON step list.
func StepsFromSpec(spec model.TransformSpec) []StepRequest {
	out := make([]StepRequest, 0, spec.Len())
	for _, step := range spec.Steps() {
		sr := StepRequest{Type: step.Kind().String()}
		switch s := step.(type) {
		case model.Resize:
			sr.Width, sr.Height = s.Width, s.Height
			sr.Mode = s.Mode.String()
			sr.Filter = s.Filter.String()
		case model.Crop:
			sr.X1, sr.Y1, sr.X2, sr.Y2 = s.X1, s.Y1, s.X2, s.Y2
		case model.Contrast:
			sr.Amount = s.Amount
		case model.Filter:
			sr.Kind = s.Preset.String()
		case model.Watermark:
			sr.X, sr.Y = s.X, s.Y
		}
		out = append(out, sr)
	}
	return out
}

// LogsQuery represents the query string accepted by GET /api/logs.
type LogsQuery struct {
	RequestID   string     `form:"request_id"`
	Level       string     `form:"level" binding:"omitempty,oneof=debug info warn error"`
	SourceHost  string     `form:"source_host"`
	CacheStatus string     `form:"cache_status" binding:"omitempty,oneof=HIT MISS"`
	Since       *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until       *time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit       int        `form:"limit" binding:"omitempty,min=1,max=500"`
	Skip        int        `form:"skip" binding:"omitempty,min=0"`
}

// ToOptions converts the query into repository options.
func (q LogsQuery) ToOptions() model.LogQueryOptions {
	return model.LogQueryOptions{
		RequestID:   q.RequestID,
		Level:       q.Level,
		SourceHost:  q.SourceHost,
		CacheStatus: q.CacheStatus,
		StartTime:   q.Since,
		EndTime:     q.Until,
		Limit:       q.Limit,
		Skip:        q.Skip,
	}
}
