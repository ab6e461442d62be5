//go:build !integration

package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/image-proxy/internal/domain/model"
)

func TestSpecRequest_ToSpec(t *testing.T) {
	tests := []struct {
		name      string
		request   SpecRequest
		wantSteps []model.Step
		wantField string
	}{
		{
			name: "every step type",
			request: SpecRequest{Steps: []StepRequest{
				{Type: "resize", Width: 600, Height: 800, Mode: "fill", Filter: "catmull_rom"},
				{Type: "crop", X1: 10, Y1: 10, X2: 110, Y2: 60},
				{Type: "flipv"},
				{Type: "fliph"},
				{Type: "contrast", Amount: -25},
				{Type: "filter", Kind: "marine"},
				{Type: "watermark", X: 5, Y: 7},
			}},
			wantSteps: []model.Step{
				model.Resize{Width: 600, Height: 800, Mode: model.ResizeFill, Filter: model.SampleCatmullRom},
				model.Crop{X1: 10, Y1: 10, X2: 110, Y2: 60},
				model.FlipV{},
				model.FlipH{},
				model.Contrast{Amount: -25},
				model.Filter{Preset: model.FilterMarine},
				model.Watermark{X: 5, Y: 7},
			},
		},
		{
			name:      "resize defaults",
			request:   SpecRequest{Steps: []StepRequest{{Type: "resize", Width: 100}}},
			wantSteps: []model.Step{model.Resize{Width: 100}},
		},
		{
			name:      "unknown step type",
			request:   SpecRequest{Steps: []StepRequest{{Type: "blur"}}},
			wantField: "steps[0]",
		},
		{
			name: "unknown resize mode",
			request: SpecRequest{Steps: []StepRequest{
				{Type: "flipv"},
				{Type: "resize", Width: 10, Mode: "stretch"},
			}},
			wantField: "steps[1]",
		},
		{
			name:      "unknown sample filter",
			request:   SpecRequest{Steps: []StepRequest{{Type: "resize", Width: 10, Filter: "bicubic"}}},
			wantField: "steps[0]",
		},
		{
			name:      "unknown filter preset",
			request:   SpecRequest{Steps: []StepRequest{{Type: "filter", Kind: "sepia"}}},
			wantField: "steps[0]",
		},
		{
			name:      "empty crop fails spec validation",
			request:   SpecRequest{Steps: []StepRequest{{Type: "crop", X1: 5, X2: 5, Y2: 10}}},
			wantField: "steps",
		},
		{
			name:      "contrast out of range",
			request:   SpecRequest{Steps: []StepRequest{{Type: "contrast", Amount: 150}}},
			wantField: "steps",
		},
		{
			name:      "no steps",
			request:   SpecRequest{},
			wantField: "steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tt.request.ToSpec()
			if tt.wantField != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
				assert.NotEmpty(t, verr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSteps, spec.Steps())
		})
	}
}

func TestStepsFromSpec(t *testing.T) {
	spec := model.NewTransformSpec(
		model.Resize{Width: 300, Height: 200, Filter: model.SampleLanczos3},
		model.Crop{X1: 1, Y1: 2, X2: 3, Y2: 4},
		model.FlipH{},
		model.Contrast{Amount: 12.5},
		model.Filter{Preset: model.FilterOceanic},
		model.Watermark{X: 9, Y: 8},
	)

	steps := StepsFromSpec(spec)

	assert.Equal(t, []StepRequest{
		{Type: "resize", Width: 300, Height: 200, Mode: "normal", Filter: "lanczos3"},
		{Type: "crop", X1: 1, Y1: 2, X2: 3, Y2: 4},
		{Type: "fliph"},
		{Type: "contrast", Amount: 12.5},
		{Type: "filter", Kind: "oceanic"},
		{Type: "watermark", X: 9, Y: 8},
	}, steps)

	roundTrip, err := (&SpecRequest{Steps: steps}).ToSpec()
	require.NoError(t, err)
	assert.Equal(t, spec.Steps(), roundTrip.Steps())
}

func TestLogsQuery_ToOptions(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(time.Hour)

	q := LogsQuery{
		RequestID:   "req-1",
		Level:       "warn",
		SourceHost:  "example.com",
		CacheStatus: "HIT",
		Since:       &since,
		Until:       &until,
		Limit:       20,
		Skip:        40,
	}

	assert.Equal(t, model.LogQueryOptions{
		RequestID:   "req-1",
		Level:       "warn",
		SourceHost:  "example.com",
		CacheStatus: "HIT",
		StartTime:   &since,
		EndTime:     &until,
		Limit:       20,
		Skip:        40,
	}, q.ToOptions())
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name          string
		validationErr *ValidationError
		expected      string
	}{
		{
			name:          "step field",
			validationErr: &ValidationError{Field: "steps[2]", Message: "unknown filter \"sepia\""},
			expected:      "steps[2]: unknown filter \"sepia\"",
		},
		{
			name:          "whole spec",
			validationErr: &ValidationError{Field: "steps", Message: "transform spec has no steps"},
			expected:      "steps: transform spec has no steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.validationErr.Error())
		})
	}
}
