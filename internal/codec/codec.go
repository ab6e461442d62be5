// Package codec converts transform specs to and from the URL-safe token
// carried in the image route.
//
// A token is the unpadded base64url encoding of a protobuf message:
//
//	ImageSpec { repeated Spec specs = 1; }
//	Spec      { oneof { Resize resize = 1; Crop crop = 2; Flipv flipv = 3;
//	            Fliph fliph = 4; Contrast contrast = 5; Filter filter = 6;
//	            Watermark watermark = 7; } }
//	Resize    { uint32 width = 1; uint32 height = 2; ResizeMode mode = 3; SampleFilter filter = 4; }
//	Crop      { uint32 x1 = 1; uint32 y1 = 2; uint32 x2 = 3; uint32 y2 = 4; }
//	Contrast  { float amount = 1; }
//	Filter    { FilterKind kind = 1; }
//	Watermark { uint32 x = 1; uint32 y = 2; }
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"github.com/guttosm/image-proxy/internal/domain/model"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrInvalidSpec is returned by Decode for any malformed or invalid token.
var ErrInvalidSpec = errors.New("invalid transform spec")

// MaxTokenLength bounds the accepted token size before decoding.
const MaxTokenLength = 4096

const fieldSpecs protowire.Number = 1

var encoding = base64.RawURLEncoding

// Encode serializes spec into a token. The spec is validated first.
func Encode(spec model.TransformSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	var buf []byte
	for _, step := range spec.Steps() {
		num, body, err := marshalStep(step)
		if err != nil {
			return "", err
		}
		var inner []byte
		inner = protowire.AppendTag(inner, num, protowire.BytesType)
		inner = protowire.AppendBytes(inner, body)

		buf = protowire.AppendTag(buf, fieldSpecs, protowire.BytesType)
		buf = protowire.AppendBytes(buf, inner)
	}
	return encoding.EncodeToString(buf), nil
}

// Decode parses a token into a validated spec. Every failure wraps ErrInvalidSpec.
func Decode(token string) (model.TransformSpec, error) {
	if token == "" {
		return model.TransformSpec{}, fmt.Errorf("%w: empty token", ErrInvalidSpec)
	}
	if len(token) > MaxTokenLength {
		return model.TransformSpec{}, fmt.Errorf("%w: token longer than %d bytes", ErrInvalidSpec, MaxTokenLength)
	}
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return model.TransformSpec{}, fmt.Errorf("%w: base64: %v", ErrInvalidSpec, err)
	}

	var steps []model.Step
	err = walk(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldSpecs {
			return skip(num, typ, b)
		}
		body, n, err := consumeBytes(typ, b)
		if err != nil {
			return 0, err
		}
		step, err := unmarshalSpec(body)
		if err != nil {
			return 0, fmt.Errorf("step %d: %w", len(steps), err)
		}
		steps = append(steps, step)
		if len(steps) > model.MaxSteps {
			return 0, model.ErrTooManySteps
		}
		return n, nil
	})
	if err != nil {
		return model.TransformSpec{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}

	spec := model.NewTransformSpec(steps...)
	if err := spec.Validate(); err != nil {
		return model.TransformSpec{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	return spec, nil
}

func marshalStep(step model.Step) (protowire.Number, []byte, error) {
	var b []byte
	switch s := step.(type) {
	case model.Resize:
		b = appendVarint(b, 1, uint64(s.Width))
		b = appendVarint(b, 2, uint64(s.Height))
		b = appendVarint(b, 3, uint64(s.Mode))
		b = appendVarint(b, 4, uint64(s.Filter))
	case model.Crop:
		b = appendVarint(b, 1, uint64(s.X1))
		b = appendVarint(b, 2, uint64(s.Y1))
		b = appendVarint(b, 3, uint64(s.X2))
		b = appendVarint(b, 4, uint64(s.Y2))
	case model.FlipV, model.FlipH:
	case model.Contrast:
		if s.Amount != 0 {
			b = protowire.AppendTag(b, 1, protowire.Fixed32Type)
			b = protowire.AppendFixed32(b, math.Float32bits(s.Amount))
		}
	case model.Filter:
		b = appendVarint(b, 1, uint64(s.Preset))
	case model.Watermark:
		b = appendVarint(b, 1, uint64(s.X))
		b = appendVarint(b, 2, uint64(s.Y))
	default:
		return 0, nil, fmt.Errorf("%w: unsupported step %T", model.ErrInvalidStep, step)
	}
	return protowire.Number(step.Kind()), b, nil
}

// appendVarint omits zero values, matching proto3 scalar encoding.
func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// unmarshalSpec decodes one Spec message. When several oneof members are
// present the last one wins.
func unmarshalSpec(raw []byte) (model.Step, error) {
	var step model.Step
	err := walk(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		kind := model.StepKind(num)
		if kind < model.StepResize || kind > model.StepWatermark {
			return 0, fmt.Errorf("unknown step kind %d", num)
		}
		body, n, err := consumeBytes(typ, b)
		if err != nil {
			return 0, err
		}
		s, err := unmarshalStep(kind, body)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", kind, err)
		}
		step = s
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, errors.New("spec without a step")
	}
	return step, nil
}

func unmarshalStep(kind model.StepKind, raw []byte) (model.Step, error) {
	switch kind {
	case model.StepResize:
		var r model.Resize
		err := walk(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			switch num {
			case 1:
				return consumeUint32(typ, b, &r.Width)
			case 2:
				return consumeUint32(typ, b, &r.Height)
			case 3:
				var v uint32
				n, err := consumeUint32(typ, b, &v)
				r.Mode = model.ResizeMode(v)
				return n, err
			case 4:
				var v uint32
				n, err := consumeUint32(typ, b, &v)
				r.Filter = model.SampleFilter(v)
				return n, err
			}
			return skip(num, typ, b)
		})
		return r, err
	case model.StepCrop:
		var c model.Crop
		err := walk(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			switch num {
			case 1:
				return consumeUint32(typ, b, &c.X1)
			case 2:
				return consumeUint32(typ, b, &c.Y1)
			case 3:
				return consumeUint32(typ, b, &c.X2)
			case 4:
				return consumeUint32(typ, b, &c.Y2)
			}
			return skip(num, typ, b)
		})
		return c, err
	case model.StepFlipV:
		return model.FlipV{}, walk(raw, skip)
	case model.StepFlipH:
		return model.FlipH{}, walk(raw, skip)
	case model.StepContrast:
		var c model.Contrast
		err := walk(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			if num != 1 {
				return skip(num, typ, b)
			}
			if typ != protowire.Fixed32Type {
				return 0, fmt.Errorf("field %d: unexpected wire type %d", num, typ)
			}
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			c.Amount = math.Float32frombits(v)
			return n, nil
		})
		return c, err
	case model.StepFilter:
		var f model.Filter
		err := walk(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			if num != 1 {
				return skip(num, typ, b)
			}
			var v uint32
			n, err := consumeUint32(typ, b, &v)
			f.Preset = model.FilterKind(v)
			return n, err
		})
		return f, err
	case model.StepWatermark:
		var w model.Watermark
		err := walk(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			switch num {
			case 1:
				return consumeUint32(typ, b, &w.X)
			case 2:
				return consumeUint32(typ, b, &w.Y)
			}
			return skip(num, typ, b)
		})
		return w, err
	}
	return nil, fmt.Errorf("unknown step kind %d", kind)
}

// fieldFunc consumes the value of one field from b and returns its length.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func walk(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		b = b[m:]
	}
	return nil
}

// skip ignores unknown fields so newer tokens stay readable.
func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}

func consumeBytes(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("unexpected wire type %d", typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeUint32(typ protowire.Type, b []byte, dst *uint32) (int, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("unexpected wire type %d", typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("value %d overflows uint32", v)
	}
	*dst = uint32(v)
	return n, nil
}
