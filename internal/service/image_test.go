//go:build !integration

package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guttosm/image-proxy/internal/cache"
	"github.com/guttosm/image-proxy/internal/codec"
	"github.com/guttosm/image-proxy/internal/domain/model"
	"github.com/guttosm/image-proxy/internal/engine"
	"github.com/guttosm/image-proxy/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher serves fixed bytes and counts calls.
type countingFetcher struct {
	data  []byte
	err   error
	delay time.Duration
	calls atomic.Int64

	mu      sync.Mutex
	sources []string
}

func (f *countingFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.sources = append(f.sources, source)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 5), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func token(t *testing.T, steps ...model.Step) string {
	t.Helper()
	tok, err := codec.Encode(model.NewTransformSpec(steps...))
	require.NoError(t, err)
	return tok
}

func newService(f fetch.Fetcher, opts ...ImageOption) (*ImageService, *cache.Store) {
	store := cache.NewStore(16)
	return NewImageService(f, store, engine.New(nil), opts...), store
}

const encodedSource = "https%3A%2F%2Fexample.com%2Fphoto.png"

func TestImageService_ResizeToExactBox(t *testing.T) {
	f := &countingFetcher{data: testPNG(t)}
	svc, _ := newService(f, WithQuality(85))

	res, err := svc.Process(context.Background(), token(t, model.Resize{Width: 500, Height: 800}), encodedSource)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.False(t, res.CacheHit)
	assert.Equal(t, "https://example.com/photo.png", res.Source)
	assert.Equal(t, []string{"resize"}, res.Steps)
	assert.Equal(t, []string{"https://example.com/photo.png"}, f.sources)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Body))
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
}

func TestImageService_SecondRequestUsesCache(t *testing.T) {
	f := &countingFetcher{data: testPNG(t)}
	svc, store := newService(f)
	tok := token(t, model.FlipH{}, model.Contrast{Amount: 20})

	first, err := svc.Process(context.Background(), tok, encodedSource)
	require.NoError(t, err)
	second, err := svc.Process(context.Background(), tok, encodedSource)
	require.NoError(t, err)

	assert.Equal(t, int64(1), f.calls.Load())
	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, 1, store.Len())
}

func TestImageService_CacheStatsCountOneLookupPerRequest(t *testing.T) {
	for _, singleFlight := range []bool{true, false} {
		name := "without singleflight"
		if singleFlight {
			name = "with singleflight"
		}
		t.Run(name, func(t *testing.T) {
			f := &countingFetcher{data: testPNG(t)}
			svc, store := newService(f, WithSingleFlight(singleFlight))
			tok := token(t, model.FlipV{})

			_, err := svc.Process(context.Background(), tok, encodedSource)
			require.NoError(t, err)
			m := store.Metrics()
			assert.Equal(t, int64(1), m.Misses)
			assert.Equal(t, int64(0), m.Hits)

			_, err = svc.Process(context.Background(), tok, encodedSource)
			require.NoError(t, err)
			m = store.Metrics()
			assert.Equal(t, int64(1), m.Misses)
			assert.Equal(t, int64(1), m.Hits)
			assert.InDelta(t, 0.5, m.HitRatio(), 1e-9)
		})
	}
}

func TestImageService_Errors(t *testing.T) {
	fetchErr := &fetch.Error{Kind: fetch.KindRemoteFailure, URL: "https://example.com/photo.png", StatusCode: 404}

	tests := []struct {
		name      string
		fetcher   *countingFetcher
		token     func(t *testing.T) string
		wantKind  ErrorKind
		wantCalls int64
		wantCause error
	}{
		{
			name:      "malformed token never fetches",
			fetcher:   &countingFetcher{data: testPNG(t)},
			token:     func(*testing.T) string { return "%%%not-a-token" },
			wantKind:  ErrKindBadSpec,
			wantCalls: 0,
			wantCause: codec.ErrInvalidSpec,
		},
		{
			name:      "fetch failure",
			fetcher:   &countingFetcher{err: fetchErr},
			token:     func(t *testing.T) string { return token(t, model.FlipV{}) },
			wantKind:  ErrKindFetchFailed,
			wantCalls: 1,
			wantCause: fetchErr,
		},
		{
			name:      "text body is not an image",
			fetcher:   &countingFetcher{data: []byte("hello, world")},
			token:     func(t *testing.T) string { return token(t, model.FlipV{}) },
			wantKind:  ErrKindBadImage,
			wantCalls: 1,
			wantCause: engine.ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(tt.fetcher)

			res, err := svc.Process(context.Background(), tt.token(t), encodedSource)

			assert.Nil(t, res)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.ErrorIs(t, err, tt.wantCause)
			assert.Equal(t, tt.wantCalls, tt.fetcher.calls.Load())
		})
	}
}

func TestImageService_FailedFetchIsNotCached(t *testing.T) {
	f := &countingFetcher{err: &fetch.Error{Kind: fetch.KindLocalIO, URL: "file:///nope"}}
	svc, store := newService(f)
	tok := token(t, model.FlipV{})

	_, err := svc.Process(context.Background(), tok, "file:///nope")
	require.Error(t, err)
	_, err = svc.Process(context.Background(), tok, "file:///nope")
	require.Error(t, err)

	assert.Equal(t, int64(2), f.calls.Load())
	assert.Equal(t, 0, store.Len())
}

func TestImageService_ConcurrentColdRequests(t *testing.T) {
	for _, singleFlight := range []bool{true, false} {
		name := "without singleflight"
		if singleFlight {
			name = "with singleflight"
		}
		t.Run(name, func(t *testing.T) {
			f := &countingFetcher{data: testPNG(t), delay: 20 * time.Millisecond}
			svc, store := newService(f, WithSingleFlight(singleFlight))
			tok := token(t, model.Resize{Width: 32, Height: 32})

			const n = 50
			var wg sync.WaitGroup
			errs := make(chan error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					res, err := svc.Process(context.Background(), tok, encodedSource)
					if err == nil && len(res.Body) == 0 {
						err = errors.New("empty body")
					}
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, store.Len())
			if singleFlight {
				assert.Equal(t, int64(1), f.calls.Load())
			} else {
				assert.LessOrEqual(t, f.calls.Load(), int64(n))
			}
		})
	}
}

func TestImageService_CanceledWhileWaitingOnSharedFetch(t *testing.T) {
	f := &countingFetcher{data: testPNG(t), delay: 200 * time.Millisecond}
	svc, _ := newService(f, WithSingleFlight(true))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Process(ctx, token(t, model.FlipH{}), encodedSource)

	require.Error(t, err)
	assert.Equal(t, ErrKindFetchFailed, KindOf(err))
	fe, ok := fetch.AsError(err)
	require.True(t, ok)
	assert.True(t, fe.Timeout)
}

func TestDescribeSpec(t *testing.T) {
	spec, err := DescribeSpec(token(t, model.Watermark{X: 1, Y: 2}))
	require.NoError(t, err)
	assert.Equal(t, []model.Step{model.Watermark{X: 1, Y: 2}}, spec.Steps())

	_, err = DescribeSpec("@@")
	assert.Equal(t, ErrKindBadSpec, KindOf(err))
}

func TestEncodeSpec(t *testing.T) {
	tok, err := EncodeSpec(model.NewTransformSpec(model.FlipH{}, model.Contrast{Amount: 25}))
	require.NoError(t, err)

	spec, err := DescribeSpec(tok)
	require.NoError(t, err)
	assert.Equal(t, []string{"fliph", "contrast"}, spec.KindNames())

	_, err = EncodeSpec(model.NewTransformSpec())
	assert.Equal(t, ErrKindBadSpec, KindOf(err))
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: ErrKindEncodeFailed, Err: cause}

	assert.Equal(t, "encode_failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad_spec", (&Error{Kind: ErrKindBadSpec}).Error())
	assert.Equal(t, ErrorKind(0), KindOf(cause))
	assert.Equal(t, "unknown", ErrorKind(0).String())
}
