package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/guttosm/image-proxy/internal/cache"
	"github.com/guttosm/image-proxy/internal/codec"
	"github.com/guttosm/image-proxy/internal/domain/model"
	"github.com/guttosm/image-proxy/internal/engine"
	"github.com/guttosm/image-proxy/internal/fetch"
	"github.com/guttosm/image-proxy/internal/logger"
	"github.com/guttosm/image-proxy/internal/metrics"
)

// ImageResult is a successfully transformed image.
type ImageResult struct {
	ContentType string
	Body        []byte
	CacheHit    bool
	// Source is the decoded source URL.
	Source      string
	SourceBytes int
	Steps       []string
}

// ImageProcessor runs the transform pipeline for one request.
type ImageProcessor interface {
	Process(ctx context.Context, specToken, encodedURL string) (*ImageResult, error)
}

// ImageOption configures an ImageService.
type ImageOption func(*ImageService)

// ImageService decodes the spec, loads the source through the cache and runs
// the engine. Engine work never happens under the cache lock.
type ImageService struct {
	fetcher      fetch.Fetcher
	store        cache.Cache
	engine       engine.Engine
	format       engine.Format
	singleFlight bool
	group        singleflight.Group
}

var _ ImageProcessor = (*ImageService)(nil)

// NewImageService creates an ImageService.
func NewImageService(fetcher fetch.Fetcher, store cache.Cache, eng engine.Engine, opts ...ImageOption) *ImageService {
	s := &ImageService{
		fetcher: fetcher,
		store:   store,
		engine:  eng,
		format:  engine.JPEG(engine.DefaultQuality),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithQuality sets the JPEG output quality.
func WithQuality(quality int) ImageOption {
	return func(s *ImageService) {
		s.format = engine.JPEG(quality)
	}
}

// WithSingleFlight collapses concurrent fetches of the same uncached source
// into one upstream request.
func WithSingleFlight(enabled bool) ImageOption {
	return func(s *ImageService) {
		s.singleFlight = enabled
	}
}

// Process runs the full pipeline for specToken and the escaped source URL.
func (s *ImageService) Process(ctx context.Context, specToken, encodedURL string) (*ImageResult, error) {
	start := time.Now()
	result, err := s.process(ctx, specToken, encodedURL)

	outcome := "success"
	hit := false
	if err != nil {
		outcome = KindOf(err).String()
	} else {
		hit = result.CacheHit
		metrics.RecordImageOutput(len(result.Body))
	}
	metrics.RecordImageRequest(time.Since(start), outcome, hit)
	return result, err
}

func (s *ImageService) process(ctx context.Context, specToken, encodedURL string) (*ImageResult, error) {
	source := DecodeSourceURL(encodedURL)

	spec, err := codec.Decode(specToken)
	if err != nil {
		return nil, &Error{Kind: ErrKindBadSpec, Err: err}
	}

	data, hit, err := s.load(ctx, source)
	if err != nil {
		log := logger.Logger()
		log.Warn().
			Err(err).
			Str("source", source).
			Msg("Source fetch failed")
		return nil, &Error{Kind: ErrKindFetchFailed, Err: err}
	}

	img, err := s.engine.Decode(data)
	if err != nil {
		return nil, &Error{Kind: ErrKindBadImage, Err: err}
	}
	if err := s.engine.Apply(img, spec.Steps()); err != nil {
		return nil, &Error{Kind: ErrKindBadImage, Err: err}
	}
	body, err := s.engine.Encode(img, s.format)
	if err != nil {
		return nil, &Error{Kind: ErrKindEncodeFailed, Err: err}
	}

	return &ImageResult{
		ContentType: s.format.ContentType(),
		Body:        body,
		CacheHit:    hit,
		Source:      source,
		SourceBytes: len(data),
		Steps:       spec.KindNames(),
	}, nil
}

// load returns the source bytes and whether they came from the cache.
func (s *ImageService) load(ctx context.Context, source string) ([]byte, bool, error) {
	key := cache.DeriveKey(source)
	log := logger.Logger()
	if data, ok := s.store.Get(key); ok {
		log.Debug().Str("source", source).Stringer("key", key).Msg("Source cache hit")
		return data, true, nil
	}
	log.Debug().Str("source", source).Stringer("key", key).Msg("Source cache miss")

	if !s.singleFlight {
		data, err := s.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, false, err
		}
		s.store.Put(key, data)
		return data, false, nil
	}

	ch := s.group.DoChan(key.String(), func() (any, error) {
		// Another caller may have filled the cache since the first lookup.
		// The miss was already counted there.
		if data, ok := s.store.Peek(key); ok {
			return data, nil
		}
		// The shared fetch outlives any single caller; the fetch timeout bounds it.
		data, err := s.fetcher.Fetch(context.WithoutCancel(ctx), source)
		if err != nil {
			return nil, err
		}
		s.store.Put(key, data)
		return data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		data, _ := res.Val.([]byte)
		return data, false, nil
	case <-ctx.Done():
		return nil, false, &fetch.Error{Kind: fetch.KindRemoteFailure, URL: source, Timeout: errors.Is(ctx.Err(), context.DeadlineExceeded), Err: ctx.Err()}
	}
}

// DescribeSpec decodes a token into its validated step list.
func DescribeSpec(token string) (model.TransformSpec, error) {
	spec, err := codec.Decode(token)
	if err != nil {
		return model.TransformSpec{}, &Error{Kind: ErrKindBadSpec, Err: err}
	}
	return spec, nil
}

// EncodeSpec validates spec and returns its URL token.
func EncodeSpec(spec model.TransformSpec) (string, error) {
	token, err := codec.Encode(spec)
	if err != nil {
		return "", &Error{Kind: ErrKindBadSpec, Err: err}
	}
	return token, nil
}
