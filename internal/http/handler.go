package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/image-proxy/internal/fetch"
	"github.com/guttosm/image-proxy/internal/i18n"
	"github.com/guttosm/image-proxy/internal/middleware"
	"github.com/guttosm/image-proxy/internal/service"
)

const (
	// ImagePathPrefix is the route prefix of the transform endpoint.
	ImagePathPrefix = "/image/"

	cacheStatusHit  = "HIT"
	cacheStatusMiss = "MISS"
)

// Handler provides the HTTP handler for image transformation.
type Handler struct {
	processor   service.ImageProcessor
	cacheMaxAge time.Duration
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCacheMaxAge sets the max-age advertised in Cache-Control on image responses.
func WithCacheMaxAge(maxAge time.Duration) HandlerOption {
	return func(h *Handler) {
		h.cacheMaxAge = maxAge
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(processor service.ImageProcessor, opts ...HandlerOption) *Handler {
	h := &Handler{
		processor:   processor,
		cacheMaxAge: 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// ServeImage handles GET /image/:spec/*url requests.
//
// @Summary      Transform an image
// @Description  Fetches the source image (cached by URL), applies the transformation steps encoded in the spec token and returns a JPEG. The source URL must be percent-encoded into a single path segment; http, https and file schemes are supported.
// @Tags         Images
// @Produce      image/jpeg
// @Param        spec path string true "Transform token (base64url protobuf)"
// @Param        url  path string true "Percent-encoded source URL"
// @Success      200 {file} binary "Transformed image"
// @Header       200 {string} X-Cache "HIT or MISS"
// @Header       200 {string} Cache-Control "public, max-age=N"
// @Failure      400 {object} dto.ErrorResponse "Invalid spec or source could not be fetched"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Source is not an image or encoding failed"
// @Failure      502 {object} dto.ErrorResponse "Source host unreachable"
// @Failure      504 {object} dto.ErrorResponse "Source host timed out"
// @Router       /image/{spec}/{url} [get]
func (h *Handler) ServeImage(c *gin.Context) {
	spec := c.Param("spec")
	encodedURL := rawSourceSegment(c, spec)

	result, err := h.processor.Process(c.Request.Context(), spec, encodedURL)
	if err != nil {
		status, key := imageErrorStatus(err)
		NewResponseBuilder(c).Error(status, key, err)
		return
	}

	cacheStatus := cacheStatusMiss
	if result.CacheHit {
		cacheStatus = cacheStatusHit
	}
	middleware.SetImageFields(c, sourceHost(result.Source), cacheStatus, result.Steps)

	c.Header("Cache-Control", "public, max-age="+strconv.FormatInt(int64(h.cacheMaxAge/time.Second), 10))
	c.Header("X-Cache", cacheStatus)
	c.Data(http.StatusOK, result.ContentType, result.Body)
}

// rawSourceSegment returns the still-escaped source URL so an encoded "/"
// inside it survives routing.
func rawSourceSegment(c *gin.Context, spec string) string {
	prefix := ImagePathPrefix + spec + "/"
	if raw := c.Request.URL.EscapedPath(); strings.HasPrefix(raw, prefix) {
		return raw[len(prefix):]
	}
	return strings.TrimPrefix(c.Param("url"), "/")
}

// imageErrorStatus maps a pipeline failure to a status code and message key.
func imageErrorStatus(err error) (int, string) {
	switch service.KindOf(err) {
	case service.ErrKindBadSpec:
		return http.StatusBadRequest, i18n.ErrKeyInvalidSpec
	case service.ErrKindFetchFailed:
		if fe, ok := fetch.AsError(err); ok {
			switch {
			case fe.Timeout:
				return http.StatusGatewayTimeout, i18n.ErrKeyGatewayTimeout
			case fe.Unreachable():
				return http.StatusBadGateway, i18n.ErrKeyBadGateway
			}
		}
		return http.StatusBadRequest, i18n.ErrKeyFetchFailed
	case service.ErrKindBadImage:
		return http.StatusInternalServerError, i18n.ErrKeyInvalidImage
	case service.ErrKindEncodeFailed:
		return http.StatusInternalServerError, i18n.ErrKeyEncodeFailed
	default:
		return http.StatusInternalServerError, i18n.ErrKeyInternalError
	}
}

// sourceHost returns the host of a source URL, or the scheme for file sources.
func sourceHost(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return ""
	}
	if u.Host == "" {
		return u.Scheme
	}
	return u.Host
}
