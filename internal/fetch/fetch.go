// Package fetch retrieves source image bytes from http, https and file URLs.
package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/guttosm/image-proxy/internal/metrics"
)

// Fetcher retrieves the raw bytes behind a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	AllowFile bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Timeout:   10 * time.Second,
		MaxBytes:  20 << 20,
		UserAgent: "image-proxy/1.0",
		AllowFile: true,
	}
}

// Client routes a source URL to the fetcher registered for its scheme.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	fetchers map[string]Fetcher
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a Client with HTTP(S) support and, when enabled, file support.
func NewClient(opts Options) *Client {
	h := NewHTTPFetcher(opts)
	c := &Client{
		fetchers: map[string]Fetcher{
			"http":  h,
			"https": h,
		},
	}
	if opts.AllowFile {
		c.fetchers["file"] = NewFileFetcher(opts.MaxBytes)
	}
	return c
}

// Fetch dispatches by scheme. The scheme is matched case-insensitively.
func (c *Client) Fetch(ctx context.Context, source string) ([]byte, error) {
	scheme := Scheme(source)
	f, ok := c.fetchers[scheme]
	if !ok {
		metrics.RecordFetch(schemeLabel(scheme), "unsupported", 0)
		return nil, &Error{Kind: KindUnsupportedScheme, URL: source}
	}

	start := time.Now()
	data, err := f.Fetch(ctx, source)
	result := "success"
	if err != nil {
		result = "error"
		if fe, ok := AsError(err); ok && fe.Timeout {
			result = "timeout"
		}
	}
	metrics.RecordFetch(scheme, result, time.Since(start))
	return data, err
}

// Scheme returns the lowercased scheme of source, or "" when there is none.
func Scheme(source string) string {
	i := strings.Index(source, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(source[:i])
}

// schemeLabel keeps metric cardinality bounded for arbitrary input.
func schemeLabel(scheme string) string {
	switch scheme {
	case "http", "https", "file":
		return scheme
	case "":
		return "none"
	default:
		return "other"
	}
}
