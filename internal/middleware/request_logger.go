package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/image-proxy/internal/domain/model"
	"github.com/guttosm/image-proxy/internal/logger"
	"github.com/guttosm/image-proxy/internal/service"
)

const (
	// SourceHostKey is the context key for the host of the proxied image.
	SourceHostKey ContextKey = "source_host"
	// CacheStatusKey is the context key for the source cache outcome (HIT or MISS).
	CacheStatusKey ContextKey = "cache_status"
	// StepsKey is the context key for the applied transformation step names.
	StepsKey ContextKey = "steps"
)

// SetImageFields records image pipeline details for the request logger.
// Empty values are not recorded.
func SetImageFields(c *gin.Context, sourceHost, cacheStatus string, steps []string) {
	if sourceHost != "" {
		c.Set(string(SourceHostKey), sourceHost)
	}
	if cacheStatus != "" {
		c.Set(string(CacheStatusKey), cacheStatus)
	}
	if len(steps) > 0 {
		c.Set(string(StepsKey), steps)
	}
}

// RequestLogger returns a middleware that logs HTTP request details in JSON format.
// It logs request ID, method, path, status code, latency, IP and user agent,
// plus source host, cache status and steps for image requests.
// When loggingService is set the entry is also persisted, through the async
// logger when one is running. Paths with one of skipPrefixes are logged at
// debug level and never persisted.
func RequestLogger(loggingService service.LoggingService, skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		entry := &model.LogEntry{
			Timestamp:   start.UTC(),
			Level:       getLogLevel(statusCode),
			Message:     "HTTP request",
			RequestID:   GetRequestID(c),
			Method:      c.Request.Method,
			Path:        path,
			StatusCode:  statusCode,
			Duration:    latency.Milliseconds(),
			IP:          c.ClientIP(),
			UserAgent:   c.Request.UserAgent(),
			SourceHost:  c.GetString(string(SourceHostKey)),
			CacheStatus: c.GetString(string(CacheStatusKey)),
			Steps:       c.GetStringSlice(string(StepsKey)),
		}
		if len(c.Errors) > 0 {
			entry.Error = c.Errors.Last().Error()
		}
		if admin := c.GetString(string(AdminKey)); admin != "" {
			entry.WithField("admin", admin)
		}

		skipped := hasAnyPrefix(path, skipPrefixes)
		logEntry(entry, skipped)

		if loggingService == nil || skipped {
			return
		}
		if asyncLogger := GetAsyncLogger(); asyncLogger != nil {
			asyncLogger.Log(entry)
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = loggingService.CreateLog(ctx, entry)
		}()
	}
}

func logEntry(entry *model.LogEntry, quiet bool) {
	ctx := logger.Logger().With().
		Str("request_id", entry.RequestID).
		Str("method", entry.Method).
		Str("path", entry.Path).
		Int("status_code", entry.StatusCode).
		Int64("duration_ms", entry.Duration).
		Str("ip", entry.IP).
		Str("user_agent", entry.UserAgent)
	if entry.SourceHost != "" {
		ctx = ctx.Str("source_host", entry.SourceHost)
	}
	if entry.CacheStatus != "" {
		ctx = ctx.Str("cache", entry.CacheStatus)
	}
	if len(entry.Steps) > 0 {
		ctx = ctx.Strs("steps", entry.Steps)
	}
	if entry.Error != "" {
		ctx = ctx.Str("error", entry.Error)
	}
	log := ctx.Logger()

	var event *zerolog.Event
	switch {
	case quiet:
		event = log.Debug()
	case entry.StatusCode >= 500:
		event = log.Error()
	case entry.StatusCode >= 400:
		event = log.Warn()
	default:
		event = log.Info()
	}
	event.Msg(entry.Message)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// getLogLevel returns the log level based on HTTP status code.
func getLogLevel(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "error"
	case statusCode >= 400:
		return "warn"
	default:
		return "info"
	}
}
