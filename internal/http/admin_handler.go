package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/image-proxy/internal/cache"
	"github.com/guttosm/image-proxy/internal/domain/dto"
	"github.com/guttosm/image-proxy/internal/i18n"
	"github.com/guttosm/image-proxy/internal/service"
)

// AdminHandler serves cache statistics and persisted request logs.
type AdminHandler struct {
	cache          cache.CacheWithMetrics
	loggingService service.LoggingService
}

// NewAdminHandler creates a new AdminHandler. Either dependency may be nil.
func NewAdminHandler(store cache.CacheWithMetrics, loggingService service.LoggingService) *AdminHandler {
	return &AdminHandler{cache: store, loggingService: loggingService}
}

// CacheStats handles GET /api/cache requests.
//
// @Summary      Source cache statistics
// @Description  Returns the number of cached source images and hit/miss counters.
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Success      200 {object} dto.SuccessResponse{data=dto.CacheStatsResponse} "Cache statistics"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/cache [get]
func (h *AdminHandler) CacheStats(c *gin.Context) {
	resp := dto.CacheStatsResponse{}
	if h.cache != nil {
		m := h.cache.Metrics()
		resp = dto.CacheStatsResponse{
			Entries:   h.cache.Len(),
			Capacity:  h.cache.Capacity(),
			Hits:      m.Hits,
			Misses:    m.Misses,
			Evictions: m.Evictions,
			HitRatio:  m.HitRatio(),
		}
	}
	NewResponseBuilder(c).SuccessOK(resp)
}

// Logs handles GET /api/logs requests.
//
// @Summary      Query request logs
// @Description  Returns persisted request logs, newest first. Requires MongoDB.
// @Tags         Admin
// @Produce      json
// @Param        request_id   query string false "Request ID"
// @Param        level        query string false "Log level" Enums(debug, info, warn, error)
// @Param        source_host  query string false "Source host"
// @Param        cache_status query string false "Cache status" Enums(HIT, MISS)
// @Param        since        query string false "RFC3339 lower bound"
// @Param        until        query string false "RFC3339 upper bound"
// @Param        limit        query int    false "Page size (max 500)"
// @Param        skip         query int    false "Entries to skip"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Success      200 {object} dto.SuccessResponse{data=dto.LogsResponse} "Logs page"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid query"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Log persistence disabled"
// @Security     BearerAuth
// @Router       /api/logs [get]
func (h *AdminHandler) Logs(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if h.loggingService == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyLogsUnavailable, nil)
		return
	}

	var query dto.LogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	opts := query.ToOptions()
	ctx := c.Request.Context()

	logs, err := h.loggingService.QueryLogs(ctx, opts)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}
	total, err := h.loggingService.CountLogs(ctx, opts)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	limit := opts.Limit
	switch {
	case limit <= 0:
		limit = service.DefaultLogQueryLimit
	case limit > service.MaxLogQueryLimit:
		limit = service.MaxLogQueryLimit
	}

	builder.SuccessOK(dto.LogsResponse{
		Logs:  logs,
		Total: total,
		Limit: limit,
		Skip:  opts.Skip,
	})
}

// LogsSummary handles GET /api/logs/summary requests.
//
// @Summary      Summarize image requests
// @Description  Aggregates persisted image requests by cache status. Requires MongoDB.
// @Tags         Admin
// @Produce      json
// @Param        since query string false "RFC3339 lower bound"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.LogSummary} "Summary by cache status"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid since"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      503 {object} dto.ErrorResponse "Log persistence disabled"
// @Security     BearerAuth
// @Router       /api/logs/summary [get]
func (h *AdminHandler) LogsSummary(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if h.loggingService == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyLogsUnavailable, nil)
		return
	}

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
			return
		}
		since = &t
	}

	summary, err := h.loggingService.SummarizeLogs(c.Request.Context(), since)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}
	builder.SuccessOK(summary)
}
