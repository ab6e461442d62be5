package metrics

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(PrometheusMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error")
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "records metrics for successful request",
			path:           "/test",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "records metrics for error request",
			path:           "/error",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, tt.path, strconv.Itoa(tt.expectedStatus)))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			after := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, tt.path, strconv.Itoa(tt.expectedStatus)))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestRecordImageRequest(t *testing.T) {
	hit := ImageRequestsTotal.WithLabelValues("success", "hit")
	miss := ImageRequestsTotal.WithLabelValues("bad_spec", "miss")
	hitBefore, missBefore := testutil.ToFloat64(hit), testutil.ToFloat64(miss)

	RecordImageRequest(20*time.Millisecond, "success", true)
	RecordImageRequest(time.Millisecond, "bad_spec", false)
	RecordImageOutput(4096)

	assert.Equal(t, hitBefore+1, testutil.ToFloat64(hit))
	assert.Equal(t, missBefore+1, testutil.ToFloat64(miss))
}

func TestRecordFetch(t *testing.T) {
	c := FetchTotal.WithLabelValues("https", "error")
	before := testutil.ToFloat64(c)

	RecordFetch("https", "error", 150*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordCacheOperation(t *testing.T) {
	c := CacheOperationsTotal.WithLabelValues("get", "hit")
	before := testutil.ToFloat64(c)

	RecordCacheOperation("get", "hit")
	RecordCacheOperation("get", "miss")

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordThrottled(t *testing.T) {
	tests := []struct {
		client string
	}{
		{client: "ip"},
		{client: "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.client, func(t *testing.T) {
			c := ThrottledRequestsTotal.WithLabelValues(tt.client)
			before := testutil.ToFloat64(c)

			RecordThrottled(tt.client)

			assert.Equal(t, before+1, testutil.ToFloat64(c))
		})
	}
}

func TestUpdateCacheMetrics(t *testing.T) {
	UpdateCacheMetrics(50, 100)
	assert.Equal(t, float64(50), testutil.ToFloat64(CacheSize))
	assert.Equal(t, float64(100), testutil.ToFloat64(CacheCapacity))

	UpdateCacheMetrics(75, 100)
	assert.Equal(t, float64(75), testutil.ToFloat64(CacheSize))
}
