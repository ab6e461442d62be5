//go:build !integration

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/image-proxy/internal/domain/model"
	"github.com/guttosm/image-proxy/internal/mocks"
)

func Test_getLogLevel(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   string
	}{
		{name: "2xx returns info", statusCode: 200, expected: "info"},
		{name: "3xx returns info", statusCode: 301, expected: "info"},
		{name: "4xx returns warn", statusCode: 400, expected: "warn"},
		{name: "404 returns warn", statusCode: 404, expected: "warn"},
		{name: "5xx returns error", statusCode: 500, expected: "error"},
		{name: "504 returns error", statusCode: 504, expected: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getLogLevel(tt.statusCode))
		})
	}
}

// captureEntry wires CreateLog on m to deliver persisted entries on the returned channel.
func captureEntry(m *mocks.MockLoggingService) <-chan *model.LogEntry {
	ch := make(chan *model.LogEntry, 1)
	m.On("CreateLog", mock.Anything, mock.AnythingOfType("*model.LogEntry")).
		Run(func(args mock.Arguments) {
			ch <- args.Get(1).(*model.LogEntry)
		}).
		Return(nil).
		Once()
	return ch
}

func waitEntry(t *testing.T, ch <-chan *model.LogEntry) *model.LogEntry {
	t.Helper()
	select {
	case entry := <-ch:
		return entry
	case <-time.After(time.Second):
		require.FailNow(t, "log entry was not persisted")
		return nil
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		statusCode    int
		expectedLevel string
	}{
		{name: "successful request logs info", statusCode: http.StatusOK, expectedLevel: "info"},
		{name: "client error logs warn", statusCode: http.StatusBadRequest, expectedLevel: "warn"},
		{name: "server error logs error", statusCode: http.StatusInternalServerError, expectedLevel: "error"},
		{name: "gateway timeout logs error", statusCode: http.StatusGatewayTimeout, expectedLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockLoggingService(t)
			entries := captureEntry(svc)

			router := gin.New()
			router.Use(RequestID(), RequestLogger(svc))
			router.GET("/test", func(c *gin.Context) {
				c.Status(tt.statusCode)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(RequestIDHeader, "req-1")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.statusCode, w.Code)
			entry := waitEntry(t, entries)
			assert.Equal(t, tt.expectedLevel, entry.Level)
			assert.Equal(t, "req-1", entry.RequestID)
			assert.Equal(t, http.MethodGet, entry.Method)
			assert.Equal(t, "/test", entry.Path)
			assert.Equal(t, tt.statusCode, entry.StatusCode)
		})
	}
}

func TestRequestLogger_ImageFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := mocks.NewMockLoggingService(t)
	entries := captureEntry(svc)

	router := gin.New()
	router.Use(RequestID(), RequestLogger(svc))
	router.GET("/image/*rest", func(c *gin.Context) {
		c.Set(string(AdminKey), "ops")
		SetImageFields(c, "example.com", "HIT", []string{"resize", "filter"})
		_ = c.Error(errors.New("slow origin"))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/image/tok/x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	entry := waitEntry(t, entries)
	assert.Equal(t, "example.com", entry.SourceHost)
	assert.Equal(t, "HIT", entry.CacheStatus)
	assert.Equal(t, []string{"resize", "filter"}, entry.Steps)
	assert.Equal(t, "slow origin", entry.Error)
	assert.Equal(t, "ops", entry.Fields["admin"])
}

func TestRequestLogger_SkipsPersistence(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		path string
		svc  bool
	}{
		{name: "skipped prefix", path: "/healthz", svc: true},
		{name: "no logging service", path: "/test", svc: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockLoggingService(t)

			router := gin.New()
			if tt.svc {
				router.Use(RequestLogger(svc, "/healthz", "/metrics"))
			} else {
				router.Use(RequestLogger(nil))
			}
			router.NoRoute(func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			time.Sleep(20 * time.Millisecond)
			svc.AssertNotCalled(t, "CreateLog", mock.Anything, mock.Anything)
		})
	}
}

func TestRequestLogger_UsesAsyncLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mocks.MockLoggingService{}
	svc.On("CreateLogs", mock.Anything, mock.Anything).Return(nil)
	InitAsyncLogger(svc, testAsyncConfig())
	defer StopAsyncLogger()

	router := gin.New()
	router.Use(RequestLogger(svc))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.Eventually(t, func() bool {
		_, _, written, _ := GetAsyncLogger().Stats()
		return written == 1
	}, time.Second, 5*time.Millisecond)
	svc.AssertNotCalled(t, "CreateLog", mock.Anything, mock.Anything)
}

func TestSetImageFields_IgnoresEmpty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	SetImageFields(c, "", "", nil)

	_, ok := c.Get(string(SourceHostKey))
	assert.False(t, ok)
	_, ok = c.Get(string(CacheStatusKey))
	assert.False(t, ok)
	_, ok = c.Get(string(StepsKey))
	assert.False(t, ok)
}
