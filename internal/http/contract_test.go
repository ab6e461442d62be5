//go:build contract

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/image-proxy/internal/cache"
	"github.com/guttosm/image-proxy/internal/mocks"
	"github.com/guttosm/image-proxy/internal/service"
)

func contractRouter(t *testing.T) *gin.Engine {
	processor := mocks.NewMockImageProcessor(t)
	processor.On("Process", mock.Anything, "good", mock.Anything).
		Return(&service.ImageResult{ContentType: "image/jpeg", Body: []byte{0xff, 0xd8}, Source: "https://a.example/x.jpg"}, nil).Maybe()
	processor.On("Process", mock.Anything, "bad", mock.Anything).
		Return(nil, &service.Error{Kind: service.ErrKindBadSpec}).Maybe()

	cfg := DefaultRouterConfig()
	cfg.Cache = cache.NewStore(4)
	return NewRouter(NewHandler(processor), NewHealthHandler(), cfg)
}

// TestAPI_ContractCompliance validates that responses match the documented contract.
func TestAPI_ContractCompliance(t *testing.T) {
	router := contractRouter(t)

	tests := []struct {
		name             string
		method           string
		path             string
		body             string
		expectedStatus   int
		validateResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "GET /image - Success 200",
			method:         http.MethodGet,
			path:           "/image/good/https%3A%2F%2Fa.example%2Fx.jpg",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
				assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=")
				assert.Contains(t, []string{"HIT", "MISS"}, w.Header().Get("X-Cache"))
			},
		},
		{
			name:           "GET /image - Error 400 Invalid Spec",
			method:         http.MethodGet,
			path:           "/image/bad/x",
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorContract(t, w, "invalid_request")
			},
		},
		{
			name:           "POST /api/specs - Success 201",
			method:         http.MethodPost,
			path:           "/api/specs",
			body:           `{"steps":[{"type":"resize","width":100}]}`,
			expectedStatus: http.StatusCreated,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				data := assertSuccessContract(t, w)
				assert.Contains(t, data, "token")
				assert.Contains(t, data, "steps")
			},
		},
		{
			name:           "POST /api/specs - Error 400 Invalid JSON",
			method:         http.MethodPost,
			path:           "/api/specs",
			body:           `{"steps":`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorContract(t, w, "invalid_request")
			},
		},
		{
			name:           "GET /api/cache - Success 200",
			method:         http.MethodGet,
			path:           "/api/cache",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				data := assertSuccessContract(t, w)
				for _, field := range []string{"entries", "capacity", "hits", "misses", "evictions", "hit_ratio"} {
					assert.Contains(t, data, field)
				}
			},
		},
		{
			name:           "GET /api/logs - Error 503 Without Persistence",
			method:         http.MethodGet,
			path:           "/api/logs",
			expectedStatus: http.StatusServiceUnavailable,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorContract(t, w, "service_unavailable")
			},
		},
		{
			name:           "GET /healthz - Success 200",
			method:         http.MethodGet,
			path:           "/healthz",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"), "Response must include X-Request-ID")
			if tt.validateResponse != nil {
				tt.validateResponse(t, w)
			}
		})
	}
}

func assertSuccessContract(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "request_id")
	assert.Contains(t, resp, "timestamp")
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "data must be an object")
	return data
}

func assertErrorContract(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, code, resp["error"])
	assert.NotEmpty(t, resp["message"])
	assert.Contains(t, resp, "request_id")
	assert.Contains(t, resp, "timestamp")
}
